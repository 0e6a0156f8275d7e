package geocode

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"googlemaps.github.io/maps"

	"go-relieflink/config"
	"go-relieflink/metrics"
	"go-relieflink/types"
)

// ErrNoResults is returned when the address matched nothing.
var ErrNoResults = errors.New("address not found")

// mapsClient is a singleton maps client instance.
var (
	mapsClient *maps.Client
	clientErr  error
	clientOnce sync.Once
)

// InitMapsClient initializes and returns a singleton Google Maps client.
func InitMapsClient(apiKey string) (*maps.Client, error) {
	clientOnce.Do(func() {
		if apiKey == "" {
			clientErr = fmt.Errorf("MAPS_CREDENTIALS environment variable not set")
			return
		}
		mapsClient, clientErr = maps.NewClient(maps.WithAPIKey(apiKey))
	})
	return mapsClient, clientErr
}

type geocodingClient interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// Geocoder resolves shelter addresses to coordinates.
type Geocoder struct {
	client  geocodingClient
	breaker *gobreaker.CircuitBreaker
	log     *zap.Logger
}

func NewGeocoder(client *maps.Client, log *zap.Logger) *Geocoder {
	return newGeocoder(client, log)
}

func newGeocoder(client geocodingClient, log *zap.Logger) *Geocoder {
	log = log.Named("geocode")
	return &Geocoder{
		client:  client,
		breaker: config.NewCircuitBreaker(config.BreakerMaps, log),
		log:     log,
	}
}

// Geocode returns the latitude and longitude of the first match for address.
func (g *Geocoder) Geocode(ctx context.Context, address string) (float64, float64, error) {
	out, err := g.breaker.Execute(func() (interface{}, error) {
		// Forward geocode: get latitude and longitude for the given address.
		return g.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	})
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("geocode").Inc()
		g.log.Warn("geocoding failed", zap.String("address", address), zap.Error(err))
		return 0, 0, &types.RemoteOperationError{Op: "geocode", Err: err}
	}

	results := out.([]maps.GeocodingResult)
	if len(results) == 0 {
		return 0, 0, ErrNoResults
	}
	loc := results[0].Geometry.Location
	return loc.Lat, loc.Lng, nil
}
