// Package shelters tracks how many people each shelter currently houses.
package shelters

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"go-relieflink/db"
	"go-relieflink/metrics"
	"go-relieflink/types"
)

// SetOccupancy returns the shelter with its occupancy replaced. The input is
// never modified; an out of range count leaves the caller's copy as it was.
func SetOccupancy(shelter types.Shelter, n int) (types.Shelter, error) {
	if n < 0 || n > shelter.Capacity {
		return shelter, types.NewValidationError("currentOccupancy", "occupancy must be between 0 and %d", shelter.Capacity)
	}
	shelter.CurrentOccupancy = n
	return shelter, nil
}

func IsFull(shelter types.Shelter) bool {
	return shelter.Full()
}

// OccupancyRate is the occupied share of capacity as a percentage.
func OccupancyRate(shelter types.Shelter) float64 {
	if shelter.Capacity <= 0 {
		return 0
	}
	return float64(shelter.CurrentOccupancy) / float64(shelter.Capacity) * 100
}

// Locator turns an address into coordinates.
type Locator interface {
	Geocode(ctx context.Context, address string) (lat, long float64, err error)
}

// NewShelter is the admin input for registering a shelter. Coordinates are
// optional; nil means they are looked up from Location.
type NewShelter struct {
	Name             string   `json:"name" binding:"required"`
	Location         string   `json:"location" binding:"required"`
	Capacity         int      `json:"capacity" binding:"required"`
	CurrentOccupancy int      `json:"currentOccupancy"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
}

type Service struct {
	store   db.ShelterStore
	locator Locator
	log     *zap.Logger
}

// NewService builds the shelter service. locator may be nil, in which case
// shelters without coordinates are rejected.
func NewService(store db.ShelterStore, locator Locator, log *zap.Logger) *Service {
	return &Service{store: store, locator: locator, log: log.Named("shelters")}
}

func (s *Service) List(ctx context.Context) ([]types.Shelter, error) {
	return s.store.ListShelters(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (types.Shelter, error) {
	return s.store.GetShelter(ctx, id)
}

// UpdateOccupancy applies SetOccupancy to the stored shelter atomically.
func (s *Service) UpdateOccupancy(ctx context.Context, id string, n int) (types.Shelter, error) {
	shelter, err := s.store.UpdateShelter(ctx, id, func(sh *types.Shelter) error {
		updated, err := SetOccupancy(*sh, n)
		if err != nil {
			return err
		}
		*sh = updated
		return nil
	})
	if err != nil {
		if types.IsRemote(err) {
			metrics.OperationErrorsTotal.WithLabelValues("update_occupancy").Inc()
			s.log.Error("failed to update occupancy", zap.String("shelterId", id), zap.Error(err))
		}
		return types.Shelter{}, err
	}

	s.log.Info("occupancy updated",
		zap.String("shelterId", id),
		zap.Int("occupancy", shelter.CurrentOccupancy),
		zap.Int("capacity", shelter.Capacity))
	return shelter, nil
}

func (s *Service) CreateShelter(ctx context.Context, in NewShelter) (types.Shelter, error) {
	shelter := types.Shelter{
		Name:     strings.TrimSpace(in.Name),
		Location: strings.TrimSpace(in.Location),
		Capacity: in.Capacity,
	}
	if shelter.Name == "" {
		return types.Shelter{}, types.NewValidationError("name", "name is required")
	}
	if shelter.Location == "" {
		return types.Shelter{}, types.NewValidationError("location", "location is required")
	}
	if shelter.Capacity <= 0 {
		return types.Shelter{}, types.NewValidationError("capacity", "capacity must be positive")
	}
	shelter, err := SetOccupancy(shelter, in.CurrentOccupancy)
	if err != nil {
		return types.Shelter{}, err
	}

	switch {
	case in.Latitude != nil && in.Longitude != nil:
		shelter.Latitude, shelter.Longitude = *in.Latitude, *in.Longitude
	case s.locator != nil:
		lat, long, err := s.locator.Geocode(ctx, shelter.Location)
		if err != nil {
			if types.IsRemote(err) {
				return types.Shelter{}, err
			}
			return types.Shelter{}, types.NewValidationError("location", "could not locate %q", shelter.Location)
		}
		shelter.Latitude, shelter.Longitude = lat, long
	default:
		return types.Shelter{}, types.NewValidationError("latitude", "coordinates are required")
	}

	created, err := s.store.AddShelter(ctx, shelter)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("create_shelter").Inc()
		s.log.Error("failed to store shelter", zap.String("name", shelter.Name), zap.Error(err))
		return types.Shelter{}, err
	}
	s.log.Info("shelter created", zap.String("shelterId", created.ID), zap.String("name", created.Name))
	return created, nil
}
