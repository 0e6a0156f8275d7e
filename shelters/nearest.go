package shelters

import (
	"math"
	"sort"

	"go-relieflink/types"
)

const earthRadiusKM = 6371.0

// Distance pairs a shelter with how far it is from the caller.
type Distance struct {
	types.Shelter
	DistanceKM float64 `json:"distanceKm"`
	IsFull     bool    `json:"full"`
}

// Nearest orders shelters by distance from (lat, long), closest first.
// Full shelters are dropped unless includeFull is set. limit <= 0 keeps all.
func Nearest(shelters []types.Shelter, lat, long float64, limit int, includeFull bool) []Distance {
	out := make([]Distance, 0, len(shelters))
	for _, s := range shelters {
		if s.Full() && !includeFull {
			continue
		}
		out = append(out, Distance{
			Shelter:    s,
			DistanceKM: haversineDistance(lat, long, s.Latitude, s.Longitude),
			IsFull:     s.Full(),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DistanceKM < out[j].DistanceKM
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// haversineDistance calculates the great-circle distance between two points
// on the earth (specified in decimal degrees).
func haversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	radLat1 := lat1 * math.Pi / 180
	radLat2 := lat2 * math.Pi / 180
	deltaLat := radLat2 - radLat1
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(radLat1)*math.Cos(radLat2)*math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	return earthRadiusKM * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
