package types

type Shelter struct {
	ID               string  `firestore:"-" json:"id"`
	Name             string  `firestore:"name" json:"name"`
	Location         string  `firestore:"location" json:"location"`
	Capacity         int     `firestore:"capacity" json:"capacity"`
	CurrentOccupancy int     `firestore:"currentOccupancy" json:"currentOccupancy"`
	Latitude         float64 `firestore:"latitude" json:"latitude"`
	Longitude        float64 `firestore:"longitude" json:"longitude"`
}

// Full is derived, never stored.
func (s Shelter) Full() bool {
	return s.CurrentOccupancy >= s.Capacity
}
