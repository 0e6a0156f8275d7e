package types

import "time"

type DisasterType string

const (
	Flood      DisasterType = "flood"
	Earthquake DisasterType = "earthquake"
	Fire       DisasterType = "fire"
	Heatwave   DisasterType = "heatwave"
)

// DisasterTypes lists every supported disaster type in display order.
var DisasterTypes = []DisasterType{Flood, Earthquake, Fire, Heatwave}

func (d DisasterType) Valid() bool {
	for _, t := range DisasterTypes {
		if d == t {
			return true
		}
	}
	return false
}

// DisasterAlert is a platform-wide notice broadcast by an administrator.
// Alerts are append-only and never mutated once written.
type DisasterAlert struct {
	ID        string       `firestore:"-" json:"id"` // tell firestore to ignore
	Type      DisasterType `firestore:"type" json:"type"`
	Message   string       `firestore:"message" json:"message"`
	CreatedAt time.Time    `firestore:"createdAt" json:"createdAt"`
}

// PlatformSettings is the single settings document shared by every role.
type PlatformSettings struct {
	ActiveDisaster DisasterType `firestore:"activeDisaster" json:"activeDisaster"`
}

const DefaultDisaster = Flood
