package types

import "time"

type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusAssigned  RequestStatus = "assigned"
	StatusDelivered RequestStatus = "delivered"
)

// AidRequest is a victim's submission asking for item kinds at a location.
// AssignedVolunteerID is set iff Status is assigned or delivered.
type AidRequest struct {
	ID                    string        `firestore:"-" json:"id"`
	VictimID              string        `firestore:"victimId" json:"victimId"`
	VictimName            string        `firestore:"victimName" json:"victimName"`
	Location              string        `firestore:"location" json:"location"`
	Items                 []ItemKind    `firestore:"items" json:"items"`
	Status                RequestStatus `firestore:"status" json:"status"`
	AssignedVolunteerID   string        `firestore:"assignedVolunteerId,omitempty" json:"assignedVolunteerId,omitempty"`
	AssignedVolunteerName string        `firestore:"assignedVolunteerName,omitempty" json:"assignedVolunteerName,omitempty"`
	CreatedAt             time.Time     `firestore:"createdAt" json:"createdAt"`
	DeliveredAt           *time.Time    `firestore:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
}

// Outstanding reports whether the request still counts toward demand.
func (r AidRequest) Outstanding() bool {
	return r.Status != StatusDelivered
}

// HasItem reports whether the request lists the given kind.
func (r AidRequest) HasItem(kind ItemKind) bool {
	for _, k := range r.Items {
		if k == kind {
			return true
		}
	}
	return false
}
