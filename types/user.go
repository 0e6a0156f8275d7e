package types

type Role string

const (
	RoleVictim    Role = "victim"
	RoleVolunteer Role = "volunteer"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleVictim || r == RoleVolunteer || r == RoleAdmin
}

// Collection returns the profile collection that holds users of this role.
func (r Role) Collection() string {
	switch r {
	case RoleAdmin:
		return "admins"
	case RoleVolunteer:
		return "volunteers"
	default:
		return "victims"
	}
}

// User is a profile document. Optional fields only exist for some roles:
// victims carry a location, volunteers carry availability.
type User struct {
	ID           string `firestore:"id" json:"id"`
	Name         string `firestore:"name" json:"name"`
	Email        string `firestore:"email" json:"email"`
	Role         Role   `firestore:"-" json:"role"`
	PhoneNumber  string `firestore:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	Location     string `firestore:"location,omitempty" json:"location,omitempty"`
	Availability *bool  `firestore:"availability,omitempty" json:"availability,omitempty"`
}
