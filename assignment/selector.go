// Package assignment picks the volunteer bound to a pending request.
//
// Selection is manual: an administrator chooses one of the candidates. The only
// rule enforced here is that the chosen user has the volunteer role.
package assignment

import "go-relieflink/types"

// Candidates filters users down to volunteers, preserving input order.
func Candidates(users []types.User) []types.User {
	candidates := make([]types.User, 0, len(users))
	for _, u := range users {
		if u.Role == types.RoleVolunteer {
			candidates = append(candidates, u)
		}
	}
	return candidates
}

// SelectVolunteer returns the candidate with the given id. It returns false when
// the request is no longer pending, the id is unknown, or the matching user is
// not a volunteer.
func SelectVolunteer(request types.AidRequest, candidates []types.User, volunteerID string) (types.User, bool) {
	if request.Status != types.StatusPending || volunteerID == "" {
		return types.User{}, false
	}
	for _, c := range candidates {
		if c.ID == volunteerID {
			if c.Role != types.RoleVolunteer {
				return types.User{}, false
			}
			return c, true
		}
	}
	return types.User{}, false
}
