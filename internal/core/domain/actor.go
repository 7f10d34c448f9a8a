package domain

import "github.com/google/uuid"

const RoleHostess = "hostess"

// Actor is the authenticated caller as extracted from the request token.
type Actor struct {
	UserID uuid.UUID
	Roles  []string
}

func (a Actor) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}

	return false
}
