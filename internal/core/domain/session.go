package domain

import "time"

const (
	RoleCustomer = "customer"
	RoleEmployee = "employee"
)

// Session is the decoded, portal-held representation of an authenticated
// identity. It is derived from the bearer token's claims and owned
// exclusively by the session service; everything else reads it.
type Session struct {
	UserID    string
	Email     string
	FullName  string
	Role      string
	ExpiresAt time.Time
}

// HasRole reports whether the session carries the required role. An empty
// requirement means any authenticated user qualifies.
func (s *Session) HasRole(required string) bool {
	if required == "" {
		return true
	}
	return s.Role == required
}
