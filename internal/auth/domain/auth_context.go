package domain

// AuthContext is the authenticated identity derived from a verified access
// token. It is rebuilt from the token payload on every request and never
// persisted; a role change only shows up once a fresh token is issued.
type AuthContext struct {
	UserID string
	Email  string
	Role   Role
	Rank   Rank
}

// IsAdmin reports whether the caller holds the admin role.
func (a AuthContext) IsAdmin() bool { return a.Role == RoleAdmin }

// Owns reports whether the caller is the owner of the given user-scoped
// resource. Admins pass ownership checks everywhere.
func (a AuthContext) Owns(userID string) bool {
	return a.UserID == userID || a.IsAdmin()
}
