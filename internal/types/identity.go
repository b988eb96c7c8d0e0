package types

// Roles recognized by the access-control predicates. Any other role value is
// treated as a plain user.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleUser   = "user"
)

// Identity is the authenticated caller, resolved once per request by the auth
// middleware and passed explicitly into every service call. Services never
// consult request-global state.
type Identity struct {
	UserID string
	Role   string
}

// IsAuthenticated reports whether an identity is present.
func (i Identity) IsAuthenticated() bool {
	return i.UserID != ""
}

// IsAdmin reports whether the identity is present and carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.IsAuthenticated() && i.Role == RoleAdmin
}

// IsAdminOrEditor reports whether the identity carries the admin or editor role.
func (i Identity) IsAdminOrEditor() bool {
	return i.IsAuthenticated() && (i.Role == RoleAdmin || i.Role == RoleEditor)
}

// HasRole reports whether the identity's role is one of roles.
func (i Identity) HasRole(roles ...string) bool {
	if !i.IsAuthenticated() {
		return false
	}
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}
