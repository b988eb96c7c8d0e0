package types

import (
	"testing"
)

// TestIdentityPredicates tests the access-control predicates over the
// resolved role
func TestIdentityPredicates(t *testing.T) {
	tests := []struct {
		name            string
		ident           Identity
		isAuthenticated bool
		isAdmin         bool
		isAdminOrEditor bool
	}{
		{"admin", Identity{UserID: "u1", Role: RoleAdmin}, true, true, true},
		{"editor", Identity{UserID: "u2", Role: RoleEditor}, true, false, true},
		{"user", Identity{UserID: "u3", Role: RoleUser}, true, false, false},
		{"unknown role", Identity{UserID: "u4", Role: "viewer"}, true, false, false},
		{"anonymous", Identity{}, false, false, false},
		{"anonymous with role", Identity{Role: RoleAdmin}, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ident.IsAuthenticated(); got != tt.isAuthenticated {
				t.Errorf("IsAuthenticated() = %v, want %v", got, tt.isAuthenticated)
			}
			if got := tt.ident.IsAdmin(); got != tt.isAdmin {
				t.Errorf("IsAdmin() = %v, want %v", got, tt.isAdmin)
			}
			if got := tt.ident.IsAdminOrEditor(); got != tt.isAdminOrEditor {
				t.Errorf("IsAdminOrEditor() = %v, want %v", got, tt.isAdminOrEditor)
			}
		})
	}
}

// TestHasRole tests role membership, including the anonymous case
func TestHasRole(t *testing.T) {
	editor := Identity{UserID: "u1", Role: RoleEditor}

	if !editor.HasRole(RoleAdmin, RoleEditor) {
		t.Error("Expected editor to match an admin,editor role list")
	}
	if editor.HasRole(RoleAdmin) {
		t.Error("Expected editor not to match an admin-only role list")
	}
	if editor.HasRole() {
		t.Error("Expected no match against an empty role list")
	}

	anonymous := Identity{Role: RoleAdmin}
	if anonymous.HasRole(RoleAdmin) {
		t.Error("Expected anonymous identity to match no roles")
	}
}
