package permissions

import (
	"fmt"
	"sort"
	"strings"
)

// Permission is one of the fourteen store-scoped capabilities. The canonical
// string form is SCREAMING_SNAKE_CASE; comparisons are case-insensitive.
type Permission string

const (
	ViewProducts   Permission = "VIEW_PRODUCTS"
	CreateProducts Permission = "CREATE_PRODUCTS"
	EditProducts   Permission = "EDIT_PRODUCTS"
	DeleteProducts Permission = "DELETE_PRODUCTS"

	ViewOrders    Permission = "VIEW_ORDERS"
	ProcessOrders Permission = "PROCESS_ORDERS"
	CancelOrders  Permission = "CANCEL_ORDERS"

	ViewMembers     Permission = "VIEW_MEMBERS"
	InviteMembers   Permission = "INVITE_MEMBERS"
	EditPermissions Permission = "EDIT_PERMISSIONS"

	GrantAccess  Permission = "GRANT_ACCESS"
	RevokeAccess Permission = "REVOKE_ACCESS"

	ViewStats     Permission = "VIEW_STATS"
	ExportReports Permission = "EXPORT_REPORTS"
)

var all = []Permission{
	ViewProducts,
	CreateProducts,
	EditProducts,
	DeleteProducts,
	ViewOrders,
	ProcessOrders,
	CancelOrders,
	ViewMembers,
	InviteMembers,
	EditPermissions,
	GrantAccess,
	RevokeAccess,
	ViewStats,
	ExportReports,
}

// All returns every permission in the closed enumeration.
func All() []Permission {
	out := make([]Permission, len(all))
	copy(out, all)
	return out
}

// String implements fmt.Stringer.
func (p Permission) String() string {
	return string(p)
}

// IsValid reports whether the value is a known Permission.
func (p Permission) IsValid() bool {
	for _, candidate := range all {
		if candidate == p {
			return true
		}
	}
	return false
}

// Parse converts raw input into a Permission, case-insensitively.
func Parse(value string) (Permission, error) {
	trimmed := strings.TrimSpace(value)
	for _, candidate := range all {
		if strings.EqualFold(string(candidate), trimmed) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid permission %q", value)
}

// Set is a collection of permissions keyed on the canonical form.
type Set map[Permission]struct{}

// NewSet builds a Set from the provided permissions.
func NewSet(perms ...Permission) Set {
	s := make(Set, len(perms))
	for _, p := range perms {
		s[p] = struct{}{}
	}
	return s
}

// ParseSet converts raw strings into a typed Set, skipping unknown values.
// Unknown entries are returned so callers can reject or log them.
func ParseSet(values []string) (Set, []string) {
	s := make(Set, len(values))
	var unknown []string
	for _, v := range values {
		p, err := Parse(v)
		if err != nil {
			unknown = append(unknown, v)
			continue
		}
		s[p] = struct{}{}
	}
	return s, unknown
}

// Contains reports whether the permission is in the set.
func (s Set) Contains(p Permission) bool {
	if s == nil {
		return false
	}
	_, ok := s[p]
	return ok
}

// Add inserts a permission into the set.
func (s Set) Add(p Permission) {
	s[p] = struct{}{}
}

// Strings returns the canonical sorted string forms, suitable for the
// text[] persistence column.
func (s Set) Strings() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, string(p))
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy of the set.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for p := range s {
		out[p] = struct{}{}
	}
	return out
}
