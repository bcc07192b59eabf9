package permissions

import "github.com/angelmondragon/markethub-backend/pkg/enums"

// RoleGrants maps member roles to their default permission sets.
type RoleGrants map[enums.MemberRole]Set

// DefaultRoleGrants builds the constant role mapping. Construct once at
// startup and inject; the returned sets are copies, so callers cannot
// mutate the defaults of another consumer.
func DefaultRoleGrants() RoleGrants {
	return RoleGrants{
		enums.MemberRoleOwner: NewSet(All()...),
		enums.MemberRoleAdmin: NewSet(All()...),
		enums.MemberRoleManager: NewSet(
			ViewProducts,
			CreateProducts,
			EditProducts,
			ViewOrders,
			ProcessOrders,
			ViewStats,
		),
		enums.MemberRoleStaff: NewSet(
			ViewProducts,
			ViewOrders,
		),
		enums.MemberRoleCustom: NewSet(),
	}
}

// For returns the default set for a role; unknown roles get an empty set.
func (g RoleGrants) For(role enums.MemberRole) Set {
	if s, ok := g[role]; ok {
		return s.Clone()
	}
	return NewSet()
}
