package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/markethub-backend/pkg/db/models"
	"github.com/angelmondragon/markethub-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/markethub-backend/pkg/errors"
	"github.com/angelmondragon/markethub-backend/pkg/permissions"
)

type storeFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
}

type membershipFinder interface {
	FindActiveMembership(ctx context.Context, storeID, userID uuid.UUID) (*models.StoreMember, error)
}

type grantFinder interface {
	FindActiveGrant(ctx context.Context, storeID, userID uuid.UUID) (*models.StoreAccessGrant, error)
}

// Resolver answers whether a user may exercise a permission against a store.
type Resolver interface {
	Authorize(ctx context.Context, userID, storeID uuid.UUID, perm permissions.Permission) error
}

type resolver struct {
	stores  storeFinder
	members membershipFinder
	grants  grantFinder
}

// NewResolver builds a permission resolver over the three lookup sources.
func NewResolver(stores storeFinder, members membershipFinder, grants grantFinder) (Resolver, error) {
	if stores == nil {
		return nil, fmt.Errorf("store finder required")
	}
	if members == nil {
		return nil, fmt.Errorf("membership finder required")
	}
	if grants == nil {
		return nil, fmt.Errorf("grant finder required")
	}
	return &resolver{stores: stores, members: members, grants: grants}, nil
}

// Authorize resolves access in a fixed order: active membership first, then
// the public-store read carve-out, then access grants. The first source that
// allows wins; if none do the caller gets a Forbidden error. A missing store
// is a NotFound before any of that runs.
func (r *resolver) Authorize(ctx context.Context, userID, storeID uuid.UUID, perm permissions.Permission) error {
	if !perm.IsValid() {
		return pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("unknown permission %q", perm))
	}

	store, err := r.stores.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load store")
	}

	member, err := r.members.FindActiveMembership(ctx, storeID, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load membership")
	}
	if member != nil && memberAllows(member, perm) {
		return nil
	}

	if !store.IsPrivate && (perm == permissions.ViewProducts || perm == permissions.ViewOrders) {
		return nil
	}

	grant, err := r.grants.FindActiveGrant(ctx, storeID, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load access grant")
	}
	if grant != nil && GrantAllows(grant.AccessLevel, perm) {
		return nil
	}

	return pkgerrors.New(pkgerrors.CodeForbidden, "insufficient permissions")
}

// memberAllows applies role semantics: Owner and Admin hold every permission
// regardless of the stored set; everyone else is checked against their
// explicit permission strings, case-insensitively.
func memberAllows(member *models.StoreMember, perm permissions.Permission) bool {
	if member.Role == enums.MemberRoleOwner || member.Role == enums.MemberRoleAdmin {
		return true
	}
	set, _ := permissions.ParseSet([]string(member.Permissions))
	return set.Contains(perm)
}

// GrantAllows maps an access level onto the permissions it implies.
func GrantAllows(level enums.AccessLevel, perm permissions.Permission) bool {
	switch level {
	case enums.AccessLevelView:
		return perm == permissions.ViewProducts || perm == permissions.ViewOrders
	case enums.AccessLevelViewAndBuy:
		return perm == permissions.ViewProducts || perm == permissions.ViewOrders || perm == permissions.ProcessOrders
	default:
		return false
	}
}
