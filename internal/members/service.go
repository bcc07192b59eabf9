package members

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/markethub-backend/internal/authz"
	"github.com/angelmondragon/markethub-backend/pkg/db"
	"github.com/angelmondragon/markethub-backend/pkg/db/models"
	"github.com/angelmondragon/markethub-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/markethub-backend/pkg/errors"
	"github.com/angelmondragon/markethub-backend/pkg/permissions"
)

type memberRepository interface {
	AddMember(ctx context.Context, storeID, userID uuid.UUID, role enums.MemberRole, perms permissions.Set, invitedBy *uuid.UUID) (*models.StoreMember, error)
	FindActiveMembership(ctx context.Context, storeID, userID uuid.UUID) (*models.StoreMember, error)
	ListMembersWithUsers(ctx context.Context, storeID uuid.UUID) ([]MemberWithUser, error)
	UpdatePermissions(ctx context.Context, storeID, userID uuid.UUID, perms permissions.Set) (*models.StoreMember, error)
	Deactivate(ctx context.Context, storeID, userID uuid.UUID) error
}

type userFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// InviteInput captures the payload for adding a member to a store.
type InviteInput struct {
	UserID      uuid.UUID
	Role        enums.MemberRole
	Permissions []string
}

// Service exposes member management, guarded by the permission resolver.
type Service interface {
	Invite(ctx context.Context, actorID, storeID uuid.UUID, input InviteInput) (*MemberDTO, error)
	List(ctx context.Context, actorID, storeID uuid.UUID) ([]MemberWithUser, error)
	UpdatePermissions(ctx context.Context, actorID, storeID, targetUserID uuid.UUID, perms []string) (*MemberDTO, error)
	Remove(ctx context.Context, actorID, storeID, targetUserID uuid.UUID) error
}

// ServiceParams bundles the dependencies required to build a members service.
type ServiceParams struct {
	Repo       memberRepository
	Users      userFinder
	Resolver   authz.Resolver
	RoleGrants permissions.RoleGrants
}

type service struct {
	repo       memberRepository
	users      userFinder
	resolver   authz.Resolver
	roleGrants permissions.RoleGrants
}

// NewService builds a members service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("members repository required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if params.Resolver == nil {
		return nil, fmt.Errorf("permission resolver required")
	}
	if params.RoleGrants == nil {
		params.RoleGrants = permissions.DefaultRoleGrants()
	}
	return &service{
		repo:       params.Repo,
		users:      params.Users,
		resolver:   params.Resolver,
		roleGrants: params.RoleGrants,
	}, nil
}

func (s *service) Invite(ctx context.Context, actorID, storeID uuid.UUID, input InviteInput) (*MemberDTO, error) {
	if err := s.resolver.Authorize(ctx, actorID, storeID, permissions.InviteMembers); err != nil {
		return nil, err
	}

	if !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid member role")
	}
	if input.Role == enums.MemberRoleOwner {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner membership is created with the store")
	}

	if _, err := s.users.FindByID(ctx, input.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load invited user")
	}

	perms, err := s.resolvePermissions(input)
	if err != nil {
		return nil, err
	}

	member, err := s.repo.AddMember(ctx, storeID, input.UserID, input.Role, perms, &actorID)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_store_members_store_user") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "user is already a member")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add member")
	}
	return ToDTO(member), nil
}

// resolvePermissions picks the explicit set when provided, otherwise the
// role's default grants. Unknown permission strings are rejected, not skipped.
func (s *service) resolvePermissions(input InviteInput) (permissions.Set, error) {
	if len(input.Permissions) == 0 {
		return s.roleGrants.For(input.Role), nil
	}
	set, unknown := permissions.ParseSet(input.Permissions)
	if len(unknown) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown permissions").WithDetails(unknown)
	}
	return set, nil
}

func (s *service) List(ctx context.Context, actorID, storeID uuid.UUID) ([]MemberWithUser, error) {
	if err := s.resolver.Authorize(ctx, actorID, storeID, permissions.ViewMembers); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListMembersWithUsers(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list members")
	}
	return rows, nil
}

func (s *service) UpdatePermissions(ctx context.Context, actorID, storeID, targetUserID uuid.UUID, perms []string) (*MemberDTO, error) {
	if err := s.resolver.Authorize(ctx, actorID, storeID, permissions.EditPermissions); err != nil {
		return nil, err
	}

	set, unknown := permissions.ParseSet(perms)
	if len(unknown) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown permissions").WithDetails(unknown)
	}

	member, err := s.repo.UpdatePermissions(ctx, storeID, targetUserID, set)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "membership not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update permissions")
	}
	return ToDTO(member), nil
}

func (s *service) Remove(ctx context.Context, actorID, storeID, targetUserID uuid.UUID) error {
	if err := s.resolver.Authorize(ctx, actorID, storeID, permissions.EditPermissions); err != nil {
		return err
	}

	target, err := s.repo.FindActiveMembership(ctx, storeID, targetUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "membership not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load membership")
	}
	if target.Role == enums.MemberRoleOwner {
		return pkgerrors.New(pkgerrors.CodeBadRequest, "store owner cannot be removed")
	}

	if err := s.repo.Deactivate(ctx, storeID, targetUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "membership not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate membership")
	}
	return nil
}
