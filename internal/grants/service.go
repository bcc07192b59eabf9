package grants

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/markethub-backend/internal/authz"
	"github.com/angelmondragon/markethub-backend/pkg/db/models"
	"github.com/angelmondragon/markethub-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/markethub-backend/pkg/errors"
	"github.com/angelmondragon/markethub-backend/pkg/permissions"
)

type grantRepository interface {
	Grant(ctx context.Context, storeID, userID, grantedBy uuid.UUID, level enums.AccessLevel, expiresAt *time.Time) (*models.StoreAccessGrant, error)
	Revoke(ctx context.Context, storeID, userID uuid.UUID) (*models.StoreAccessGrant, error)
}

// GrantInput captures the data needed to issue an access grant.
type GrantInput struct {
	UserID      uuid.UUID
	AccessLevel enums.AccessLevel
	ExpiresAt   *time.Time
}

// Service exposes grant management, guarded by the permission resolver.
type Service interface {
	Grant(ctx context.Context, actorID, storeID uuid.UUID, input GrantInput) (*GrantDTO, error)
	Revoke(ctx context.Context, actorID, storeID, targetUserID uuid.UUID) (*GrantDTO, error)
}

type service struct {
	repo     grantRepository
	resolver authz.Resolver
}

// NewService builds a grants service with the provided dependencies.
func NewService(repo grantRepository, resolver authz.Resolver) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("grants repository required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("permission resolver required")
	}
	return &service{repo: repo, resolver: resolver}, nil
}

func (s *service) Grant(ctx context.Context, actorID, storeID uuid.UUID, input GrantInput) (*GrantDTO, error) {
	if err := s.resolver.Authorize(ctx, actorID, storeID, permissions.GrantAccess); err != nil {
		return nil, err
	}

	level := input.AccessLevel
	if level == "" {
		level = enums.AccessLevelViewAndBuy
	}
	if !level.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid access level")
	}
	if input.ExpiresAt != nil && !input.ExpiresAt.After(time.Now().UTC()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "expires_at must be in the future")
	}

	grant, err := s.repo.Grant(ctx, storeID, input.UserID, actorID, level, input.ExpiresAt)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create access grant")
	}
	return ToDTO(grant), nil
}

func (s *service) Revoke(ctx context.Context, actorID, storeID, targetUserID uuid.UUID) (*GrantDTO, error) {
	if err := s.resolver.Authorize(ctx, actorID, storeID, permissions.RevokeAccess); err != nil {
		return nil, err
	}

	grant, err := s.repo.Revoke(ctx, storeID, targetUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "grant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke access grant")
	}
	return ToDTO(grant), nil
}
