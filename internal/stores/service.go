package stores

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/markethub-backend/internal/members"
	"github.com/angelmondragon/markethub-backend/pkg/db"
	"github.com/angelmondragon/markethub-backend/pkg/db/models"
	"github.com/angelmondragon/markethub-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/markethub-backend/pkg/errors"
	"github.com/angelmondragon/markethub-backend/pkg/permissions"
)

// slugPattern accepts lowercase alphanumeric runs separated by single hyphens.
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

const (
	defaultPublicLimit = 20
	maxPublicLimit     = 50
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type storeRepository interface {
	Create(ctx context.Context, store *models.Store) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
	FindBySlug(ctx context.Context, slug string) (*models.Store, error)
	ListPublic(ctx context.Context, limit, offset int) ([]models.Store, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateStoreInput) (*models.Store, error)
}

type ownerMembershipWriter interface {
	AddMember(ctx context.Context, storeID, userID uuid.UUID, role enums.MemberRole, perms permissions.Set, invitedBy *uuid.UUID) (*models.StoreMember, error)
}

// Service exposes store lifecycle operations.
type Service interface {
	Create(ctx context.Context, ownerID uuid.UUID, input CreateStoreInput) (*StoreDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*StoreDTO, error)
	ListPublic(ctx context.Context, limit, offset int) ([]StoreDTO, error)
	Update(ctx context.Context, actorID, storeID uuid.UUID, input UpdateStoreInput) (*StoreDTO, error)
}

// ServiceParams bundles the dependencies for a stores service. The factories
// default to tx-bound GORM repositories when nil.
type ServiceParams struct {
	Repo              storeRepository
	TxRunner          txRunner
	StoreRepoFactory  func(tx *gorm.DB) storeRepository
	MemberRepoFactory func(tx *gorm.DB) ownerMembershipWriter
}

type service struct {
	repo          storeRepository
	tx            txRunner
	storeFactory  func(tx *gorm.DB) storeRepository
	memberFactory func(tx *gorm.DB) ownerMembershipWriter
}

// NewService builds a stores service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("store repository required")
	}
	if params.TxRunner == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.StoreRepoFactory == nil {
		params.StoreRepoFactory = func(tx *gorm.DB) storeRepository {
			return NewRepository(tx)
		}
	}
	if params.MemberRepoFactory == nil {
		params.MemberRepoFactory = func(tx *gorm.DB) ownerMembershipWriter {
			return members.NewRepository(tx)
		}
	}
	return &service{
		repo:          params.Repo,
		tx:            params.TxRunner,
		storeFactory:  params.StoreRepoFactory,
		memberFactory: params.MemberRepoFactory,
	}, nil
}

// Create opens a store and registers the owner as a full-permission member
// inside a single transaction.
func (s *service) Create(ctx context.Context, ownerID uuid.UUID, input CreateStoreInput) (*StoreDTO, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner id is required")
	}
	if err := validateCreateInput(&input); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindBySlug(ctx, input.Slug); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "slug already in use")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check store slug")
	}

	store := &models.Store{
		OwnerID:     ownerID,
		Name:        input.Name,
		Slug:        input.Slug,
		Description: input.Description,
		LogoURL:     input.LogoURL,
		IsPrivate:   input.IsPrivate,
		Status:      enums.StoreStatusActive,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.storeFactory(tx).Create(ctx, store); err != nil {
			if db.IsUniqueViolation(err, "idx_stores_slug") {
				return pkgerrors.New(pkgerrors.CodeConflict, "slug already in use")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create store")
		}

		ownerRef := ownerID
		_, err := s.memberFactory(tx).AddMember(
			ctx,
			store.ID,
			ownerID,
			enums.MemberRoleOwner,
			permissions.NewSet(permissions.All()...),
			&ownerRef,
		)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create owner membership")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return FromModel(store), nil
}

// GetByID loads a single store.
func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*StoreDTO, error) {
	store, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load store")
	}
	return FromModel(store), nil
}

// ListPublic returns the public directory page. Limits are clamped to
// [1, 50] with a default of 20.
func (s *service) ListPublic(ctx context.Context, limit, offset int) ([]StoreDTO, error) {
	if limit <= 0 {
		limit = defaultPublicLimit
	}
	if limit > maxPublicLimit {
		limit = maxPublicLimit
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.repo.ListPublic(ctx, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list public stores")
	}

	out := make([]StoreDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

// Update applies the provided fields. Only the store owner may update.
func (s *service) Update(ctx context.Context, actorID, storeID uuid.UUID, input UpdateStoreInput) (*StoreDTO, error) {
	store, err := s.repo.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load store")
	}
	if store.OwnerID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient permissions")
	}

	if err := validateUpdateInput(&input); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, storeID, input)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update store")
	}
	return FromModel(updated), nil
}

func validateCreateInput(input *CreateStoreInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Slug = strings.TrimSpace(input.Slug)

	if l := len(input.Name); l < 3 || l > 255 {
		return pkgerrors.New(pkgerrors.CodeValidation, "name must be between 3 and 255 characters")
	}
	if l := len(input.Slug); l < 3 || l > 64 {
		return pkgerrors.New(pkgerrors.CodeValidation, "slug must be between 3 and 64 characters")
	}
	if !slugPattern.MatchString(input.Slug) {
		return pkgerrors.New(pkgerrors.CodeValidation, "slug must contain only lowercase letters, digits, and hyphens")
	}
	if input.Description != nil && len(*input.Description) > 1000 {
		return pkgerrors.New(pkgerrors.CodeValidation, "description must be at most 1000 characters")
	}
	return nil
}

func validateUpdateInput(input *UpdateStoreInput) error {
	if input.Name != nil {
		*input.Name = strings.TrimSpace(*input.Name)
		if l := len(*input.Name); l < 3 || l > 255 {
			return pkgerrors.New(pkgerrors.CodeValidation, "name must be between 3 and 255 characters")
		}
	}
	if input.Description != nil && len(*input.Description) > 1000 {
		return pkgerrors.New(pkgerrors.CodeValidation, "description must be at most 1000 characters")
	}
	if input.Status != nil && !input.Status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid store status")
	}
	return nil
}
