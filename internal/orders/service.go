package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/markethub-backend/internal/authz"
	"github.com/angelmondragon/markethub-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/markethub-backend/pkg/errors"
	"github.com/angelmondragon/markethub-backend/pkg/permissions"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type orderRepository interface {
	FindGroupByID(ctx context.Context, id, userID uuid.UUID) (*models.OrderGroup, error)
	ListOrdersForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Order, error)
	ListOrdersForStore(ctx context.Context, storeID uuid.UUID, limit, offset int) ([]models.Order, error)
}

// Service exposes order history. Order contents are immutable once checkout
// commits; status transitions live with the fulfillment collaborator.
type Service interface {
	ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]OrderDTO, error)
	ListForStore(ctx context.Context, actorID, storeID uuid.UUID, limit, offset int) ([]OrderDTO, error)
	GetGroup(ctx context.Context, userID, groupID uuid.UUID) (*OrderGroupDTO, error)
}

// ServiceParams bundles the dependencies for an orders service.
type ServiceParams struct {
	Repo     orderRepository
	Resolver authz.Resolver
}

type service struct {
	repo     orderRepository
	resolver authz.Resolver
}

// NewService builds an orders service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if params.Resolver == nil {
		return nil, fmt.Errorf("permission resolver required")
	}
	return &service{repo: params.Repo, resolver: params.Resolver}, nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]OrderDTO, error) {
	limit, offset = clampPage(limit, offset)
	rows, err := s.repo.ListOrdersForUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return toDTOs(rows), nil
}

// ListForStore requires the actor to resolve VIEW_ORDERS on the store.
func (s *service) ListForStore(ctx context.Context, actorID, storeID uuid.UUID, limit, offset int) ([]OrderDTO, error) {
	if err := s.resolver.Authorize(ctx, actorID, storeID, permissions.ViewOrders); err != nil {
		return nil, err
	}

	limit, offset = clampPage(limit, offset)
	rows, err := s.repo.ListOrdersForStore(ctx, storeID, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list store orders")
	}
	return toDTOs(rows), nil
}

// GetGroup loads one checkout aggregate scoped to its buyer.
func (s *service) GetGroup(ctx context.Context, userID, groupID uuid.UUID) (*OrderGroupDTO, error) {
	group, err := s.repo.FindGroupByID(ctx, groupID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order group not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order group")
	}
	return GroupFromModel(group), nil
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func toDTOs(rows []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *OrderFromModel(&rows[i]))
	}
	return out
}
