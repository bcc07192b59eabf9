package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/markethub-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/markethub-backend/pkg/errors"
)

const maxLineQuantity = 1000

type cartRepository interface {
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.CartItem, error)
	SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.CartItem, error)
	ListLines(ctx context.Context, userID uuid.UUID) ([]CartLine, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes staged-cart operations.
type Service interface {
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartItemDTO, error)
	SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartItemDTO, error)
	ListItems(ctx context.Context, userID uuid.UUID) ([]CartLine, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

// ServiceParams bundles the dependencies for a cart service.
type ServiceParams struct {
	Repo     cartRepository
	Products productFinder
}

type service struct {
	repo     cartRepository
	products productFinder
}

// NewService builds a cart service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: params.Repo, products: params.Products}, nil
}

// AddItem stages quantity for a product. The stock check here is advisory
// only; the conditional decrement at checkout is the real guard.
func (s *service) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartItemDTO, error) {
	product, err := s.loadSellable(ctx, productID, quantity)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.AddItem(ctx, userID, product.ID, quantity)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add cart item")
	}
	return FromModel(item), nil
}

// SetQuantity replaces the stored quantity for an existing line.
func (s *service) SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartItemDTO, error) {
	if _, err := s.loadSellable(ctx, productID, quantity); err != nil {
		return nil, err
	}

	item, err := s.repo.SetQuantity(ctx, userID, productID, quantity)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart item")
	}
	return FromModel(item), nil
}

func (s *service) ListItems(ctx context.Context, userID uuid.UUID) ([]CartLine, error) {
	lines, err := s.repo.ListLines(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cart items")
	}
	return lines, nil
}

func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	if err := s.repo.RemoveItem(ctx, userID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove cart item")
	}
	return nil
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.Clear(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
	}
	return nil
}

func (s *service) loadSellable(ctx context.Context, productID uuid.UUID, quantity int) (*models.Product, error) {
	if quantity < 1 || quantity > maxLineQuantity {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be between 1 and 1000")
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "product is inactive")
	}
	if product.StockQuantity < quantity {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock")
	}
	return product, nil
}
