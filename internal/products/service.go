package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/markethub-backend/internal/authz"
	"github.com/angelmondragon/markethub-backend/pkg/db"
	"github.com/angelmondragon/markethub-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/markethub-backend/pkg/errors"
	"github.com/angelmondragon/markethub-backend/pkg/permissions"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

var (
	minPrice = decimal.RequireFromString("0.01")
	maxPrice = decimal.NewFromInt(1_000_000)
)

type productRepository interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListByStore(ctx context.Context, storeID uuid.UUID, limit, offset int) ([]models.Product, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateProductInput) (*models.Product, error)
}

type storeFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
}

// Service exposes product catalog operations guarded by the permission
// resolver.
type Service interface {
	Create(ctx context.Context, actorID, storeID uuid.UUID, input CreateProductInput) (*ProductDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	ListByStore(ctx context.Context, actorID, storeID uuid.UUID, limit, offset int) ([]ProductDTO, error)
	Update(ctx context.Context, actorID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
}

// ServiceParams bundles the dependencies for a products service.
type ServiceParams struct {
	Repo     productRepository
	Stores   storeFinder
	Resolver authz.Resolver
}

type service struct {
	repo     productRepository
	stores   storeFinder
	resolver authz.Resolver
}

// NewService builds a products service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if params.Stores == nil {
		return nil, fmt.Errorf("store repository required")
	}
	if params.Resolver == nil {
		return nil, fmt.Errorf("permission resolver required")
	}
	return &service{
		repo:     params.Repo,
		stores:   params.Stores,
		resolver: params.Resolver,
	}, nil
}

func (s *service) Create(ctx context.Context, actorID, storeID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	if err := s.resolver.Authorize(ctx, actorID, storeID, permissions.CreateProducts); err != nil {
		return nil, err
	}
	if err := validateCreateInput(&input); err != nil {
		return nil, err
	}

	product := &models.Product{
		StoreID:       storeID,
		SKU:           input.SKU,
		Name:          input.Name,
		Description:   input.Description,
		Price:         input.Price,
		StockQuantity: input.StockQuantity,
		Category:      input.Category,
		IsActive:      true,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		if db.IsUniqueViolation(err, "idx_products_store_sku") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already in use for this store")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	return FromModel(product), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return FromModel(product), nil
}

// ListByStore pages a store catalog. Public stores are browsable by anyone;
// private stores require the viewer to resolve VIEW_PRODUCTS.
func (s *service) ListByStore(ctx context.Context, actorID, storeID uuid.UUID, limit, offset int) ([]ProductDTO, error) {
	store, err := s.stores.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load store")
	}

	if store.IsPrivate {
		if actorID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
		}
		if err := s.resolver.Authorize(ctx, actorID, storeID, permissions.ViewProducts); err != nil {
			return nil, err
		}
	}

	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.repo.ListByStore(ctx, storeID, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}

	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, actorID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}

	if err := s.resolver.Authorize(ctx, actorID, product.StoreID, permissions.EditProducts); err != nil {
		return nil, err
	}
	if err := validateUpdateInput(&input); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, productID, input)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}
	return FromModel(updated), nil
}

func validateCreateInput(input *CreateProductInput) error {
	input.SKU = strings.TrimSpace(input.SKU)
	input.Name = strings.TrimSpace(input.Name)

	if l := len(input.SKU); l < 3 || l > 100 {
		return pkgerrors.New(pkgerrors.CodeValidation, "sku must be between 3 and 100 characters")
	}
	if l := len(input.Name); l < 3 || l > 255 {
		return pkgerrors.New(pkgerrors.CodeValidation, "name must be between 3 and 255 characters")
	}
	if input.Description != nil && len(*input.Description) > 2000 {
		return pkgerrors.New(pkgerrors.CodeValidation, "description must be at most 2000 characters")
	}
	if err := validatePrice(input.Price); err != nil {
		return err
	}
	if err := validateStock(input.StockQuantity); err != nil {
		return err
	}
	if input.Category != nil && len(*input.Category) > 100 {
		return pkgerrors.New(pkgerrors.CodeValidation, "category must be at most 100 characters")
	}
	return nil
}

func validateUpdateInput(input *UpdateProductInput) error {
	if input.Name != nil {
		*input.Name = strings.TrimSpace(*input.Name)
		if l := len(*input.Name); l < 3 || l > 255 {
			return pkgerrors.New(pkgerrors.CodeValidation, "name must be between 3 and 255 characters")
		}
	}
	if input.Description != nil && len(*input.Description) > 2000 {
		return pkgerrors.New(pkgerrors.CodeValidation, "description must be at most 2000 characters")
	}
	if input.Price != nil {
		if err := validatePrice(*input.Price); err != nil {
			return err
		}
	}
	if input.StockQuantity != nil {
		if err := validateStock(*input.StockQuantity); err != nil {
			return err
		}
	}
	if input.Category != nil && len(*input.Category) > 100 {
		return pkgerrors.New(pkgerrors.CodeValidation, "category must be at most 100 characters")
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if price.LessThan(minPrice) || price.GreaterThan(maxPrice) {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be between 0.01 and 1000000")
	}
	return nil
}

func validateStock(qty int) error {
	if qty < 0 || qty > 1_000_000 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock quantity must be between 0 and 1000000")
	}
	return nil
}
