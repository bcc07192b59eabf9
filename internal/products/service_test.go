package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/markethub-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/markethub-backend/pkg/errors"
	"github.com/angelmondragon/markethub-backend/pkg/permissions"
)

type stubProductRepo struct {
	byID    map[uuid.UUID]*models.Product
	created *models.Product
	listed  []models.Product

	lastLimit  int
	lastOffset int
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{byID: map[uuid.UUID]*models.Product{}}
}

func (s *stubProductRepo) Create(ctx context.Context, product *models.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	s.created = product
	s.byID[product.ID] = product
	return nil
}

func (s *stubProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if product, ok := s.byID[id]; ok {
		return product, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProductRepo) ListByStore(ctx context.Context, storeID uuid.UUID, limit, offset int) ([]models.Product, error) {
	s.lastLimit = limit
	s.lastOffset = offset
	return s.listed, nil
}

func (s *stubProductRepo) Update(ctx context.Context, id uuid.UUID, in UpdateProductInput) (*models.Product, error) {
	product, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}
	return product, nil
}

type stubStoreFinder struct {
	store *models.Store
}

func (s *stubStoreFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	if s.store == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.store, nil
}

type stubResolver struct {
	err      error
	lastPerm permissions.Permission
	called   bool
}

func (s *stubResolver) Authorize(ctx context.Context, userID, storeID uuid.UUID, perm permissions.Permission) error {
	s.called = true
	s.lastPerm = perm
	return s.err
}

func newTestService(t *testing.T, repo *stubProductRepo, stores *stubStoreFinder, resolver *stubResolver) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo, Stores: stores, Resolver: resolver})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func validCreateInput() CreateProductInput {
	return CreateProductInput{
		SKU:           "SKU-001",
		Name:          "Widget",
		Price:         decimal.RequireFromString("19.99"),
		StockQuantity: 10,
	}
}

func TestCreateRequiresCreateProductsPermission(t *testing.T) {
	resolver := &stubResolver{err: pkgerrors.New(pkgerrors.CodeForbidden, "insufficient permissions")}
	svc := newTestService(t, newStubProductRepo(), &stubStoreFinder{}, resolver)

	_, err := svc.Create(context.Background(), uuid.New(), uuid.New(), validCreateInput())
	if pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("code = %s, want forbidden", pkgerrors.As(err).Code())
	}
	if resolver.lastPerm != permissions.CreateProducts {
		t.Fatalf("resolved %s, want CREATE_PRODUCTS", resolver.lastPerm)
	}
}

func TestCreatePersistsActiveProduct(t *testing.T) {
	repo := newStubProductRepo()
	svc := newTestService(t, repo, &stubStoreFinder{}, &stubResolver{})
	storeID := uuid.New()

	dto, err := svc.Create(context.Background(), uuid.New(), storeID, validCreateInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.StoreID != storeID {
		t.Fatalf("store = %s, want %s", dto.StoreID, storeID)
	}
	if !dto.IsActive {
		t.Fatal("new products should be active")
	}
	if repo.created == nil || repo.created.ID == uuid.Nil {
		t.Fatal("expected product to be persisted with an id")
	}
}

func TestCreateValidationBounds(t *testing.T) {
	svc := newTestService(t, newStubProductRepo(), &stubStoreFinder{}, &stubResolver{})
	ctx := context.Background()
	actor, store := uuid.New(), uuid.New()

	cases := []struct {
		name   string
		mutate func(*CreateProductInput)
	}{
		{"short sku", func(in *CreateProductInput) { in.SKU = "ab" }},
		{"short name", func(in *CreateProductInput) { in.Name = "xy" }},
		{"zero price", func(in *CreateProductInput) { in.Price = decimal.Zero }},
		{"price too high", func(in *CreateProductInput) { in.Price = decimal.NewFromInt(2_000_000) }},
		{"negative stock", func(in *CreateProductInput) { in.StockQuantity = -1 }},
		{"stock too high", func(in *CreateProductInput) { in.StockQuantity = 2_000_000 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validCreateInput()
			tc.mutate(&input)
			_, err := svc.Create(ctx, actor, store, input)
			if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
				t.Fatalf("code = %s, want validation", pkgerrors.As(err).Code())
			}
		})
	}
}

func TestListByStoreUnknownStore(t *testing.T) {
	svc := newTestService(t, newStubProductRepo(), &stubStoreFinder{}, &stubResolver{})

	_, err := svc.ListByStore(context.Background(), uuid.New(), uuid.New(), 20, 0)
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("code = %s, want not found", pkgerrors.As(err).Code())
	}
}

func TestListByStorePublicSkipsResolver(t *testing.T) {
	resolver := &stubResolver{}
	stores := &stubStoreFinder{store: &models.Store{ID: uuid.New(), IsPrivate: false}}
	svc := newTestService(t, newStubProductRepo(), stores, resolver)

	if _, err := svc.ListByStore(context.Background(), uuid.Nil, stores.store.ID, 20, 0); err != nil {
		t.Fatalf("list public store: %v", err)
	}
	if resolver.called {
		t.Fatal("public catalog browsing should not consult the resolver")
	}
}

func TestListByStorePrivateRequiresViewer(t *testing.T) {
	resolver := &stubResolver{err: pkgerrors.New(pkgerrors.CodeForbidden, "insufficient permissions")}
	stores := &stubStoreFinder{store: &models.Store{ID: uuid.New(), IsPrivate: true}}
	svc := newTestService(t, newStubProductRepo(), stores, resolver)
	ctx := context.Background()

	_, err := svc.ListByStore(ctx, uuid.Nil, stores.store.ID, 20, 0)
	if pkgerrors.As(err).Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("code = %s, want unauthorized", pkgerrors.As(err).Code())
	}

	_, err = svc.ListByStore(ctx, uuid.New(), stores.store.ID, 20, 0)
	if pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("code = %s, want forbidden", pkgerrors.As(err).Code())
	}
	if resolver.lastPerm != permissions.ViewProducts {
		t.Fatalf("resolved %s, want VIEW_PRODUCTS", resolver.lastPerm)
	}
}

func TestListByStoreClampsLimits(t *testing.T) {
	repo := newStubProductRepo()
	stores := &stubStoreFinder{store: &models.Store{ID: uuid.New()}}
	svc := newTestService(t, repo, stores, &stubResolver{})

	if _, err := svc.ListByStore(context.Background(), uuid.Nil, stores.store.ID, 0, -1); err != nil {
		t.Fatalf("list: %v", err)
	}
	if repo.lastLimit != 20 || repo.lastOffset != 0 {
		t.Fatalf("limit/offset = %d/%d, want 20/0", repo.lastLimit, repo.lastOffset)
	}
}

func TestUpdateAuthorizesAgainstOwningStore(t *testing.T) {
	repo := newStubProductRepo()
	resolver := &stubResolver{}
	svc := newTestService(t, repo, &stubStoreFinder{}, resolver)
	ctx := context.Background()

	product := &models.Product{StoreID: uuid.New(), SKU: "SKU-1", Name: "Widget", Price: decimal.NewFromInt(5)}
	if err := repo.Create(ctx, product); err != nil {
		t.Fatalf("seed: %v", err)
	}

	name := "Widget Mk2"
	updated, err := svc.Update(ctx, uuid.New(), product.ID, UpdateProductInput{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != name {
		t.Fatalf("name = %q, want %q", updated.Name, name)
	}
	if resolver.lastPerm != permissions.EditProducts {
		t.Fatalf("resolved %s, want EDIT_PRODUCTS", resolver.lastPerm)
	}
}

func TestUpdateUnknownProduct(t *testing.T) {
	svc := newTestService(t, newStubProductRepo(), &stubStoreFinder{}, &stubResolver{})

	name := "Ghost"
	_, err := svc.Update(context.Background(), uuid.New(), uuid.New(), UpdateProductInput{Name: &name})
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("code = %s, want not found", pkgerrors.As(err).Code())
	}
}
