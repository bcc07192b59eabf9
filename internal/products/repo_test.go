package products

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/markethub-backend/pkg/db/models"
)

func setupProductsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	ddl := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL,
  sku TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  price TEXT NOT NULL,
  stock_quantity INTEGER NOT NULL DEFAULT 0,
  category TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (store_id, sku)
);`
	if err := db.Exec(ddl).Error; err != nil {
		t.Fatalf("create table: %v", err)
	}
	return db
}

func insertProduct(t *testing.T, repo *Repository, storeID uuid.UUID, sku string, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		StoreID:       storeID,
		SKU:           sku,
		Name:          "Product " + sku,
		Price:         decimal.RequireFromString("9.99"),
		StockQuantity: stock,
		IsActive:      true,
	}
	if err := repo.Create(context.Background(), product); err != nil {
		t.Fatalf("insert product %s: %v", sku, err)
	}
	return product
}

func TestRepositoryCreateAndFind(t *testing.T) {
	repo := NewRepository(setupProductsTestDB(t))

	product := insertProduct(t, repo, uuid.New(), "SKU-100", 5)
	if product.ID == uuid.Nil {
		t.Fatal("expected repo to assign an id")
	}

	found, err := repo.FindByID(context.Background(), product.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if found.SKU != "SKU-100" || found.StockQuantity != 5 {
		t.Fatalf("found = %+v", found)
	}
	if !found.Price.Equal(decimal.RequireFromString("9.99")) {
		t.Fatalf("price = %s, want 9.99", found.Price)
	}
}

func TestRepositoryListByStoreScopesRows(t *testing.T) {
	repo := NewRepository(setupProductsTestDB(t))
	ctx := context.Background()
	storeA, storeB := uuid.New(), uuid.New()

	insertProduct(t, repo, storeA, "A-1", 1)
	insertProduct(t, repo, storeA, "A-2", 1)
	insertProduct(t, repo, storeB, "B-1", 1)

	rows, err := repo.ListByStore(ctx, storeA, 20, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len = %d, want 2", len(rows))
	}
	for _, row := range rows {
		if row.StoreID != storeA {
			t.Fatalf("row %s belongs to %s", row.SKU, row.StoreID)
		}
	}
}

func TestDecrementStockGuardsAvailability(t *testing.T) {
	repo := NewRepository(setupProductsTestDB(t))
	ctx := context.Background()

	product := insertProduct(t, repo, uuid.New(), "SKU-200", 10)

	ok, err := repo.DecrementStock(ctx, product.ID, 4)
	if err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if !ok {
		t.Fatal("expected decrement to succeed")
	}

	found, err := repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if found.StockQuantity != 6 {
		t.Fatalf("stock = %d, want 6", found.StockQuantity)
	}

	ok, err = repo.DecrementStock(ctx, product.ID, 7)
	if err != nil {
		t.Fatalf("decrement past stock: %v", err)
	}
	if ok {
		t.Fatal("decrement beyond stock should report zero rows")
	}

	found, err = repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if found.StockQuantity != 6 {
		t.Fatalf("stock = %d, want unchanged 6", found.StockQuantity)
	}
}

func TestDecrementStockUnknownProduct(t *testing.T) {
	repo := NewRepository(setupProductsTestDB(t))

	ok, err := repo.DecrementStock(context.Background(), uuid.New(), 1)
	if err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if ok {
		t.Fatal("unknown product should report zero rows")
	}
}

func TestRepositoryUpdateMissingProduct(t *testing.T) {
	repo := NewRepository(setupProductsTestDB(t))

	name := "Ghost"
	_, err := repo.Update(context.Background(), uuid.New(), UpdateProductInput{Name: &name})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("err = %v, want record not found", err)
	}
}
