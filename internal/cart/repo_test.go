package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/markethub-backend/pkg/db/models"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	ddl := `
CREATE TABLE IF NOT EXISTS stores (
  id TEXT PRIMARY KEY,
  owner_id TEXT NOT NULL,
  name TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  description TEXT,
  logo_url TEXT,
  is_private INTEGER NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'active',
  created_at DATETIME,
  updated_at DATETIME
);
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
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  added_at DATETIME,
  updated_at DATETIME,
  UNIQUE (user_id, product_id)
);`
	if err := db.Exec(ddl).Error; err != nil {
		t.Fatalf("create tables: %v", err)
	}
	return db
}

func seedCartProduct(t *testing.T, db *gorm.DB, name, price string) *models.Product {
	t.Helper()

	store := &models.Store{
		ID:      uuid.New(),
		OwnerID: uuid.New(),
		Name:    name + " Store",
		Slug:    "store-" + uuid.NewString()[:8],
	}
	if err := db.Create(store).Error; err != nil {
		t.Fatalf("seed store: %v", err)
	}

	product := &models.Product{
		ID:            uuid.New(),
		StoreID:       store.ID,
		SKU:           "SKU-" + uuid.NewString()[:8],
		Name:          name,
		Price:         decimal.RequireFromString(price),
		StockQuantity: 100,
		IsActive:      true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func TestAddItemUpsertsOnUserProduct(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := seedCartProduct(t, db, "Widget", "4.00")
	userID := uuid.New()

	first, err := repo.AddItem(ctx, userID, product.ID, 2)
	if err != nil {
		t.Fatalf("first add: %v", err)
	}
	if first.Quantity != 2 {
		t.Fatalf("quantity = %d, want 2", first.Quantity)
	}

	second, err := repo.AddItem(ctx, userID, product.ID, 3)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if second.Quantity != 5 {
		t.Fatalf("quantity = %d, want 5", second.Quantity)
	}
	if second.ID != first.ID {
		t.Fatal("upsert should keep the original row")
	}

	var count int64
	if err := db.Model(&models.CartItem{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("rows = %d, want 1", count)
	}
}

func TestSetQuantityMissingRow(t *testing.T) {
	repo := NewRepository(setupCartTestDB(t))

	_, err := repo.SetQuantity(context.Background(), uuid.New(), uuid.New(), 3)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("err = %v, want record not found", err)
	}
}

func TestListLinesJoinsProductsAndStores(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	older := seedCartProduct(t, db, "Older", "2.00")
	newer := seedCartProduct(t, db, "Newer", "3.50")

	if _, err := repo.AddItem(ctx, userID, older.ID, 1); err != nil {
		t.Fatalf("add older: %v", err)
	}
	// Force distinct added_at ordering.
	if err := db.Model(&models.CartItem{}).
		Where("product_id = ?", older.ID).
		Update("added_at", time.Now().Add(-time.Hour)).Error; err != nil {
		t.Fatalf("age older line: %v", err)
	}
	if _, err := repo.AddItem(ctx, userID, newer.ID, 2); err != nil {
		t.Fatalf("add newer: %v", err)
	}

	lines, err := repo.ListLines(ctx, userID)
	if err != nil {
		t.Fatalf("list lines: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("len = %d, want 2", len(lines))
	}
	if lines[0].ProductName != "Newer" {
		t.Fatalf("first line = %q, want newest", lines[0].ProductName)
	}
	if lines[0].StoreName != "Newer Store" {
		t.Fatalf("store name = %q", lines[0].StoreName)
	}
	if !lines[0].UnitPrice.Equal(decimal.RequireFromString("3.50")) {
		t.Fatalf("unit price = %s, want 3.50", lines[0].UnitPrice)
	}
}

func TestClearRemovesOnlyUserLines(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := seedCartProduct(t, db, "Widget", "4.00")
	userA, userB := uuid.New(), uuid.New()

	if _, err := repo.AddItem(ctx, userA, product.ID, 1); err != nil {
		t.Fatalf("add for a: %v", err)
	}
	if _, err := repo.AddItem(ctx, userB, product.ID, 1); err != nil {
		t.Fatalf("add for b: %v", err)
	}

	if err := repo.Clear(ctx, userA); err != nil {
		t.Fatalf("clear: %v", err)
	}

	if _, err := repo.FindItem(ctx, userA, product.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("user a line should be gone, err = %v", err)
	}
	if _, err := repo.FindItem(ctx, userB, product.ID); err != nil {
		t.Fatalf("user b line should remain: %v", err)
	}
}
