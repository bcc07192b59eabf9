package grants

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/markethub-backend/pkg/db/models"
	"github.com/angelmondragon/markethub-backend/pkg/enums"
)

func setupGrantsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	ddl := `
CREATE TABLE IF NOT EXISTS store_access_grants (
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  granted_by TEXT NOT NULL,
  access_level TEXT NOT NULL,
  granted_at DATETIME,
  expires_at DATETIME,
  is_revoked INTEGER NOT NULL DEFAULT 0,
  revoked_at DATETIME
);`
	if err := db.Exec(ddl).Error; err != nil {
		t.Fatalf("create table: %v", err)
	}
	return db
}

func insertGrant(t *testing.T, db *gorm.DB, storeID, userID uuid.UUID, level enums.AccessLevel, expiresAt *time.Time, revoked bool) *models.StoreAccessGrant {
	t.Helper()

	grant := &models.StoreAccessGrant{
		ID:          uuid.New(),
		StoreID:     storeID,
		UserID:      userID,
		GrantedBy:   uuid.New(),
		AccessLevel: level,
		GrantedAt:   time.Now().UTC(),
		ExpiresAt:   expiresAt,
		IsRevoked:   revoked,
	}
	if err := db.Create(grant).Error; err != nil {
		t.Fatalf("insert grant: %v", err)
	}
	return grant
}

func TestFindActiveGrantFiltersRevokedAndExpired(t *testing.T) {
	db := setupGrantsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	storeID := uuid.New()

	revokedUser := uuid.New()
	insertGrant(t, db, storeID, revokedUser, enums.AccessLevelView, nil, true)
	if _, err := repo.FindActiveGrant(ctx, storeID, revokedUser); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("revoked grant should be invisible, got %v", err)
	}

	expiredUser := uuid.New()
	past := time.Now().UTC().Add(-time.Hour)
	insertGrant(t, db, storeID, expiredUser, enums.AccessLevelView, &past, false)
	if _, err := repo.FindActiveGrant(ctx, storeID, expiredUser); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expired grant should be invisible, got %v", err)
	}

	liveUser := uuid.New()
	future := time.Now().UTC().Add(time.Hour)
	insertGrant(t, db, storeID, liveUser, enums.AccessLevelViewAndBuy, &future, false)
	got, err := repo.FindActiveGrant(ctx, storeID, liveUser)
	if err != nil {
		t.Fatalf("live bounded grant should be found: %v", err)
	}
	if got.AccessLevel != enums.AccessLevelViewAndBuy {
		t.Fatalf("unexpected access level %s", got.AccessLevel)
	}

	openUser := uuid.New()
	insertGrant(t, db, storeID, openUser, enums.AccessLevelView, nil, false)
	if _, err := repo.FindActiveGrant(ctx, storeID, openUser); err != nil {
		t.Fatalf("unbounded grant should be found: %v", err)
	}
}

func TestRevokeStampsFlagAndKeepsRow(t *testing.T) {
	db := setupGrantsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	storeID := uuid.New()
	userID := uuid.New()

	insertGrant(t, db, storeID, userID, enums.AccessLevelView, nil, false)

	got, err := repo.Revoke(ctx, storeID, userID)
	if err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if !got.IsRevoked || got.RevokedAt == nil {
		t.Fatalf("expected revoked grant with timestamp, got %+v", got)
	}

	var count int64
	if err := db.Model(&models.StoreAccessGrant{}).Where("store_id = ?", storeID).Count(&count).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 1 {
		t.Fatalf("revocation must not delete the row, found %d", count)
	}

	if _, err := repo.Revoke(ctx, storeID, userID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("second revoke should find nothing, got %v", err)
	}
}
