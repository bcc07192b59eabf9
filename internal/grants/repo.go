package grants

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/markethub-backend/pkg/db/models"
	"github.com/angelmondragon/markethub-backend/pkg/enums"
)

// Repository exposes access grant persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Grant inserts a new access grant row.
func (r *Repository) Grant(ctx context.Context, storeID, userID, grantedBy uuid.UUID, level enums.AccessLevel, expiresAt *time.Time) (*models.StoreAccessGrant, error) {
	if !level.IsValid() {
		return nil, fmt.Errorf("invalid access level %q", level)
	}

	grant := &models.StoreAccessGrant{
		ID:          uuid.New(),
		StoreID:     storeID,
		UserID:      userID,
		GrantedBy:   grantedBy,
		AccessLevel: level,
		ExpiresAt:   expiresAt,
	}
	if err := r.db.WithContext(ctx).Create(grant).Error; err != nil {
		return nil, err
	}
	return grant, nil
}

// FindActiveGrant returns the live grant for (store, user): not revoked and
// either never expiring or expiring in the future. Revoked and expired rows
// are filtered here so callers can treat them as absent.
func (r *Repository) FindActiveGrant(ctx context.Context, storeID, userID uuid.UUID) (*models.StoreAccessGrant, error) {
	var grant models.StoreAccessGrant
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND user_id = ? AND is_revoked = ?", storeID, userID, false).
		Where("expires_at IS NULL OR expires_at > ?", time.Now().UTC()).
		First(&grant).Error
	if err != nil {
		return nil, err
	}
	return &grant, nil
}

// Revoke flips the active grant's revocation flag and stamps the time. The
// row is kept as the audit trail. Returns gorm.ErrRecordNotFound when no
// unrevoked grant exists.
func (r *Repository) Revoke(ctx context.Context, storeID, userID uuid.UUID) (*models.StoreAccessGrant, error) {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).
		Model(&models.StoreAccessGrant{}).
		Where("store_id = ? AND user_id = ? AND is_revoked = ?", storeID, userID, false).
		Updates(map[string]any{
			"is_revoked": true,
			"revoked_at": now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var grant models.StoreAccessGrant
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND user_id = ? AND is_revoked = ?", storeID, userID, true).
		Order("revoked_at DESC").
		First(&grant).Error
	if err != nil {
		return nil, err
	}
	return &grant, nil
}
