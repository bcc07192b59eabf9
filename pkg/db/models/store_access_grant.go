package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/markethub-backend/pkg/enums"
)

// StoreAccessGrant is a time-boundable (store, user) capability independent
// of membership. Revocation flips flags instead of deleting the row so the
// audit trail survives.
type StoreAccessGrant struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID     uuid.UUID         `gorm:"column:store_id;type:uuid;not null;index"`
	UserID      uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	GrantedBy   uuid.UUID         `gorm:"column:granted_by;type:uuid;not null"`
	AccessLevel enums.AccessLevel `gorm:"column:access_level;type:access_level;not null"`
	GrantedAt   time.Time         `gorm:"column:granted_at;autoCreateTime"`
	ExpiresAt   *time.Time        `gorm:"column:expires_at"`
	IsRevoked   bool              `gorm:"column:is_revoked;not null;default:false"`
	RevokedAt   *time.Time        `gorm:"column:revoked_at"`
}
