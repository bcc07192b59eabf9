package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/markethub-backend/pkg/enums"
)

// Store represents the canonical tenant model. Owner is set at creation and
// never reassigned through this core; visibility and status mutate
// independently of membership.
type Store struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID     uuid.UUID         `gorm:"column:owner_id;type:uuid;not null"`
	Name        string            `gorm:"column:name;not null"`
	Slug        string            `gorm:"column:slug;not null;uniqueIndex"`
	Description *string           `gorm:"column:description"`
	LogoURL     *string           `gorm:"column:logo_url"`
	IsPrivate   bool              `gorm:"column:is_private;not null;default:false"`
	Status      enums.StoreStatus `gorm:"column:status;type:store_status;not null;default:'active'"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
