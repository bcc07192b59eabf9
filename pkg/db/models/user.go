package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/markethub-backend/pkg/types"
)

// User is the canonical account record.
type User struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email         string            `gorm:"column:email;not null;uniqueIndex"`
	PasswordHash  string            `gorm:"column:password_hash;not null"`
	FullName      string            `gorm:"column:full_name;not null"`
	Phone         *string           `gorm:"column:phone"`
	Address       *types.JSONObject `gorm:"column:address;type:jsonb"`
	LoyaltyPoints int               `gorm:"column:loyalty_points;not null;default:0"`
	IsActive      bool              `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
