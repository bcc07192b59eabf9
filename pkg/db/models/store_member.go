package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/angelmondragon/markethub-backend/pkg/enums"
)

// StoreMember links a user with a store and captures their role plus an
// explicit permission override set. Authorization only considers rows with
// IsActive = true.
type StoreMember struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID     uuid.UUID        `gorm:"column:store_id;type:uuid;not null;uniqueIndex:idx_store_members_store_user"`
	UserID      uuid.UUID        `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_store_members_store_user"`
	Role        enums.MemberRole `gorm:"column:role;type:member_role;not null"`
	Permissions pq.StringArray   `gorm:"column:permissions;type:text[];not null"`
	InvitedBy   *uuid.UUID       `gorm:"column:invited_by;type:uuid"`
	IsActive    bool             `gorm:"column:is_active;not null;default:true"`
	JoinedAt    time.Time        `gorm:"column:joined_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
