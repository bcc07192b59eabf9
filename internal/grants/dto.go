package grants

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/markethub-backend/pkg/db/models"
	"github.com/angelmondragon/markethub-backend/pkg/enums"
)

// GrantDTO is the transport shape for a store access grant.
type GrantDTO struct {
	ID          uuid.UUID         `json:"id"`
	StoreID     uuid.UUID         `json:"store_id"`
	UserID      uuid.UUID         `json:"user_id"`
	GrantedBy   uuid.UUID         `json:"granted_by"`
	AccessLevel enums.AccessLevel `json:"access_level"`
	GrantedAt   time.Time         `json:"granted_at"`
	ExpiresAt   *time.Time        `json:"expires_at,omitempty"`
	IsRevoked   bool              `json:"is_revoked"`
	RevokedAt   *time.Time        `json:"revoked_at,omitempty"`
}

// ToDTO converts a model to the external DTO.
func ToDTO(g *models.StoreAccessGrant) *GrantDTO {
	if g == nil {
		return nil
	}
	return &GrantDTO{
		ID:          g.ID,
		StoreID:     g.StoreID,
		UserID:      g.UserID,
		GrantedBy:   g.GrantedBy,
		AccessLevel: g.AccessLevel,
		GrantedAt:   g.GrantedAt,
		ExpiresAt:   g.ExpiresAt,
		IsRevoked:   g.IsRevoked,
		RevokedAt:   g.RevokedAt,
	}
}
