package stores

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/markethub-backend/pkg/db/models"
	"github.com/angelmondragon/markethub-backend/pkg/enums"
)

// StoreDTO is the transport shape for a store.
type StoreDTO struct {
	ID          uuid.UUID         `json:"id"`
	OwnerID     uuid.UUID         `json:"owner_id"`
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	Description *string           `json:"description,omitempty"`
	LogoURL     *string           `json:"logo_url,omitempty"`
	IsPrivate   bool              `json:"is_private"`
	Status      enums.StoreStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// CreateStoreInput captures the payload for opening a store.
type CreateStoreInput struct {
	Name        string
	Slug        string
	Description *string
	LogoURL     *string
	IsPrivate   bool
}

// UpdateStoreInput captures the mutable store fields. Nil means unchanged.
type UpdateStoreInput struct {
	Name        *string
	Description *string
	LogoURL     *string
	IsPrivate   *bool
	Status      *enums.StoreStatus
}

// FromModel converts a model to the external DTO.
func FromModel(s *models.Store) *StoreDTO {
	if s == nil {
		return nil
	}
	return &StoreDTO{
		ID:          s.ID,
		OwnerID:     s.OwnerID,
		Name:        s.Name,
		Slug:        s.Slug,
		Description: s.Description,
		LogoURL:     s.LogoURL,
		IsPrivate:   s.IsPrivate,
		Status:      s.Status,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
