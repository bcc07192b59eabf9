package members

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/markethub-backend/pkg/db/models"
	"github.com/angelmondragon/markethub-backend/pkg/enums"
	"github.com/angelmondragon/markethub-backend/pkg/permissions"
)

// MemberDTO is the transport shape for a store membership.
type MemberDTO struct {
	ID          uuid.UUID        `json:"id"`
	StoreID     uuid.UUID        `json:"store_id"`
	UserID      uuid.UUID        `json:"user_id"`
	Role        enums.MemberRole `json:"role"`
	Permissions []string         `json:"permissions"`
	InvitedBy   *uuid.UUID       `json:"invited_by,omitempty"`
	IsActive    bool             `json:"is_active"`
	JoinedAt    time.Time        `json:"joined_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// MemberWithUser mixes membership metadata with the associated user profile.
type MemberWithUser struct {
	MemberDTO
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// ToDTO converts a model to the external DTO. The stored permission strings
// are normalized through the canonical set so unknown entries never leak out.
func ToDTO(m *models.StoreMember) *MemberDTO {
	if m == nil {
		return nil
	}

	set, _ := permissions.ParseSet([]string(m.Permissions))
	return &MemberDTO{
		ID:          m.ID,
		StoreID:     m.StoreID,
		UserID:      m.UserID,
		Role:        m.Role,
		Permissions: set.Strings(),
		InvitedBy:   copyUUIDPointer(m.InvitedBy),
		IsActive:    m.IsActive,
		JoinedAt:    m.JoinedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func copyUUIDPointer(src *uuid.UUID) *uuid.UUID {
	if src == nil {
		return nil
	}
	dst := *src
	return &dst
}
