package members

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/angelmondragon/markethub-backend/pkg/db/models"
	"github.com/angelmondragon/markethub-backend/pkg/enums"
	"github.com/angelmondragon/markethub-backend/pkg/permissions"
)

// Repository exposes store membership persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the supplied transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// AddMember persists a new membership record with an explicit permission set.
func (r *Repository) AddMember(ctx context.Context, storeID, userID uuid.UUID, role enums.MemberRole, perms permissions.Set, invitedBy *uuid.UUID) (*models.StoreMember, error) {
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid member role %q", role)
	}

	member := &models.StoreMember{
		ID:          uuid.New(),
		StoreID:     storeID,
		UserID:      userID,
		Role:        role,
		Permissions: pq.StringArray(perms.Strings()),
		InvitedBy:   invitedBy,
		IsActive:    true,
	}

	if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
		return nil, err
	}
	return member, nil
}

// FindActiveMembership retrieves the active membership for (store, user).
// Inactive rows are invisible to authorization.
func (r *Repository) FindActiveMembership(ctx context.Context, storeID, userID uuid.UUID) (*models.StoreMember, error) {
	var member models.StoreMember
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND user_id = ? AND is_active = ?", storeID, userID, true).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembers returns every membership row for the store, newest first.
func (r *Repository) ListMembers(ctx context.Context, storeID uuid.UUID) ([]models.StoreMember, error) {
	var rows []models.StoreMember
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("joined_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListMembersWithUsers returns memberships joined with user metadata.
func (r *Repository) ListMembersWithUsers(ctx context.Context, storeID uuid.UUID) ([]MemberWithUser, error) {
	var rows []struct {
		models.StoreMember
		Email    string
		FullName string
	}
	err := r.db.WithContext(ctx).
		Model(&models.StoreMember{}).
		Select("store_members.*, users.email, users.full_name").
		Joins("JOIN users ON users.id = store_members.user_id").
		Where("store_members.store_id = ?", storeID).
		Order("store_members.joined_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]MemberWithUser, 0, len(rows))
	for _, row := range rows {
		member := row.StoreMember
		out = append(out, MemberWithUser{
			MemberDTO: *ToDTO(&member),
			Email:     row.Email,
			FullName:  row.FullName,
		})
	}
	return out, nil
}

// UpdatePermissions replaces the member's explicit permission set.
func (r *Repository) UpdatePermissions(ctx context.Context, storeID, userID uuid.UUID, perms permissions.Set) (*models.StoreMember, error) {
	result := r.db.WithContext(ctx).
		Model(&models.StoreMember{}).
		Where("store_id = ? AND user_id = ?", storeID, userID).
		Updates(map[string]any{
			"permissions": pq.StringArray(perms.Strings()),
			"updated_at":  time.Now().UTC(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var member models.StoreMember
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND user_id = ?", storeID, userID).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// Deactivate flips a member's active flag off. The row stays for auditability.
func (r *Repository) Deactivate(ctx context.Context, storeID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.StoreMember{}).
		Where("store_id = ? AND user_id = ? AND is_active = ?", storeID, userID, true).
		Updates(map[string]any{
			"is_active":  false,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
