package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/pageza/mealmind/backend/internal/models"
	"gorm.io/gorm"
)

// ErrProfileNotFound is returned when no profile exists for a user id.
var ErrProfileNotFound = errors.New("profile not found")

// ProfileService is the profile store client, keyed by the stable
// external user id with last-write-wins semantics.
type ProfileService struct {
	db *gorm.DB
}

// Ensure ProfileService implements IProfileService
var _ IProfileService = (*ProfileService)(nil)

// NewProfileService creates a new ProfileService instance
func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// GetProfile retrieves a user's profile with its medical conditions in
// collection order.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := s.db.WithContext(ctx).
		Preload("MedicalConditions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile for %s: %w", userID, err)
	}
	return &profile, nil
}

// SaveProfile validates and upserts a profile by user id, replacing any
// previously stored medical conditions.
func (s *ProfileService) SaveProfile(ctx context.Context, profile *models.UserProfile) error {
	if err := profile.Validate(); err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}

	for i := range profile.MedicalConditions {
		profile.MedicalConditions[i].Position = i
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.UserProfile
		err := tx.Where("user_id = ?", profile.UserID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(profile).Error; err != nil {
				return fmt.Errorf("failed to create profile: %w", err)
			}
			return nil
		case err != nil:
			return fmt.Errorf("failed to look up profile: %w", err)
		}

		profile.ID = existing.ID
		profile.CreatedAt = existing.CreatedAt
		for i := range profile.MedicalConditions {
			profile.MedicalConditions[i].ProfileID = existing.ID
		}

		if err := tx.Where("profile_id = ?", existing.ID).Delete(&models.MedicalCondition{}).Error; err != nil {
			return fmt.Errorf("failed to clear old conditions: %w", err)
		}
		if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(profile).Error; err != nil {
			return fmt.Errorf("failed to update profile: %w", err)
		}
		return nil
	})
}
