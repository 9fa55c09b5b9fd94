package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Intensity levels for medical conditions.
const (
	IntensityMild     = "mild"
	IntensityModerate = "moderate"
	IntensitySevere   = "severe"
)

// Age bounds accepted for a user profile.
const (
	MinAge = 13
	MaxAge = 120
)

// BMI category bands.
const (
	BMIUnderweight = "underweight"
	BMINormal      = "normal"
	BMIOverweight  = "overweight"
	BMIObese       = "obese"
)

// MedicalCondition is a single condition attached to a user profile.
type MedicalCondition struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProfileID uuid.UUID      `gorm:"type:uuid;not null;index" json:"profile_id"`
	Condition string         `gorm:"size:100;not null" json:"condition"`
	Intensity string         `gorm:"size:20;not null" json:"intensity"`
	Position  int            `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (MedicalCondition) TableName() string {
	return "medical_conditions"
}

// BeforeCreate assigns an id for databases without gen_random_uuid.
func (m *MedicalCondition) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// ValidIntensity reports whether s is one of the accepted intensity levels.
func ValidIntensity(s string) bool {
	switch s {
	case IntensityMild, IntensityModerate, IntensitySevere:
		return true
	}
	return false
}

// UserProfile holds everything the recommender needs about a user.
// BMI and its category are derived from height and weight, never stored.
type UserProfile struct {
	ID                uuid.UUID          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID            string             `gorm:"size:64;not null;uniqueIndex" json:"user_id"`
	Name              string             `gorm:"size:255;not null" json:"name"`
	Age               int                `gorm:"not null" json:"age"`
	HeightCM          float64            `gorm:"not null" json:"height_cm"`
	WeightKG          float64            `gorm:"not null" json:"weight_kg"`
	MedicalConditions []MedicalCondition `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"medical_conditions"`
	PrimaryCuisine    string             `gorm:"size:100;not null" json:"primary_cuisine"`
	SecondaryCuisine  string             `gorm:"size:100" json:"secondary_cuisine,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
	DeletedAt         gorm.DeletedAt     `gorm:"index" json:"-"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}

// BeforeCreate assigns an id for databases without gen_random_uuid.
func (p *UserProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// BMI returns weight_kg / (height_cm/100)^2, or 0 when height is unset.
func (p *UserProfile) BMI() float64 {
	if p.HeightCM <= 0 {
		return 0
	}
	m := p.HeightCM / 100
	return p.WeightKG / (m * m)
}

// BMICategory buckets the derived BMI into the standard bands.
func (p *UserProfile) BMICategory() string {
	bmi := p.BMI()
	switch {
	case bmi <= 0:
		return ""
	case bmi < 18.5:
		return BMIUnderweight
	case bmi < 25:
		return BMINormal
	case bmi < 30:
		return BMIOverweight
	default:
		return BMIObese
	}
}

// HasCondition reports whether the profile lists the given condition.
func (p *UserProfile) HasCondition(condition string) bool {
	for _, mc := range p.MedicalConditions {
		if strings.EqualFold(mc.Condition, condition) {
			return true
		}
	}
	return false
}

// Validate checks every required field of the profile. A profile is
// complete iff Validate returns nil; completeness is re-evaluated on
// every call, never cached.
func (p *UserProfile) Validate() error {
	if strings.TrimSpace(p.UserID) == "" {
		return fmt.Errorf("user_id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if p.Age < MinAge || p.Age > MaxAge {
		return fmt.Errorf("age must be between %d and %d, got %d", MinAge, MaxAge, p.Age)
	}
	if p.HeightCM <= 0 {
		return fmt.Errorf("height must be positive, got %.1f", p.HeightCM)
	}
	if p.WeightKG <= 0 {
		return fmt.Errorf("weight must be positive, got %.1f", p.WeightKG)
	}
	if strings.TrimSpace(p.PrimaryCuisine) == "" {
		return fmt.Errorf("primary cuisine is required")
	}
	for i, mc := range p.MedicalConditions {
		if strings.TrimSpace(mc.Condition) == "" {
			return fmt.Errorf("medical condition %d has no name", i)
		}
		if !ValidIntensity(mc.Intensity) {
			return fmt.Errorf("medical condition %q has invalid intensity %q", mc.Condition, mc.Intensity)
		}
	}
	return nil
}

// IsComplete reports whether every required field is present and valid.
func (p *UserProfile) IsComplete() bool {
	return p.Validate() == nil
}
