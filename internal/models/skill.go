package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Skill is reference data seeded at startup
type Skill struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name     string    `json:"name" gorm:"size:100;uniqueIndex"`
	Category string    `json:"category" gorm:"size:100;index"`
}

func (s *Skill) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceAdvanced     ExperienceLevel = "advanced"
	ExperienceExpert       ExperienceLevel = "expert"
)

// UserSkill links a profile to a skill it offers
type UserSkill struct {
	ID              uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID       `json:"user_id" gorm:"type:uuid;uniqueIndex:idx_user_skill"`
	SkillID         uuid.UUID       `json:"skill_id" gorm:"type:uuid;uniqueIndex:idx_user_skill"`
	Skill           Skill           `json:"skill" gorm:"foreignKey:SkillID"`
	ExperienceLevel ExperienceLevel `json:"experience_level" gorm:"size:20;default:'intermediate'"`
	HourlyRate      *float64        `json:"hourly_rate,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

func (us *UserSkill) BeforeCreate(tx *gorm.DB) error {
	if us.ID == uuid.Nil {
		us.ID = uuid.New()
	}
	return nil
}

type AddUserSkillRequest struct {
	SkillID         uuid.UUID `json:"skill_id" validate:"required"`
	ExperienceLevel string    `json:"experience_level" validate:"omitempty,oneof=beginner intermediate advanced expert"`
	HourlyRate      *float64  `json:"hourly_rate,omitempty" validate:"omitempty,gte=0"`
}
