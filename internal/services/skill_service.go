package services

import (
	"context"
	"errors"

	"github.com/anonto42/neighborly/backend/internal/models"
	"github.com/anonto42/neighborly/backend/internal/repositories"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultSkills is the catalogue seeded on startup
var DefaultSkills = []models.Skill{
	{Name: "Plumbing", Category: "Home Repair"},
	{Name: "Electrical", Category: "Home Repair"},
	{Name: "Carpentry", Category: "Home Repair"},
	{Name: "Painting", Category: "Home Repair"},
	{Name: "Furniture Assembly", Category: "Home Repair"},
	{Name: "Gardening", Category: "Outdoor"},
	{Name: "Lawn Mowing", Category: "Outdoor"},
	{Name: "Snow Removal", Category: "Outdoor"},
	{Name: "House Cleaning", Category: "Household"},
	{Name: "Cooking", Category: "Household"},
	{Name: "Moving Help", Category: "Household"},
	{Name: "Pet Sitting", Category: "Care"},
	{Name: "Dog Walking", Category: "Care"},
	{Name: "Babysitting", Category: "Care"},
	{Name: "Elder Care", Category: "Care"},
	{Name: "Math Tutoring", Category: "Education"},
	{Name: "Language Tutoring", Category: "Education"},
	{Name: "Music Lessons", Category: "Education"},
	{Name: "Computer Help", Category: "Technology"},
	{Name: "Phone Setup", Category: "Technology"},
	{Name: "Web Design", Category: "Technology"},
	{Name: "Errands", Category: "Transportation"},
	{Name: "Rides", Category: "Transportation"},
}

type SkillService struct {
	skills repositories.SkillRepository
}

func NewSkillService(skills repositories.SkillRepository) *SkillService {
	return &SkillService{skills: skills}
}

// SeedDefaults inserts DefaultSkills, leaving existing names untouched
func (s *SkillService) SeedDefaults(ctx context.Context) error {
	catalogue := make([]models.Skill, len(DefaultSkills))
	copy(catalogue, DefaultSkills)
	return storeErr("skills", s.skills.SeedSkills(ctx, catalogue))
}

// List returns the catalogue ordered by category, then name
func (s *SkillService) List(ctx context.Context) ([]models.Skill, error) {
	skills, err := s.skills.GetSkills(ctx)
	if err != nil {
		return nil, storeErr("skills", err)
	}
	return skills, nil
}

// GroupByCategory buckets an ordered skill list by category, keeping order
func GroupByCategory(skills []models.Skill) map[string][]models.Skill {
	grouped := make(map[string][]models.Skill)
	for _, sk := range skills {
		grouped[sk.Category] = append(grouped[sk.Category], sk)
	}
	return grouped
}

func (s *SkillService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.UserSkill, error) {
	us, err := s.skills.GetUserSkills(ctx, userID)
	if err != nil {
		return nil, storeErr("user skills", err)
	}
	return us, nil
}

// Add records that the caller offers a skill
func (s *SkillService) Add(ctx context.Context, sess Session, in models.AddUserSkillRequest) (*models.UserSkill, error) {
	if in.HourlyRate != nil && *in.HourlyRate < 0 {
		return nil, validationf("hourly_rate must not be negative")
	}
	level := models.ExperienceIntermediate
	if in.ExperienceLevel != "" {
		level = models.ExperienceLevel(in.ExperienceLevel)
		switch level {
		case models.ExperienceBeginner, models.ExperienceIntermediate, models.ExperienceAdvanced, models.ExperienceExpert:
		default:
			return nil, validationf("unknown experience_level %q", in.ExperienceLevel)
		}
	}

	skill, err := s.skills.GetSkillByID(ctx, in.SkillID)
	if err != nil {
		return nil, storeErr("skill", err)
	}

	_, err = s.skills.GetUserSkillBySkill(ctx, sess.UserID, skill.ID)
	if err == nil {
		return nil, conflictf("skill %s already added", skill.Name)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storeErr("user skill", err)
	}

	us := &models.UserSkill{
		UserID:          sess.UserID,
		SkillID:         skill.ID,
		ExperienceLevel: level,
		HourlyRate:      in.HourlyRate,
	}
	if err := s.skills.AddUserSkill(ctx, us); err != nil {
		return nil, storeErr("user skill", err)
	}
	us.Skill = *skill
	return us, nil
}

// Remove deletes one of the caller's skills
func (s *SkillService) Remove(ctx context.Context, sess Session, userSkillID uuid.UUID) error {
	us, err := s.skills.GetUserSkillByID(ctx, userSkillID)
	if err != nil {
		return storeErr("user skill", err)
	}
	if us.UserID != sess.UserID {
		return forbiddenf("skill belongs to another user")
	}
	return storeErr("user skill", s.skills.DeleteUserSkill(ctx, userSkillID))
}
