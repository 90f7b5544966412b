package repositories

import (
	"context"

	"github.com/anonto42/neighborly/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SkillRepository covers the skill catalogue and the skills members offer
type SkillRepository interface {
	GetSkills(ctx context.Context) ([]models.Skill, error)
	GetSkillByID(ctx context.Context, id uuid.UUID) (*models.Skill, error)
	SeedSkills(ctx context.Context, skills []models.Skill) error
	GetUserSkills(ctx context.Context, userID uuid.UUID) ([]models.UserSkill, error)
	GetUserSkillByID(ctx context.Context, id uuid.UUID) (*models.UserSkill, error)
	GetUserSkillBySkill(ctx context.Context, userID, skillID uuid.UUID) (*models.UserSkill, error)
	GetUserSkillNames(ctx context.Context, userID uuid.UUID) ([]string, error)
	AddUserSkill(ctx context.Context, us *models.UserSkill) error
	DeleteUserSkill(ctx context.Context, id uuid.UUID) error
}

type postgresSkillRepository struct {
	db *gorm.DB
}

func NewPostgresSkillRepository(db *gorm.DB) SkillRepository {
	return &postgresSkillRepository{db: db}
}

func (r *postgresSkillRepository) GetSkills(ctx context.Context) ([]models.Skill, error) {
	var skills []models.Skill
	err := r.db.WithContext(ctx).Order("category ASC").Order("name ASC").Find(&skills).Error
	return skills, err
}

func (r *postgresSkillRepository) GetSkillByID(ctx context.Context, id uuid.UUID) (*models.Skill, error) {
	var skill models.Skill
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&skill).Error; err != nil {
		return nil, err
	}
	return &skill, nil
}

// SeedSkills inserts the catalogue, skipping names that already exist
func (r *postgresSkillRepository) SeedSkills(ctx context.Context, skills []models.Skill) error {
	if len(skills) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&skills).Error
}

func (r *postgresSkillRepository) GetUserSkills(ctx context.Context, userID uuid.UUID) ([]models.UserSkill, error) {
	var userSkills []models.UserSkill
	err := r.db.WithContext(ctx).
		Preload("Skill").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&userSkills).Error
	return userSkills, err
}

func (r *postgresSkillRepository) GetUserSkillByID(ctx context.Context, id uuid.UUID) (*models.UserSkill, error) {
	var us models.UserSkill
	if err := r.db.WithContext(ctx).Preload("Skill").Where("id = ?", id).First(&us).Error; err != nil {
		return nil, err
	}
	return &us, nil
}

func (r *postgresSkillRepository) GetUserSkillBySkill(ctx context.Context, userID, skillID uuid.UUID) (*models.UserSkill, error) {
	var us models.UserSkill
	if err := r.db.WithContext(ctx).Where("user_id = ? AND skill_id = ?", userID, skillID).First(&us).Error; err != nil {
		return nil, err
	}
	return &us, nil
}

// GetUserSkillNames returns the names of the skills a member offers
func (r *postgresSkillRepository) GetUserSkillNames(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Table("user_skills").
		Joins("JOIN skills ON skills.id = user_skills.skill_id").
		Where("user_skills.user_id = ?", userID).
		Pluck("skills.name", &names).Error
	return names, err
}

func (r *postgresSkillRepository) AddUserSkill(ctx context.Context, us *models.UserSkill) error {
	return r.db.WithContext(ctx).Omit("Skill").Create(us).Error
}

func (r *postgresSkillRepository) DeleteUserSkill(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.UserSkill{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
