package repositories

import (
	"context"

	"github.com/anonto42/neighborly/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProfileRepository defines the interface for profile data operations
type ProfileRepository interface {
	CreateProfile(ctx context.Context, profile *models.Profile) error
	GetProfileByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error)
	UpdateProfileFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	GetRecentProfiles(ctx context.Context, excludeID uuid.UUID, limit int) ([]models.Profile, error)
	CountProfiles(ctx context.Context) (int64, error)
}

// PostgresProfileRepository implements ProfileRepository for PostgreSQL
type PostgresProfileRepository struct {
	db *gorm.DB
}

// NewPostgresProfileRepository creates a new PostgresProfileRepository
func NewPostgresProfileRepository(db *gorm.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func (r *PostgresProfileRepository) CreateProfile(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *PostgresProfileRepository) GetProfileByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *PostgresProfileRepository) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfileFields applies a partial update. The caller decides which
// columns are writable.
func (r *PostgresProfileRepository) UpdateProfileFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Profile{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PostgresProfileRepository) GetRecentProfiles(ctx context.Context, excludeID uuid.UUID, limit int) ([]models.Profile, error) {
	var profiles []models.Profile
	err := r.db.WithContext(ctx).
		Where("id <> ?", excludeID).
		Order("created_at DESC").
		Limit(limit).
		Find(&profiles).Error
	return profiles, err
}

func (r *PostgresProfileRepository) CountProfiles(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Profile{}).Count(&count).Error
	return count, err
}
