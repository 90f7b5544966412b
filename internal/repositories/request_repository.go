package repositories

import (
	"context"
	"strings"

	"github.com/anonto42/neighborly/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestRepository defines the interface for help request operations
type RequestRepository interface {
	CreateRequest(ctx context.Context, req *models.Request) error
	GetRequestByID(ctx context.Context, id uuid.UUID) (*models.Request, error)
	GetOpenRequests(ctx context.Context, filter models.RequestFilter) ([]models.Request, int64, error)
	GetRequestsByRequester(ctx context.Context, requesterID uuid.UUID, limit int) ([]models.Request, error)
	GetOpenRequestsBySkills(ctx context.Context, skills []string, excludeRequesterID uuid.UUID, limit int) ([]models.Request, error)
	GetRecentOpenSkills(ctx context.Context, limit int) ([]string, error)
	UpdateRequestStatus(ctx context.Context, id uuid.UUID, status models.RequestStatus) error
	CountRequests(ctx context.Context) (int64, error)
}

type postgresRequestRepository struct {
	db *gorm.DB
}

func NewPostgresRequestRepository(db *gorm.DB) RequestRepository {
	return &postgresRequestRepository{db: db}
}

func (r *postgresRequestRepository) CreateRequest(ctx context.Context, req *models.Request) error {
	return r.db.WithContext(ctx).Omit("Requester").Create(req).Error
}

func (r *postgresRequestRepository) GetRequestByID(ctx context.Context, id uuid.UUID) (*models.Request, error) {
	var req models.Request
	if err := r.db.WithContext(ctx).Preload("Requester").Where("id = ?", id).First(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// GetOpenRequests lists open requests newest first. Skill and Search are
// case-insensitive substring matches; Urgency is exact.
func (r *postgresRequestRepository) GetOpenRequests(ctx context.Context, filter models.RequestFilter) ([]models.Request, int64, error) {
	var requests []models.Request
	var total int64

	filtered := func(db *gorm.DB) *gorm.DB {
		db = db.Where("status = ?", models.RequestOpen)
		if filter.Skill != "" {
			db = db.Where("LOWER(skill_needed) LIKE ? ESCAPE '\\'", likePattern(filter.Skill))
		}
		if filter.Urgency != "" {
			db = db.Where("urgency = ?", filter.Urgency)
		}
		if filter.Search != "" {
			p := likePattern(filter.Search)
			db = db.Where("LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(description) LIKE ? ESCAPE '\\'", p, p)
		}
		return db
	}

	if err := r.db.WithContext(ctx).Model(&models.Request{}).Scopes(filtered).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := r.db.WithContext(ctx).Scopes(filtered).
		Preload("Requester").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&requests).Error

	return requests, total, err
}

func (r *postgresRequestRepository) GetRequestsByRequester(ctx context.Context, requesterID uuid.UUID, limit int) ([]models.Request, error) {
	var requests []models.Request
	err := r.db.WithContext(ctx).
		Where("requester_id = ?", requesterID).
		Order("created_at DESC").
		Limit(limit).
		Find(&requests).Error
	return requests, err
}

func (r *postgresRequestRepository) GetOpenRequestsBySkills(ctx context.Context, skills []string, excludeRequesterID uuid.UUID, limit int) ([]models.Request, error) {
	var requests []models.Request
	if len(skills) == 0 {
		return requests, nil
	}
	err := r.db.WithContext(ctx).
		Preload("Requester").
		Where("status = ? AND skill_needed IN ? AND requester_id <> ?", models.RequestOpen, skills, excludeRequesterID).
		Order("created_at DESC").
		Limit(limit).
		Find(&requests).Error
	return requests, err
}

// GetRecentOpenSkills returns skill_needed of the newest open requests, newest first
func (r *postgresRequestRepository) GetRecentOpenSkills(ctx context.Context, limit int) ([]string, error) {
	var skills []string
	err := r.db.WithContext(ctx).
		Model(&models.Request{}).
		Where("status = ?", models.RequestOpen).
		Order("created_at DESC").
		Limit(limit).
		Pluck("skill_needed", &skills).Error
	return skills, err
}

func (r *postgresRequestRepository) UpdateRequestStatus(ctx context.Context, id uuid.UUID, status models.RequestStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Request{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *postgresRequestRepository) CountRequests(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Request{}).Count(&count).Error
	return count, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds a substring pattern in which the user's % and _ match literally
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
