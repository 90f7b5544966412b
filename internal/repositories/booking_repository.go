package repositories

import (
	"context"
	"time"

	"github.com/anonto42/neighborly/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookingRepository defines the interface for booking data operations
type BookingRepository interface {
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBookingByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	GetBookingWithDetails(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	GetBookingByRequestAndHelper(ctx context.Context, requestID, helperID uuid.UUID) (*models.Booking, error)
	GetBookingsByHelper(ctx context.Context, helperID uuid.UUID) ([]models.Booking, error)
	GetBookingsByRequester(ctx context.Context, requesterID uuid.UUID) ([]models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id uuid.UUID, from, to models.BookingStatus, scheduledDate *time.Time) (bool, error)
	CountBookingsByStatus(ctx context.Context, status models.BookingStatus) (int64, error)
}

// PostgresBookingRepository implements BookingRepository for PostgreSQL
type PostgresBookingRepository struct {
	db *gorm.DB
}

// NewPostgresBookingRepository creates a new PostgresBookingRepository
func NewPostgresBookingRepository(db *gorm.DB) *PostgresBookingRepository {
	return &PostgresBookingRepository{db: db}
}

// CreateBooking inserts a booking without touching its associations
func (r *PostgresBookingRepository) CreateBooking(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Omit("Request", "Helper", "Requester").Create(booking).Error
}

// GetBookingByID retrieves a bare booking row
func (r *PostgresBookingRepository) GetBookingByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// GetBookingWithDetails retrieves a booking with its request and both participants
func (r *PostgresBookingRepository) GetBookingWithDetails(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Preload("Request").
		Preload("Helper").
		Preload("Requester").
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *PostgresBookingRepository) GetBookingByRequestAndHelper(ctx context.Context, requestID, helperID uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).Where("request_id = ? AND helper_id = ?", requestID, helperID).First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// GetBookingsByHelper lists the applications a member has made
func (r *PostgresBookingRepository) GetBookingsByHelper(ctx context.Context, helperID uuid.UUID) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Preload("Request").
		Preload("Requester").
		Where("helper_id = ?", helperID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

// GetBookingsByRequester lists applications received on a member's requests
func (r *PostgresBookingRepository) GetBookingsByRequester(ctx context.Context, requesterID uuid.UUID) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Preload("Request").
		Preload("Helper").
		Where("requester_id = ?", requesterID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

// UpdateBookingStatus moves a booking from one status to another only if it
// is still in the expected status. It reports whether the row was updated.
func (r *PostgresBookingRepository) UpdateBookingStatus(ctx context.Context, id uuid.UUID, from, to models.BookingStatus, scheduledDate *time.Time) (bool, error) {
	fields := map[string]interface{}{
		"status":     to,
		"updated_at": time.Now(),
	}
	if scheduledDate != nil {
		fields["scheduled_date"] = *scheduledDate
	}

	result := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Updates(fields)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *PostgresBookingRepository) CountBookingsByStatus(ctx context.Context, status models.BookingStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Booking{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
