package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/anonto42/neighborly/backend/internal/models"
	"github.com/anonto42/neighborly/backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.Profile{},
		&models.Skill{},
		&models.UserSkill{},
		&models.Request{},
		&models.Booking{},
		&models.Review{},
		&models.Notification{},
	))
	return db
}

// memEvents is an in-memory BookingEventRepository
type memEvents struct {
	mu     sync.Mutex
	events []models.BookingEvent
}

func (m *memEvents) RecordEvent(ctx context.Context, event *models.BookingEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	event.OccurredAt = time.Now()
	m.events = append(m.events, *event)
	return nil
}

func (m *memEvents) GetEventsByBookingID(ctx context.Context, bookingID string) ([]models.BookingEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.BookingEvent{}
	for _, e := range m.events {
		if e.BookingID == bookingID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fixture struct {
	db            *gorm.DB
	profiles      repositories.ProfileRepository
	skills        repositories.SkillRepository
	requests      repositories.RequestRepository
	bookings      repositories.BookingRepository
	reviews       repositories.ReviewRepository
	notifications repositories.NotificationRepository
	events        *memEvents

	notifier  *NotificationService
	bookingS  *BookingService
	reviewS   *ReviewService
	discovery *DiscoveryService
	requestS  *RequestService
	profileS  *ProfileService
	skillS    *SkillService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	f := &fixture{
		db:            db,
		profiles:      repositories.NewPostgresProfileRepository(db),
		skills:        repositories.NewPostgresSkillRepository(db),
		requests:      repositories.NewPostgresRequestRepository(db),
		bookings:      repositories.NewPostgresBookingRepository(db),
		reviews:       repositories.NewPostgresReviewRepository(db),
		notifications: repositories.NewPostgresNotificationRepository(db),
		events:        &memEvents{},
	}
	f.notifier = NewNotificationService(f.notifications, nil)
	f.bookingS = NewBookingService(f.requests, f.bookings, f.profiles, f.reviews, f.events, f.notifier, nil)
	f.reviewS = NewReviewService(f.bookings, f.reviews, nil)
	f.discovery = NewDiscoveryService(f.requests, f.skills, f.profiles, DefaultDiscoveryConfig())
	f.requestS = NewRequestService(f.requests, f.bookings, f.profiles, nil)
	f.profileS = NewProfileService(f.profiles, nil)
	f.skillS = NewSkillService(f.skills)
	return f
}

func (f *fixture) member(t *testing.T, name string) Session {
	t.Helper()
	p := &models.Profile{
		Email:       uuid.NewString() + "@example.com",
		DisplayName: name,
		IsAvailable: true,
	}
	require.NoError(t, f.profiles.CreateProfile(context.Background(), p))
	return Session{UserID: p.ID, Email: p.Email}
}

func (f *fixture) openRequest(t *testing.T, owner Session, skill string, createdAt time.Time) *models.Request {
	t.Helper()
	r := &models.Request{
		RequesterID: owner.UserID,
		Title:       "Need help with " + skill,
		Description: "details",
		SkillNeeded: skill,
		Urgency:     models.UrgencyMedium,
		Status:      models.RequestOpen,
		CreatedAt:   createdAt,
	}
	require.NoError(t, f.requests.CreateRequest(context.Background(), r))
	return r
}

func (f *fixture) setBookingStatus(t *testing.T, id uuid.UUID, status models.BookingStatus) {
	t.Helper()
	require.NoError(t, f.db.Model(&models.Booking{}).Where("id = ?", id).Update("status", status).Error)
}

// completedBooking creates a booking between requester and helper already in completed status
func (f *fixture) completedBooking(t *testing.T, requester, helper Session) *models.Booking {
	t.Helper()
	req := f.openRequest(t, requester, "Plumbing", time.Now())
	b, err := f.bookingS.Apply(context.Background(), helper, req.ID, models.ApplyRequest{})
	require.NoError(t, err)
	f.setBookingStatus(t, b.ID, models.BookingCompleted)
	return b
}

func ptr[T any](v T) *T { return &v }
