package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/anonto42/neighborly/backend/internal/models"
	"github.com/anonto42/neighborly/backend/internal/repositories"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileService struct {
	profiles repositories.ProfileRepository
	logger   *slog.Logger
}

func NewProfileService(profiles repositories.ProfileRepository, logger *slog.Logger) *ProfileService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileService{profiles: profiles, logger: logger}
}

// Ensure returns the profile for an identity, creating it on first sign in.
// An existing profile is matched by email.
func (s *ProfileService) Ensure(ctx context.Context, email, displayName string) (*models.Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, validationf("email is required")
	}

	p, err := s.profiles.GetProfileByEmail(ctx, email)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storeErr("profile", err)
	}

	if displayName == "" {
		displayName = strings.SplitN(email, "@", 2)[0]
	}
	p = &models.Profile{
		Email:       email,
		DisplayName: displayName,
		IsAvailable: true,
	}
	if err := s.profiles.CreateProfile(ctx, p); err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, storeErr("profile", err)
		}
		// a concurrent first sign in created it
		existing, err := s.profiles.GetProfileByEmail(ctx, email)
		if err != nil {
			return nil, storeErr("profile", err)
		}
		return existing, nil
	}
	s.logger.Info("profile created", slog.String("profile_id", p.ID.String()))
	return p, nil
}

func (s *ProfileService) Get(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	p, err := s.profiles.GetProfileByID(ctx, id)
	if err != nil {
		return nil, storeErr("profile", err)
	}
	return p, nil
}

// Update applies the editable fields of the caller's profile. Rating and
// review totals are not editable here.
func (s *ProfileService) Update(ctx context.Context, sess Session, in models.UpdateProfileRequest) (*models.Profile, error) {
	fields := map[string]interface{}{}
	if in.DisplayName != nil {
		name := strings.TrimSpace(*in.DisplayName)
		if name == "" {
			return nil, validationf("display_name must not be empty")
		}
		fields["display_name"] = name
	}
	if in.Bio != nil {
		fields["bio"] = *in.Bio
	}
	if in.Location != nil {
		fields["location"] = *in.Location
	}
	if in.Phone != nil {
		fields["phone"] = *in.Phone
	}
	if in.AvatarURL != nil {
		fields["avatar_url"] = *in.AvatarURL
	}
	if in.IsAvailable != nil {
		fields["is_available"] = *in.IsAvailable
	}
	if len(fields) == 0 {
		return s.Get(ctx, sess.UserID)
	}

	if err := s.profiles.UpdateProfileFields(ctx, sess.UserID, fields); err != nil {
		return nil, storeErr("profile", err)
	}
	return s.Get(ctx, sess.UserID)
}
