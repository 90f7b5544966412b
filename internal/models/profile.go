package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile is the public face of a marketplace member. Rating and
// TotalReviews are derived from the reviews a member has received and are
// only ever written by the review transaction.
type Profile struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Email        string    `json:"-" gorm:"size:255;uniqueIndex"`
	DisplayName  string    `json:"display_name" gorm:"size:100"`
	Bio          *string   `json:"bio,omitempty"`
	Location     *string   `json:"location,omitempty" gorm:"size:255"`
	Phone        *string   `json:"-" gorm:"size:50"`
	AvatarURL    *string   `json:"avatar_url,omitempty"`
	IsAvailable  bool      `json:"is_available" gorm:"default:true"`
	Rating       float64   `json:"rating" gorm:"default:0"`
	TotalReviews int       `json:"total_reviews" gorm:"default:0"`
	CreatedAt    time.Time `json:"created_at" gorm:"index"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// OwnProfile is a profile as its owner sees it. Email and phone are never
// shown to other members.
type OwnProfile struct {
	*Profile
	Email string  `json:"email"`
	Phone *string `json:"phone,omitempty"`
}

func (p *Profile) Own() OwnProfile {
	return OwnProfile{Profile: p, Email: p.Email, Phone: p.Phone}
}

// ProfileCompact is the subset of a profile embedded in other responses
type ProfileCompact struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	Location    *string   `json:"location,omitempty"`
	Rating      float64   `json:"rating"`
}

func (p *Profile) ToCompact() ProfileCompact {
	return ProfileCompact{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		AvatarURL:   p.AvatarURL,
		Location:    p.Location,
		Rating:      p.Rating,
	}
}

type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty" validate:"omitempty,min=2,max=100"`
	Bio         *string `json:"bio,omitempty" validate:"omitempty,max=1000"`
	Location    *string `json:"location,omitempty" validate:"omitempty,max=255"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	AvatarURL   *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
	IsAvailable *bool   `json:"is_available,omitempty"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	jwt.RegisteredClaims
}
