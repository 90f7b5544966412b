package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
	UrgencyUrgent Urgency = "urgent"
)

type RequestStatus string

const (
	RequestOpen      RequestStatus = "open"
	RequestClosed    RequestStatus = "closed"
	RequestCompleted RequestStatus = "completed"
)

// Request is a posted ask for help
type Request struct {
	ID          uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	RequesterID uuid.UUID     `json:"requester_id" gorm:"type:uuid;index"`
	Requester   *Profile      `json:"requester,omitempty" gorm:"foreignKey:RequesterID"`
	Title       string        `json:"title" gorm:"size:200"`
	Description string        `json:"description"`
	SkillNeeded string        `json:"skill_needed" gorm:"size:100;index"`
	Location    *string       `json:"location,omitempty" gorm:"size:255"`
	BudgetMin   *float64      `json:"budget_min,omitempty"`
	BudgetMax   *float64      `json:"budget_max,omitempty"`
	Urgency     Urgency       `json:"urgency" gorm:"size:20;default:'medium'"`
	Status      RequestStatus `json:"status" gorm:"size:20;default:'open';index"`
	CreatedAt   time.Time     `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func (r *Request) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type CreateRequestRequest struct {
	Title       string   `json:"title" validate:"required,min=3,max=200"`
	Description string   `json:"description" validate:"required"`
	SkillNeeded string   `json:"skill_needed" validate:"required,max=100"`
	Location    *string  `json:"location,omitempty" validate:"omitempty,max=255"`
	BudgetMin   *float64 `json:"budget_min,omitempty" validate:"omitempty,gte=0"`
	BudgetMax   *float64 `json:"budget_max,omitempty" validate:"omitempty,gte=0"`
	Urgency     string   `json:"urgency,omitempty" validate:"omitempty,oneof=low medium high urgent"`
}

type UpdateRequestStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=open closed completed"`
}

// RequestFilter narrows the open request listing
type RequestFilter struct {
	Skill   string
	Urgency string
	Search  string
	Page    int
	Limit   int
}
