package services

import "github.com/google/uuid"

// Session is the authenticated caller of an operation
type Session struct {
	UserID uuid.UUID
	Email  string
}
