package token

import (
	"time"

	"parking-marketplace-backend/db/models"

	"github.com/google/uuid"
)

// Maker creates and verifies access and refresh tokens.
type Maker interface {
	CreateToken(subject Subject, duration time.Duration) (string, error)

	VerifyToken(token string) (*Payload, error)
}

// Subject is the identity a token is issued for.
type Subject struct {
	UserID uuid.UUID
	Email  string
	Role   models.Role
}
