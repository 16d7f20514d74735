package token

import (
	"errors"
	"fmt"
	"time"

	"parking-marketplace-backend/db/models"
	"parking-marketplace-backend/utils"

	"github.com/google/uuid"
)

var ErrExpired = errors.New("token has expired")

type Payload struct {
	ID        uuid.UUID   `json:"id"`
	UserID    uuid.UUID   `json:"user_id"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	IssuedAt  time.Time   `json:"issued_at"`
	ExpiredAt time.Time   `json:"expired_at"`
}

func NewPayload(subject Subject, duration time.Duration) (*Payload, error) {
	if subject.UserID == uuid.Nil {
		return nil, errors.New("user id cannot be empty")
	}
	if subject.Email == "" {
		return nil, errors.New("email cannot be empty")
	}
	if duration <= 0 {
		return nil, errors.New("duration must be positive")
	}

	tokenID, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}

	issuedAt := time.Now().In(utils.DateLocation)

	return &Payload{
		ID:        tokenID,
		UserID:    subject.UserID,
		Email:     subject.Email,
		Role:      subject.Role,
		IssuedAt:  issuedAt,
		ExpiredAt: issuedAt.Add(duration),
	}, nil
}

func (payload *Payload) Valid() error {
	if time.Now().In(utils.DateLocation).After(payload.ExpiredAt) {
		return ErrExpired
	}
	return nil
}

func (payload *Payload) Subject() Subject {
	return Subject{UserID: payload.UserID, Email: payload.Email, Role: payload.Role}
}

// Principal converts the token identity into the caller seen by services.
func (payload *Payload) Principal() models.Principal {
	return models.Principal{UserID: payload.UserID, Email: payload.Email, Role: payload.Role}
}

func (p *Payload) String() string {
	return fmt.Sprintf("ID: %s, UserID: %s, Email: %s, Role: %s, ExpiredAt: %s", p.ID, p.UserID, p.Email, p.Role, p.ExpiredAt)
}
