package token

import (
	"fmt"
	"time"

	"github.com/o1egl/paseto"
	"golang.org/x/crypto/chacha20poly1305"
)

// tokenFooter is sent in clear text on every token and must match on verification.
type tokenFooter struct {
	Issuer string `json:"iss"`
}

const DefaultIssuer = "parking-marketplace"

// PasetoMaker issues v2.local tokens bound to one issuer.
type PasetoMaker struct {
	paseto       *paseto.V2
	symmetricKey []byte
	issuer       string
}

// NewPasetoMaker requires a key of exactly chacha20poly1305.KeySize bytes.
func NewPasetoMaker(symmetricKey string) (Maker, error) {
	return NewPasetoMakerWithIssuer(symmetricKey, DefaultIssuer)
}

func NewPasetoMakerWithIssuer(symmetricKey, issuer string) (Maker, error) {
	if len(symmetricKey) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("invalid key size: must be exactly %d characters", chacha20poly1305.KeySize)
	}
	if issuer == "" {
		return nil, fmt.Errorf("issuer cannot be empty")
	}
	return &PasetoMaker{
		paseto:       paseto.NewV2(),
		symmetricKey: []byte(symmetricKey),
		issuer:       issuer,
	}, nil
}

func (maker *PasetoMaker) CreateToken(subject Subject, duration time.Duration) (string, error) {
	payload, err := NewPayload(subject, duration)
	if err != nil {
		return "", fmt.Errorf("failed to create token payload: %w", err)
	}

	token, err := maker.paseto.Encrypt(maker.symmetricKey, payload, tokenFooter{Issuer: maker.issuer})
	if err != nil {
		return "", fmt.Errorf("failed to encrypt token: %w", err)
	}
	return token, nil
}

func (maker *PasetoMaker) VerifyToken(token string) (*Payload, error) {
	var (
		payload Payload
		footer  tokenFooter
	)
	if err := maker.paseto.Decrypt(token, maker.symmetricKey, &payload, &footer); err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if footer.Issuer != maker.issuer {
		return nil, fmt.Errorf("invalid token: unexpected issuer %q", footer.Issuer)
	}
	if err := payload.Valid(); err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	return &payload, nil
}
