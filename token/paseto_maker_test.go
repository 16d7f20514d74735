package token

import (
	"errors"
	"strings"
	"testing"
	"time"

	"parking-marketplace-backend/db/models"

	"github.com/google/uuid"
)

const testKey = "01234567890123456789012345678901"

func TestPasetoMakerRoundTrip(t *testing.T) {
	t.Parallel()

	maker, err := NewPasetoMaker(testKey)
	if err != nil {
		t.Fatalf("NewPasetoMaker: %v", err)
	}

	subject := Subject{UserID: uuid.New(), Email: "owner@example.com", Role: models.OwnerRole}
	tok, err := maker.CreateToken(subject, time.Minute)
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}

	payload, err := maker.VerifyToken(tok)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if payload.Subject() != subject {
		t.Errorf("subject = %+v, want %+v", payload.Subject(), subject)
	}
	if p := payload.Principal(); p.UserID != subject.UserID || p.Role != models.OwnerRole {
		t.Errorf("principal = %+v", p)
	}
}

func TestPasetoMakerRejectsExpired(t *testing.T) {
	t.Parallel()

	maker, err := NewPasetoMaker(testKey)
	if err != nil {
		t.Fatalf("NewPasetoMaker: %v", err)
	}

	payload, err := NewPayload(Subject{UserID: uuid.New(), Email: "a@b.c", Role: models.UserRole}, time.Minute)
	if err != nil {
		t.Fatalf("NewPayload: %v", err)
	}
	payload.ExpiredAt = time.Now().Add(-time.Second)
	if err := payload.Valid(); !errors.Is(err, ErrExpired) {
		t.Fatalf("Valid() = %v, want ErrExpired", err)
	}

	if _, err := maker.VerifyToken("v2.local.garbage"); err == nil || !strings.Contains(err.Error(), "invalid token") {
		t.Fatalf("VerifyToken(garbage) = %v, want invalid token", err)
	}
}

func TestNewPasetoMakerKeySize(t *testing.T) {
	t.Parallel()
	if _, err := NewPasetoMaker("short"); err == nil {
		t.Fatal("expected key size error")
	}
}

func TestPasetoMakerRejectsForeignIssuer(t *testing.T) {
	t.Parallel()

	other, err := NewPasetoMakerWithIssuer(testKey, "someone-else")
	if err != nil {
		t.Fatalf("NewPasetoMakerWithIssuer: %v", err)
	}
	tok, err := other.CreateToken(Subject{UserID: uuid.New(), Email: "a@b.c", Role: models.UserRole}, time.Minute)
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}

	maker, err := NewPasetoMaker(testKey)
	if err != nil {
		t.Fatalf("NewPasetoMaker: %v", err)
	}
	if _, err := maker.VerifyToken(tok); err == nil || !strings.Contains(err.Error(), "issuer") {
		t.Fatalf("VerifyToken = %v, want issuer rejection", err)
	}
}
