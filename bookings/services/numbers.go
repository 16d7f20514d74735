package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"parking-marketplace-backend/utils"

	"github.com/google/uuid"
)

// GenerateReservationNumber returns PK-YYYYMMDD-XXXXXXXX; the suffix is 32 random bits.
func GenerateReservationNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("PK-%s-%s", now.In(utils.DateLocation).Format("20060102"), suffix)
}

// GenerateVerificationCode returns a random 6-digit code shown to the driver at payment.
func GenerateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
