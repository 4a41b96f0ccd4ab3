package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Opaque entity token generation. Tokens combine a prefix, the creation year
// and a short random segment, e.g. CASE-2026-4F21A8. Uniqueness comes from
// the random segment plus the unique index on the column.

// GenerateCaseNumber returns a new human-readable case number token
func GenerateCaseNumber() string {
	return generateToken("CASE")
}

// GenerateCustomerID returns a new human-readable customer id token
func GenerateCustomerID() string {
	return generateToken("CUST")
}

func generateToken(prefix string) string {
	segment := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().Year(), segment)
}
