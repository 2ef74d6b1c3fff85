package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ==================== UUID ====================

func GenerateUUID() uuid.UUID {
	return uuid.New()
}

func GenerateUUIDString() string {
	return uuid.New().String()
}

func GenerateRequestID() string {
	return uuid.New().String()
}

// ==================== BOOKING IDS ====================

// GenerateTransactionID creates a TXN-prefixed id, e.g. TXN-3F2A9C1D7B44
func GenerateTransactionID() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return fmt.Sprintf("TXN-%s", strings.ToUpper(raw[:12]))
}
