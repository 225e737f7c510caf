package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewUUID generates a new UUID
func NewUUID() uuid.UUID {
	return uuid.New()
}

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// GenerateInvoiceNo generates a unique invoice number, e.g. "INV-3F9A1C2E"
func GenerateInvoiceNo() string {
	return "INV-" + strings.ToUpper(uuid.New().String()[:8])
}

// GenerateReceiptNo generates a unique receipt number, e.g. "RCP-7B4D0E9F"
func GenerateReceiptNo() string {
	return "RCP-" + strings.ToUpper(uuid.New().String()[:8])
}

// GeneratePatientNo generates a unique patient number, e.g. "PT-1A2B3C4D"
func GeneratePatientNo() string {
	return "PT-" + strings.ToUpper(uuid.New().String()[:8])
}

// GenerateCatalogCode generates a unique catalog item code
func GenerateCatalogCode() string {
	return "TST-" + strings.ToUpper(uuid.New().String()[:8])
}
