package ports

import "github.com/google/uuid"

// IDGen generates internal UUIDs and merchant-facing external IDs.
type IDGen interface {
	NewUUID() uuid.UUID
	// NewExternalID returns "pay_" + 12 hex characters.
	NewExternalID() string
}
