// Package idgen generates internal UUIDs and merchant-facing external IDs.
package idgen

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// Generator is the default ports.IDGen implementation.
type Generator struct{}

// New returns a Generator.
func New() *Generator { return &Generator{} }

// NewUUID returns a random UUID.
func (Generator) NewUUID() uuid.UUID { return uuid.New() }

// NewExternalID returns "pay_" followed by 12 hex characters (6 random
// bytes).
func (Generator) NewExternalID() string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand.Read only fails if the OS entropy source is
		// unavailable; fall back to the UUID generator's randomness so
		// external_id generation never panics a request path.
		return "pay_" + uuid.New().String()[:12]
	}
	return "pay_" + hex.EncodeToString(buf)
}
