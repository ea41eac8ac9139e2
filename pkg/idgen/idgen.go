package idgen

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// NewTradeID returns a new unique trade identifier.
func NewTradeID() string {
	return uuid.New().String()
}

// NewPositionID returns a new unique position identifier.
func NewPositionID() string {
	return fmt.Sprintf("pos-%s", uuid.New().String()[:8])
}

// NewTransactionHash returns a simulated EVM transaction hash
// (0x followed by 64 hex characters).
func NewTransactionHash() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand should not fail; fall back to a UUID-derived hash
		// rather than returning an invalid value.
		u := uuid.New()
		return "0x" + hex.EncodeToString(u[:]) + hex.EncodeToString(u[:])
	}
	return "0x" + hex.EncodeToString(buf)
}
