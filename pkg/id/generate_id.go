package id

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// NewID32 returns exactly 32 hex characters (no separators/prefixes).
// Used as the public identifier for every persisted entity.
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// NewReference returns a canonical UUID string. Ledger entries and repayment
// receipts carry these so external systems can reconcile against them.
func NewReference() string {
	return uuid.NewString()
}
