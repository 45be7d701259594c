package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateTransactionID returns a random opaque identifier of 32 lowercase
// hex characters with no separators.
func GenerateTransactionID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
