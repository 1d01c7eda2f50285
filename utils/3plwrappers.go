package utils

import (
	"github.com/google/uuid"
)

func GetUUID() string {
	return uuid.New().String()
}

// ShortUUID returns the first segment of a v4 UUID, enough for
// human-readable notification ids.
func ShortUUID() string {
	return uuid.New().String()[:8]
}
