package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns a fresh record id.
func NewID() string {
	return uuid.New().String()
}

// ValidID reports whether id is a well-formed record id.
func ValidID(id string) bool {
	if strings.TrimSpace(id) != id || id == "" {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
