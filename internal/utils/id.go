package utils

import "github.com/google/uuid"

// NewID returns a collision-resistant opaque identifier for a new entity.
func NewID() string {
	return uuid.NewString()
}
