package model

import (
	"time"

	"github.com/google/uuid"
)

// Category groups questions by medical specialty (e.g. cardiology).
type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}
