package models

import "time"

// Subject is a top-level content grouping (e.g. "Physics")
type Subject struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Position  int       `json:"position" db:"position"` // Display order in the catalog
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
