package models

import "time"

// Formula is a reference-sheet entry attached to a chapter
type Formula struct {
	ID        string    `json:"id" db:"id"`
	ChapterID string    `json:"chapter_id" db:"chapter_id"`
	Title     string    `json:"title" db:"title"`
	Body      string    `json:"body" db:"body"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
