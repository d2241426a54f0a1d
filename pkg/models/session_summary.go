package models

import "time"

// SessionSummary records the outcome of one completed practice session
type SessionSummary struct {
	ID         int64     `json:"id" db:"id"`
	UserID     string    `json:"user_id" db:"user_id"`
	ChapterID  string    `json:"chapter_id" db:"chapter_id"`
	Mode       string    `json:"mode" db:"mode"` // "all" or "bookmarked"
	Total      int       `json:"total" db:"total"`
	Correct    int       `json:"correct" db:"correct"`
	Incorrect  int       `json:"incorrect" db:"incorrect"`
	Percentage string    `json:"percentage" db:"percentage"` // One decimal place, e.g. "70.0"
	Duration   int       `json:"duration" db:"duration"`     // Seconds
	TakenAt    time.Time `json:"taken_at" db:"taken_at"`
}
