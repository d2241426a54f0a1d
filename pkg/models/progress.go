package models

import "time"

// ProgressRecord tracks a user's latest answer to a question. Upserted with
// merge semantics on every answer check: last write wins, only AttemptCount
// accumulates.
type ProgressRecord struct {
	ID           int64     `json:"id" db:"id"`
	UserID       string    `json:"user_id" db:"user_id"`
	QuestionID   string    `json:"question_id" db:"question_id"`
	ChapterID    string    `json:"chapter_id" db:"chapter_id"`
	Selected     int       `json:"selected" db:"selected"` // 0-based option index
	WasCorrect   bool      `json:"was_correct" db:"was_correct"`
	AttemptCount int       `json:"attempt_count" db:"attempt_count"`
	AnsweredAt   time.Time `json:"answered_at" db:"answered_at"`
}
