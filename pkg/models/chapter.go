package models

import "time"

// Chapter groups topics, questions and formulas under a subject
type Chapter struct {
	ID        string    `json:"id" db:"id"`
	SubjectID string    `json:"subject_id" db:"subject_id"`
	Title     string    `json:"title" db:"title"`
	Position  int       `json:"position" db:"position"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Computed on demand with COUNT queries, never stored
	QuestionCount int `json:"question_count" db:"-"`
	FormulaCount  int `json:"formula_count" db:"-"`
}
