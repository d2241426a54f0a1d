package models

import "time"

// Bookmark marks a question for later revision. Keyed by (user, question);
// chapter and subject are denormalized for query convenience.
type Bookmark struct {
	ID         int64     `json:"id" db:"id"`
	UserID     string    `json:"user_id" db:"user_id"`
	QuestionID string    `json:"question_id" db:"question_id"`
	ChapterID  string    `json:"chapter_id" db:"chapter_id"`
	SubjectID  string    `json:"subject_id" db:"subject_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
