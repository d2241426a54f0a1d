package models

import "time"

// OptionCount is the fixed number of options on every question
const OptionCount = 4

// Question is a multiple-choice item with four options and one correct index.
// Correct is 1-based as authored; UI selections are 0-based, so a selection is
// right exactly when selected == Correct-1.
type Question struct {
	ID          string    `json:"id" db:"id"`
	ChapterID   string    `json:"chapter_id" db:"chapter_id"`
	TopicID     string    `json:"topic_id" db:"topic_id"` // Empty when not assigned to a topic
	Prompt      string    `json:"prompt" db:"prompt"`
	OptionA     string    `json:"option_a" db:"option_a"`
	OptionB     string    `json:"option_b" db:"option_b"`
	OptionC     string    `json:"option_c" db:"option_c"`
	OptionD     string    `json:"option_d" db:"option_d"`
	Correct     int       `json:"correct" db:"correct"` // 1-4
	Explanation string    `json:"explanation" db:"explanation"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Options returns the four option texts in order
func (q *Question) Options() [OptionCount]string {
	return [OptionCount]string{q.OptionA, q.OptionB, q.OptionC, q.OptionD}
}

// IsCorrect reports whether a 0-based selection matches the 1-based answer
func (q *Question) IsCorrect(selected int) bool {
	return selected == q.Correct-1
}
