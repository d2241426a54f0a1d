package models

import "time"

// AllTopics is the sentinel topic ID meaning "no topic filter". It is
// injected into topic listings client-side and never stored.
const AllTopics = "all"

// Topic is a sub-grouping of questions within a chapter
type Topic struct {
	ID        string    `json:"id" db:"id"`
	ChapterID string    `json:"chapter_id" db:"chapter_id"`
	Title     string    `json:"title" db:"title"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
