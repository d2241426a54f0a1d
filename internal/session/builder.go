package session

import (
	"math/rand"

	"github.com/example/quizdeck/pkg/models"
)

// Mode selects which questions a session draws from
type Mode string

const (
	// ModeAll practices the whole chapter
	ModeAll Mode = "all"
	// ModeBookmarked restricts the session to bookmarked questions
	ModeBookmarked Mode = "bookmarked"
)

// Session size bounds. The limit is clamped into [MinLimit, MaxLimit];
// a zero limit means DefaultLimit.
const (
	MinLimit     = 1
	MaxLimit     = 100
	DefaultLimit = 20
)

// Filters are the parameters a session is built from. Revision forces
// bookmarked-only regardless of Mode.
type Filters struct {
	TopicID  string `json:"topic_id"`
	Mode     Mode   `json:"mode"`
	Limit    int    `json:"limit"`
	Revision bool   `json:"revision"`
}

// ClampLimit normalizes a requested session size
func ClampLimit(limit int) int {
	if limit == 0 {
		return DefaultLimit
	}
	if limit < MinLimit {
		return MinLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// BookmarkedOnly reports whether the filters restrict to bookmarked questions
func (f Filters) BookmarkedOnly() bool {
	return f.Revision || f.Mode == ModeBookmarked
}

// Build produces the ordered question sequence for one session: filter by
// topic and mode, shuffle uniformly, truncate to the clamped limit. An empty
// result is a valid outcome, not an error.
func Build(all []models.Question, bookmarks map[string]bool, filters Filters) []models.Question {
	filtered := make([]models.Question, 0, len(all))
	for _, q := range all {
		if filters.TopicID != "" && filters.TopicID != models.AllTopics && q.TopicID != filters.TopicID {
			continue
		}
		if filters.BookmarkedOnly() && !bookmarks[q.ID] {
			continue
		}
		filtered = append(filtered, q)
	}

	// Uniform Fisher-Yates; the biased random-comparator ordering this
	// replaces caused visible repetition in question order.
	rand.Shuffle(len(filtered), func(i, j int) {
		filtered[i], filtered[j] = filtered[j], filtered[i]
	})

	if limit := ClampLimit(filters.Limit); len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered
}
