package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/example/quizdeck/pkg/models"
)

// Status of a session
type Status string

const (
	// StatusActive means a question is being presented
	StatusActive Status = "active"
	// StatusComplete means every question has been answered
	StatusComplete Status = "complete"
)

// NoSelection marks that no option is currently selected
const NoSelection = -1

// Guard errors returned by runner transitions
var (
	ErrNoSelection    = errors.New("no option selected")
	ErrAlreadyChecked = errors.New("answer already checked")
	ErrNotChecked     = errors.New("answer not checked yet")
	ErrComplete       = errors.New("session is complete")
)

// Result is one entry in the session's answer log. It snapshots the question
// so the summary screen is immune to later catalog edits.
type Result struct {
	Question models.Question `json:"question"`
	Selected int             `json:"selected"`
	Correct  bool            `json:"correct"`
}

// Summary is the completion screen payload
type Summary struct {
	Total      int    `json:"total"`
	Correct    int    `json:"correct"`
	Incorrect  int    `json:"incorrect"`
	Percentage string `json:"percentage"`
}

// QuestionView is the active question as presented to the user. The correct
// index and explanation are only revealed after the answer is checked.
type QuestionView struct {
	ID         string                     `json:"id"`
	TopicID    string                     `json:"topic_id"`
	Prompt     string                     `json:"prompt"`
	Options    [models.OptionCount]string `json:"options"`
	Bookmarked bool                       `json:"bookmarked"`
}

// State is the runner's presentable state
type State struct {
	Status      Status        `json:"status"`
	Index       int           `json:"index"`
	Total       int           `json:"total"`
	Question    *QuestionView `json:"question,omitempty"`
	Selected    int           `json:"selected"`
	Checked     bool          `json:"checked"`
	Correct     int           `json:"correct"`     // 0-based correct index, -1 until checked
	Explanation string        `json:"explanation"` // empty until checked
	Filters     Filters       `json:"filters"`
}

// Runner steps one user through a built question sequence: present, select,
// check, advance, complete. All methods are safe for concurrent use.
type Runner struct {
	mu sync.Mutex

	userID  string
	chapter *models.Chapter
	filters Filters

	// Full chapter set and bookmark set, cached at load time; reset rebuilds
	// from these without refetching.
	all       []models.Question
	bookmarks map[string]bool

	writer Writer
	rec    *recorder

	queue     []models.Question
	index     int
	selected  int
	checked   bool
	complete  bool
	results   []Result
	startedAt time.Time
}

func newRunner(data *ChapterData, userID string, filters Filters, writer Writer) *Runner {
	filters.Limit = ClampLimit(filters.Limit)
	if filters.Revision {
		filters.Mode = ModeBookmarked
	}
	r := &Runner{
		userID:    userID,
		chapter:   data.Chapter,
		filters:   filters,
		all:       data.Questions,
		bookmarks: data.Bookmarks,
		writer:    writer,
		rec:       newRecorder(),
	}
	r.rebuild()
	return r
}

// rebuild constructs a fresh sequence from the cached chapter set.
// Caller holds r.mu (or the runner is not yet shared).
func (r *Runner) rebuild() {
	r.queue = Build(r.all, r.bookmarks, r.filters)
	r.index = 0
	r.selected = NoSelection
	r.checked = false
	r.results = nil
	r.startedAt = time.Now()
	// An empty build is a completed session, not an error
	r.complete = len(r.queue) == 0
}

// State returns the current presentable state
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := State{
		Status:   StatusActive,
		Index:    r.index,
		Total:    len(r.queue),
		Selected: r.selected,
		Checked:  r.checked,
		Correct:  NoSelection,
		Filters:  r.filters,
	}
	if r.complete {
		st.Status = StatusComplete
		return st
	}

	q := r.queue[r.index]
	st.Question = &QuestionView{
		ID:         q.ID,
		TopicID:    q.TopicID,
		Prompt:     q.Prompt,
		Options:    q.Options(),
		Bookmarked: r.bookmarks[q.ID],
	}
	if r.checked {
		st.Correct = q.Correct - 1
		st.Explanation = q.Explanation
	}
	return st
}

// Select records a 0-based option selection for the current question
func (r *Runner) Select(option int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.complete {
		return ErrComplete
	}
	if r.checked {
		return ErrAlreadyChecked
	}
	if option < 0 || option >= models.OptionCount {
		return fmt.Errorf("option %d out of range", option)
	}
	r.selected = option
	return nil
}

// Check reveals correctness for the current selection, appends a result and
// queues one progress upsert. Idempotent: checking an already-checked
// question returns the existing result without another result entry or
// persistence call.
func (r *Runner) Check() (*Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.complete {
		return nil, ErrComplete
	}
	if r.checked {
		res := r.results[len(r.results)-1]
		return &res, nil
	}
	if r.selected == NoSelection {
		return nil, ErrNoSelection
	}

	q := r.queue[r.index]
	res := Result{
		Question: q,
		Selected: r.selected,
		Correct:  q.IsCorrect(r.selected),
	}
	r.results = append(r.results, res)
	r.checked = true

	// Asynchronous and non-blocking; practice continues even when
	// persistence fails.
	record := &models.ProgressRecord{
		UserID:     r.userID,
		QuestionID: q.ID,
		ChapterID:  r.chapter.ID,
		Selected:   res.Selected,
		WasCorrect: res.Correct,
		AnsweredAt: time.Now().UTC(),
	}
	r.rec.enqueue(func(ctx context.Context) error {
		return r.writer.UpsertProgress(ctx, record)
	})

	return &res, nil
}

// Next advances to the following question, or completes the session at the
// last one. Requires the current answer to have been checked.
func (r *Runner) Next() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.complete {
		return ErrComplete
	}
	if !r.checked {
		return ErrNotChecked
	}

	if r.index < len(r.queue)-1 {
		r.index++
		r.selected = NoSelection
		r.checked = false
		return nil
	}

	r.complete = true
	r.persistSummary()
	return nil
}

// persistSummary queues the completed-session record. Caller holds r.mu.
func (r *Runner) persistSummary() {
	sum := r.summaryLocked()
	record := &models.SessionSummary{
		UserID:     r.userID,
		ChapterID:  r.chapter.ID,
		Mode:       string(r.filters.Mode),
		Total:      sum.Total,
		Correct:    sum.Correct,
		Incorrect:  sum.Incorrect,
		Percentage: sum.Percentage,
		Duration:   int(time.Since(r.startedAt).Seconds()),
		TakenAt:    time.Now().UTC(),
	}
	if record.Mode == "" {
		record.Mode = string(ModeAll)
	}
	r.rec.enqueue(func(ctx context.Context) error {
		return r.writer.CreateSummary(ctx, record)
	})
}

// Reset rebuilds the session from the cached chapter set with the
// last-applied filters: fresh order, index 0, empty result log. No refetch.
func (r *Runner) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rebuild()
}

// Summary computes the completion screen totals
func (r *Runner) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.summaryLocked()
}

func (r *Runner) summaryLocked() Summary {
	correct := 0
	for _, res := range r.results {
		if res.Correct {
			correct++
		}
	}
	total := len(r.queue)
	sum := Summary{
		Total:     total,
		Correct:   correct,
		Incorrect: len(r.results) - correct,
	}
	if total == 0 {
		// Defined value for the empty session, never a division by zero
		sum.Percentage = "0.0"
		return sum
	}
	sum.Percentage = fmt.Sprintf("%.1f", float64(correct)/float64(total)*100)
	return sum
}

// Results returns a copy of the answer log. Once the session is complete the
// log no longer changes.
func (r *Runner) Results() []Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Result, len(r.results))
	copy(out, r.results)
	return out
}

// ToggleBookmark flips the bookmarked state of a question in this session's
// chapter. The remote write happens first; the local set changes only after
// it succeeds, so a failed toggle leaves the state exactly as it was.
func (r *Runner) ToggleBookmark(ctx context.Context, questionID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	known := false
	for _, q := range r.all {
		if q.ID == questionID {
			known = true
			break
		}
	}
	if !known {
		return false, fmt.Errorf("question %s is not in this chapter", questionID)
	}

	if r.bookmarks[questionID] {
		if err := r.writer.DeleteBookmark(ctx, r.userID, questionID); err != nil {
			return true, fmt.Errorf("failed to remove bookmark: %v", err)
		}
		delete(r.bookmarks, questionID)
		return false, nil
	}

	bookmark := &models.Bookmark{
		UserID:     r.userID,
		QuestionID: questionID,
		ChapterID:  r.chapter.ID,
		SubjectID:  r.chapter.SubjectID,
	}
	if err := r.writer.CreateBookmark(ctx, bookmark); err != nil {
		return false, fmt.Errorf("failed to add bookmark: %v", err)
	}
	r.bookmarks[questionID] = true
	return true, nil
}

// Close drains pending writes and stops the recorder. Safe to call twice,
// and other runner methods remain safe to call afterwards: their writes are
// dropped instead of persisted.
func (r *Runner) Close() {
	r.rec.close()
}
