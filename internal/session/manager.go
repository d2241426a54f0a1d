package session

import (
	"context"
	"errors"
	"sync"
)

// ErrNoSession is returned when a user has no active session
var ErrNoSession = errors.New("no active session")

// Manager tracks one active session per user
type Manager struct {
	mu      sync.Mutex
	catalog Catalog
	writer  Writer
	active  map[string]*Runner
}

// NewManager builds a session manager over the given storage
func NewManager(catalog Catalog, writer Writer) *Manager {
	return &Manager{
		catalog: catalog,
		writer:  writer,
		active:  make(map[string]*Runner),
	}
}

// Start loads a chapter and begins a new session for the user, replacing any
// session already in progress. The load runs under the caller's context, so a
// request abandoned mid-start installs nothing: the stale-response guard in
// Load discards late fetch results. The replaced session's pending writes are
// drained.
func (m *Manager) Start(ctx context.Context, userID, chapterID string, filters Filters) (*Runner, error) {
	data, err := Load(ctx, m.catalog, userID, chapterID)
	if err != nil {
		return nil, err
	}

	runner := newRunner(data, userID, filters, m.writer)

	m.mu.Lock()
	previous := m.active[userID]
	m.active[userID] = runner
	m.mu.Unlock()

	if previous != nil {
		previous.Close()
	}
	return runner, nil
}

// Get returns the user's active session
func (m *Manager) Get(userID string) (*Runner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	runner, ok := m.active[userID]
	if !ok {
		return nil, ErrNoSession
	}
	return runner, nil
}

// End discards the user's active session, if any
func (m *Manager) End(userID string) {
	m.mu.Lock()
	runner := m.active[userID]
	delete(m.active, userID)
	m.mu.Unlock()

	if runner != nil {
		runner.Close()
	}
}

// Shutdown closes every active session, draining pending writes
func (m *Manager) Shutdown() {
	m.mu.Lock()
	runners := make([]*Runner, 0, len(m.active))
	for _, r := range m.active {
		runners = append(runners, r)
	}
	m.active = make(map[string]*Runner)
	m.mu.Unlock()

	for _, r := range runners {
		r.Close()
	}
}
