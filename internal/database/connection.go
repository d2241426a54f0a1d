package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/example/quizdeck/internal/config"
)

// Store owns the database connection. It is constructed once in main and
// passed into every component that needs it; there is no package-level
// connection.
type Store struct {
	db *sqlx.DB

	Users     *UserRepository
	Subjects  *SubjectRepository
	Chapters  *ChapterRepository
	Topics    *TopicRepository
	Questions *QuestionRepository
	Formulas  *FormulaRepository
	Bookmarks *BookmarkRepository
	Progress  *ProgressRepository
	Summaries *SummaryRepository
}

// New opens the database configured in cfg and initializes the schema
func New(cfg *config.Config) (*Store, error) {
	var db *sqlx.DB
	var err error

	switch cfg.DBDriver {
	case "postgres":
		db, err = sqlx.Connect("postgres", cfg.DBURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %v", err)
		}
	default:
		if dir := filepath.Dir(cfg.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %v", err)
			}
		}
		db, err = sqlx.Connect("sqlite3", cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %v", err)
		}
		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return nil, fmt.Errorf("failed to enable foreign keys: %v", err)
		}
	}

	s := newStore(db)
	if err := s.initializeSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func newStore(db *sqlx.DB) *Store {
	s := &Store{db: db}
	s.Users = &UserRepository{store: s}
	s.Subjects = &SubjectRepository{store: s}
	s.Chapters = &ChapterRepository{store: s}
	s.Topics = &TopicRepository{store: s}
	s.Questions = &QuestionRepository{store: s}
	s.Formulas = &FormulaRepository{store: s}
	s.Bookmarks = &BookmarkRepository{store: s}
	s.Progress = &ProgressRepository{store: s}
	s.Summaries = &SummaryRepository{store: s}
	return s
}

// Close closes the underlying connection
func (s *Store) Close() error {
	return s.db.Close()
}

// rebind converts ?-style placeholders to the driver's bindvar format
func (s *Store) rebind(query string) string {
	return s.db.Rebind(query)
}

// serialPK returns the autoincrementing primary key column DDL for the driver
func (s *Store) serialPK() string {
	if s.db.DriverName() == "postgres" {
		return "BIGSERIAL PRIMARY KEY"
	}
	return "INTEGER PRIMARY KEY AUTOINCREMENT"
}

// initializeSchema creates necessary tables if they don't exist
func (s *Store) initializeSchema() error {
	tables := []struct {
		name string
		ddl  string
	}{
		{"users", `
			CREATE TABLE IF NOT EXISTS users (
				id TEXT PRIMARY KEY,
				email TEXT UNIQUE NOT NULL,
				password_hash TEXT NOT NULL,
				display_name TEXT NOT NULL DEFAULT '',
				role TEXT NOT NULL DEFAULT 'student',
				disabled BOOLEAN NOT NULL DEFAULT false,
				telegram_chat_id BIGINT NOT NULL DEFAULT 0,
				reminder_hour INTEGER NOT NULL DEFAULT 9,
				reminders_on BOOLEAN NOT NULL DEFAULT true,
				created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`},
		{"subjects", `
			CREATE TABLE IF NOT EXISTS subjects (
				id TEXT PRIMARY KEY,
				title TEXT NOT NULL,
				position INTEGER NOT NULL DEFAULT 0,
				created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`},
		{"chapters", `
			CREATE TABLE IF NOT EXISTS chapters (
				id TEXT PRIMARY KEY,
				subject_id TEXT NOT NULL REFERENCES subjects(id),
				title TEXT NOT NULL,
				position INTEGER NOT NULL DEFAULT 0,
				created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`},
		{"topics", `
			CREATE TABLE IF NOT EXISTS topics (
				id TEXT PRIMARY KEY,
				chapter_id TEXT NOT NULL REFERENCES chapters(id),
				title TEXT NOT NULL,
				created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`},
		{"questions", `
			CREATE TABLE IF NOT EXISTS questions (
				id TEXT PRIMARY KEY,
				chapter_id TEXT NOT NULL REFERENCES chapters(id),
				topic_id TEXT NOT NULL DEFAULT '',
				prompt TEXT NOT NULL,
				option_a TEXT NOT NULL,
				option_b TEXT NOT NULL,
				option_c TEXT NOT NULL,
				option_d TEXT NOT NULL,
				correct INTEGER NOT NULL,
				explanation TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`},
		{"formulas", `
			CREATE TABLE IF NOT EXISTS formulas (
				id TEXT PRIMARY KEY,
				chapter_id TEXT NOT NULL REFERENCES chapters(id),
				title TEXT NOT NULL,
				body TEXT NOT NULL,
				created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`},
		{"bookmarks", fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS bookmarks (
				id %s,
				user_id TEXT NOT NULL,
				question_id TEXT NOT NULL,
				chapter_id TEXT NOT NULL,
				subject_id TEXT NOT NULL,
				created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				UNIQUE(user_id, question_id)
			)`, s.serialPK())},
		{"progress", fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS progress (
				id %s,
				user_id TEXT NOT NULL,
				question_id TEXT NOT NULL,
				chapter_id TEXT NOT NULL,
				selected INTEGER NOT NULL,
				was_correct BOOLEAN NOT NULL,
				attempt_count INTEGER NOT NULL DEFAULT 1,
				answered_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				UNIQUE(user_id, question_id)
			)`, s.serialPK())},
		{"session_summaries", fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS session_summaries (
				id %s,
				user_id TEXT NOT NULL,
				chapter_id TEXT NOT NULL,
				mode TEXT NOT NULL,
				total INTEGER NOT NULL,
				correct INTEGER NOT NULL,
				incorrect INTEGER NOT NULL,
				percentage TEXT NOT NULL,
				duration INTEGER NOT NULL DEFAULT 0,
				taken_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`, s.serialPK())},
	}

	for _, t := range tables {
		if _, err := s.db.Exec(t.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %v", t.name, err)
		}
	}
	return nil
}
