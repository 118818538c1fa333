// package session persists client identity and tracks per-visit state.
//
// Durable settings (username, language) and the requested-song cache live in
// sqlite so they survive restarts, mirroring browser localStorage. Per-visit
// state (request counts, nudge dismissal) lives in a [Scope] and resets with
// the process, mirroring sessionStorage.
package session

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/encorelive/encore/internal/shared"
)

const schema = `
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS requested_songs (
		song_id INTEGER PRIMARY KEY,
		added_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
`

const (
	keyUsername = "username"
	keyLanguage = "language"
)

// DefaultLanguage is used until the user picks one.
const DefaultLanguage = "it"

// Store is the sqlite-backed durable side of the client session.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the session database at path and ensures the
// schema exists.
func NewStore(path string) (*Store, error) {
	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, err
	}
	// sqlite serializes writers; one connection avoids SQLITE_BUSY.
	shared.ConfigureDatabase(db, 1, 1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create session schema: %w", err)
	}

	return &Store{db: db}, nil
}

// NewStoreWithDB wraps an existing database connection. The caller keeps
// ownership of the connection.
func NewStoreWithDB(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create session schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) setting(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) setSetting(key, value string) error {
	query := `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`
	if _, err := s.db.Exec(query, key, value); err != nil {
		return fmt.Errorf("failed to write setting %s: %w", key, err)
	}
	return nil
}

// Username returns the stored display name, or "" when none has been saved.
func (s *Store) Username() (string, error) {
	return s.setting(keyUsername)
}

// SetUsername validates and stores the display name used for requests.
func (s *Store) SetUsername(name string) error {
	name = strings.TrimSpace(name)
	if err := ValidateUsername(name); err != nil {
		return err
	}
	return s.setSetting(keyUsername, name)
}

// Language returns the stored UI language, defaulting to [DefaultLanguage].
func (s *Store) Language() (string, error) {
	lang, err := s.setting(keyLanguage)
	if err != nil {
		return "", err
	}
	if lang == "" {
		return DefaultLanguage, nil
	}
	return lang, nil
}

// SetLanguage stores the UI language.
func (s *Store) SetLanguage(lang string) error {
	if lang != "it" && lang != "en" {
		return fmt.Errorf("%w: unsupported language %q", shared.ErrInvalidInput, lang)
	}
	return s.setSetting(keyLanguage, lang)
}

// RequestedIDs returns the cached set of song ids the user has requested.
func (s *Store) RequestedIDs() ([]int, error) {
	rows, err := s.db.Query("SELECT song_id FROM requested_songs ORDER BY song_id")
	if err != nil {
		return nil, fmt.Errorf("failed to query requested songs: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan song id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// AddRequestedID records a song id as requested. Re-adding is a no-op.
func (s *Store) AddRequestedID(songID int) error {
	_, err := s.db.Exec("INSERT OR IGNORE INTO requested_songs (song_id) VALUES (?)", songID)
	if err != nil {
		return fmt.Errorf("failed to record requested song: %w", err)
	}
	return nil
}

// RemoveRequestedID drops a song id from the requested set.
func (s *Store) RemoveRequestedID(songID int) error {
	_, err := s.db.Exec("DELETE FROM requested_songs WHERE song_id = ?", songID)
	if err != nil {
		return fmt.Errorf("failed to remove requested song: %w", err)
	}
	return nil
}

// ReplaceRequestedIDs resets the cache to the server's authoritative set.
func (s *Store) ReplaceRequestedIDs(ids []int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM requested_songs"); err != nil {
		return fmt.Errorf("failed to clear requested songs: %w", err)
	}
	for _, id := range ids {
		if _, err := tx.Exec("INSERT OR IGNORE INTO requested_songs (song_id) VALUES (?)", id); err != nil {
			return fmt.Errorf("failed to record requested song: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit requested songs: %w", err)
	}
	return nil
}

// ValidateUsername checks a display name before it is stored or sent.
// Names are 2 to 30 characters of letters, digits, spaces, and ' - _ .
func ValidateUsername(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.ErrNoUsername
	}
	if len([]rune(name)) < 2 || len([]rune(name)) > 30 {
		return fmt.Errorf("%w: name must be between 2 and 30 characters", shared.ErrInvalidInput)
	}

	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			continue
		}
		switch r {
		case '\'', '-', '_', '.':
			continue
		}
		return fmt.Errorf("%w: name contains unsupported character %q", shared.ErrInvalidInput, r)
	}
	return nil
}

// Scope holds per-visit state that resets with the process.
type Scope struct {
	requestCount      int
	nudgeDismissedDay string
	now               func() time.Time
}

// NewScope creates an empty per-visit scope.
func NewScope() *Scope {
	return &Scope{now: time.Now}
}

// RequestCount returns how many successful requests this visit has made.
func (s *Scope) RequestCount() int {
	return s.requestCount
}

// IncrementRequestCount records one more successful request and returns the
// new count.
func (s *Scope) IncrementRequestCount() int {
	s.requestCount++
	return s.requestCount
}

// DismissNudge marks the tip nudge as dismissed for the rest of the day.
func (s *Scope) DismissNudge() {
	s.nudgeDismissedDay = s.now().Format("2006-01-02")
}

// NudgeDismissedToday reports whether the nudge was dismissed today.
// A dismissal from a previous day no longer counts.
func (s *Scope) NudgeDismissedToday() bool {
	return s.nudgeDismissedDay == s.now().Format("2006-01-02")
}
