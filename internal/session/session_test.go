package session

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/encorelive/encore/internal/shared"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(filepath.Join(t.TempDir(), "session.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore(t *testing.T) {
	t.Run("Username", func(t *testing.T) {
		t.Run("Empty Until Set", func(t *testing.T) {
			store := newTestStore(t)

			name, err := store.Username()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if name != "" {
				t.Errorf("expected empty username, got %q", name)
			}
		})

		t.Run("Round Trip Trims Whitespace", func(t *testing.T) {
			store := newTestStore(t)

			if err := store.SetUsername("  Ada Lovelace  "); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			name, err := store.Username()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if name != "Ada Lovelace" {
				t.Errorf("expected 'Ada Lovelace', got %q", name)
			}
		})

		t.Run("Overwrite", func(t *testing.T) {
			store := newTestStore(t)

			store.SetUsername("Ada")
			store.SetUsername("Grace")

			name, _ := store.Username()
			if name != "Grace" {
				t.Errorf("expected 'Grace', got %q", name)
			}
		})

		t.Run("Rejects Invalid", func(t *testing.T) {
			store := newTestStore(t)

			if err := store.SetUsername("   "); !errors.Is(err, shared.ErrNoUsername) {
				t.Errorf("expected ErrNoUsername, got %v", err)
			}
			if err := store.SetUsername("<script>"); !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	})

	t.Run("Language", func(t *testing.T) {
		t.Run("Default", func(t *testing.T) {
			store := newTestStore(t)

			lang, err := store.Language()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if lang != DefaultLanguage {
				t.Errorf("expected %q, got %q", DefaultLanguage, lang)
			}
		})

		t.Run("Round Trip", func(t *testing.T) {
			store := newTestStore(t)

			if err := store.SetLanguage("en"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			lang, _ := store.Language()
			if lang != "en" {
				t.Errorf("expected 'en', got %q", lang)
			}
		})

		t.Run("Rejects Unknown", func(t *testing.T) {
			store := newTestStore(t)

			if err := store.SetLanguage("fr"); !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	})

	t.Run("RequestedIDs", func(t *testing.T) {
		t.Run("Add Remove List", func(t *testing.T) {
			store := newTestStore(t)

			store.AddRequestedID(5)
			store.AddRequestedID(2)
			store.AddRequestedID(5) // no-op

			ids, err := store.RequestedIDs()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(ids) != 2 || ids[0] != 2 || ids[1] != 5 {
				t.Errorf("unexpected ids: %v", ids)
			}

			store.RemoveRequestedID(2)
			ids, _ = store.RequestedIDs()
			if len(ids) != 1 || ids[0] != 5 {
				t.Errorf("unexpected ids after remove: %v", ids)
			}
		})

		t.Run("Replace With Server Set", func(t *testing.T) {
			store := newTestStore(t)

			store.AddRequestedID(1)
			store.AddRequestedID(2)

			if err := store.ReplaceRequestedIDs([]int{7, 9}); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			ids, _ := store.RequestedIDs()
			if len(ids) != 2 || ids[0] != 7 || ids[1] != 9 {
				t.Errorf("unexpected ids: %v", ids)
			}
		})

		t.Run("Replace With Empty Set", func(t *testing.T) {
			store := newTestStore(t)

			store.AddRequestedID(1)
			if err := store.ReplaceRequestedIDs(nil); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			ids, _ := store.RequestedIDs()
			if len(ids) != 0 {
				t.Errorf("expected empty set, got %v", ids)
			}
		})
	})
}

func TestValidateUsername(t *testing.T) {
	tc := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"Simple", "Ada", nil},
		{"With Space And Apostrophe", "Ada d'Angelo", nil},
		{"Accented", "Niccolò", nil},
		{"Empty", "", shared.ErrNoUsername},
		{"Whitespace Only", "   ", shared.ErrNoUsername},
		{"Too Short", "A", shared.ErrInvalidInput},
		{"Too Long", strings.Repeat("a", 31), shared.ErrInvalidInput},
		{"Markup", "<b>Ada</b>", shared.ErrInvalidInput},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.input)
			if tt.wantErr == nil && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestScope(t *testing.T) {
	t.Run("RequestCount", func(t *testing.T) {
		scope := NewScope()

		if scope.RequestCount() != 0 {
			t.Errorf("expected 0, got %d", scope.RequestCount())
		}
		if scope.IncrementRequestCount() != 1 {
			t.Error("expected increment to return 1")
		}
		scope.IncrementRequestCount()
		if scope.RequestCount() != 2 {
			t.Errorf("expected 2, got %d", scope.RequestCount())
		}
	})

	t.Run("Nudge Dismissal", func(t *testing.T) {
		t.Run("Starts Undismissed", func(t *testing.T) {
			scope := NewScope()
			if scope.NudgeDismissedToday() {
				t.Error("expected nudge not dismissed")
			}
		})

		t.Run("Dismissal Holds For The Day", func(t *testing.T) {
			scope := NewScope()
			scope.DismissNudge()
			if !scope.NudgeDismissedToday() {
				t.Error("expected nudge dismissed today")
			}
		})

		t.Run("Dismissal Expires Next Day", func(t *testing.T) {
			current := time.Date(2026, 3, 14, 22, 0, 0, 0, time.UTC)
			scope := NewScope()
			scope.now = func() time.Time { return current }

			scope.DismissNudge()
			current = current.Add(4 * time.Hour)

			if scope.NudgeDismissedToday() {
				t.Error("expected dismissal to expire after midnight")
			}
		})
	})
}
