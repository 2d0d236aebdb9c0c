package history

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/hyunjin-oh/coursechat/models"
)

func result(course, professor string) models.SearchResult {
	return models.SearchResult{
		CourseRecord: models.CourseRecord{CourseName: course, Professor: professor},
	}
}

// Both stores must honor the same append/evict/reset contract, so the core
// behavior tests run against each implementation.
func stores(t *testing.T) map[string]Store {
	t.Helper()
	return map[string]Store{
		"memory": NewMemoryStore(0),
		"file":   NewFileStore(t.TempDir(), 0),
	}
}

func TestAppendAndReadBack(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.AppendChatTurn(models.ChatTurn{User: "hi", Bot: "hello"}); err != nil {
				t.Fatalf("append turn: %v", err)
			}
			turns, err := s.ChatTurns()
			if err != nil || len(turns) != 1 || turns[0].Bot != "hello" {
				t.Fatalf("read back turns = %v, err = %v", turns, err)
			}

			entry := models.SearchHistoryEntry{
				ID:      "e1",
				Query:   "signals",
				Results: []models.SearchResult{result("Signals and Systems", "Kim")},
			}
			if err := s.AppendSearchEntry(entry); err != nil {
				t.Fatalf("append entry: %v", err)
			}
			entries, err := s.SearchEntries()
			if err != nil || len(entries) != 1 || entries[0].Query != "signals" {
				t.Fatalf("read back entries = %v, err = %v", entries, err)
			}
		})
	}
}

func TestEvictionKeepsNewestTen(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 11; i++ {
				turn := models.ChatTurn{User: fmt.Sprintf("q%d", i), Bot: fmt.Sprintf("a%d", i)}
				if err := s.AppendChatTurn(turn); err != nil {
					t.Fatalf("append %d: %v", i, err)
				}
				entry := models.SearchHistoryEntry{ID: fmt.Sprintf("e%d", i), Query: turn.User}
				if err := s.AppendSearchEntry(entry); err != nil {
					t.Fatalf("append %d: %v", i, err)
				}
			}
			turns, _ := s.ChatTurns()
			if len(turns) != DefaultLimit {
				t.Fatalf("expected %d turns after eviction, got %d", DefaultLimit, len(turns))
			}
			if turns[0].User != "q1" || turns[len(turns)-1].User != "q10" {
				t.Fatalf("oldest turn must be evicted first: %v", turns)
			}
			entries, _ := s.SearchEntries()
			if len(entries) != DefaultLimit || entries[0].ID != "e1" {
				t.Fatalf("search log must evict the same way, got %d entries starting %q", len(entries), entries[0].ID)
			}
		})
	}
}

func TestResetClearsBothLogs(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_ = s.AppendChatTurn(models.ChatTurn{User: "q", Bot: "a"})
			_ = s.AppendSearchEntry(models.SearchHistoryEntry{ID: "e", Query: "q"})
			if err := s.Reset(); err != nil {
				t.Fatalf("reset: %v", err)
			}
			if turns, _ := s.ChatTurns(); len(turns) != 0 {
				t.Fatalf("chat log not cleared: %v", turns)
			}
			if entries, _ := s.SearchEntries(); len(entries) != 0 {
				t.Fatalf("search log not cleared: %v", entries)
			}
		})
	}
}

func TestFileStoreToleratesCorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, chatFileName), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := NewFileStore(dir, 0)
	turns, err := s.ChatTurns()
	if err != nil {
		t.Fatalf("corrupt history must not be fatal: %v", err)
	}
	if len(turns) != 0 {
		t.Fatalf("corrupt history must read as empty, got %v", turns)
	}
	// Appends recover the file.
	if err := s.AppendChatTurn(models.ChatTurn{User: "q", Bot: "a"}); err != nil {
		t.Fatalf("append over corrupt file: %v", err)
	}
	if turns, _ := s.ChatTurns(); len(turns) != 1 {
		t.Fatalf("expected the appended turn, got %v", turns)
	}
}

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	first := NewFileStore(dir, 0)
	_ = first.AppendChatTurn(models.ChatTurn{User: "q", Bot: "a"})

	second := NewFileStore(dir, 0)
	turns, _ := second.ChatTurns()
	if len(turns) != 1 || turns[0].User != "q" {
		t.Fatalf("history must survive a new store instance, got %v", turns)
	}
}

func TestLatestResults(t *testing.T) {
	s := NewMemoryStore(0)
	if got := LatestResults(s); got != nil {
		t.Fatalf("empty store must yield nil, got %v", got)
	}
	_ = s.AppendSearchEntry(models.SearchHistoryEntry{
		ID: "e1", Query: "old", Results: []models.SearchResult{result("Digital Logic", "Lee")},
	})
	_ = s.AppendSearchEntry(models.SearchHistoryEntry{
		ID: "e2", Query: "new", Results: []models.SearchResult{result("Signals and Systems", "Kim")},
	})
	got := LatestResults(s)
	if len(got) != 1 || got[0].CourseName != "Signals and Systems" {
		t.Fatalf("only the newest entry is live context, got %v", got)
	}
}

func TestLastTurn(t *testing.T) {
	s := NewMemoryStore(0)
	if u, b := LastTurn(s); u != "" || b != "" {
		t.Fatalf("empty store must yield empty turn, got %q/%q", u, b)
	}
	_ = s.AppendChatTurn(models.ChatTurn{User: "first", Bot: "one"})
	_ = s.AppendChatTurn(models.ChatTurn{User: "second", Bot: "two"})
	if u, b := LastTurn(s); u != "second" || b != "two" {
		t.Fatalf("expected the newest turn, got %q/%q", u, b)
	}
}

func TestLastProfessorAndLecture(t *testing.T) {
	s := NewMemoryStore(0)
	_ = s.AppendSearchEntry(models.SearchHistoryEntry{
		ID: "e1", Results: []models.SearchResult{result("Digital Logic", "Lee")},
	})
	_ = s.AppendSearchEntry(models.SearchHistoryEntry{
		ID: "e2", Results: []models.SearchResult{result("Circuit Theory", "Kim")},
	})
	if got := LastProfessor(s); got != "Kim" {
		t.Fatalf("newest entry wins, got %q", got)
	}
	if got := LastLecture(s); got != "Circuit Theory" {
		t.Fatalf("newest entry wins, got %q", got)
	}

	// An entry with blank names falls through to the previous one.
	_ = s.AppendSearchEntry(models.SearchHistoryEntry{
		ID: "e3", Results: []models.SearchResult{result("", "")},
	})
	if got := LastProfessor(s); got != "Kim" {
		t.Fatalf("blank names must be skipped, got %q", got)
	}
}
