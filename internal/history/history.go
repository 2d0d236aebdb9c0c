// Package history keeps the bounded conversation memory: an append-only chat
// log and an append-only search log, each capped at the most recent entries.
package history

import (
	"strings"

	"github.com/hyunjin-oh/coursechat/models"
)

// DefaultLimit is the retention cap per log.
const DefaultLimit = 10

// Store is the conversation memory contract. Appends beyond the cap evict
// the oldest entry; Reset clears both logs together.
type Store interface {
	ChatTurns() ([]models.ChatTurn, error)
	AppendChatTurn(turn models.ChatTurn) error
	SearchEntries() ([]models.SearchHistoryEntry, error)
	AppendSearchEntry(entry models.SearchHistoryEntry) error
	Reset() error
}

func cap10(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}

func boundTurns(turns []models.ChatTurn, limit int) []models.ChatTurn {
	if len(turns) > limit {
		return turns[len(turns)-limit:]
	}
	return turns
}

func boundEntries(entries []models.SearchHistoryEntry, limit int) []models.SearchHistoryEntry {
	if len(entries) > limit {
		return entries[len(entries)-limit:]
	}
	return entries
}

// LatestResults returns the most recent search entry's results. Only this
// entry is live conversational context; older entries are retained for
// inspection only.
func LatestResults(s Store) []models.SearchResult {
	entries, err := s.SearchEntries()
	if err != nil || len(entries) == 0 {
		return nil
	}
	return entries[len(entries)-1].Results
}

// LastTurn returns the most recent chat turn, or empty strings.
func LastTurn(s Store) (user, bot string) {
	turns, err := s.ChatTurns()
	if err != nil || len(turns) == 0 {
		return "", ""
	}
	last := turns[len(turns)-1]
	return last.User, last.Bot
}

// LastProfessor scans search entries newest-first for the first professor
// name on record.
func LastProfessor(s Store) string {
	entries, err := s.SearchEntries()
	if err != nil {
		return ""
	}
	for i := len(entries) - 1; i >= 0; i-- {
		for _, res := range entries[i].Results {
			if strings.TrimSpace(res.Professor) != "" {
				return res.Professor
			}
		}
	}
	return ""
}

// LastLecture scans search entries newest-first for the first course name on
// record.
func LastLecture(s Store) string {
	entries, err := s.SearchEntries()
	if err != nil {
		return ""
	}
	for i := len(entries) - 1; i >= 0; i-- {
		for _, res := range entries[i].Results {
			if strings.TrimSpace(res.CourseName) != "" {
				return res.CourseName
			}
		}
	}
	return ""
}
