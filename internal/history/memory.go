package history

import (
	"sync"

	"github.com/hyunjin-oh/coursechat/models"
)

// MemoryStore keeps both logs in process memory. Used by tests and by
// deployments that do not want conversation state to survive a restart.
type MemoryStore struct {
	limit   int
	mu      sync.Mutex
	turns   []models.ChatTurn
	entries []models.SearchHistoryEntry
}

func NewMemoryStore(limit int) *MemoryStore {
	return &MemoryStore{limit: cap10(limit)}
}

func (m *MemoryStore) ChatTurns() ([]models.ChatTurn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.ChatTurn, len(m.turns))
	copy(out, m.turns)
	return out, nil
}

func (m *MemoryStore) AppendChatTurn(turn models.ChatTurn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns = boundTurns(append(m.turns, turn), m.limit)
	return nil
}

func (m *MemoryStore) SearchEntries() ([]models.SearchHistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.SearchHistoryEntry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

func (m *MemoryStore) AppendSearchEntry(entry models.SearchHistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = boundEntries(append(m.entries, entry), m.limit)
	return nil
}

func (m *MemoryStore) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns = nil
	m.entries = nil
	return nil
}
