package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/hyunjin-oh/coursechat/models"
)

const (
	chatFileName   = "chat_history.json"
	searchFileName = "search_history.json"
)

// FileStore persists both logs as JSON files. The mutex makes each
// load-append-save a critical section; two concurrent requests can no longer
// interleave partial writes.
type FileStore struct {
	dir   string
	limit int
	mu    sync.Mutex
}

func NewFileStore(dir string, limit int) *FileStore {
	return &FileStore{dir: dir, limit: cap10(limit)}
}

func (f *FileStore) chatPath() string   { return filepath.Join(f.dir, chatFileName) }
func (f *FileStore) searchPath() string { return filepath.Join(f.dir, searchFileName) }

func (f *FileStore) ChatTurns() ([]models.ChatTurn, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var turns []models.ChatTurn
	loadJSON(f.chatPath(), &turns)
	return turns, nil
}

func (f *FileStore) AppendChatTurn(turn models.ChatTurn) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var turns []models.ChatTurn
	loadJSON(f.chatPath(), &turns)
	turns = boundTurns(append(turns, turn), f.limit)
	return saveJSON(f.chatPath(), turns)
}

func (f *FileStore) SearchEntries() ([]models.SearchHistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var entries []models.SearchHistoryEntry
	loadJSON(f.searchPath(), &entries)
	return entries, nil
}

func (f *FileStore) AppendSearchEntry(entry models.SearchHistoryEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var entries []models.SearchHistoryEntry
	loadJSON(f.searchPath(), &entries)
	entries = boundEntries(append(entries, entry), f.limit)
	return saveJSON(f.searchPath(), entries)
}

// Reset empties both logs under one lock so callers never observe one log
// cleared and the other not.
func (f *FileStore) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := saveJSON(f.chatPath(), []models.ChatTurn{}); err != nil {
		return err
	}
	return saveJSON(f.searchPath(), []models.SearchHistoryEntry{})
}

// loadJSON tolerates a missing or corrupted file: history that fails to
// parse is treated as empty, never as a fatal error.
func loadJSON(path string, v interface{}) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	_ = json.Unmarshal(data, v)
}

func saveJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing history: %w", err)
	}
	return os.Rename(tmp, path)
}
