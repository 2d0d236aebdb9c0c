package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hyunjin-oh/coursechat/models"
)

const (
	chatKey   = "coursechat:chat_history"
	searchKey = "coursechat:search_history"
)

// RedisStore keeps both logs as redis lists. RPUSH+LTRIM run in one pipeline
// per append, so bounding is enforced server-side and concurrent appenders
// cannot interleave a partial read-modify-write.
type RedisStore struct {
	client *redis.Client
	limit  int
}

// NewRedisStore connects and ping-checks the server before returning.
func NewRedisStore(ctx context.Context, host, port, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%s", host, port),
		Password:    password,
		DB:          db,
		DialTimeout: 5 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed (%s:%s): %w", host, port, err)
	}
	return &RedisStore{client: client, limit: DefaultLimit}, nil
}

func (r *RedisStore) ChatTurns() ([]models.ChatTurn, error) {
	vals, err := r.client.LRange(context.Background(), chatKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("loading chat history: %w", err)
	}
	turns := make([]models.ChatTurn, 0, len(vals))
	for _, v := range vals {
		var turn models.ChatTurn
		if err := json.Unmarshal([]byte(v), &turn); err != nil {
			continue // malformed element, skip rather than fail the log
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

func (r *RedisStore) AppendChatTurn(turn models.ChatTurn) error {
	return r.append(chatKey, turn)
}

func (r *RedisStore) SearchEntries() ([]models.SearchHistoryEntry, error) {
	vals, err := r.client.LRange(context.Background(), searchKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("loading search history: %w", err)
	}
	entries := make([]models.SearchHistoryEntry, 0, len(vals))
	for _, v := range vals {
		var entry models.SearchHistoryEntry
		if err := json.Unmarshal([]byte(v), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *RedisStore) AppendSearchEntry(entry models.SearchHistoryEntry) error {
	return r.append(searchKey, entry)
}

func (r *RedisStore) append(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding history entry: %w", err)
	}
	ctx := context.Background()
	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.LTrim(ctx, key, int64(-r.limit), -1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("appending history entry: %w", err)
	}
	return nil
}

// Reset deletes both keys in a single DEL so the clear is atomic.
func (r *RedisStore) Reset() error {
	if err := r.client.Del(context.Background(), chatKey, searchKey).Err(); err != nil {
		return fmt.Errorf("resetting history: %w", err)
	}
	return nil
}
