package memory

import (
	"context"

	"SignalSentinel/internal/model"

	"github.com/go-redis/redis/v8"
)

const DefaultRedisKey = "signals:last"

// RedisStore keeps the memory in a single Redis hash.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore connects to addr and verifies the connection.
func NewRedisStore(ctx context.Context, addr, key string) (*RedisStore, error) {
	if key == "" {
		key = DefaultRedisKey
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, &model.PersistenceError{Op: "connect", Err: err}
	}
	return &RedisStore{client: client, key: key}, nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Name() string { return "redis" }

func (s *RedisStore) Load(ctx context.Context) (map[string]model.SignalKind, error) {
	last := make(map[string]model.SignalKind)
	raw, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return last, &model.PersistenceError{Op: "load", Err: err}
	}
	for pair, v := range raw {
		if kind := model.SignalKind(v); kind.Valid() {
			last[pair] = kind
		}
	}
	return last, nil
}

func (s *RedisStore) Save(ctx context.Context, last map[string]model.SignalKind) error {
	if len(last) == 0 {
		return nil
	}
	values := make(map[string]interface{}, len(last))
	for pair, kind := range last {
		values[pair] = string(kind)
	}
	if err := s.client.HSet(ctx, s.key, values).Err(); err != nil {
		return &model.PersistenceError{Op: "save", Err: err}
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
