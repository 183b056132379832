// Package lock serializes dataset replacements. A single process uses the
// in-memory lock; several API instances share the Redis lock.
package lock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// ErrLocked is returned when another ingestion holds the lock
var ErrLocked = errors.New("another ingestion is in progress")

// Locker grants exclusive access for the duration of one ingestion
type Locker interface {
	// Acquire returns immediately; it never waits for the holder
	Acquire(ctx context.Context) (release func(), err error)
}

// Memory is a process-local lock
type Memory struct {
	mu sync.Mutex
}

// NewMemory creates a process-local lock
func NewMemory() *Memory {
	return &Memory{}
}

// Acquire implements Locker
func (m *Memory) Acquire(ctx context.Context) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !m.mu.TryLock() {
		return nil, ErrLocked
	}
	var once sync.Once
	return func() { once.Do(m.mu.Unlock) }, nil
}

// DefaultTTL bounds how long a crashed holder can block ingestion
const DefaultTTL = 5 * time.Minute

// DefaultKey is the Redis key guarding dataset replacement
const DefaultKey = "asbuilt:ingest:lock"

// releaseScript deletes the key only while it still holds our token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis is a lock shared by every instance pointing at the same Redis
type Redis struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedis creates a Redis-backed lock. Empty key and zero ttl take defaults.
func NewRedis(client *redis.Client, key string, ttl time.Duration) *Redis {
	if key == "" {
		key = DefaultKey
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{client: client, key: key, ttl: ttl}
}

// Acquire implements Locker
func (r *Redis) Acquire(ctx context.Context) (func(), error) {
	token := uuid.NewString()
	ok, err := r.client.SetNX(ctx, r.key, token, r.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLocked
	}

	var once sync.Once
	release := func() {
		once.Do(func() {
			// release must succeed even when the request context is gone
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = releaseScript.Run(ctx, r.client, []string{r.key}, token).Err()
		})
	}
	return release, nil
}
