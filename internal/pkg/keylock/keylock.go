// internal/pkg/keylock/keylock.go
package keylock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// releaseScript deletes the lock only while it still carries our token
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then return redis.call("DEL", KEYS[1]) else return 0 end`

// Locker hands out one exclusive lock per key. Idle keys are released.
// With a Redis client the lock is also held across processes.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*entry

	rdb    *redis.Client
	ttl    time.Duration
	retry  time.Duration
	logger *logrus.Logger
}

type entry struct {
	ch   chan struct{}
	refs int
}

// New creates an empty process-local Locker
func New() *Locker {
	return &Locker{locks: make(map[string]*entry)}
}

// NewDistributed creates a Locker that also takes a Redis lock per key.
// The Redis lock expires after ttl so a crashed holder cannot wedge a key.
// When Redis is unreachable the lock degrades to process-local.
func NewDistributed(rdb *redis.Client, ttl time.Duration, logger *logrus.Logger) *Locker {
	l := New()
	l.rdb = rdb
	l.ttl = ttl
	l.retry = 20 * time.Millisecond
	l.logger = logger
	return l
}

// Lock blocks until the key is held or ctx is done. The returned func releases it.
func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	unlock, err := l.lockLocal(ctx, key)
	if err != nil {
		return nil, err
	}

	token, err := l.lockRemote(ctx, key)
	if err != nil {
		unlock()
		return nil, err
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.unlockRemote(key, token)
			unlock()
		})
	}, nil
}

func (l *Locker) lockLocal(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		l.drop(key, e)
		return nil, ctx.Err()
	}

	return func() {
		<-e.ch
		l.drop(key, e)
	}, nil
}

// lockRemote polls SET NX until it wins. An empty token means no Redis lock is held.
func (l *Locker) lockRemote(ctx context.Context, key string) (string, error) {
	if l.rdb == nil {
		return "", nil
	}

	token := uuid.New().String()
	for {
		ok, err := l.rdb.SetNX(ctx, redisKey(key), token, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			l.warn(err, key, "redis lock unavailable, continuing with local lock")
			return "", nil
		}
		if ok {
			return token, nil
		}

		timer := time.NewTimer(l.retry)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		}
	}
}

func (l *Locker) unlockRemote(key, token string) {
	if token == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := l.rdb.Eval(ctx, releaseScript, []string{redisKey(key)}, token).Err(); err != nil {
		l.warn(err, key, "failed to release redis lock")
	}
}

func (l *Locker) warn(err error, key, msg string) {
	if l.logger != nil {
		l.logger.WithError(err).WithField("lock", key).Warn(msg)
	}
}

func (l *Locker) drop(key string, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
}

// Len returns the number of keys currently held or awaited in this process
func (l *Locker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

func redisKey(key string) string {
	return "lock:" + key
}
