// internal/domain/address/debounce.go
package address

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/foodie-backend/internal/pkg/apperror"
)

// Debouncer runs the latest call per key after a quiet window. Starting a
// new call for a key cancels the one before it, whether it is still
// waiting or already running, and the older call returns ErrSuperseded.
//
// A shared Debouncer also counts calls per key in Redis, so a newer call
// served by another instance supersedes this one too. A call from another
// instance cannot be interrupted while fn runs, its result is dropped instead.
type Debouncer struct {
	mu      sync.Mutex
	seq     uint64
	pending map[string]*pendingCall

	rdb    *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

type pendingCall struct {
	seq    uint64
	cancel context.CancelCauseFunc
}

// NewDebouncer creates an empty process-local Debouncer
func NewDebouncer() *Debouncer {
	return &Debouncer{pending: make(map[string]*pendingCall)}
}

// NewSharedDebouncer creates a Debouncer that orders calls through Redis.
// Counters expire after ttl of inactivity. Redis errors fall back to local ordering.
func NewSharedDebouncer(rdb *redis.Client, ttl time.Duration, logger *logrus.Logger) *Debouncer {
	d := NewDebouncer()
	d.rdb = rdb
	d.ttl = ttl
	d.logger = logger
	return d
}

// Do waits for wait, then runs fn with a context that is cancelled when a
// newer call for key arrives or when ctx ends.
func (d *Debouncer) Do(ctx context.Context, key string, wait time.Duration, fn func(context.Context) error) error {
	runCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	d.mu.Lock()
	d.seq++
	mine := &pendingCall{seq: d.seq, cancel: cancel}
	if prev, ok := d.pending[key]; ok {
		prev.cancel(apperror.ErrSuperseded)
	}
	d.pending[key] = mine
	d.mu.Unlock()

	defer d.finish(key, mine)

	ticket := d.take(runCtx, key)

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-runCtx.Done():
		return d.cause(runCtx)
	}
	if d.stale(runCtx, key, ticket) {
		return apperror.ErrSuperseded
	}

	err := fn(runCtx)
	if runCtx.Err() != nil {
		// a result produced after cancellation is never delivered
		return d.cause(runCtx)
	}
	if d.stale(runCtx, key, ticket) {
		return apperror.ErrSuperseded
	}
	return err
}

// take draws the next shared sequence number for key. Zero means unordered.
func (d *Debouncer) take(ctx context.Context, key string) int64 {
	if d.rdb == nil {
		return 0
	}
	var incr *redis.IntCmd
	_, err := d.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, sharedKey(key))
		pipe.Expire(ctx, sharedKey(key), d.ttl)
		return nil
	})
	if err != nil {
		d.warn(err, key)
		return 0
	}
	return incr.Val()
}

// stale reports whether a newer call for key has been registered anywhere
func (d *Debouncer) stale(ctx context.Context, key string, ticket int64) bool {
	if ticket == 0 {
		return false
	}
	cur, err := d.rdb.Get(ctx, sharedKey(key)).Int64()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			d.warn(err, key)
		}
		return false
	}
	return cur != ticket
}

func (d *Debouncer) warn(err error, key string) {
	if d.logger != nil {
		d.logger.WithError(err).WithField("key", key).Warn("shared debounce unavailable, using local ordering")
	}
}

func sharedKey(key string) string {
	return "debounce:" + key
}

func (d *Debouncer) cause(ctx context.Context) error {
	if errors.Is(context.Cause(ctx), apperror.ErrSuperseded) {
		return apperror.ErrSuperseded
	}
	return ctx.Err()
}

func (d *Debouncer) finish(key string, call *pendingCall) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if cur, ok := d.pending[key]; ok && cur.seq == call.seq {
		delete(d.pending, key)
	}
}

// Pending is the number of keys with a call in flight
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}
