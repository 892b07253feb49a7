// internal/pkg/apperror/log.go
package apperror

import (
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultCapacity is the number of entries the log keeps
const DefaultCapacity = 50

// Entry is one recorded error
type Entry struct {
	Kind      Kind                   `json:"type"`
	Op        string                 `json:"op,omitempty"`
	Field     string                 `json:"field,omitempty"`
	Message   string                 `json:"message"`
	Context   map[string]interface{} `json:"context,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// Listener is notified after an entry is recorded
type Listener func(Entry)

// Log keeps the most recent errors in a bounded ring and fans them out to listeners
type Log struct {
	mu        sync.RWMutex
	entries   []Entry
	next      int
	full      bool
	listeners map[int]Listener
	nextID    int
	logger    *logrus.Logger
}

// NewLog creates an error log holding at most capacity entries
func NewLog(capacity int, logger *logrus.Logger) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{
		entries:   make([]Entry, capacity),
		listeners: make(map[int]Listener),
		logger:    logger,
	}
}

// Record stores err with optional context and returns the entry
func (l *Log) Record(err error, context map[string]interface{}) Entry {
	if err == nil {
		return Entry{}
	}
	entry := Entry{
		Kind:      KindOf(err),
		Message:   err.Error(),
		Context:   context,
		Timestamp: time.Now().UTC(),
	}
	var e *Error
	if errors.As(err, &e) {
		entry.Op = e.Op
		entry.Field = e.Field
	}

	l.mu.Lock()
	l.entries[l.next] = entry
	l.next = (l.next + 1) % len(l.entries)
	if l.next == 0 {
		l.full = true
	}
	listeners := make([]Listener, 0, len(l.listeners))
	for _, fn := range l.listeners {
		listeners = append(listeners, fn)
	}
	l.mu.Unlock()

	if l.logger != nil {
		fields := logrus.Fields{"kind": entry.Kind}
		if entry.Op != "" {
			fields["op"] = entry.Op
		}
		for k, v := range context {
			fields[k] = v
		}
		l.logger.WithFields(fields).Error(entry.Message)
	}

	for _, fn := range listeners {
		l.notify(fn, entry)
	}
	return entry
}

func (l *Log) notify(fn Listener, entry Entry) {
	defer func() {
		if r := recover(); r != nil && l.logger != nil {
			l.logger.WithField("panic", r).Warn("error listener panicked")
		}
	}()
	fn(entry)
}

// Subscribe registers fn and returns a function that removes it
func (l *Log) Subscribe(fn Listener) func() {
	l.mu.Lock()
	id := l.nextID
	l.nextID++
	l.listeners[id] = fn
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		delete(l.listeners, id)
		l.mu.Unlock()
	}
}

// Recent returns the recorded entries oldest first. An empty kind returns all of them.
func (l *Log) Recent(kind Kind) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var ordered []Entry
	if l.full {
		ordered = append(ordered, l.entries[l.next:]...)
	}
	ordered = append(ordered, l.entries[:l.next]...)

	if kind == "" {
		return ordered
	}
	filtered := make([]Entry, 0, len(ordered))
	for _, e := range ordered {
		if e.Kind == kind {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// Clear drops every recorded entry
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = make([]Entry, len(l.entries))
	l.next = 0
	l.full = false
}
