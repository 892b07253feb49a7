// internal/domain/cart/store.go
package cart

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/your-org/foodie-backend/internal/infrastructure/storage"
	"github.com/your-org/foodie-backend/internal/pkg/apperror"
)

// Store reads and writes cart snapshots in the tab and device scopes
type Store struct {
	session     storage.Store
	durable     storage.Store
	errors      *apperror.Log
	logger      *logrus.Logger
	placeholder string
}

// NewStore creates a cart store over the two scopes
func NewStore(session, durable storage.Store, errLog *apperror.Log, logger *logrus.Logger, placeholder string) *Store {
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	return &Store{
		session:     session,
		durable:     durable,
		errors:      errLog,
		logger:      logger,
		placeholder: placeholder,
	}
}

// Load returns the tab snapshot when it holds items, otherwise the device
// snapshot, otherwise an empty cart. It never fails.
func (s *Store) Load(ctx context.Context, owner Owner) []Item {
	if items, ok := s.read(ctx, s.session, owner.SessionID, SessionKey); ok {
		return items
	}
	if owner.ClientID != "" {
		if items, ok := s.read(ctx, s.durable, owner.ClientID, DurableKey); ok {
			return items
		}
	}
	return []Item{}
}

func (s *Store) read(ctx context.Context, scope storage.Store, owner, key string) ([]Item, bool) {
	if owner == "" {
		return nil, false
	}
	raw, err := scope.Get(ctx, owner, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, false
	}
	if err != nil {
		s.record(apperror.Storage("load "+key, err), owner)
		return nil, false
	}

	var raws []RawItem
	if err := json.Unmarshal([]byte(raw), &raws); err != nil {
		s.record(apperror.Storage("parse "+key, err), owner)
		return nil, false
	}
	items := normalizeItems(raws, s.placeholder)
	if len(items) == 0 {
		return nil, false
	}
	return items, true
}

// Save writes the snapshot to both scopes. Each write is attempted even when
// the other fails; failures come back as a single Storage error for the
// caller to surface as a warning.
func (s *Store) Save(ctx context.Context, owner Owner, items []Item) error {
	if items == nil {
		items = []Item{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return s.record(apperror.Storage("encode cart", err), owner.SessionID)
	}

	var errs []error
	if err := s.session.Set(ctx, owner.SessionID, SessionKey, string(data)); err != nil {
		errs = append(errs, s.record(apperror.Storage("save "+SessionKey, err), owner.SessionID))
	}
	if owner.ClientID != "" {
		if err := s.durable.Set(ctx, owner.ClientID, DurableKey, string(data)); err != nil {
			errs = append(errs, s.record(apperror.Storage("save "+DurableKey, err), owner.ClientID))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return apperror.Storage("save cart", errors.Join(errs...))
}

// ClearSession removes the tab snapshot
func (s *Store) ClearSession(ctx context.Context, owner Owner) error {
	if err := s.session.Delete(ctx, owner.SessionID, SessionKey); err != nil {
		return s.record(apperror.Storage("clear "+SessionKey, err), owner.SessionID)
	}
	return nil
}

func (s *Store) record(err error, owner string) error {
	if s.errors != nil {
		s.errors.Record(err, map[string]interface{}{"owner": owner})
	} else if s.logger != nil {
		s.logger.WithError(err).WithField("owner", owner).Warn("cart storage failure")
	}
	return err
}

// Placeholder is the image used for items without one
func (s *Store) Placeholder() string {
	return s.placeholder
}
