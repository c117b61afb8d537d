// Package profiles keeps the locally saved ratings: at most Capacity entries keyed by
// username, most recently saved first.
//
// Storage failures never reach callers. Reads degrade to an empty list and writes
// report false; both are logged.
package profiles

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/gitrate/internal/gitrate"
	"github.com/spigell/gitrate/internal/logger"
	"github.com/spigell/gitrate/internal/storage"
)

const (
	DefaultKey      = "gitrate_saved_profiles"
	DefaultCapacity = 10
)

// StorageError wraps a failed read or write of the underlying store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("profile storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

type Option func(*Store)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func WithCapacity(capacity int) Option {
	return func(s *Store) {
		if capacity > 0 {
			s.capacity = capacity
		}
	}
}

func WithKey(key string) Option {
	return func(s *Store) {
		if key = strings.TrimSpace(key); key != "" {
			s.key = key
		}
	}
}

type Store struct {
	kv       storage.Store
	key      string
	capacity int
	now      func() time.Time
	logger   *zap.Logger
}

func New(kv storage.Store, opts ...Option) *Store {
	s := &Store{
		kv:       kv,
		key:      DefaultKey,
		capacity: DefaultCapacity,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   zap.NewNop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// List returns the saved ratings, most recently saved first.
func (s *Store) List() []gitrate.Rating {
	profiles, _ := s.load()
	return profiles.Values()
}

// Get returns the saved rating for username.
func (s *Store) Get(username string) (gitrate.Rating, bool) {
	profiles, _ := s.load()
	r, ok := profiles.Get(username)
	if !ok {
		return gitrate.Rating{}, false
	}
	return r.Clone(), true
}

func (s *Store) IsSaved(username string) bool {
	profiles, _ := s.load()
	return profiles.Has(username)
}

// Save stores r, stamping SavedAt. An existing entry is replaced in place; a new one
// goes to the front and the oldest entries are evicted beyond capacity.
func (s *Store) Save(r gitrate.Rating) bool {
	r = r.Clone()
	r.Username = strings.TrimSpace(r.Username)
	if r.Username == "" {
		s.logger.Warn("refusing to save a rating without username")
		return false
	}

	now := s.now()
	r.SavedAt = &now

	profiles, readable := s.load()
	if !readable {
		return false
	}

	if !profiles.Replace(r) {
		profiles.PushFront(r)
		if evicted := profiles.TrimBack(s.capacity); len(evicted) > 0 {
			s.logger.Debug("evicting oldest saved profiles",
				zap.Strings("evicted", evicted),
				zap.Int("capacity", s.capacity),
			)
		}
	}

	if !s.persist(profiles) {
		return false
	}

	logger.WithRating(s.logger, &r).Debug("profile saved", zap.Int("saved", profiles.Len()))
	return true
}

// Remove deletes the entry for username. Removing an absent entry succeeds.
func (s *Store) Remove(username string) bool {
	profiles, readable := s.load()
	if !readable {
		return false
	}
	if !profiles.Delete(username) {
		return true
	}

	return s.persist(profiles)
}

func (s *Store) ClearAll() bool {
	return s.persist(newOrderedProfiles(nil))
}

// load reads the saved collection. readable is false only when the backend failed to
// return the value; writing over it then could drop profiles that are still stored.
// Corrupt data reads as empty and stays writable.
func (s *Store) load() (profiles *orderedProfiles, readable bool) {
	raw, err := s.kv.Get(s.key)
	if errors.Is(err, storage.ErrNotFound) {
		return newOrderedProfiles(nil), true
	}
	if err != nil {
		s.warn(&StorageError{Op: "read", Err: err})
		return newOrderedProfiles(nil), false
	}

	if strings.TrimSpace(raw) == "" {
		return newOrderedProfiles(nil), true
	}

	var ratings []gitrate.Rating
	if err := json.Unmarshal([]byte(raw), &ratings); err != nil {
		s.warn(&StorageError{Op: "decode", Err: err})
		return newOrderedProfiles(nil), true
	}

	return newOrderedProfiles(ratings), true
}

func (s *Store) persist(profiles *orderedProfiles) bool {
	data, err := json.Marshal(profiles.Values())
	if err != nil {
		s.warn(&StorageError{Op: "encode", Err: err})
		return false
	}

	if err := s.kv.Set(s.key, string(data)); err != nil {
		s.warn(&StorageError{Op: "write", Err: err})
		return false
	}

	return true
}

func (s *Store) warn(err *StorageError) {
	s.logger.Warn("saved profiles storage failure",
		zap.String("key", s.key),
		zap.String("op", err.Op),
		zap.Error(err),
	)
}
