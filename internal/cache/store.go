// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/apex/log"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL asks Set to use the configured default TTL. Any negative TTL
// behaves the same way.
const DefaultTTL time.Duration = -1

// Config holds the settings a host applies once its own configuration is
// ready. See Store.Configure.
type Config struct {
	// Enabled turns the whole store on or off. A disabled store misses every
	// read and refuses every write.
	Enabled bool
	// DefaultTTL is used by Put and by Set when given a negative TTL. Zero
	// means entries never expire.
	DefaultTTL time.Duration
	// AutoCleanup allows MaybeCleanup to start a background sweep.
	AutoCleanup bool
	// CleanupOdds is N in the 1-in-N chance that MaybeCleanup sweeps.
	CleanupOdds int
}

// DefaultConfig is what a Store runs with until Configure is called.
func DefaultConfig() Config {
	return Config{
		Enabled:     true,
		DefaultTTL:  time.Hour,
		AutoCleanup: true,
		CleanupOdds: 100, //nolint:mnd
	}
}

// Option customizes a Store at construction.
type Option func(*core)

// WithLogger sets the logger used for I/O and decode failures. Defaults to the
// apex package logger.
func WithLogger(l log.Interface) Option {
	return func(c *core) { c.log = l }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *core) { c.now = now }
}

// WithRand overrides the source MaybeCleanup rolls against. It must return a
// value in [0, n).
func WithRand(intN func(n int) int) Option {
	return func(c *core) { c.intN = intN }
}

// WithConfig applies cfg at construction instead of DefaultConfig.
func WithConfig(cfg Config) Option {
	return func(c *core) { c.cfg = cfg }
}

// core is the state shared by a Store and every view returned by Scoped.
type core struct {
	dir  string
	log  log.Interface
	now  func() time.Time
	intN func(n int) int

	cfgMu sync.RWMutex
	cfg   Config

	// wmu serializes writers inside the process; the flock on lockName does
	// the same across processes.
	wmu    sync.Mutex
	flight singleflight.Group

	sweeping atomic.Bool
	sweeps   sync.WaitGroup
}

// Store is a file-backed key/value cache. It is safe for concurrent use.
type Store struct {
	*core
	mem *overlay
}

// lockName is the advisory lock file held by writers.
const lockName = ".lock"

// New returns a Store keeping its entries in dir, creating dir as needed.
func New(dir string, opts ...Option) (*Store, error) {
	if dir == "" {
		return nil, errors.New("cache directory must not be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	c := &core{
		dir:  dir,
		log:  log.Log,
		now:  time.Now,
		intN: rand.IntN,
		cfg:  DefaultConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return &Store{core: c, mem: newOverlay()}, nil
}

// Dir returns the directory holding the entry files.
func (s *Store) Dir() string {
	return s.dir
}

// Configure replaces the running configuration. Hosts call it once their
// settings provider is available; until then the store runs on DefaultConfig.
func (s *Store) Configure(cfg Config) {
	if cfg.DefaultTTL < 0 {
		cfg.DefaultTTL = DefaultConfig().DefaultTTL
	}
	s.cfgMu.Lock()
	s.cfg = cfg
	s.cfgMu.Unlock()
	s.log.WithFields(log.Fields{
		"enabled":      cfg.Enabled,
		"default_ttl":  cfg.DefaultTTL,
		"auto_cleanup": cfg.AutoCleanup,
	}).Debug("cache configured")
}

// Config returns the running configuration.
func (s *Store) Config() Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg
}

// Scoped returns a view over the same files with its own, empty memory
// overlay. Use one per request so values read by one request are not served
// from memory to another.
func (s *Store) Scoped() *Store {
	return &Store{core: s.core, mem: newOverlay()}
}

// ResetMemory discards this view's memory overlay.
func (s *Store) ResetMemory() {
	s.mem.clear()
}

// Get returns the decoded value stored under key. Numbers decode as float64
// and objects as map[string]any; use GetInto for typed results.
func (s *Store) Get(key string) (any, error) {
	raw, err := s.rawValue(key)
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("failed to decode cache value: %w", err)
	}
	return v, nil
}

// GetInto decodes the value stored under key into dst.
func (s *Store) GetInto(key string, dst any) error {
	raw, err := s.rawValue(key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to decode cache value: %w", err)
	}
	return nil
}

// GetOr returns the value stored under key, or def on any error.
func (s *Store) GetOr(key string, def any) any {
	v, err := s.Get(key)
	if err != nil {
		return def
	}
	return v
}

// Has reports whether key holds a valid, unexpired entry. It expires and heals
// entries exactly like Get.
func (s *Store) Has(key string) bool {
	_, err := s.rawValue(key)
	return err == nil
}

// Set stores value under key for ttl. A zero ttl never expires and a negative
// ttl uses the configured default.
func (s *Store) Set(key string, value any, ttl time.Duration) error {
	cfg := s.Config()
	if !cfg.Enabled {
		return ErrDisabled
	}
	if key == "" {
		return ErrEmptyKey
	}
	if ttl < 0 {
		ttl = cfg.DefaultTTL
	}

	e, err := newEntry(value, ttl, s.now())
	if err != nil {
		s.log.WithError(err).WithField("key", key).Error("failed to encode cache entry")
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	if err := s.withLock(func() error { return s.writeEntry(key, e) }); err != nil {
		s.log.WithError(err).WithField("key", key).Error("failed to write cache entry")
		return err
	}

	s.mem.put(key, e.Value, e.ExpiresAt)
	return nil
}

// Put stores value under key with the configured default TTL.
func (s *Store) Put(key string, value any) error {
	return s.Set(key, value, DefaultTTL)
}

// Delete removes key from memory and disk. Deleting a key that does not exist
// succeeds.
func (s *Store) Delete(key string) error {
	if !s.Config().Enabled {
		return ErrDisabled
	}
	s.mem.del(key)
	if err := s.removeFile(s.path(key)); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("failed to delete cache entry")
		return err
	}
	return nil
}

// Remember returns the cached, non-null value under key or computes, stores
// and returns it. An error from fn is logged and returned and nothing is
// cached. Concurrent callers for the same key share one call to fn.
func (s *Store) Remember(key string, ttl time.Duration, fn func() (any, error)) (any, error) {
	if v, err := s.Get(key); err == nil && v != nil {
		return v, nil
	}

	v, err, _ := s.flight.Do(s.flightKey(key), func() (any, error) {
		// A caller that missed just before the last flight finished lands here.
		if v, err := s.Get(key); err == nil && v != nil {
			return v, nil
		}
		v, err := fn()
		if err != nil {
			s.log.WithError(err).WithField("key", key).Error("remember callback failed")
			return nil, err
		}
		// A failed store is already logged by Set; the caller still gets v.
		_ = s.Set(key, v, ttl)
		return v, nil
	})
	return v, err
}

// Clear deletes every entry file and this view's memory overlay. A file that
// fails to delete is reported but does not stop the others.
func (s *Store) Clear() error {
	s.mem.clear()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("failed to read cache directory: %w", err)
	}

	var errs []error
	for _, de := range entries {
		if de.IsDir() || !isEntryFile(de.Name()) {
			continue
		}
		p := filepath.Join(s.dir, de.Name())
		if err := s.removeFile(p); err != nil {
			s.log.WithError(err).Warnf("failed to remove cache file %s", p)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// rawValue is the shared read path behind Get, GetInto and Has.
func (s *Store) rawValue(key string) (json.RawMessage, error) {
	if !s.Config().Enabled {
		return nil, ErrDisabled
	}
	if key == "" {
		return nil, ErrNotFound
	}

	now := s.now()
	if raw, ok := s.mem.get(key, now); ok {
		return raw, nil
	}

	p := s.path(key)
	e, err := s.readEntry(p)
	switch {
	case errors.Is(err, ErrCorrupted):
		s.heal(key, p)
		return nil, ErrCorrupted
	case err != nil:
		return nil, err
	}

	if e.Expired(now) {
		s.log.WithField("key", key).Debug("cache entry expired")
		if _, err := s.removeStale(p); err != nil {
			s.log.WithError(err).Warnf("failed to remove expired cache file %s", p)
		}
		return nil, ErrExpired
	}

	s.mem.put(key, e.Value, e.ExpiresAt)
	return e.Value, nil
}

// readEntry loads and validates the file at p. Read failures other than
// corruption are reported as ErrNotFound.
func (s *Store) readEntry(p string) (*Entry, error) {
	b, err := os.ReadFile(p)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.WithError(err).Warnf("failed to read cache file %s", p)
		}
		return nil, ErrNotFound
	}
	return decodeEntry(b)
}

// heal removes a corrupted entry so the next reader sees a clean miss. The
// file is re-checked under the write lock so a concurrent Set is never undone.
func (s *Store) heal(key, p string) {
	s.log.WithField("key", key).Warnf("removing corrupted cache file %s", p)
	s.mem.del(key)
	if _, err := s.removeStale(p); err != nil {
		s.log.WithError(err).Warnf("failed to remove corrupted cache file %s", p)
	}
}

// healLocked is heal for callers holding the write lock. The file they just
// read is still the one on disk, so it is removed without a second look.
func (s *Store) healLocked(key, p string) {
	s.log.WithField("key", key).Warnf("removing corrupted cache file %s", p)
	s.mem.del(key)
	if err := s.removeFile(p); err != nil {
		s.log.WithError(err).Warnf("failed to remove corrupted cache file %s", p)
	}
}

// removeStale deletes the file at p if, read again under the write lock, it is
// still expired or corrupted. It reports whether the file was removed.
func (s *Store) removeStale(p string) (bool, error) {
	var removed bool
	err := s.withLock(func() error {
		var err error
		removed, err = s.removeStaleLocked(p)
		return err
	})
	return removed, err
}

func (s *Store) removeStaleLocked(p string) (bool, error) {
	b, err := os.ReadFile(p)
	if err != nil {
		return false, nil
	}
	if e, err := decodeEntry(b); err == nil && !e.Expired(s.now()) {
		return false, nil
	}
	if err := s.removeFile(p); err != nil {
		return false, err
	}
	return true, nil
}

// writeEntry writes e for key through a temp file and rename so readers never
// see a partial body. Callers hold the write lock.
func (s *Store) writeEntry(key string, e *Entry) error {
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	return s.writeFileAs(encodeKey(key), b)
}

// writeFileAs atomically replaces the entry file for hash with b.
func (s *Store) writeFileAs(hash string, b []byte) error {
	tmp := filepath.Join(s.dir, "."+hash+"."+uuid.NewString()+tempExt)
	if err := os.WriteFile(tmp, b, os.FileMode(0o600)); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(s.dir, hash+fileExt)); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	return nil
}

// withLock runs fn while holding the store's exclusive write lock.
func (s *Store) withLock(fn func() error) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	f, err := os.OpenFile(filepath.Join(s.dir, lockName), os.O_CREATE|os.O_RDWR, 0o600) //nolint:mnd
	if err != nil {
		return fmt.Errorf("failed to open cache lock: %w", err)
	}
	defer f.Close()

	if err := flock(f); err != nil {
		return fmt.Errorf("failed to lock cache: %w", err)
	}
	defer func() { _ = funlock(f) }()

	return fn()
}

func (s *Store) removeFile(p string) error {
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove cache file: %w", err)
	}
	return nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, fileName(key))
}

func (s *Store) logger() log.Interface {
	return s.log
}

func (s *Store) group() *singleflight.Group {
	return &s.flight
}

func (s *Store) flightKey(key string) string {
	return encodeKey(key)
}
