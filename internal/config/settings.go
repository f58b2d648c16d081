// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/apex/log"
	"github.com/caarlos0/env/v11"

	"github.com/staranto/fcache/internal/cache"
)

// Settings is everything the CLI needs to build and run a cache.Store.
// Precedence, lowest first: DefaultSettings, the cache.* section of the config
// file, FCACHE_* environment variables.
type Settings struct {
	Dir         string        `env:"FCACHE_DIR"`
	Enabled     bool          `env:"FCACHE_ENABLED"`
	DefaultTTL  time.Duration `env:"FCACHE_DEFAULT_TTL"`
	AutoCleanup bool          `env:"FCACHE_AUTO_CLEANUP"`
	CleanupOdds int           `env:"FCACHE_CLEANUP_ODDS"`
	SweepEvery  time.Duration `env:"FCACHE_SWEEP_EVERY"`

	// Remote snapshot target.
	Bucket string `env:"FCACHE_BUCKET"`
	Prefix string `env:"FCACHE_PREFIX"`
	Region string `env:"FCACHE_REGION"`
}

// DefaultSettings are the hardcoded fallbacks used when nothing else is set or
// the config cannot be loaded.
func DefaultSettings() Settings {
	cc := cache.DefaultConfig()
	return Settings{
		Dir:         DefaultDir(),
		Enabled:     cc.Enabled,
		DefaultTTL:  cc.DefaultTTL,
		AutoCleanup: cc.AutoCleanup,
		CleanupOdds: cc.CleanupOdds,
		SweepEvery:  10 * time.Minute, //nolint:mnd
		Prefix:      "fcache",
	}
}

// DefaultDir is os.UserCacheDir()/fcache, or the same under the temp dir
// when there is no user cache dir.
func DefaultDir() string {
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "fcache")
	}
	return filepath.Join(os.TempDir(), "fcache")
}

// LoadSettings resolves Settings. It never fails: a missing or broken source
// is logged and skipped.
func LoadSettings() Settings {
	s := DefaultSettings()

	if _, err := Load(); err != nil {
		log.WithError(err).Debug("no config file, using defaults")
		Config = Type{}
	}

	if v, err := GetString("cache.dir", s.Dir); err == nil {
		s.Dir = v
	}
	if v, err := GetBool("cache.enabled", s.Enabled); err == nil {
		s.Enabled = v
	}
	if v, err := GetDuration("cache.default_ttl", s.DefaultTTL); err == nil {
		s.DefaultTTL = v
	}
	if v, err := GetBool("cache.auto_cleanup", s.AutoCleanup); err == nil {
		s.AutoCleanup = v
	}
	if v, err := GetInt("cache.cleanup_odds", s.CleanupOdds); err == nil {
		s.CleanupOdds = v
	}
	if v, err := GetDuration("cache.sweep_every", s.SweepEvery); err == nil {
		s.SweepEvery = v
	}
	if v, err := GetString("snapshot.bucket", s.Bucket); err == nil {
		s.Bucket = v
	}
	if v, err := GetString("snapshot.prefix", s.Prefix); err == nil {
		s.Prefix = v
	}
	if v, err := GetString("snapshot.region", s.Region); err == nil {
		s.Region = v
	}

	fromEnv := s
	if err := env.Parse(&fromEnv); err != nil {
		log.WithError(err).Warn("ignoring invalid FCACHE_* environment settings")
	} else {
		s = fromEnv
	}

	return s
}

// CacheConfig is the subset of s that cache.Store.Configure takes.
func (s Settings) CacheConfig() cache.Config {
	return cache.Config{
		Enabled:     s.Enabled,
		DefaultTTL:  s.DefaultTTL,
		AutoCleanup: s.AutoCleanup,
		CleanupOdds: s.CleanupOdds,
	}
}
