// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"
)

// scanWorkers bounds the number of files read at once during a scan.
const scanWorkers = 8

// Stats summarizes the entry files on disk.
type Stats struct {
	TotalFiles    int   `json:"total_files" yaml:"total_files"`
	ValidFiles    int   `json:"valid_files" yaml:"valid_files"`
	ExpiredFiles  int   `json:"expired_files" yaml:"expired_files"`
	InvalidFiles  int   `json:"invalid_files" yaml:"invalid_files"`
	TotalSize     int64 `json:"total_size" yaml:"total_size"`
	MemoryEntries int   `json:"memory_entries" yaml:"memory_entries"`
}

type fileState int

const (
	stateGone fileState = iota
	stateValid
	stateExpired
	stateInvalid
)

type scanned struct {
	path  string
	size  int64
	state fileState
}

// scan reads and classifies every entry file.
func (s *Store) scan() ([]scanned, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache directory: %w", err)
	}

	var results []scanned
	for _, de := range entries {
		if de.IsDir() || !isEntryFile(de.Name()) {
			continue
		}
		results = append(results, scanned{path: filepath.Join(s.dir, de.Name())})
	}

	now := s.now()
	var g errgroup.Group
	g.SetLimit(scanWorkers)
	for i := range results {
		g.Go(func() error {
			r := &results[i]
			b, err := os.ReadFile(r.path)
			if err != nil {
				// Removed under us, or unreadable; either way not ours to count.
				r.state = stateGone
				return nil
			}
			r.size = int64(len(b))
			e, err := decodeEntry(b)
			switch {
			case err != nil:
				r.state = stateInvalid
			case e.Expired(now):
				r.state = stateExpired
			default:
				r.state = stateValid
			}
			return nil
		})
	}
	_ = g.Wait()

	return results, nil
}

// Cleanup removes every expired or invalid entry file and returns how many
// were removed. Temp files orphaned by an interrupted write are removed too
// but not counted.
func (s *Store) Cleanup() (int, error) {
	results, err := s.scan()
	if err != nil {
		return 0, err
	}

	removed, freed, errs := s.removeScanned(results)
	if err := s.removeOrphans(); err != nil {
		errs = append(errs, err)
	}

	s.log.Debugf("cache cleanup removed %d files (%s)", removed, humanize.Bytes(uint64(freed)))
	return removed, errors.Join(errs...)
}

// removeScanned deletes the files scan classified as expired or invalid. Each
// one is checked again under the write lock, so an entry rewritten since the
// scan survives.
func (s *Store) removeScanned(results []scanned) (removed int, freed int64, errs []error) {
	for _, r := range results {
		if r.state != stateExpired && r.state != stateInvalid {
			continue
		}
		ok, err := s.removeStale(r.path)
		if err != nil {
			s.log.WithError(err).Warnf("failed to remove cache file %s", r.path)
			errs = append(errs, err)
			continue
		}
		if ok {
			removed++
			freed += r.size
		}
	}
	return removed, freed, errs
}

// orphanAge is how old a temp file must be before Cleanup treats it as left
// behind by a crashed writer.
const orphanAge = 10 * time.Minute

// removeOrphans deletes temp files older than orphanAge.
func (s *Store) removeOrphans() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("failed to read cache directory: %w", err)
	}

	cutoff := s.now().Add(-orphanAge)
	var errs []error
	for _, de := range entries {
		if de.IsDir() || !isTempFile(de.Name()) {
			continue
		}
		fi, err := de.Info()
		if err != nil || fi.ModTime().After(cutoff) {
			continue
		}
		p := filepath.Join(s.dir, de.Name())
		if err := s.removeFile(p); err != nil {
			s.log.WithError(err).Warnf("failed to remove temp file %s", p)
			errs = append(errs, err)
			continue
		}
		s.log.Debugf("removed orphaned temp file %s", p)
	}
	return errors.Join(errs...)
}

// Stats tallies the entry files in a single pass.
func (s *Store) Stats() (Stats, error) {
	results, err := s.scan()
	if err != nil {
		return Stats{}, err
	}

	st := Stats{MemoryEntries: s.mem.len()}
	for _, r := range results {
		switch r.state {
		case stateGone:
			continue
		case stateValid:
			st.ValidFiles++
		case stateExpired:
			st.ExpiredFiles++
		case stateInvalid:
			st.InvalidFiles++
		}
		st.TotalFiles++
		st.TotalSize += r.size
	}
	return st, nil
}

// MaybeCleanup rolls the configured 1-in-N odds and, on a hit, starts Cleanup
// on its own goroutine. It never blocks and reports whether a sweep started.
// At most one background sweep runs at a time.
func (s *Store) MaybeCleanup() bool {
	cfg := s.Config()
	if !cfg.Enabled || !cfg.AutoCleanup || cfg.CleanupOdds <= 0 {
		return false
	}
	if s.intN(cfg.CleanupOdds) != 0 {
		return false
	}
	if !s.sweeping.CompareAndSwap(false, true) {
		return false
	}

	s.sweeps.Add(1)
	go func() {
		defer s.sweeps.Done()
		defer s.sweeping.Store(false)
		if _, err := s.Cleanup(); err != nil {
			s.log.WithError(err).Warn("background cache cleanup failed")
		}
	}()
	return true
}

// Wait blocks until background sweeps started by MaybeCleanup have finished.
func (s *Store) Wait() {
	s.sweeps.Wait()
}

// Sweep runs Cleanup every interval until ctx is done.
func (s *Store) Sweep(ctx context.Context, every time.Duration) error {
	if every <= 0 {
		return fmt.Errorf("sweep interval must be positive, got %s", every)
	}

	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			n, err := s.Cleanup()
			if err != nil {
				s.log.WithError(err).Warn("cache sweep failed")
				continue
			}
			s.log.Infof("cache sweep removed %d files", n)
		}
	}
}
