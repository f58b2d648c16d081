// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// EntryFiles returns the sorted base names of the entry files on disk.
func (s *Store) EntryFiles() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache directory: %w", err)
	}
	var names []string
	for _, de := range entries {
		if !de.IsDir() && isEntryFile(de.Name()) {
			names = append(names, de.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// ReadFile returns the raw body of the entry file name, as listed by
// EntryFiles. A missing file is ErrNotFound, and a body that is corrupted or
// expired is ErrCorrupted or ErrExpired.
func (s *Store) ReadFile(name string) ([]byte, error) {
	if !ValidFileName(name) {
		return nil, fmt.Errorf("not a cache file name: %q", name)
	}
	b, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return nil, ErrNotFound
	}
	e, err := decodeEntry(b)
	if err != nil {
		return nil, err
	}
	if e.Expired(s.now()) {
		return nil, ErrExpired
	}
	return b, nil
}

// Import writes body as entry file name, typically one copied from another
// store. Corrupted bodies are rejected and expired ones are skipped; the
// returned bool reports whether the file was written.
func (s *Store) Import(name string, body []byte) (bool, error) {
	if !s.Config().Enabled {
		return false, ErrDisabled
	}
	if !ValidFileName(name) {
		return false, fmt.Errorf("not a cache file name: %q", name)
	}
	e, err := decodeEntry(body)
	if err != nil {
		return false, fmt.Errorf("%s: %w", name, err)
	}
	if e.Expired(s.now()) {
		return false, nil
	}

	hash := strings.TrimSuffix(name, fileExt)
	err = s.withLock(func() error {
		return s.writeFileAs(hash, body)
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// ValidFileName reports whether name looks like an entry file: a hex key hash
// plus the entry extension.
func ValidFileName(name string) bool {
	hash, ok := strings.CutSuffix(name, fileExt)
	if !ok || len(hash) != 64 { //nolint:mnd
		return false
	}
	_, err := hex.DecodeString(hash)
	return err == nil
}
