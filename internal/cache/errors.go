// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import "errors"

var (
	// ErrNotFound is returned when no entry exists for a key.
	ErrNotFound = errors.New("cache entry not found")
	// ErrExpired is returned when an entry existed but was past its expiry. The
	// entry has been removed by the time the caller sees this.
	ErrExpired = errors.New("cache entry expired")
	// ErrCorrupted is returned when an entry file could not be decoded or had
	// the wrong shape. The file has been removed.
	ErrCorrupted = errors.New("cache entry corrupted")
	// ErrDisabled is returned by every operation on a disabled store.
	ErrDisabled = errors.New("cache disabled")
	// ErrEmptyKey is returned by Set when the key is empty.
	ErrEmptyKey = errors.New("cache key must not be empty")
)

// IsMiss reports whether err means "no usable value" as opposed to an I/O or
// encoding failure.
func IsMiss(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrExpired) ||
		errors.Is(err, ErrCorrupted) ||
		errors.Is(err, ErrDisabled)
}
