// Copyright © 2026 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package cache provides a file-backed key/value store with per-entry TTLs,
// a per-view memory overlay and tag based invalidation. Each entry lives in
// its own file named by a hash of its key.
package cache
