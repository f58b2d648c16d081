// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// fileExt is the suffix of every entry file. Anything else in the directory
// is ignored by Clear, Cleanup and Stats.
const fileExt = ".cache"

// encodeKey hashes k with BLAKE2b-256 and returns the hex string.
func encodeKey(k string) string {
	sum := blake2b.Sum256([]byte(k))
	return hex.EncodeToString(sum[:])
}

// fileName returns the entry file name for clear-text key k.
func fileName(k string) string {
	return encodeKey(k) + fileExt
}

func isEntryFile(name string) bool {
	return strings.HasSuffix(name, fileExt) && !strings.HasPrefix(name, ".")
}

// tempExt marks the files writeFileAs renames into place.
const tempExt = ".tmp"

func isTempFile(name string) bool {
	return strings.HasPrefix(name, ".") && strings.HasSuffix(name, tempExt)
}
