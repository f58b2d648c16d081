// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"encoding/json"
	"time"

	"github.com/tidwall/gjson"
)

// Entry is the on-disk record for a single key. Value holds the JSON encoded
// payload. Timestamps are unix seconds and ExpiresAt == 0 means the entry
// never expires.
type Entry struct {
	Value     json.RawMessage `json:"value"`
	CreatedAt int64           `json:"created_at"`
	ExpiresAt int64           `json:"expires_at"`
}

// Expired reports whether the entry is past its expiry at now.
func (e *Entry) Expired(now time.Time) bool {
	return e.ExpiresAt != 0 && e.ExpiresAt < now.Unix()
}

// newEntry encodes value and stamps it. ttl has already been normalized, so
// 0 means never.
func newEntry(value any, ttl time.Duration, now time.Time) (*Entry, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	e := &Entry{Value: raw, CreatedAt: now.Unix()}
	if ttl > 0 {
		e.ExpiresAt = now.Add(ttl).Unix()
		// Sub-second TTLs still get one full second.
		if e.ExpiresAt <= e.CreatedAt {
			e.ExpiresAt = e.CreatedAt + 1
		}
	}
	return e, nil
}

// decodeEntry parses a file body. A body that is not JSON, or that lacks the
// value or expires_at fields, is reported as ErrCorrupted.
func decodeEntry(b []byte) (*Entry, error) {
	if !gjson.ValidBytes(b) {
		return nil, ErrCorrupted
	}
	doc := gjson.ParseBytes(b)
	if !doc.IsObject() {
		return nil, ErrCorrupted
	}
	if !doc.Get("value").Exists() || doc.Get("expires_at").Type != gjson.Number {
		return nil, ErrCorrupted
	}
	var e Entry
	if err := json.Unmarshal(b, &e); err != nil {
		return nil, ErrCorrupted
	}
	return &e, nil
}
