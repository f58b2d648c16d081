// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/apex/log"
	"golang.org/x/sync/singleflight"
)

// Cacher is implemented by *Store and *Tagged.
type Cacher interface {
	Set(key string, value any, ttl time.Duration) error
	rawValue(key string) (json.RawMessage, error)
	logger() log.Interface
	group() *singleflight.Group
	flightKey(key string) string
}

// typedFlight keeps RememberAs flights apart from Remember flights on the same
// key, since the two hand back differently typed results.
const typedFlight = "as:"

// RememberAs is the typed form of Store.Remember. A stored null, or a stored
// value that does not decode into T, counts as a miss. Concurrent callers for
// the same key and T share one call to fn.
func RememberAs[T any](c Cacher, key string, ttl time.Duration, fn func() (T, error)) (T, error) {
	if v, ok := cachedAs[T](c, key); ok {
		return v, nil
	}

	v, err, _ := c.group().Do(typedFlight+c.flightKey(key), func() (any, error) {
		if v, ok := cachedAs[T](c, key); ok {
			return v, nil
		}
		v, err := fn()
		if err != nil {
			c.logger().WithError(err).WithField("key", key).Error("remember callback failed")
			return nil, err
		}
		_ = c.Set(key, v, ttl)
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	tv, _ := v.(T)
	return tv, nil
}

// cachedAs decodes the non-null value stored under key into a T.
func cachedAs[T any](c Cacher, key string) (T, bool) {
	var v T
	raw, err := c.rawValue(key)
	if err != nil || bytes.Equal(raw, []byte("null")) {
		return v, false
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, false
	}
	return v, true
}

func (t *Tagged) rawValue(key string) (json.RawMessage, error) {
	return t.store.rawValue(t.Key(key))
}

func (t *Tagged) logger() log.Interface {
	return t.store.log
}

func (t *Tagged) group() *singleflight.Group {
	return &t.store.flight
}

func (t *Tagged) flightKey(key string) string {
	return encodeKey(t.Key(key))
}
