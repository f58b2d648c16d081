// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"time"
)

const (
	taggedPrefix = "tagged:"
	tagPrefix    = "tag:"

	// TagTTL is how long a tag's membership list lives after its last write.
	TagTTL = 24 * time.Hour
)

// Tagged groups keys under a set of tags so they can be flushed together. It
// keeps no reverse index: a key flushed through one tag stays listed under its
// other tags and simply misses when read through them.
type Tagged struct {
	store  *Store
	tags   []string
	prefix string
}

// Tags returns a view of s whose keys are grouped under names. Empty names are
// dropped; order and duplicates do not matter.
func (s *Store) Tags(names ...string) *Tagged {
	var tags []string
	for _, n := range names {
		if n != "" {
			tags = append(tags, n)
		}
	}
	slices.Sort(tags)
	tags = slices.Compact(tags)

	hashes := make([]string, len(tags))
	for i, t := range tags {
		hashes[i] = tagHash(t)
	}

	return &Tagged{
		store:  s,
		tags:   tags,
		prefix: taggedPrefix + strings.Join(hashes, ":") + ":",
	}
}

// Names returns the normalized tag names.
func (t *Tagged) Names() []string {
	return slices.Clone(t.tags)
}

// Key returns the composed store key for key under this tag set.
func (t *Tagged) Key(key string) string {
	return t.prefix + key
}

// Get is Store.Get on the composed key.
func (t *Tagged) Get(key string) (any, error) {
	return t.store.Get(t.Key(key))
}

// GetInto is Store.GetInto on the composed key.
func (t *Tagged) GetInto(key string, dst any) error {
	return t.store.GetInto(t.Key(key), dst)
}

// GetOr is Store.GetOr on the composed key.
func (t *Tagged) GetOr(key string, def any) any {
	return t.store.GetOr(t.Key(key), def)
}

// Has is Store.Has on the composed key.
func (t *Tagged) Has(key string) bool {
	return t.store.Has(t.Key(key))
}

// Delete is Store.Delete on the composed key. Tag lists are left alone.
func (t *Tagged) Delete(key string) error {
	return t.store.Delete(t.Key(key))
}

// Set stores value under the composed key and records that key in every tag's
// membership list.
func (t *Tagged) Set(key string, value any, ttl time.Duration) error {
	if key == "" {
		return ErrEmptyKey
	}
	ck := t.Key(key)
	if err := t.store.Set(ck, value, ttl); err != nil {
		return err
	}

	var errs []error
	for _, tag := range t.tags {
		if err := t.store.addMember(tagPrefix+tag, ck); err != nil {
			t.store.log.WithError(err).WithField("tag", tag).Error("failed to update tag index")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Put is Set with the configured default TTL.
func (t *Tagged) Put(key string, value any) error {
	return t.Set(key, value, DefaultTTL)
}

// Remember is Store.Remember on the composed key, indexing the stored value
// under every tag.
func (t *Tagged) Remember(key string, ttl time.Duration, fn func() (any, error)) (any, error) {
	if v, err := t.Get(key); err == nil && v != nil {
		return v, nil
	}

	v, err, _ := t.store.flight.Do(t.flightKey(key), func() (any, error) {
		if v, err := t.Get(key); err == nil && v != nil {
			return v, nil
		}
		v, err := fn()
		if err != nil {
			t.store.log.WithError(err).WithField("key", t.Key(key)).Error("remember callback failed")
			return nil, err
		}
		_ = t.Set(key, v, ttl)
		return v, nil
	})
	return v, err
}

// Flush deletes every key recorded under each of the tags, then the tag lists
// themselves.
func (t *Tagged) Flush() error {
	if !t.store.Config().Enabled {
		return ErrDisabled
	}

	var errs []error
	for _, tag := range t.tags {
		tk := tagPrefix + tag
		err := t.store.withLock(func() error {
			for _, m := range t.store.members(tk) {
				if err := t.store.Delete(m); err != nil {
					errs = append(errs, err)
				}
			}
			return t.store.Delete(tk)
		})
		if err != nil {
			errs = append(errs, err)
		}
		t.store.log.WithField("tag", tag).Debug("flushed tag")
	}
	return errors.Join(errs...)
}

// members reads a tag's membership list straight from disk. A missing or
// unreadable list is empty. Callers hold the write lock.
func (s *Store) members(tagKey string) []string {
	p := s.path(tagKey)
	e, err := s.readEntry(p)
	if err != nil {
		if errors.Is(err, ErrCorrupted) {
			s.healLocked(tagKey, p)
		}
		return nil
	}
	if e.Expired(s.now()) {
		return nil
	}
	var list []string
	if err := json.Unmarshal(e.Value, &list); err != nil {
		s.healLocked(tagKey, p)
		return nil
	}
	return list
}

// addMember appends key to the list stored under tagKey. The read and write
// happen under the write lock so concurrent Sets do not drop each other.
func (s *Store) addMember(tagKey, key string) error {
	return s.withLock(func() error {
		list := s.members(tagKey)
		if slices.Contains(list, key) {
			return nil
		}
		list = append(list, key)

		e, err := newEntry(list, TagTTL, s.now())
		if err != nil {
			return err
		}
		if err := s.writeEntry(tagKey, e); err != nil {
			return err
		}
		s.mem.put(tagKey, e.Value, e.ExpiresAt)
		return nil
	})
}

// tagHash is the 128-bit prefix of a tag name's key hash.
func tagHash(tag string) string {
	return encodeKey(tag)[:32]
}
