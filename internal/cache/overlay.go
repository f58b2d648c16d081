// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"encoding/json"
	"sync"
	"time"
)

// overlay is the in-process read-through layer in front of the files. It is
// never persisted.
type overlay struct {
	mu    sync.RWMutex
	items map[string]memItem
}

type memItem struct {
	raw       json.RawMessage
	expiresAt int64
}

func newOverlay() *overlay {
	return &overlay{items: make(map[string]memItem)}
}

func (o *overlay) get(key string, now time.Time) (json.RawMessage, bool) {
	o.mu.RLock()
	it, ok := o.items[key]
	o.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if it.expiresAt != 0 && it.expiresAt < now.Unix() {
		o.del(key)
		return nil, false
	}
	return it.raw, true
}

func (o *overlay) put(key string, raw json.RawMessage, expiresAt int64) {
	o.mu.Lock()
	o.items[key] = memItem{raw: raw, expiresAt: expiresAt}
	o.mu.Unlock()
}

func (o *overlay) del(key string) {
	o.mu.Lock()
	delete(o.items, key)
	o.mu.Unlock()
}

func (o *overlay) clear() {
	o.mu.Lock()
	o.items = make(map[string]memItem)
	o.mu.Unlock()
}

func (o *overlay) len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.items)
}
