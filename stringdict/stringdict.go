// Copyright 2026 The Carbon Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

// Package stringdict is a reference implementation of
// carbon.StringDictionary: insert/extract/locate/remove over a set of
// strings, keyed by an opaque uint64 id. It is used only for
// record-key encoding and archive export (spec §6); the carbon core
// never calls it during ordinary document read/write.
//
// Locate's fast path is grounded on PriyanshuSharma23-FlashLog's
// memtable lookup, which probes a bloom.BloomFilter before touching its
// backing map so a definitely-absent key costs one hash check instead
// of a map probe. The id cache is grounded on
// rpcpool-yellowstone-faithful's MinerInfoCache, which wraps a
// jellydator/ttlcache.Cache to bound a resident set of recently-used
// entries instead of letting it grow without limit.
package stringdict

import (
	"fmt"
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/jellydator/ttlcache/v3"
)

// Dictionary is a concurrency-safe string <-> id table.
type Dictionary struct {
	mu       sync.RWMutex
	byString map[string]uint64
	byID     map[uint64]string
	nextID   uint64
	filter   *bloom.BloomFilter
	cache    *ttlcache.Cache[uint64, string]
}

// New returns an empty Dictionary sized for roughly capacityHint
// distinct strings at a 1% false-positive rate on the membership
// pre-filter, with a cacheTTL-bounded id->string cache.
func New(capacityHint uint, cacheTTL time.Duration) *Dictionary {
	cache := ttlcache.New[uint64, string](
		ttlcache.WithTTL[uint64, string](cacheTTL),
		ttlcache.WithDisableTouchOnHit[uint64, string]())
	go cache.Start()
	return &Dictionary{
		byString: make(map[string]uint64),
		byID:     make(map[uint64]string),
		filter:   bloom.NewWithEstimates(capacityHint, 0.01),
		cache:    cache,
	}
}

// Close stops the background TTL eviction goroutine. Callers that
// create a Dictionary must Close it when done.
func (d *Dictionary) Close() { d.cache.Stop() }

// Insert assigns (or reuses) an id for each of strs, in order.
func (d *Dictionary) Insert(strs []string) ([]uint64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	ids := make([]uint64, len(strs))
	for i, s := range strs {
		if id, ok := d.byString[s]; ok {
			ids[i] = id
			continue
		}
		id := d.nextID
		d.nextID++
		d.byString[s] = id
		d.byID[id] = s
		d.filter.AddString(s)
		d.cache.Set(id, s, ttlcache.DefaultTTL)
		ids[i] = id
	}
	return ids, nil
}

// Extract resolves each of ids back to its string, in order.
func (d *Dictionary) Extract(ids []uint64) ([]string, error) {
	out := make([]string, len(ids))
	for i, id := range ids {
		if item := d.cache.Get(id); item != nil {
			out[i] = item.Value()
			continue
		}
		d.mu.RLock()
		s, ok := d.byID[id]
		d.mu.RUnlock()
		if !ok {
			return nil, fmt.Errorf("stringdict: no such id %d", id)
		}
		d.cache.Set(id, s, ttlcache.DefaultTTL)
		out[i] = s
	}
	return out, nil
}

// Locate reports, for each of strs, whether it is already in the
// dictionary and its id if so. A bloom filter miss short-circuits the
// map lookup entirely; a hit still confirms against the map, since a
// bloom filter can false-positive but never false-negative.
func (d *Dictionary) Locate(strs []string) (ids []uint64, found []bool, err error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	ids = make([]uint64, len(strs))
	found = make([]bool, len(strs))
	for i, s := range strs {
		if !d.filter.TestString(s) {
			continue
		}
		if id, ok := d.byString[s]; ok {
			ids[i] = id
			found[i] = true
		}
	}
	return ids, found, nil
}

// Remove deletes each of ids from the dictionary. The bloom filter is
// never shrunk — bloom filters do not support deletion — so a removed
// string may still pass the membership pre-filter until the
// Dictionary is rebuilt; Locate's map lookup catches the miss.
func (d *Dictionary) Remove(ids []uint64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, id := range ids {
		if s, ok := d.byID[id]; ok {
			delete(d.byID, id)
			delete(d.byString, s)
			d.cache.Delete(id)
		}
	}
	return nil
}
