// Package cache implements the byte-bounded LRU engine: a map from keys
// to byte payloads coupled to a recency order, evicting from the tail
// whenever a PUT would push total resident bytes over capacity.
package cache

import "github.com/boundedcache/boundedcache/internal/recency"

/*
Engine is the core key-value store.

================================================================================
ARCHITECTURE
================================================================================

Engine combines two structures, same as the teacher's Cache:

1. Hash map (map[string]entry)
   - O(1) key lookup.
   - Maps keys to their stored bytes and their recency-list handle.

2. Recency list (*recency.List)
   - Tracks access order.
   - Most recently used key is the head; least recently used is the tail,
     the next eviction candidate.

================================================================================
BUDGET, NOT COUNT
================================================================================

Unlike the teacher's maxEntries cache, eviction here is driven by total
resident bytes (capacity), never by entry count: a single PUT can evict
zero, one, or many tail entries depending on how large the incoming value
is relative to what it displaces.

================================================================================
CONCURRENCY
================================================================================

Engine holds no mutex of its own. Spec §5 puts the single
mutual-exclusion discipline on the server binding, not here: Engine
methods assume the caller already serializes access (see
internal/server, which wraps every Put/Get in one shared sync.Mutex).
This mirrors the Rust reference, where lru-cache/src/cache.rs is a plain
mutator and cache-server/src/service.rs holds the Arc<Mutex<..>>.
*/
type Engine struct {
	capacity   uint64
	totalBytes uint64
	data       map[string]entry
	order      *recency.List
	stats      Stats
}

// New builds an Engine with DefaultCapacity, as modified by opts.
func New(opts ...Option) *Engine {
	e := &Engine{
		capacity: DefaultCapacity,
		data:     make(map[string]entry),
		order:    recency.New(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Capacity returns the configured byte budget.
func (e *Engine) Capacity() uint64 { return e.capacity }

// TotalBytes returns the sum of stored value lengths over all live
// entries. Always <= Capacity().
func (e *Engine) TotalBytes() uint64 { return e.totalBytes }

// Stats returns a snapshot of the engine's observability counters.
func (e *Engine) Stats() Stats { return e.stats }

/*
Put inserts or updates key with value.

BEHAVIOR (spec §4.2, corrected ordering from §9):

1. If value alone is larger than capacity, the PUT fails silently: the
   cache is left completely unchanged. No partial eviction happens for an
   item that could never fit regardless of what else is evicted.

2. If key already exists:
   - Compute the post-overwrite total (old total minus the current
     value's length, plus the incoming length).
   - Promote the existing node to the head *before* evicting, so the key
     being updated can never itself become an eviction victim.
   - Evict from the tail only while the post-overwrite total still
     exceeds capacity (the corrected ordering: compute first, evict only
     if still over budget — the reference implementation evicts first,
     potentially dropping entries a smaller overwrite never needed to
     touch).
   - Replace the stored value.

3. If key is new:
   - Evict from the tail while total+incoming exceeds capacity and the
     recency list is non-empty.
   - Insert the new value at the head.

Every branch that successfully stores a value leaves total_bytes equal to
the sum of all live values' lengths, and total_bytes never exceeds
capacity.
*/
func (e *Engine) Put(key string, value []byte) {
	incoming := uint64(len(value))
	if incoming > e.capacity {
		e.stats.Oversized++
		return
	}

	stored := cloneValue(value)

	if existing, ok := e.data[key]; ok {
		total := e.totalBytes - uint64(len(existing.value)) + incoming
		e.order.Promote(existing.node)
		for total > e.capacity {
			freed, evicted := e.evictTail()
			if !evicted {
				break
			}
			total -= freed
		}
		existing.value = stored
		e.data[key] = existing
		e.totalBytes = total
		return
	}

	for e.totalBytes+incoming > e.capacity {
		freed, evicted := e.evictTail()
		if !evicted {
			break
		}
		e.totalBytes -= freed
	}

	h := e.order.PushFront(key)
	e.data[key] = entry{value: stored, node: h}
	e.totalBytes += incoming
}

// Get returns the stored value for key and promotes it to most-recently
// used. ok is false when key is absent; Get never evicts and never
// changes TotalBytes().
func (e *Engine) Get(key string) (value []byte, ok bool) {
	it, found := e.data[key]
	if !found {
		e.stats.Misses++
		return nil, false
	}
	e.order.Promote(it.node)
	e.stats.Hits++
	return it.value, true
}
