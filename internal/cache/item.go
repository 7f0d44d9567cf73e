package cache

import "github.com/boundedcache/boundedcache/internal/recency"

/*
entry is a single live cache row.

value -> the stored payload, owned by the engine (a private copy of
         whatever the caller handed to Put, never aliased to the
         decoder's buffer it was read from).
node  -> the handle into the engine's recency list; kept so Promote and
         Remove stay O(1) without a map-to-list search.

Unlike the teacher's Item, entry carries no expiration: this cache has no
TTL concept (an explicit spec Non-goal), only the byte-budget accounting
the engine performs around it.
*/
type entry struct {
	value []byte
	node  recency.Handle
}

func cloneValue(value []byte) []byte {
	if len(value) == 0 {
		return nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out
}
