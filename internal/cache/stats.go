package cache

/*
Stats is a snapshot of runtime counters for an Engine.

Hits      -> GETs that found a live key.
Misses    -> GETs for an absent key.
Evictions -> Entries removed from the tail to make room for a PUT.
Oversized -> PUTs silently dropped because the value alone exceeds
             capacity (spec §4.2/§9: Put returns nothing and the server
             still replies SUCCESS; this counter is the only place the
             rejection is observable).

None of these fields participate in any invariant. They exist purely so
internal/server can log cache behavior periodically; Put and Get never
read them back to make a decision.
*/
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Oversized uint64
}
