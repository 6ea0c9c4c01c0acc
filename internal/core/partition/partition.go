package partition

import "hash/fnv"

// DefaultCount is the number of reduce partitions used when none is configured.
const DefaultCount = 16

// For returns the reduce partition owning key, in [0, n).
// Stable and deterministic: the same key always maps to the same partition, so each
// key is reduced by exactly one worker. n <= 0 falls back to DefaultCount.
func For(key string, n int) int {
	if n <= 0 {
		n = DefaultCount
	}
	h := fnv.New32a()
	h.Write([]byte(key))
	return int(h.Sum32() % uint32(n))
}
