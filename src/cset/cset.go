// Package cset contains a thread-safe concurrent set.
// It is optimised for highly contended insert-and-lookup workloads where the
// membership only ever grows; there is deliberately no removal and no iteration,
// which lets callers query it freely while other goroutines are still inserting.
package cset

import (
	"fmt"
	"sync"
)

// DefaultShardCount is a reasonable default shard count for a large set.
const DefaultShardCount = 1 << 8

// A Set is the top-level set type. All functions on it are threadsafe.
// It should be constructed via New() rather than creating an instance directly.
type Set[K comparable] struct {
	shards []shard[K]
	hasher func(K) uint64
	mask   uint64
}

// New creates a new Set using the given hasher to hash items in it.
// The shard count must be a power of 2; it will panic if not.
// Higher shard counts will improve concurrency but consume more memory.
func New[K comparable](shardCount uint64, hasher func(K) uint64) *Set[K] {
	mask := shardCount - 1
	if (shardCount & mask) != 0 {
		panic(fmt.Sprintf("Shard count %d is not a power of 2", shardCount))
	}
	s := &Set[K]{
		shards: make([]shard[K], shardCount),
		mask:   mask,
		hasher: hasher,
	}
	for i := range s.shards {
		s.shards[i].m = map[K]struct{}{}
	}
	return s
}

// Add inserts the given key into the set.
// It returns true if the key was inserted, false if it was already present.
func (s *Set[K]) Add(key K) bool {
	return s.shards[s.hasher(key)&s.mask].Add(key)
}

// Contains returns true if the given key is present in the set.
// A Contains racing a concurrent Add of the same key may observe either state.
func (s *Set[K]) Contains(key K) bool {
	return s.shards[s.hasher(key)&s.mask].Contains(key)
}

// A shard is one of the individual shards of a set.
type shard[K comparable] struct {
	m map[K]struct{}
	l sync.Mutex
}

func (s *shard[K]) Add(key K) bool {
	s.l.Lock()
	defer s.l.Unlock()
	if _, present := s.m[key]; present {
		return false
	}
	s.m[key] = struct{}{}
	return true
}

func (s *shard[K]) Contains(key K) bool {
	s.l.Lock()
	defer s.l.Unlock()
	_, present := s.m[key]
	return present
}
