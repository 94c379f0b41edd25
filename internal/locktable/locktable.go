// Package locktable provides a sharded table of reader/writer locks keyed by
// data-file slot.
//
// Two operations touching the same slot always map to the same shard, so a
// write excludes every read and write of that slot. Operations on different
// slots usually hit different shards and proceed in parallel.
package locktable

import (
	"encoding/binary"
	"hash/maphash"
	"slices"
	"sync"
)

// DefaultShards is the shard count used when NewTable is given n <= 0.
const DefaultShards = 64

// Table is a fixed set of RWMutex shards.
type Table struct {
	shards []sync.RWMutex
	seed   maphash.Seed
}

// NewTable creates a table with n shards.
func NewTable(n int) *Table {
	if n <= 0 {
		n = DefaultShards
	}
	return &Table{
		shards: make([]sync.RWMutex, n),
		seed:   maphash.MakeSeed(),
	}
}

// Shards returns the number of shards.
func (t *Table) Shards() int { return len(t.shards) }

func (t *Table) index(slot uint64) int {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], slot)
	return int(maphash.Bytes(t.seed, buf[:]) % uint64(len(t.shards)))
}

// Lock write-locks the shard owning slot and returns its unlock func.
func (t *Table) Lock(slot uint64) func() {
	mu := &t.shards[t.index(slot)]
	mu.Lock()
	return mu.Unlock
}

// RLock read-locks the shard owning slot and returns its unlock func.
func (t *Table) RLock(slot uint64) func() {
	mu := &t.shards[t.index(slot)]
	mu.RLock()
	return mu.RUnlock
}

// RLockRange read-locks every shard owning a slot in [first, first+n).
// Shards are acquired in ascending index order so that concurrent range
// locks cannot deadlock against each other.
func (t *Table) RLockRange(first, n uint64) func() {
	idx := t.rangeShards(first, n)
	for _, i := range idx {
		t.shards[i].RLock()
	}
	return func() {
		for j := len(idx) - 1; j >= 0; j-- {
			t.shards[idx[j]].RUnlock()
		}
	}
}

func (t *Table) rangeShards(first, n uint64) []int {
	if n >= uint64(len(t.shards))*4 {
		all := make([]int, len(t.shards))
		for i := range all {
			all[i] = i
		}
		return all
	}
	seen := make(map[int]struct{}, n)
	idx := make([]int, 0, n)
	for s := first; s < first+n; s++ {
		i := t.index(s)
		if _, ok := seen[i]; ok {
			continue
		}
		seen[i] = struct{}{}
		idx = append(idx, i)
	}
	slices.Sort(idx)
	return idx
}
