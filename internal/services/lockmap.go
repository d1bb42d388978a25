package services

import (
	"hash/fnv"
	"sync"
)

const lockStripes = 64

// stripedMutex serializes operations per entity ID without keeping a
// mutex per entity alive forever. IDs hash onto a fixed set of stripes;
// two IDs on the same stripe contend, IDs on different stripes run in
// parallel.
type stripedMutex struct {
	stripes [lockStripes]sync.Mutex
}

func stripeIndex(key string) int {
	h := fnv.New32a()
	h.Write([]byte(key))
	return int(h.Sum32() % lockStripes)
}

// Lock acquires the stripe for key
func (m *stripedMutex) Lock(key string) {
	m.stripes[stripeIndex(key)].Lock()
}

// Unlock releases the stripe for key
func (m *stripedMutex) Unlock(key string) {
	m.stripes[stripeIndex(key)].Unlock()
}

// LockPair acquires the stripes for both keys in ascending stripe order,
// so two concurrent callers locking the same pair in opposite roles
// cannot deadlock. A single stripe is acquired once when both keys land
// on it.
func (m *stripedMutex) LockPair(a, b string) {
	i, j := stripeIndex(a), stripeIndex(b)
	if i == j {
		m.stripes[i].Lock()
		return
	}
	if i > j {
		i, j = j, i
	}
	m.stripes[i].Lock()
	m.stripes[j].Lock()
}

// UnlockPair releases the stripes acquired by LockPair
func (m *stripedMutex) UnlockPair(a, b string) {
	i, j := stripeIndex(a), stripeIndex(b)
	if i == j {
		m.stripes[i].Unlock()
		return
	}
	m.stripes[i].Unlock()
	m.stripes[j].Unlock()
}
