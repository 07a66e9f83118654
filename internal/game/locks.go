package game

import (
	"sort"
	"sync"
)

// keyedLocks hands out one mutex per key and forgets keys nobody holds.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{locks: make(map[string]*keyedLock)}
}

// lock acquires the mutexes for keys in sorted order, skipping duplicates,
// and returns the matching unlock.
func (k *keyedLocks) lock(keys ...string) func() {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)
	uniq := sorted[:0]
	for i, key := range sorted {
		if i == 0 || key != sorted[i-1] {
			uniq = append(uniq, key)
		}
	}

	held := make([]*keyedLock, 0, len(uniq))
	for _, key := range uniq {
		k.mu.Lock()
		l, ok := k.locks[key]
		if !ok {
			l = &keyedLock{}
			k.locks[key] = l
		}
		l.refs++
		k.mu.Unlock()

		l.mu.Lock()
		held = append(held, l)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].mu.Unlock()
			k.mu.Lock()
			held[i].refs--
			if held[i].refs == 0 {
				delete(k.locks, uniq[i])
			}
			k.mu.Unlock()
		}
	}
}

// size reports how many keys are tracked.
func (k *keyedLocks) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
