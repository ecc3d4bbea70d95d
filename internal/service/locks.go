package service

import (
	"fmt"
	"sync"
)

// keyedMutex serializes session mutations per entity. The precondition checks
// in Start/End are read-then-write, so without this two concurrent starts for
// the same student or desktop could both pass their checks before either
// commits.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

// lock acquires the mutex for key, creating it on first use, and returns the
// matching unlock function. Lock entries are never evicted; the key space is
// bounded by the number of students and desktops.
func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}

func studentKey(id uint) string { return fmt.Sprintf("student/%d", id) }
func desktopKey(id uint) string { return fmt.Sprintf("desktop/%d", id) }
