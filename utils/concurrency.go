package utils

import "sync"

// KeyedMutex provides one mutex per key. The moderation pipeline locks on
// the offending user's ID so that overlapping violations by the same user
// are applied strictly in order, while different users proceed in parallel.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for key, creating it on first use.
func (k *KeyedMutex) Lock(key string) {
	k.mu.Lock()
	lock, ok := k.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		k.locks[key] = lock
	}
	k.mu.Unlock()

	lock.Lock()
}

// Unlock releases the mutex for key. Must follow a Lock for the same key.
func (k *KeyedMutex) Unlock(key string) {
	k.mu.Lock()
	lock, ok := k.locks[key]
	k.mu.Unlock()
	if ok {
		lock.Unlock()
	}
}
