package bus

import "sync"

type SyncMap[K comparable, V any] struct {
	m    map[K]V
	lock *sync.RWMutex
}

func NewSyncMap[K comparable, V any]() SyncMap[K, V] {
	var lock sync.RWMutex
	return SyncMap[K, V]{
		m:    make(map[K]V),
		lock: &lock,
	}
}

func (sm *SyncMap[K, V]) Put(key K, value V) {
	sm.lock.Lock()
	sm.m[key] = value
	sm.lock.Unlock()
}

// PutIfAbsent stores value only when key is unset and reports whether it did.
func (sm *SyncMap[K, V]) PutIfAbsent(key K, value V) bool {
	sm.lock.Lock()
	defer sm.lock.Unlock()
	if _, ok := sm.m[key]; ok {
		return false
	}
	sm.m[key] = value
	return true
}

func (sm *SyncMap[K, V]) Get(key K) (V, bool) {
	sm.lock.RLock()
	value, ok := sm.m[key]
	sm.lock.RUnlock()
	return value, ok
}

func (sm *SyncMap[K, V]) Delete(key K) {
	sm.lock.Lock()
	delete(sm.m, key)
	sm.lock.Unlock()
}

func (sm *SyncMap[K, V]) Len() int {
	sm.lock.RLock()
	defer sm.lock.RUnlock()
	return len(sm.m)
}

func (sm *SyncMap[K, V]) Keys() []K {
	sm.lock.RLock()
	defer sm.lock.RUnlock()
	keys := make([]K, 0, len(sm.m))
	for k := range sm.m {
		keys = append(keys, k)
	}
	return keys
}
