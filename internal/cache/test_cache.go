package cache

import "sync"

var _ Cache = (*TestCache)(nil)

// TestCache is a map backed Cache for tests. It never refuses an entry.
type TestCache struct {
	cache map[string][]byte
	mutex sync.Mutex
}

func NewTestCache() *TestCache {
	return &TestCache{
		cache: make(map[string][]byte),
	}
}

func (tc *TestCache) Get(key string) ([]byte, bool) {
	tc.mutex.Lock()
	defer tc.mutex.Unlock()

	val, ok := tc.cache[key]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), val...), true
}

func (tc *TestCache) Set(key string, value []byte) error {
	tc.mutex.Lock()
	defer tc.mutex.Unlock()

	tc.cache[key] = append([]byte(nil), value...)
	return nil
}

func (tc *TestCache) Del(key string) {
	tc.mutex.Lock()
	defer tc.mutex.Unlock()

	delete(tc.cache, key)
}

func (tc *TestCache) Clear() {
	tc.mutex.Lock()
	defer tc.mutex.Unlock()

	tc.cache = make(map[string][]byte)
}

func (tc *TestCache) Len() int {
	tc.mutex.Lock()
	defer tc.mutex.Unlock()

	return len(tc.cache)
}
