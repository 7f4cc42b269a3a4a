package cache

import (
	"errors"
	"fmt"

	"github.com/coocood/freecache"
)

var _ Cache = (*FreeCache)(nil)

// FreeCache keeps values in a fixed size freecache arena, entries never expire.
// An entry bigger than 1/1024 of the arena is refused by freecache.
type FreeCache struct {
	mainCache *freecache.Cache
}

func NewFreeCache(sizeMB int) (*FreeCache, error) {
	if sizeMB <= 0 {
		return nil, fmt.Errorf("invalid cache size: %d MB", sizeMB)
	}
	return &FreeCache{
		mainCache: freecache.NewCache(sizeMB * 1024 * 1024),
	}, nil
}

func (fc *FreeCache) Get(key string) ([]byte, bool) {
	val, err := fc.mainCache.Get([]byte(key))
	if err != nil {
		return nil, false
	}
	return val, true
}

func (fc *FreeCache) Set(key string, value []byte) error {
	if err := fc.mainCache.Set([]byte(key), value, 0); err != nil {
		if errors.Is(err, freecache.ErrLargeEntry) {
			// drop a stale copy so readers go to the backend
			fc.mainCache.Del([]byte(key))
		}
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

func (fc *FreeCache) Del(key string) {
	fc.mainCache.Del([]byte(key))
}

func (fc *FreeCache) Clear() {
	fc.mainCache.Clear()
}
