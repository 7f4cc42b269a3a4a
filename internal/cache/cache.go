package cache

// Cache holds encoded values by key. Implementations are safe for concurrent use.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte) error
	Del(key string)
	Clear()
}
