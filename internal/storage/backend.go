package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

type Driver string

const (
	DriverMemory   Driver = "memory"
	DriverDisk     Driver = "disk"
	DriverSQLite   Driver = "sqlite"
	DriverRedis    Driver = "redis"
	DriverPostgres Driver = "postgres"
)

func (d Driver) String() string {
	return string(d)
}

var (
	ErrKeyNotFound = errors.New("key not found")
	ErrInvalidKey  = errors.New("invalid key")
)

// Backend is a durable key/value space holding raw (JSON) values.
type Backend interface {
	// Get returns ErrKeyNotFound if nothing is stored under key.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Remove deletes the key, removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
	Driver() Driver
	Close() error
}

// validateKey rejects keys that cannot be mapped onto every driver (file names included).
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	if strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return fmt.Errorf("%w: [%s]", ErrInvalidKey, key)
	}
	return nil
}
