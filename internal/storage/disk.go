package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/2beens/gymbros/internal/telemetry/tracing"
	"github.com/2beens/gymbros/pkg"

	"go.opentelemetry.io/otel/attribute"
)

var _ Backend = (*DiskBackend)(nil)

// DiskBackend stores every key as <root>/<key>.json.
type DiskBackend struct {
	rootPath string
}

func NewDiskBackend(rootPath string) (*DiskBackend, error) {
	if err := pkg.EnsureDir(rootPath); err != nil {
		return nil, fmt.Errorf("disk backend root: %w", err)
	}
	return &DiskBackend{
		rootPath: rootPath,
	}, nil
}

func (d *DiskBackend) path(key string) string {
	return filepath.Join(d.rootPath, key+".json")
}

func (d *DiskBackend) Get(ctx context.Context, key string) (_ []byte, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "storage.disk.get")
	span.SetAttributes(attribute.String("key", key))
	defer func() {
		if errors.Is(err, ErrKeyNotFound) {
			tracing.EndSpanWithErrCheck(span, nil)
			return
		}
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := validateKey(key); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(d.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return content, nil
}

// Set writes into a temp file first and renames it over the old one,
// so a crash mid-write never leaves a truncated value behind.
func (d *DiskBackend) Set(ctx context.Context, key string, value []byte) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "storage.disk.set")
	span.SetAttributes(attribute.String("key", key))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := validateKey(key); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(d.rootPath, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmpFile.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(value); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, d.path(key)); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

func (d *DiskBackend) Remove(ctx context.Context, key string) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "storage.disk.remove")
	span.SetAttributes(attribute.String("key", key))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := validateKey(key); err != nil {
		return err
	}

	if err := os.Remove(d.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

func (d *DiskBackend) Driver() Driver {
	return DriverDisk
}

func (d *DiskBackend) Close() error {
	return nil
}
