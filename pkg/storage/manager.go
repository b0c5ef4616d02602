// Package storage keeps uploaded catalog images on the local filesystem or
// an S3-compatible bucket.
//
//	storage.Connect()
//	url, err := storage.Default().Put(ctx, "foods/12/3f9c.jpg", file, "image/jpeg")
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/shashiranjanraj/foodhub/config"
	"github.com/shashiranjanraj/foodhub/pkg/logger"
)

// ErrNoDisk is returned by Use for an unconfigured disk name.
var ErrNoDisk = errors.New("storage: disk not configured")

// Disk is a place to put public files.
type Disk interface {
	// Put stores r at path and returns its public URL.
	Put(ctx context.Context, path string, r io.Reader, contentType string) (string, error)
	// Delete removes path. A missing file is not an error.
	Delete(ctx context.Context, path string) error
	// Exists reports whether path is stored.
	Exists(ctx context.Context, path string) (bool, error)
	// URL returns the public URL for path.
	URL(path string) string
}

var (
	mu          sync.RWMutex
	disks       = map[string]Disk{}
	defaultName = "local"
)

// Connect registers the local disk and, when S3_BUCKET is set, the s3 disk.
// STORAGE_DISK selects the default.
func Connect() {
	Register("local", NewLocalDisk(config.StorageLocalRoot(), config.StorageURL()))

	if config.StorageS3Bucket() != "" {
		d, err := NewS3Disk(context.Background(), S3Options{
			Bucket:   config.StorageS3Bucket(),
			Region:   config.StorageS3Region(),
			Key:      config.StorageS3Key(),
			Secret:   config.StorageS3Secret(),
			Endpoint: config.StorageS3Endpoint(),
			BaseURL:  config.StorageS3URL(),
		})
		if err != nil {
			logger.Warn("storage: s3 disk disabled", "error", err)
		} else {
			Register("s3", d)
		}
	}

	mu.Lock()
	defaultName = config.StorageDefault()
	mu.Unlock()
}

// Register installs d under name.
func Register(name string, d Disk) {
	mu.Lock()
	disks[name] = d
	mu.Unlock()
}

// SetDefault changes the default disk name.
func SetDefault(name string) {
	mu.Lock()
	defaultName = name
	mu.Unlock()
}

// Use returns the named disk.
func Use(name string) (Disk, error) {
	mu.RLock()
	defer mu.RUnlock()
	d, ok := disks[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoDisk, name)
	}
	return d, nil
}

// Default returns the disk selected by STORAGE_DISK, falling back to local
// when that disk failed to boot.
func Default() Disk {
	mu.RLock()
	name := defaultName
	mu.RUnlock()

	if d, err := Use(name); err == nil {
		return d
	}
	if d, err := Use("local"); err == nil {
		return d
	}
	d := NewLocalDisk(config.StorageLocalRoot(), config.StorageURL())
	Register("local", d)
	return d
}
