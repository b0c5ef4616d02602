// Package seeders holds the demo data loaded by `foodhub seed`.
//
// A seeder registers itself from init():
//
//	func init() { seeders.Register("catalog", seedCatalog) }
//
// Seeders must be idempotent; `foodhub seed` may run more than once.
package seeders

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/foodhub/pkg/logger"
)

// SeederFunc inserts rows through db.
type SeederFunc func(ctx context.Context, db *gorm.DB) error

type seederEntry struct {
	name string
	fn   SeederFunc
}

var (
	mu      sync.Mutex
	entries []seederEntry
)

// Register adds a seeder. Seeders run in registration order.
func Register(name string, fn SeederFunc) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, seederEntry{name: name, fn: fn})
}

// Names lists the registered seeders.
func Names() []string {
	mu.Lock()
	defer mu.Unlock()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.name
	}
	return out
}

// RunAll executes every seeder and stops at the first error.
func RunAll(ctx context.Context, db *gorm.DB) (int, error) {
	mu.Lock()
	current := make([]seederEntry, len(entries))
	copy(current, entries)
	mu.Unlock()

	for i, e := range current {
		if err := e.fn(ctx, db); err != nil {
			return i, fmt.Errorf("seeders: %s: %w", e.name, err)
		}
		logger.Info("seeder ran", "seeder", e.name)
	}
	return len(current), nil
}
