// Package migration runs versioned schema migrations and records each run in
// the schema_migrations table, grouped into batches so the last `migrate`
// can be rolled back as a unit.
//
//	func init() {
//	    migration.Register("2024_01_01_000001_create_users", migration.Func(up, down))
//	}
package migration

import (
	"fmt"
	"io"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/foodhub/pkg/logger"
)

// Migration is one reversible schema change.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

type funcMigration struct {
	up, down func(*gorm.DB) error
}

func (f funcMigration) Up(db *gorm.DB) error   { return f.up(db) }
func (f funcMigration) Down(db *gorm.DB) error { return f.down(db) }

// Func builds a Migration from two functions.
func Func(up, down func(*gorm.DB) error) Migration {
	return funcMigration{up: up, down: down}
}

type record struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (record) TableName() string { return "schema_migrations" }

type named struct {
	name string
	m    Migration
}

var registry []named

// Register adds m to the global set. Names sort chronologically.
func Register(name string, m Migration) {
	registry = append(registry, named{name: name, m: m})
}

// Status describes one registered migration.
type Status struct {
	Name  string
	Ran   bool
	Batch int
}

// Runner applies the registered migrations to db.
type Runner struct {
	db  *gorm.DB
	out io.Writer
	set []named
}

// New creates a runner over the global registry, printing progress to out.
func New(db *gorm.DB, out io.Writer) *Runner {
	set := append([]named(nil), registry...)
	sort.SliceStable(set, func(i, j int) bool { return set[i].name < set[j].name })
	if out == nil {
		out = io.Discard
	}
	return &Runner{db: db, out: out, set: set}
}

func (r *Runner) ensureTable() error {
	if err := r.db.AutoMigrate(&record{}); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}
	return nil
}

func (r *Runner) ran() (map[string]record, error) {
	var rows []record
	if err := r.db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("migration: read table: %w", err)
	}
	out := make(map[string]record, len(rows))
	for _, row := range rows {
		out[row.Name] = row
	}
	return out, nil
}

func (r *Runner) lastBatch() (int, error) {
	var max *int
	if err := r.db.Model(&record{}).Select("MAX(batch)").Scan(&max).Error; err != nil {
		return 0, fmt.Errorf("migration: last batch: %w", err)
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

// Run applies every pending migration in one new batch and returns how
// many ran. Each migration and its record commit together.
func (r *Runner) Run() (int, error) {
	if err := r.ensureTable(); err != nil {
		return 0, err
	}
	done, err := r.ran()
	if err != nil {
		return 0, err
	}
	last, err := r.lastBatch()
	if err != nil {
		return 0, err
	}
	batch := last + 1

	count := 0
	for _, n := range r.set {
		if _, ok := done[n.name]; ok {
			continue
		}
		fmt.Fprintf(r.out, "Migrating: %s\n", n.name)
		err := r.db.Transaction(func(tx *gorm.DB) error {
			if err := n.m.Up(tx); err != nil {
				return err
			}
			return tx.Create(&record{Name: n.name, Batch: batch}).Error
		})
		if err != nil {
			return count, fmt.Errorf("migration: %s up: %w", n.name, err)
		}
		count++
	}

	if count == 0 {
		fmt.Fprintln(r.out, "Nothing to migrate.")
	}
	logger.Info("migration: done", "ran", count, "batch", batch)
	return count, nil
}

// Rollback reverts the most recent batch in reverse order and returns how
// many migrations were reverted.
func (r *Runner) Rollback() (int, error) {
	if err := r.ensureTable(); err != nil {
		return 0, err
	}
	last, err := r.lastBatch()
	if err != nil {
		return 0, err
	}
	if last == 0 {
		fmt.Fprintln(r.out, "Nothing to roll back.")
		return 0, nil
	}

	var rows []record
	if err := r.db.Where("batch = ?", last).Order("id desc").Find(&rows).Error; err != nil {
		return 0, fmt.Errorf("migration: read batch: %w", err)
	}

	byName := make(map[string]Migration, len(r.set))
	for _, n := range r.set {
		byName[n.name] = n.m
	}

	for i, row := range rows {
		m, ok := byName[row.Name]
		if !ok {
			return i, fmt.Errorf("migration: cannot roll back %s: not registered", row.Name)
		}
		fmt.Fprintf(r.out, "Rolling back: %s\n", row.Name)
		err := r.db.Transaction(func(tx *gorm.DB) error {
			if err := m.Down(tx); err != nil {
				return err
			}
			return tx.Delete(&record{}, row.ID).Error
		})
		if err != nil {
			return i, fmt.Errorf("migration: %s down: %w", row.Name, err)
		}
	}
	return len(rows), nil
}

// Status lists every registered migration in run order.
func (r *Runner) Status() ([]Status, error) {
	if err := r.ensureTable(); err != nil {
		return nil, err
	}
	done, err := r.ran()
	if err != nil {
		return nil, err
	}
	out := make([]Status, 0, len(r.set))
	for _, n := range r.set {
		rec, ok := done[n.name]
		out = append(out, Status{Name: n.name, Ran: ok, Batch: rec.Batch})
	}
	return out, nil
}
