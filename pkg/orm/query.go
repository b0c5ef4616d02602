// Package orm holds small gorm helpers shared by the repositories.
package orm

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Page is a window of results plus the size of the whole result set.
type Page[T any] struct {
	Total int64 `json:"total"`
	Items []T   `json:"items"`
}

// Paginate is a scope applying OFFSET/LIMIT. A non-positive limit means no
// limit.
//
//	db.Scopes(orm.Paginate(skip, limit)).Find(&rows)
func Paginate(skip, limit int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if skip > 0 {
			db = db.Offset(skip)
		}
		if limit > 0 {
			db = db.Limit(limit)
		}
		return db
	}
}

// FetchPage counts q, then loads the requested window of it. q should carry
// the filters and ordering but no offset or limit. scopes apply to the load
// only, which is where preloads belong.
func FetchPage[T any](q *gorm.DB, skip, limit int, scopes ...func(*gorm.DB) *gorm.DB) (Page[T], error) {
	var p Page[T]
	if err := q.Session(&gorm.Session{}).Count(&p.Total).Error; err != nil {
		return p, err
	}
	p.Items = make([]T, 0)
	if p.Total == 0 {
		return p, nil
	}
	find := q.Session(&gorm.Session{}).Scopes(Paginate(skip, limit)).Scopes(scopes...)
	if err := find.Find(&p.Items).Error; err != nil {
		return p, err
	}
	return p, nil
}

// IsNotFound reports gorm's record-not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicate reports a unique-constraint violation on any supported driver.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}
