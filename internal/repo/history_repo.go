// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the search
// history table.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Ordering contract: listings are sorted by capture timestamp descending;
// ties break by insertion order, most recent insert first (SQLite rowid).
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skipfeed/go-search-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist. It aliases
// gorm.ErrRecordNotFound for consistency across services and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// historyOrder is the canonical listing order (see package doc).
const historyOrder = "timestamp DESC, rowid DESC"

// AppendSearch inserts a new history row with a fresh UUID and the given
// capture timestamp.
func AppendSearch(ctx context.Context, db *gorm.DB, query, platformID string, resultCount *int, at time.Time) (*domain.SearchHistoryItem, error) {
	item := &domain.SearchHistoryItem{
		ID:          uuid.NewString(),
		Query:       query,
		Platform:    platformID,
		Timestamp:   at,
		ResultCount: resultCount,
		CreatedAt:   time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// GetSearch fetches one history row by id, or ErrNotFound.
func GetSearch(ctx context.Context, db *gorm.DB, id string) (*domain.SearchHistoryItem, error) {
	var item domain.SearchHistoryItem
	if err := db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// ListHistory returns history rows, newest first. platformID filters when
// non-empty; limit caps the result when > 0.
func ListHistory(ctx context.Context, db *gorm.DB, platformID string, limit int) ([]domain.SearchHistoryItem, error) {
	q := db.WithContext(ctx).Model(&domain.SearchHistoryItem{}).Order(historyOrder)
	if platformID != "" {
		q = q.Where("platform = ?", platformID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []domain.SearchHistoryItem
	err := q.Find(&out).Error
	return out, err
}

// RecentQueries returns up to limit distinct query strings, most recent
// occurrence first. Duplicates keep only their latest occurrence.
func RecentQueries(ctx context.Context, db *gorm.DB, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 5
	}
	var out []string
	err := db.WithContext(ctx).
		Model(&domain.SearchHistoryItem{}).
		Select("query").
		Group("query").
		Order("MAX(timestamp) DESC").
		Limit(limit).
		Pluck("query", &out).Error
	return out, err
}

// RemoveSearch deletes one row by id. Deleting an absent id is a no-op, not
// an error.
func RemoveSearch(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&domain.SearchHistoryItem{}).Error
}

// RemoveSearches deletes every present id from the set; absent ids are
// ignored. Returns the number of rows actually removed.
func RemoveSearches(ctx context.Context, db *gorm.DB, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := db.WithContext(ctx).Where("id IN ?", ids).Delete(&domain.SearchHistoryItem{})
	return res.RowsAffected, res.Error
}

// ClearHistory deletes all rows, or only those for platformID when non-empty.
func ClearHistory(ctx context.Context, db *gorm.DB, platformID string) error {
	q := db.WithContext(ctx)
	if platformID != "" {
		q = q.Where("platform = ?", platformID)
	} else {
		q = q.Where("1 = 1")
	}
	return q.Delete(&domain.SearchHistoryItem{}).Error
}

// PruneHistoryBefore deletes rows with a timestamp strictly earlier than
// bound. Maintenance operation; returns the number of rows removed.
func PruneHistoryBefore(ctx context.Context, db *gorm.DB, bound time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Where("timestamp < ?", bound).
		Delete(&domain.SearchHistoryItem{})
	return res.RowsAffected, res.Error
}
