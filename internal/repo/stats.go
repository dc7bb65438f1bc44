// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate queries used for
// conditional responses (ETag generation) in the HTTP layer.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/skipfeed/go-search-backend/internal/domain"
)

// HistoryStats returns aggregate metadata for the history listing: the total
// row count (optionally scoped to platformID) and the maximum capture
// timestamp among those rows. When no rows match, count is 0 and maxTimestamp
// is nil.
func HistoryStats(ctx context.Context, db *gorm.DB, platformID string) (count int64, maxTimestamp *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.SearchHistoryItem{})
	if platformID != "" {
		q = q.Where("platform = ?", platformID)
	}

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest timestamp (avoid MAX() -> TEXT in SQLite)
	var row struct {
		Timestamp time.Time
	}
	if err = q.Select("timestamp").Order("timestamp DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.Timestamp, nil
}
