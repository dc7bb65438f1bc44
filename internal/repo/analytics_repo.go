// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the singleton
// usage-analytics row.
//
// The aggregate lives in one row with a fixed primary key. An absent row is
// not an error: reads return a zeroed record, matching the clear-vs-reset
// distinction (clear deletes the row; reset rewrites it with zeroes).
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/skipfeed/go-search-backend/internal/domain"
)

// GetAnalytics loads the singleton analytics row. When the row does not
// exist, it returns a zeroed record (LastResetDate=now) without persisting it.
func GetAnalytics(ctx context.Context, db *gorm.DB, now time.Time) (domain.UsageAnalytics, error) {
	var a domain.UsageAnalytics
	err := db.WithContext(ctx).Where("id = ?", domain.AnalyticsRowID).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NewUsageAnalytics(now), nil
	}
	if err != nil {
		return domain.UsageAnalytics{}, err
	}
	// Maps can come back nil from a legacy row; normalize so callers can
	// increment without nil checks.
	if a.SearchesByPlatform == nil {
		a.SearchesByPlatform = domain.CountMap{}
	}
	if a.DailySearches == nil {
		a.DailySearches = domain.CountMap{}
	}
	if a.TimeSpentOnPlatforms == nil {
		a.TimeSpentOnPlatforms = domain.CountMap{}
	}
	return a, nil
}

// SaveAnalytics upserts the singleton row wholesale. The caller is expected
// to have read-modified the record under its own serialization (services
// hold a mutex around the read-modify-write cycle).
//
// The upsert is an explicit ON CONFLICT clause: the fixed key is 0, which
// GORM's Save would treat as a blank primary key and always insert.
func SaveAnalytics(ctx context.Context, db *gorm.DB, a domain.UsageAnalytics) error {
	a.ID = domain.AnalyticsRowID
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&a).Error
}

// DeleteAnalytics removes the singleton row entirely. Absence on the next
// read is treated as a zeroed record.
func DeleteAnalytics(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).
		Where("id = ?", domain.AnalyticsRowID).
		Delete(&domain.UsageAnalytics{}).Error
}
