// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the key-value preference store used for
// the user-preferences JSON document.
package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/skipfeed/go-search-backend/internal/domain"
)

// GetPreference returns the raw value stored under key, or ErrNotFound.
func GetPreference(ctx context.Context, db *gorm.DB, key string) ([]byte, error) {
	var p domain.Preference
	err := db.WithContext(ctx).Where("key = ?", key).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p.Value, nil
}

// PutPreference upserts the value stored under key.
func PutPreference(ctx context.Context, db *gorm.DB, key string, value []byte) error {
	p := domain.Preference{Key: key, Value: value}
	return db.WithContext(ctx).Save(&p).Error
}

// DeletePreference removes the value stored under key; absent keys are a
// no-op.
func DeletePreference(ctx context.Context, db *gorm.DB, key string) error {
	return db.WithContext(ctx).Where("key = ?", key).Delete(&domain.Preference{}).Error
}
