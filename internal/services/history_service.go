package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/skipfeed/go-search-backend/internal/domain"
	"github.com/skipfeed/go-search-backend/internal/platform"
	"github.com/skipfeed/go-search-backend/internal/repo"
)

// HistoryRepository abstracts the persistence operations HistoryService
// depends on. The default implementation delegates to the repo package;
// tests may substitute their own.
type HistoryRepository interface {
	AppendSearch(ctx context.Context, db *gorm.DB, query string, platformID string, resultCount *int, at time.Time) (*domain.SearchHistoryItem, error)
	GetSearch(ctx context.Context, db *gorm.DB, id string) (*domain.SearchHistoryItem, error)
	ListHistory(ctx context.Context, db *gorm.DB, platformID string, limit int) ([]domain.SearchHistoryItem, error)
	RecentQueries(ctx context.Context, db *gorm.DB, limit int) ([]string, error)
	RemoveSearch(ctx context.Context, db *gorm.DB, id string) error
	RemoveSearches(ctx context.Context, db *gorm.DB, ids []string) (int64, error)
	ClearHistory(ctx context.Context, db *gorm.DB, platformID string) error
}

type gormHistoryRepo struct{}

func (gormHistoryRepo) AppendSearch(ctx context.Context, db *gorm.DB, query, platformID string, resultCount *int, at time.Time) (*domain.SearchHistoryItem, error) {
	return repo.AppendSearch(ctx, db, query, platformID, resultCount, at)
}

func (gormHistoryRepo) GetSearch(ctx context.Context, db *gorm.DB, id string) (*domain.SearchHistoryItem, error) {
	return repo.GetSearch(ctx, db, id)
}

func (gormHistoryRepo) ListHistory(ctx context.Context, db *gorm.DB, platformID string, limit int) ([]domain.SearchHistoryItem, error) {
	return repo.ListHistory(ctx, db, platformID, limit)
}

func (gormHistoryRepo) RecentQueries(ctx context.Context, db *gorm.DB, limit int) ([]string, error) {
	return repo.RecentQueries(ctx, db, limit)
}

func (gormHistoryRepo) RemoveSearch(ctx context.Context, db *gorm.DB, id string) error {
	return repo.RemoveSearch(ctx, db, id)
}

func (gormHistoryRepo) RemoveSearches(ctx context.Context, db *gorm.DB, ids []string) (int64, error) {
	return repo.RemoveSearches(ctx, db, ids)
}

func (gormHistoryRepo) ClearHistory(ctx context.Context, db *gorm.DB, platformID string) error {
	return repo.ClearHistory(ctx, db, platformID)
}

// HistoryService manages the local search history.
type HistoryService struct {
	DB   *gorm.DB
	Repo HistoryRepository

	now func() time.Time
}

// NewHistoryService wires a HistoryService to the given database handle.
func NewHistoryService(db *gorm.DB) *HistoryService {
	return &HistoryService{DB: db, Repo: gormHistoryRepo{}, now: time.Now}
}

// Append validates and stores a new history entry, returning the stored item.
func (s *HistoryService) Append(ctx context.Context, query string, platformID string, resultCount *int) (*domain.SearchHistoryItem, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if _, err := platform.Parse(platformID); err != nil {
		return nil, ErrInvalidPlatform
	}
	return s.Repo.AppendSearch(ctx, s.DB, query, platformID, resultCount, s.now())
}

// Get returns a single history item by id.
func (s *HistoryService) Get(ctx context.Context, id string) (*domain.SearchHistoryItem, error) {
	item, err := s.Repo.GetSearch(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNotFound
	}
	return item, err
}

// List returns history entries, newest first. An empty platformID returns
// entries for every platform; limit <= 0 returns everything.
func (s *HistoryService) List(ctx context.Context, platformID string, limit int) ([]domain.SearchHistoryItem, error) {
	if platformID != "" {
		if _, err := platform.Parse(platformID); err != nil {
			return nil, ErrInvalidPlatform
		}
	}
	return s.Repo.ListHistory(ctx, s.DB, platformID, limit)
}

// RecentQueries returns distinct query strings ordered by most recent use.
func (s *HistoryService) RecentQueries(ctx context.Context, limit int) ([]string, error) {
	return s.Repo.RecentQueries(ctx, s.DB, limit)
}

// Remove deletes one history item. Removing an absent id is not an error.
func (s *HistoryService) Remove(ctx context.Context, id string) error {
	return s.Repo.RemoveSearch(ctx, s.DB, id)
}

// RemoveMany deletes the given ids and reports how many rows were removed.
func (s *HistoryService) RemoveMany(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return s.Repo.RemoveSearches(ctx, s.DB, ids)
}

// Clear wipes the history, optionally restricted to one platform.
func (s *HistoryService) Clear(ctx context.Context, platformID string) error {
	if platformID != "" {
		if _, err := platform.Parse(platformID); err != nil {
			return ErrInvalidPlatform
		}
	}
	return s.Repo.ClearHistory(ctx, s.DB, platformID)
}
