package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/skipfeed/go-search-backend/internal/domain"
	"github.com/skipfeed/go-search-backend/internal/platform"
	"github.com/skipfeed/go-search-backend/internal/repo"
)

// DefaultIdempotencyTTL bounds how long a recorded search can be replayed
// through its idempotency key.
const DefaultIdempotencyTTL = 24 * time.Hour

// SearchRequest carries one search to record and resolve.
type SearchRequest struct {
	Query       string
	Platform    string
	Native      bool
	ResultCount *int
	// IdempotencyKey, when set, makes retries of the same submission
	// replay the first outcome instead of double-counting.
	IdempotencyKey string
}

// SearchResult is the outcome of recording a search.
type SearchResult struct {
	Item     *domain.SearchHistoryItem
	Target   platform.LaunchTarget
	Replayed bool
}

// SearchService orchestrates a completed search: limit check, deep-link
// resolution, history append, and analytics counting.
type SearchService struct {
	DB        *gorm.DB
	History   *HistoryService
	Analytics *AnalyticsService
	Premium   *PremiumService

	IdempotencyTTL time.Duration
	now            func() time.Time
}

// NewSearchService wires a SearchService over its collaborators.
func NewSearchService(db *gorm.DB, history *HistoryService, analytics *AnalyticsService, premium *PremiumService) *SearchService {
	return &SearchService{
		DB:             db,
		History:        history,
		Analytics:      analytics,
		Premium:        premium,
		IdempotencyTTL: DefaultIdempotencyTTL,
		now:            time.Now,
	}
}

// Record validates, resolves, and persists one search. When the request
// carries an idempotency key already seen for this user, the original
// history item is returned with Replayed set and nothing is recounted.
func (s *SearchService) Record(ctx context.Context, userID string, req SearchRequest) (*SearchResult, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if utf8.RuneCountInString(query) > MaxQueryRunes {
		return nil, ErrQueryTooLong
	}
	p, err := platform.Parse(req.Platform)
	if err != nil {
		return nil, ErrInvalidPlatform
	}
	plat, err := platform.Lookup(p)
	if err != nil {
		return nil, ErrInvalidPlatform
	}

	if req.IdempotencyKey != "" {
		if res, ok := s.replay(ctx, userID, req, plat); ok {
			return res, nil
		}
	}

	today, err := s.Analytics.TodaysSearchCount(ctx)
	if err != nil {
		return nil, err
	}
	if !s.Premium.CanSearch(ctx, today) {
		return nil, ErrDailyLimitReached
	}

	target, err := platform.Resolve(query, plat, req.Native)
	if err != nil {
		return nil, err
	}

	item, err := s.History.Append(ctx, query, string(p), req.ResultCount)
	if err != nil {
		return nil, err
	}
	if _, err := s.Analytics.RecordSearch(ctx, p); err != nil {
		return nil, err
	}

	if req.IdempotencyKey != "" {
		_, err := repo.CreateIdempotency(ctx, s.DB, userID, req.IdempotencyKey, item.ID, http.StatusCreated, s.IdempotencyTTL)
		if err != nil && !errors.Is(err, repo.ErrDuplicate) {
			log.Ctx(ctx).Warn().Err(err).Msg("idempotency record not stored")
		}
	}

	return &SearchResult{Item: item, Target: target}, nil
}

// replay looks up a previously recorded search by idempotency key. A stale
// key whose search has since been deleted falls through to a fresh record.
func (s *SearchService) replay(ctx context.Context, userID string, req SearchRequest, plat platform.Platform) (*SearchResult, bool) {
	idem, err := repo.GetIdempotency(ctx, s.DB, userID, req.IdempotencyKey, s.now())
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			log.Ctx(ctx).Warn().Err(err).Msg("idempotency lookup failed")
		}
		return nil, false
	}
	item, err := s.History.Get(ctx, idem.SearchID)
	if err != nil {
		return nil, false
	}
	target, err := platform.Resolve(item.Query, plat, req.Native)
	if err != nil {
		return nil, false
	}
	return &SearchResult{Item: item, Target: target, Replayed: true}, true
}
