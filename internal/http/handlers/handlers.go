// Handler wiring and service contracts.
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into HTTP responses. Service dependencies
// are expressed as narrow interfaces so transport concerns stay separate
// from business logic.
package handlers

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/skipfeed/go-search-backend/internal/domain"
	"github.com/skipfeed/go-search-backend/internal/platform"
	"github.com/skipfeed/go-search-backend/internal/reddit"
	"github.com/skipfeed/go-search-backend/internal/services"
	"github.com/skipfeed/go-search-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// SearchService records completed searches and resolves their launch targets.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type SearchService interface {
	Record(ctx context.Context, userID string, req services.SearchRequest) (*services.SearchResult, error)
}

// HistoryService exposes the local search history.
type HistoryService interface {
	Get(ctx context.Context, id string) (*domain.SearchHistoryItem, error)
	List(ctx context.Context, platformID string, limit int) ([]domain.SearchHistoryItem, error)
	RecentQueries(ctx context.Context, limit int) ([]string, error)
	Remove(ctx context.Context, id string) error
	RemoveMany(ctx context.Context, ids []string) (int64, error)
	Clear(ctx context.Context, platformID string) error
}

// AnalyticsService exposes the usage counters.
type AnalyticsService interface {
	Snapshot(ctx context.Context) (domain.UsageAnalytics, error)
	RecordTimeSpent(ctx context.Context, id platform.ID, ms int64) (domain.UsageAnalytics, error)
	TopPlatforms(ctx context.Context) ([]domain.PlatformCount, error)
	Reset(ctx context.Context) (domain.UsageAnalytics, error)
	Clear(ctx context.Context) error
}

// PreferencesService exposes the user settings document.
type PreferencesService interface {
	Get(ctx context.Context) domain.UserPreferences
	Update(ctx context.Context, prefs domain.UserPreferences) (domain.UserPreferences, error)
	SetPlatformOrderByUsage(ctx context.Context, counts []domain.PlatformCount) (domain.UserPreferences, error)
}

// PremiumService exposes entitlement state and the free trial.
type PremiumService interface {
	Status(ctx context.Context) services.PremiumStatus
	StartTrial(ctx context.Context) (services.PremiumStatus, error)
}

// RedditSearcher proxies search queries to the Reddit public API.
type RedditSearcher interface {
	SearchPosts(ctx context.Context, query string, opts reddit.SearchOptions) ([]reddit.Post, string, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints of the search backend.
type Handlers struct {
	searchSvc    SearchService
	historySvc   HistoryService
	analyticsSvc AnalyticsService
	prefsSvc     PreferencesService
	premiumSvc   PremiumService
	reddit       RedditSearcher
}

// New constructs a Handlers instance bound to the given services.
func New(search SearchService, history HistoryService, analytics AnalyticsService, prefs PreferencesService, premium PremiumService, rd RedditSearcher) *Handlers {
	return &Handlers{
		searchSvc:    search,
		historySvc:   history,
		analyticsSvc: analytics,
		prefsSvc:     prefs,
		premiumSvc:   premium,
		reddit:       rd,
	}
}

// userID extracts the authenticated user id from Gin context (set by upstream
// middleware). If absent, it falls back to the "X-User-ID" header (tests use
// it), and finally to "demo-user". It never touches c.Request if it's nil.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return h
		}
	}
	return "demo-user"
}

// clampLimit parses and bounds a limit query param, returning def when absent
// and capping at max. A zero result means "no limit" for history listings.
func clampLimit(c *gin.Context, param string, def, max int) int {
	n := utils.AtoiDefault(c.Query(param), def)
	if n < 0 {
		n = def
	}
	if max > 0 && n > max {
		n = max
	}
	return n
}
