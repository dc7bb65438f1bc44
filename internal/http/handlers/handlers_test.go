package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/skipfeed/go-search-backend/internal/http/middleware"
	"github.com/skipfeed/go-search-backend/internal/reddit"
	"github.com/skipfeed/go-search-backend/internal/repo"
	"github.com/skipfeed/go-search-backend/internal/services"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:handlers_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// newTestRouter wires real services over an in-memory database and registers
// the API routes the way the production router does.
func newTestRouter(t *testing.T, rd RedditSearcher) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := newTestDB(t)
	history := services.NewHistoryService(db)
	analytics := services.NewAnalyticsService(db)
	prefs := services.NewPreferencesService(db)
	premium := services.NewPremiumService(prefs)
	search := services.NewSearchService(db, history, analytics, premium)

	h := New(search, history, analytics, prefs, premium, rd)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{}, nil))

	r.GET("/platforms", h.ListPlatforms)
	r.GET("/resolve", h.ResolveLink)
	r.POST("/searches", h.RecordSearch)
	r.GET("/searches", h.ListSearches)
	r.GET("/searches/queries", h.RecentQueries)
	r.GET("/searches/suggestions", h.SuggestQueries)
	r.GET("/searches/:id", h.GetSearch)
	r.DELETE("/searches/:id", h.DeleteSearch)
	r.POST("/searches/batch-delete", h.BatchDeleteSearches)
	r.DELETE("/searches", h.ClearSearches)
	r.GET("/analytics", h.GetAnalytics)
	r.POST("/analytics/time-spent", h.RecordTimeSpent)
	r.GET("/analytics/top-platforms", h.TopPlatforms)
	r.POST("/analytics/reset", h.ResetAnalytics)
	r.DELETE("/analytics", h.ClearAnalytics)
	r.GET("/preferences", h.GetPreferences)
	r.PUT("/preferences", h.UpdatePreferences)
	r.POST("/preferences/platform-order/usage", h.OrderPlatformsByUsage)
	r.GET("/premium", h.GetPremium)
	r.POST("/premium/trial", h.StartTrial)
	r.GET("/reddit/search", h.SearchReddit)

	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// stubReddit satisfies RedditSearcher without network access.
type stubReddit struct {
	posts []reddit.Post
	after string
	err   error

	gotQuery string
	gotOpts  reddit.SearchOptions
}

func (s *stubReddit) SearchPosts(_ context.Context, query string, opts reddit.SearchOptions) ([]reddit.Post, string, error) {
	s.gotQuery = query
	s.gotOpts = opts
	return s.posts, s.after, s.err
}
