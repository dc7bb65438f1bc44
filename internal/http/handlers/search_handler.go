// Search HTTP handlers.
//
// This file exposes REST endpoints for recording searches and managing the
// search history:
//   - POST   /searches               (record + resolve, idempotent via header)
//   - GET    /searches               (list, ETag support)
//   - GET    /searches/queries       (recent distinct queries)
//   - GET    /searches/suggestions   (type-ahead over past queries)
//   - GET    /searches/{id}          (fetch one)
//   - DELETE /searches/{id}          (remove one)
//   - POST   /searches/batch-delete  (remove many)
//   - DELETE /searches               (clear, optional platform filter)
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/skipfeed/go-search-backend/internal/domain"
	"github.com/skipfeed/go-search-backend/internal/http/middleware"
	"github.com/skipfeed/go-search-backend/internal/repo"
	"github.com/skipfeed/go-search-backend/internal/services"
	"github.com/skipfeed/go-search-backend/internal/suggest"
)

//
// DTOs
//

// RecordSearchRequest is the JSON payload for recording a completed search.
type RecordSearchRequest struct {
	// Query is the search text (1-400 runes after trimming).
	Query string `json:"query" binding:"required" example:"mechanical keyboards"`
	// Platform is the target platform id.
	Platform string `json:"platform" binding:"required" example:"reddit"`
	// Native requests the app deep link when the platform has one.
	Native bool `json:"native"`
	// ResultCount is set by in-app browsing, where a result list was shown.
	ResultCount *int `json:"result_count,omitempty"`
}

// RecordSearchResponse wraps the stored item and its resolved launch target.
type RecordSearchResponse struct {
	Search   domain.SearchHistoryItem `json:"search"`
	URI      string                   `json:"uri"`
	IsNative bool                     `json:"is_native"`
	Replayed bool                     `json:"replayed,omitempty"`
}

// BatchDeleteRequest is the JSON payload for removing multiple history items.
type BatchDeleteRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

// BatchDeleteResponse reports how many items were removed.
type BatchDeleteResponse struct {
	Removed int64 `json:"removed"`
}

// ListSearchesResponse wraps a history listing.
type ListSearchesResponse struct {
	Searches []domain.SearchHistoryItem `json:"searches"`
	Count    int                        `json:"count"`
}

//
// Handlers
//

// RecordSearch godoc
// @ID          recordSearch
// @Summary     Record a completed search
// @Description Resolves the launch target, appends the search to history, and
// @Description updates the usage counters. Retries carrying the same
// @Description Idempotency-Key header replay the original outcome.
// @Tags        Searches
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  false "User ID (demo header)"  example(user123)
// @Param       Idempotency-Key  header  string  false "Dedupe key for retries"
// @Param       body             body    handlers.RecordSearchRequest  true  "Search payload"
//
// @Success     201  {object}  handlers.RecordSearchResponse
// @Success     200  {object}  handlers.RecordSearchResponse  "Idempotent replay"
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     429  {object}  handlers.ErrorResponse  "Daily search limit reached"
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /searches [post]
func (h *Handlers) RecordSearch(c *gin.Context) {
	var req RecordSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	svcReq := services.SearchRequest{
		Query:       req.Query,
		Platform:    req.Platform,
		Native:      req.Native,
		ResultCount: req.ResultCount,
	}
	if key, present := middleware.GetIdempotencyKey(c); present {
		svcReq.IdempotencyKey = key
	}

	res, err := h.searchSvc.Record(c.Request.Context(), userID(c), svcReq)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyQuery):
			fail(c, http.StatusBadRequest, ErrCodeEmptyQuery, "query must not be empty")
		case errors.Is(err, services.ErrQueryTooLong):
			fail(c, http.StatusBadRequest, ErrCodeQueryTooLong, "query exceeds maximum length")
		case errors.Is(err, services.ErrInvalidPlatform):
			fail(c, http.StatusBadRequest, ErrCodeUnknownPlatform, "unknown platform")
		case errors.Is(err, services.ErrDailyLimitReached):
			fail(c, http.StatusTooManyRequests, ErrCodeDailyLimitReached, "daily search limit reached")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}

	status := http.StatusCreated
	if res.Replayed {
		status = http.StatusOK
	} else {
		middleware.CountSearch(res.Item.Platform)
	}
	ok(c, status, RecordSearchResponse{
		Search:   *res.Item,
		URI:      res.Target.URI,
		IsNative: res.Target.IsNative,
		Replayed: res.Replayed,
	})
}

// ListSearches godoc
// @ID          listSearches
// @Summary     List search history
// @Description Returns history entries, newest first. Supports a weak ETag
// @Description via If-None-Match and may return 304.
// @Tags        Searches
// @Produce     json
//
// @Param       X-User-ID      header  string  false "User ID (demo header)"
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Param       platform       query   string  false "Restrict to one platform"  example(reddit)
// @Param       limit          query   int     false "Maximum entries (0 = all)" minimum(0) maximum(500)
//
// @Success     200  {object}  handlers.ListSearchesResponse
// @Header      200  {string}  ETag  "Weak ETag for current result"
// @Success     304  {string}  string "Not Modified"
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /searches [get]
func (h *Handlers) ListSearches(c *gin.Context) {
	ctx := c.Request.Context()
	platformID := c.Query("platform")
	limit := clampLimit(c, "limit", 0, 500)

	// ETag pre-check (best effort).
	var db *gorm.DB
	if svc, isConcrete := h.historySvc.(*services.HistoryService); isConcrete {
		db = svc.DB
	}
	if db != nil {
		count, maxTS, err := repo.HistoryStats(ctx, db, platformID)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"searches:%s:%d:%d"`, platformID, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, err := h.historySvc.List(ctx, platformID, limit)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPlatform) {
			fail(c, http.StatusBadRequest, ErrCodeUnknownPlatform, "unknown platform")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ListSearchesResponse{Searches: items, Count: len(items)})
}

// RecentQueries godoc
// @ID          recentQueries
// @Summary     List recent distinct queries
// @Description Returns distinct query strings ordered by most recent use,
// @Description for suggestion lists.
// @Tags        Searches
// @Produce     json
//
// @Param       limit  query  int  false  "Maximum queries"  minimum(1) maximum(50) default(10)
//
// @Success     200  {array}   string
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /searches/queries [get]
func (h *Handlers) RecentQueries(c *gin.Context) {
	limit := clampLimit(c, "limit", 10, 50)
	if limit == 0 {
		limit = 10
	}
	queries, err := h.historySvc.RecentQueries(c.Request.Context(), limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	if queries == nil {
		queries = []string{}
	}
	ok(c, http.StatusOK, queries)
}

// GetSearch godoc
// @ID          getSearch
// @Summary     Fetch one history entry
// @Tags        Searches
// @Produce     json
//
// @Param       id  path  string  true  "Search ID (UUID)"  format(uuid)
//
// @Success     200  {object}  domain.SearchHistoryItem
// @Failure     404  {object}  handlers.ErrorResponse
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /searches/{id} [get]
func (h *Handlers) GetSearch(c *gin.Context) {
	item, err := h.historySvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "search not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, item)
}

// DeleteSearch godoc
// @ID          deleteSearch
// @Summary     Remove one history entry
// @Description Removes a history entry by id. Removing an absent id succeeds.
// @Tags        Searches
//
// @Param       id  path  string  true  "Search ID (UUID)"  format(uuid)
//
// @Success     204  {string}  string "No Content"
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /searches/{id} [delete]
func (h *Handlers) DeleteSearch(c *gin.Context) {
	if err := h.historySvc.Remove(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}

// BatchDeleteSearches godoc
// @ID          batchDeleteSearches
// @Summary     Remove multiple history entries
// @Tags        Searches
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.BatchDeleteRequest  true  "IDs to remove"
//
// @Success     200  {object}  handlers.BatchDeleteResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /searches/batch-delete [post]
func (h *Handlers) BatchDeleteSearches(c *gin.Context) {
	var req BatchDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	removed, err := h.historySvc.RemoveMany(c.Request.Context(), req.IDs)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, BatchDeleteResponse{Removed: removed})
}

// ClearSearches godoc
// @ID          clearSearches
// @Summary     Clear search history
// @Description Removes every history entry, or only one platform's entries
// @Description when the platform query parameter is given.
// @Tags        Searches
//
// @Param       platform  query  string  false  "Restrict to one platform"  example(reddit)
//
// @Success     204  {string}  string "No Content"
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /searches [delete]
func (h *Handlers) ClearSearches(c *gin.Context) {
	if err := h.historySvc.Clear(c.Request.Context(), c.Query("platform")); err != nil {
		if errors.Is(err, services.ErrInvalidPlatform) {
			fail(c, http.StatusBadRequest, ErrCodeUnknownPlatform, "unknown platform")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}

// SuggestionResponse is one type-ahead candidate from the query history.
type SuggestionResponse struct {
	Query string  `json:"query"`
	Score float64 `json:"score"`
}

// suggestionPoolSize bounds how much history feeds the per-request index.
const suggestionPoolSize = 200

// SuggestQueries godoc
// @ID          suggestQueries
// @Summary     Suggest queries from history
// @Description Ranks past queries against the partial input. Literal prefix
// @Description matches come first, then token-overlap matches.
// @Tags        Searches
// @Produce     json
//
// @Param       q      query  string  true   "Partial input"
// @Param       limit  query  int     false  "Maximum suggestions"  minimum(1) maximum(20) default(5)
//
// @Success     200  {array}   handlers.SuggestionResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /searches/suggestions [get]
func (h *Handlers) SuggestQueries(c *gin.Context) {
	partial := c.Query("q")
	if suggest.Normalize(partial) == "" {
		fail(c, http.StatusBadRequest, ErrCodeEmptyQuery, "q is required")
		return
	}
	limit := clampLimit(c, "limit", 5, 20)
	if limit == 0 {
		limit = 5
	}

	recent, err := h.historySvc.RecentQueries(c.Request.Context(), suggestionPoolSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	idx := suggest.NewIndex(recent, suggest.WithMinEntryRunes(1))
	out := make([]SuggestionResponse, 0, limit)
	for _, s := range idx.TopK(partial, limit) {
		out = append(out, SuggestionResponse{Query: s.Query, Score: s.Score})
	}
	ok(c, http.StatusOK, out)
}
