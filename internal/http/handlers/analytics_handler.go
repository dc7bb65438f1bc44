// Analytics HTTP handlers.
//
// This file exposes the usage counters and derived time-saved figures:
//   - GET    /analytics                (snapshot with derived fields)
//   - POST   /analytics/time-spent     (accumulate per-platform duration)
//   - GET    /analytics/top-platforms  (most used platforms)
//   - POST   /analytics/reset          (zero the counters, keep the row)
//   - DELETE /analytics                (drop the counters entirely)
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skipfeed/go-search-backend/internal/domain"
	"github.com/skipfeed/go-search-backend/internal/platform"
	"github.com/skipfeed/go-search-backend/internal/services"
)

//
// DTOs
//

// AnalyticsResponse is the counters snapshot plus derived figures.
type AnalyticsResponse struct {
	TotalSearches        int64           `json:"total_searches"`
	TodaysSearches       int64           `json:"todays_searches"`
	TimeSavedMs          int64           `json:"time_saved_ms"`
	TimeSavedTodayMs     int64           `json:"time_saved_today_ms"`
	SearchesByPlatform   domain.CountMap `json:"searches_by_platform"`
	DailySearches        domain.CountMap `json:"daily_searches"`
	TimeSpentOnPlatforms domain.CountMap `json:"time_spent_on_platforms"`
	LastResetDate        time.Time       `json:"last_reset_date"`
}

// TimeSpentRequest is the JSON payload for accumulating time on a platform.
type TimeSpentRequest struct {
	Platform string `json:"platform" binding:"required" example:"reddit"`
	// DurationMs is the elapsed time in milliseconds. Negative values are
	// clamped to zero.
	DurationMs int64 `json:"duration_ms"`
}

func toAnalyticsResponse(a domain.UsageAnalytics, now time.Time) AnalyticsResponse {
	return AnalyticsResponse{
		TotalSearches:        a.TotalSearches,
		TodaysSearches:       a.TodaysSearchCount(now),
		TimeSavedMs:          a.TimeSavedMs(),
		TimeSavedTodayMs:     a.TimeSavedTodayMs(now),
		SearchesByPlatform:   a.SearchesByPlatform,
		DailySearches:        a.DailySearches,
		TimeSpentOnPlatforms: a.TimeSpentOnPlatforms,
		LastResetDate:        a.LastResetDate,
	}
}

//
// Handlers
//

// GetAnalytics godoc
// @ID          getAnalytics
// @Summary     Usage analytics snapshot
// @Description Returns the aggregate counters together with the derived
// @Description time-saved estimates. Absent counters read as zero.
// @Tags        Analytics
// @Produce     json
//
// @Success     200  {object}  handlers.AnalyticsResponse
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /analytics [get]
func (h *Handlers) GetAnalytics(c *gin.Context) {
	a, err := h.analyticsSvc.Snapshot(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, toAnalyticsResponse(a, time.Now()))
}

// RecordTimeSpent godoc
// @ID          recordTimeSpent
// @Summary     Accumulate time spent on a platform
// @Description Adds a duration to the per-platform time accumulator. Negative
// @Description durations are clamped to zero rather than rejected.
// @Tags        Analytics
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.TimeSpentRequest  true  "Duration payload"
//
// @Success     200  {object}  handlers.AnalyticsResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /analytics/time-spent [post]
func (h *Handlers) RecordTimeSpent(c *gin.Context) {
	var req TimeSpentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	id, err := platform.Parse(req.Platform)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeUnknownPlatform, "unknown platform")
		return
	}

	a, err := h.analyticsSvc.RecordTimeSpent(c.Request.Context(), id, req.DurationMs)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPlatform) {
			fail(c, http.StatusBadRequest, ErrCodeUnknownPlatform, "unknown platform")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, toAnalyticsResponse(a, time.Now()))
}

// TopPlatforms godoc
// @ID          topPlatforms
// @Summary     Most used platforms
// @Description Returns per-platform search counts sorted by count descending;
// @Description ties keep the registry order.
// @Tags        Analytics
// @Produce     json
//
// @Success     200  {array}   domain.PlatformCount
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /analytics/top-platforms [get]
func (h *Handlers) TopPlatforms(c *gin.Context) {
	counts, err := h.analyticsSvc.TopPlatforms(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	if counts == nil {
		counts = []domain.PlatformCount{}
	}
	ok(c, http.StatusOK, counts)
}

// ResetAnalytics godoc
// @ID          resetAnalytics
// @Summary     Reset the usage counters
// @Description Zeroes every counter while keeping the record; the reset date
// @Description is stamped on the result.
// @Tags        Analytics
// @Produce     json
//
// @Success     200  {object}  handlers.AnalyticsResponse
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /analytics/reset [post]
func (h *Handlers) ResetAnalytics(c *gin.Context) {
	a, err := h.analyticsSvc.Reset(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, toAnalyticsResponse(a, time.Now()))
}

// ClearAnalytics godoc
// @ID          clearAnalytics
// @Summary     Delete the usage counters
// @Description Drops the counters record entirely. A later read sees zeroes.
// @Tags        Analytics
//
// @Success     204  {string}  string "No Content"
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /analytics [delete]
func (h *Handlers) ClearAnalytics(c *gin.Context) {
	if err := h.analyticsSvc.Clear(c.Request.Context()); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}
