// Preferences and premium HTTP handlers.
//
// This file exposes the user settings document and entitlement state:
//   - GET  /preferences
//   - PUT  /preferences
//   - POST /preferences/platform-order/usage  (reorder by usage counts)
//   - GET  /premium
//   - POST /premium/trial
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skipfeed/go-search-backend/internal/domain"
	"github.com/skipfeed/go-search-backend/internal/platform"
	"github.com/skipfeed/go-search-backend/internal/services"
)

// UpdatePreferencesRequest is the writable subset of the settings document.
// Entitlement state (trial start, premium unlock) is owned by the premium
// endpoints and cannot be set through a settings save.
type UpdatePreferencesRequest struct {
	PreferredLanguage  string            `json:"preferred_language"`
	AutoDetectLanguage bool              `json:"auto_detect_language"`
	PlatformOrder      []platform.ID     `json:"platform_order"`
	SearchMode         domain.SearchMode `json:"search_mode"`
	HasSeenOnboarding  bool              `json:"has_seen_onboarding"`
	DailySearchLimit   int               `json:"daily_search_limit"`
}

// GetPreferences godoc
// @ID          getPreferences
// @Summary     Read the settings document
// @Description Returns the stored settings. A missing or corrupt store reads
// @Description as defaults.
// @Tags        Preferences
// @Produce     json
//
// @Success     200  {object}  domain.UserPreferences
// @Router      /preferences [get]
func (h *Handlers) GetPreferences(c *gin.Context) {
	ok(c, http.StatusOK, h.prefsSvc.Get(c.Request.Context()))
}

// UpdatePreferences godoc
// @ID          updatePreferences
// @Summary     Replace the settings document
// @Description Validates and persists a full settings document. The platform
// @Description order is normalized to a permutation of the registry; the
// @Description preferred language must be a valid BCP 47 tag. Entitlement
// @Description fields in the stored document are preserved as-is.
// @Tags        Preferences
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.UpdatePreferencesRequest  true  "Settings document"
//
// @Success     200  {object}  domain.UserPreferences
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /preferences [put]
func (h *Handlers) UpdatePreferences(c *gin.Context) {
	var req UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	stored := h.prefsSvc.Get(c.Request.Context())
	prefs := domain.UserPreferences{
		PreferredLanguage:  req.PreferredLanguage,
		AutoDetectLanguage: req.AutoDetectLanguage,
		PlatformOrder:      req.PlatformOrder,
		SearchMode:         req.SearchMode,
		HasSeenOnboarding:  req.HasSeenOnboarding,
		DailySearchLimit:   req.DailySearchLimit,
		TrialStartedAt:     stored.TrialStartedAt,
		PremiumUnlocked:    stored.PremiumUnlocked,
	}
	saved, err := h.prefsSvc.Update(c.Request.Context(), prefs)
	if err != nil {
		if errors.Is(err, services.ErrInvalidLanguage) {
			fail(c, http.StatusBadRequest, ErrCodeInvalidLanguage, "preferred_language must be a valid BCP 47 tag")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, saved)
}

// OrderPlatformsByUsage godoc
// @ID          orderPlatformsByUsage
// @Summary     Reorder platforms by usage
// @Description Rewrites the platform order so the most searched platforms
// @Description come first; unused platforms keep their registry order after
// @Description them.
// @Tags        Preferences
// @Produce     json
//
// @Success     200  {object}  domain.UserPreferences
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /preferences/platform-order/usage [post]
func (h *Handlers) OrderPlatformsByUsage(c *gin.Context) {
	ctx := c.Request.Context()
	counts, err := h.analyticsSvc.TopPlatforms(ctx)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	prefs, err := h.prefsSvc.SetPlatformOrderByUsage(ctx, counts)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, prefs)
}

// GetPremium godoc
// @ID          getPremium
// @Summary     Entitlement status
// @Description Reports premium/trial state and the effective daily search
// @Description limit (0 means unlimited).
// @Tags        Premium
// @Produce     json
//
// @Success     200  {object}  services.PremiumStatus
// @Router      /premium [get]
func (h *Handlers) GetPremium(c *gin.Context) {
	ok(c, http.StatusOK, h.premiumSvc.Status(c.Request.Context()))
}

// StartTrial godoc
// @ID          startTrial
// @Summary     Start the free premium trial
// @Description Begins the 3-day trial. The trial can be started once; a
// @Description second attempt fails even after expiry.
// @Tags        Premium
// @Produce     json
//
// @Success     201  {object}  services.PremiumStatus
// @Failure     409  {object}  handlers.ErrorResponse  "Trial already used"
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /premium/trial [post]
func (h *Handlers) StartTrial(c *gin.Context) {
	st, err := h.premiumSvc.StartTrial(c.Request.Context())
	if err != nil {
		if errors.Is(err, services.ErrTrialAlreadyUsed) {
			fail(c, http.StatusConflict, ErrCodeTrialAlreadyUsed, "trial already started")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusCreated, st)
}
