// Platform HTTP handlers.
//
// This file exposes the platform registry and deep-link resolution:
//   - GET /platforms  (registry, ordered by user preference)
//   - GET /resolve    (query + platform -> launch target, no side effects)
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/skipfeed/go-search-backend/internal/platform"
)

// PlatformResponse describes one searchable platform.
type PlatformResponse struct {
	ID           platform.ID `json:"id" example:"reddit"`
	DisplayName  string      `json:"display_name" example:"Reddit"`
	BrandColor   string      `json:"brand_color" example:"#FF4500"`
	PackageName  string      `json:"package_name,omitempty"`
	AppStoreID   string      `json:"app_store_id,omitempty"`
	SupportsApp  bool        `json:"supports_app"`
	SupportsWeb  bool        `json:"supports_web"`
	ProfileLinks bool        `json:"profile_links"`
}

// ResolveResponse is the outcome of resolving a query against a platform.
type ResolveResponse struct {
	Platform platform.ID `json:"platform" example:"reddit"`
	URI      string      `json:"uri" example:"https://www.reddit.com/search/?q=mechanical%20keyboards"`
	IsNative bool        `json:"is_native"`
}

func toPlatformResponse(p platform.Platform) PlatformResponse {
	return PlatformResponse{
		ID:           p.ID,
		DisplayName:  p.DisplayName,
		BrandColor:   p.BrandColor,
		PackageName:  p.PackageName,
		AppStoreID:   p.AppStoreID,
		SupportsApp:  p.AppSearchURI != "",
		SupportsWeb:  p.WebSearchURL != "",
		ProfileLinks: p.ProfileURI != "",
	}
}

// ListPlatforms godoc
// @ID          listPlatforms
// @Summary     List searchable platforms
// @Description Returns the platform registry in the user's preferred order.
// @Tags        Platforms
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
//
// @Success     200  {array}   handlers.PlatformResponse
// @Router      /platforms [get]
func (h *Handlers) ListPlatforms(c *gin.Context) {
	prefs := h.prefsSvc.Get(c.Request.Context())

	out := make([]PlatformResponse, 0, len(prefs.PlatformOrder))
	for _, id := range prefs.PlatformOrder {
		p, err := platform.Lookup(id)
		if err != nil {
			continue
		}
		out = append(out, toPlatformResponse(p))
	}
	ok(c, http.StatusOK, out)
}

// ResolveLink godoc
// @ID          resolveLink
// @Summary     Resolve a search deep link
// @Description Resolves a query to a platform launch target without recording
// @Description it. With native=true the app deep link is returned when the
// @Description platform has one; otherwise the web search URL.
// @Tags        Platforms
// @Produce     json
//
// @Param       platform  query  string  true   "Platform id"  example(reddit)
// @Param       q         query  string  false  "Search query"
// @Param       native    query  bool    false  "Prefer the native app deep link"
//
// @Success     200  {object}  handlers.ResolveResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Unknown platform or unsupported empty query"
// @Router      /resolve [get]
func (h *Handlers) ResolveLink(c *gin.Context) {
	id, err := platform.Parse(c.Query("platform"))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeUnknownPlatform, "unknown platform")
		return
	}
	p, err := platform.Lookup(id)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeUnknownPlatform, "unknown platform")
		return
	}

	query := strings.TrimSpace(c.Query("q"))
	native := c.Query("native") == "true" || c.Query("native") == "1"

	target, err := platform.Resolve(query, p, native)
	if err != nil {
		if errors.Is(err, platform.ErrEmptyQueryUnsupported) {
			fail(c, http.StatusBadRequest, ErrCodeEmptyQuery, "empty query is not supported for a web target")
			return
		}
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}

	ok(c, http.StatusOK, ResolveResponse{Platform: id, URI: target.URI, IsNative: target.IsNative})
}
