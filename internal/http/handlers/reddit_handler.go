// Reddit proxy HTTP handler.
//
// This file exposes in-app Reddit browsing:
//   - GET /reddit/search  (proxied search with normalized posts and cursor)
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skipfeed/go-search-backend/internal/http/middleware"
	"github.com/skipfeed/go-search-backend/internal/reddit"
)

//
// DTOs
//

// RedditPostResponse is one normalized search result.
type RedditPostResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Author       string    `json:"author"`
	Subreddit    string    `json:"subreddit"`
	Score        int       `json:"score"`
	NumComments  int       `json:"num_comments"`
	CreatedAt    time.Time `json:"created_at"`
	Permalink    string    `json:"permalink"`
	URL          string    `json:"url,omitempty"`
	SelfText     string    `json:"self_text,omitempty"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	PreviewURL   string    `json:"preview_url,omitempty"`
	IsVideo      bool      `json:"is_video"`
}

// RedditSearchResponse wraps one page of results and the continuation cursor.
type RedditSearchResponse struct {
	Posts []RedditPostResponse `json:"posts"`
	// After is the opaque cursor for the next page; empty means end of
	// results.
	After string `json:"after,omitempty"`
}

func toRedditPostResponse(p reddit.Post) RedditPostResponse {
	return RedditPostResponse{
		ID:           p.ID,
		Title:        p.Title,
		Author:       p.Author,
		Subreddit:    p.Subreddit,
		Score:        p.Score,
		NumComments:  p.NumComments,
		CreatedAt:    p.CreatedTime(),
		Permalink:    p.PermalinkURL(),
		URL:          p.URL,
		SelfText:     p.SelfText,
		ThumbnailURL: p.ThumbnailURL(),
		PreviewURL:   p.PreviewImageURL(),
		IsVideo:      p.IsVideo,
	}
}

// SearchReddit godoc
// @ID          searchReddit
// @Summary     Search Reddit
// @Description Proxies a search to Reddit's public API and returns normalized
// @Description posts with an opaque pagination cursor. Unrecognized sort and
// @Description time filter values fall back to relevance and all.
// @Tags        Reddit
// @Produce     json
//
// @Param       q      query  string  true   "Search query"
// @Param       sort   query  string  false  "relevance, hot, top, new, comments"  default(relevance)
// @Param       t      query  string  false  "all, year, month, week, day, hour"   default(all)
// @Param       limit  query  int     false  "Results per page"  minimum(1) maximum(100) default(25)
// @Param       after  query  string  false  "Continuation cursor from a previous page"
//
// @Success     200  {object}  handlers.RedditSearchResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     502  {object}  handlers.ErrorResponse  "Upstream failure"
// @Router      /reddit/search [get]
func (h *Handlers) SearchReddit(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		fail(c, http.StatusBadRequest, ErrCodeEmptyQuery, "q is required")
		return
	}

	opts := reddit.SearchOptions{
		Sort:       reddit.ParseSort(c.Query("sort")),
		TimeFilter: reddit.ParseTimeFilter(c.Query("t")),
		After:      c.Query("after"),
		Limit:      clampLimit(c, "limit", reddit.DefaultLimit, reddit.MaxLimit),
	}

	posts, after, err := h.reddit.SearchPosts(c.Request.Context(), query, opts)
	if err != nil {
		var httpErr *reddit.HTTPError
		if errors.As(err, &httpErr) {
			middleware.CountRedditRequest(strconv.Itoa(httpErr.StatusCode))
			fail(c, http.StatusBadGateway, ErrCodeUpstreamError,
				"reddit returned status "+strconv.Itoa(httpErr.StatusCode))
			return
		}
		if errors.Is(err, reddit.ErrDecode) {
			middleware.CountRedditRequest("decode_error")
			fail(c, http.StatusBadGateway, ErrCodeDecodeError, err.Error())
			return
		}
		middleware.CountRedditRequest("error")
		fail(c, http.StatusBadGateway, ErrCodeUpstreamError, err.Error())
		return
	}
	middleware.CountRedditRequest("ok")

	out := make([]RedditPostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toRedditPostResponse(p))
	}
	ok(c, http.StatusOK, RedditSearchResponse{Posts: out, After: after})
}
