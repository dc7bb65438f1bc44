// Package reddit implements a minimal client for Reddit's public search
// endpoint. It issues one fresh GET per call (no retries, no caching),
// decodes the listing tolerantly, and hands pagination back to the caller as
// an opaque cursor token.
package reddit

import (
	"strings"
	"time"
)

// Sort orders search results. Values mirror the endpoint's sort parameter.
type Sort string

const (
	SortRelevance Sort = "relevance"
	SortHot       Sort = "hot"
	SortTop       Sort = "top"
	SortNew       Sort = "new"
	SortComments  Sort = "comments"
)

// TimeFilter restricts results to a trailing window. Values mirror the
// endpoint's t parameter.
type TimeFilter string

const (
	TimeAll   TimeFilter = "all"
	TimeYear  TimeFilter = "year"
	TimeMonth TimeFilter = "month"
	TimeWeek  TimeFilter = "week"
	TimeDay   TimeFilter = "day"
	TimeHour  TimeFilter = "hour"
)

// ParseSort maps a raw string to a Sort, defaulting to relevance for
// anything unrecognized.
func ParseSort(s string) Sort {
	switch Sort(strings.ToLower(s)) {
	case SortHot, SortTop, SortNew, SortComments:
		return Sort(strings.ToLower(s))
	default:
		return SortRelevance
	}
}

// ParseTimeFilter maps a raw string to a TimeFilter, defaulting to all.
func ParseTimeFilter(s string) TimeFilter {
	switch TimeFilter(strings.ToLower(s)) {
	case TimeYear, TimeMonth, TimeWeek, TimeDay, TimeHour:
		return TimeFilter(strings.ToLower(s))
	default:
		return TimeAll
	}
}

// listingResponse is the wire envelope: { data: { children: [...], after } }.
type listingResponse struct {
	Data listing `json:"data"`
}

type listing struct {
	Children []child `json:"children"`
	// After is the opaque continuation cursor; null/absent means end of
	// results.
	After string `json:"after"`
}

type child struct {
	Data Post `json:"data"`
}

// Post is one search result. Non-essential fields are optional on the wire;
// absent values decode to their zero value.
type Post struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Subreddit   string   `json:"subreddit"`
	Score       int      `json:"score"`
	NumComments int      `json:"num_comments"`
	CreatedUTC  float64  `json:"created_utc"`
	URL         string   `json:"url"`
	Permalink   string   `json:"permalink"`
	SelfText    string   `json:"selftext"`
	Thumbnail   string   `json:"thumbnail"`
	Preview     *preview `json:"preview,omitempty"`
	IsVideo     bool     `json:"is_video"`
}

type preview struct {
	Images []previewImage `json:"images"`
}

type previewImage struct {
	Source imageSource `json:"source"`
}

type imageSource struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// PermalinkURL returns the canonical reddit.com URL of the post.
func (p Post) PermalinkURL() string {
	return "https://www.reddit.com" + p.Permalink
}

// CreatedTime converts the epoch-seconds creation stamp to a time.Time.
func (p Post) CreatedTime() time.Time {
	sec := int64(p.CreatedUTC)
	nsec := int64((p.CreatedUTC - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec).UTC()
}

// ThumbnailURL returns the post's thumbnail URL, or "" when the post has
// none. Reddit reuses the thumbnail field for sentinel markers ("self",
// "default", "nsfw", "spoiler"); those and anything that is not an http(s)
// URL mean "no thumbnail".
func (p Post) ThumbnailURL() string {
	switch p.Thumbnail {
	case "", "self", "default", "nsfw", "spoiler":
		return ""
	}
	if !strings.HasPrefix(p.Thumbnail, "http://") && !strings.HasPrefix(p.Thumbnail, "https://") {
		return ""
	}
	return p.Thumbnail
}

// PreviewImageURL returns the first preview image source URL, or "" when the
// post carries no preview. Reddit HTML-escapes ampersands inside preview
// URLs even with raw_json=1 on older payloads, so they are unescaped here.
func (p Post) PreviewImageURL() string {
	if p.Preview == nil || len(p.Preview.Images) == 0 {
		return ""
	}
	return strings.ReplaceAll(p.Preview.Images[0].Source.URL, "&amp;", "&")
}
