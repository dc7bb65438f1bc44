package reddit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultBaseURL is the public Reddit host.
	DefaultBaseURL = "https://www.reddit.com"
	// DefaultUserAgent identifies this service per Reddit's API policy;
	// requests without a descriptive agent are aggressively throttled.
	DefaultUserAgent = "skipfeed-search-backend/1.0"
	// DefaultTimeout bounds a single search request end to end.
	DefaultTimeout = 15 * time.Second
	// DefaultLimit is the page size used when the caller passes none.
	DefaultLimit = 25
	// MaxLimit is the endpoint's hard page-size cap.
	MaxLimit = 100
)

// ErrDecode marks a 200 response whose body could not be decoded as a
// listing. Check with errors.Is; the wrapped json error carries the detail.
var ErrDecode = errors.New("reddit: undecodable listing")

// HTTPError reports a non-200 response from the search endpoint. The caller
// owns any retry/backoff decision.
type HTTPError struct {
	StatusCode int
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("reddit: unexpected status %d", e.StatusCode)
}

// SearchOptions tune one SearchPosts call. Zero values select defaults
// (relevance, all time, DefaultLimit, first page).
type SearchOptions struct {
	Sort       Sort
	TimeFilter TimeFilter
	// After is the opaque cursor from a previous response; pass it verbatim
	// to fetch the next page.
	After string
	Limit int
}

// Client talks to the Reddit search endpoint. The zero value is not usable;
// construct with NewClient.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

// NewClient builds a Client. Empty baseURL/userAgent select the defaults;
// a nil httpClient gets a dedicated client with DefaultTimeout.
func NewClient(baseURL, userAgent string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{baseURL: baseURL, userAgent: userAgent, http: httpClient}
}

// SearchPosts runs one search request and returns the decoded posts plus the
// next-page cursor ("" when the listing is exhausted).
//
// Error cases:
//   - transport failures and context cancellation are returned wrapped;
//   - non-200 statuses return *HTTPError;
//   - undecodable payloads return an error wrapping ErrDecode.
func (c *Client) SearchPosts(ctx context.Context, query string, opts SearchOptions) ([]Post, string, error) {
	req, err := c.newSearchRequest(ctx, query, opts)
	if err != nil {
		return nil, "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("reddit: search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		log.Warn().Int("status", resp.StatusCode).Str("query", query).Msg("reddit search failed")
		return nil, "", &HTTPError{StatusCode: resp.StatusCode}
	}

	var decoded listingResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDecode, err)
	}

	posts := make([]Post, 0, len(decoded.Data.Children))
	for _, ch := range decoded.Data.Children {
		posts = append(posts, ch.Data)
	}
	return posts, decoded.Data.After, nil
}

// newSearchRequest builds the GET request for query and opts.
func (c *Client) newSearchRequest(ctx context.Context, query string, opts SearchOptions) (*http.Request, error) {
	sort := opts.Sort
	if sort == "" {
		sort = SortRelevance
	}
	tf := opts.TimeFilter
	if tf == "" {
		tf = TimeAll
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("sort", string(sort))
	q.Set("t", string(tf))
	q.Set("limit", strconv.Itoa(limit))
	q.Set("raw_json", "1")
	if opts.After != "" {
		q.Set("after", opts.After)
	}

	u := c.baseURL + "/search.json?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("reddit: build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	return req, nil
}
