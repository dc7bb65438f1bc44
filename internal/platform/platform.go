// Package platform defines the registry of supported social platforms and
// the deep-link resolution logic that turns a (query, platform) pair into a
// launchable native-app URI or a web fallback URL.
//
// The registry is the single source of truth for per-platform constants:
// display names, brand colors, native URI schemes, and search URL templates.
// Everything here is pure data and pure functions; launching a resolved URI
// is the caller's responsibility.
package platform

import (
	"errors"
	"fmt"
)

// ID identifies a supported platform. The set is closed; values outside the
// declared constants are rejected by Lookup.
type ID string

// Supported platform identifiers, in registry declaration order.
const (
	Reddit    ID = "reddit"
	YouTube   ID = "youtube"
	X         ID = "x"
	TikTok    ID = "tiktok"
	Instagram ID = "instagram"
	Facebook  ID = "facebook"
)

// ErrUnknownPlatform is returned by Lookup (and anything that parses a
// platform id) when the id is not one of the declared constants.
var ErrUnknownPlatform = errors.New("unknown platform")

// Platform is an immutable record describing one supported platform.
//
// WebSearchURL and AppSearchURI are prefix templates: the percent-encoded
// query is appended directly (the original clients concatenate rather than
// substitute into a placeholder, and every template ends at the query
// parameter). AppOpenURI is the bare scheme used to open the native app when
// there is no query to search for.
type Platform struct {
	ID          ID     `json:"id"`
	DisplayName string `json:"display_name"`
	// BrandColor is the platform's primary brand color as #RRGGBB.
	BrandColor string `json:"brand_color"`
	// PackageName is the Android application id, used by clients to probe
	// whether the native app is installed.
	PackageName string `json:"package_name"`
	// AppStoreID is the iOS App Store numeric id for store fallback links.
	AppStoreID string `json:"app_store_id"`

	WebSearchURL string `json:"web_search_url"`
	AppSearchURI string `json:"app_search_uri"`
	AppOpenURI   string `json:"app_open_uri"`

	// ProfileURI is set only for platforms that support an "open profile by
	// handle" deep link ("@name" queries). Empty for all others.
	ProfileURI string `json:"profile_uri,omitempty"`
}

// registry holds all supported platforms in declaration order. The order is
// fixed and independent of any user-configured display order.
var registry = []Platform{
	{
		ID:           Reddit,
		DisplayName:  "Reddit",
		BrandColor:   "#FF4500",
		PackageName:  "com.reddit.frontpage",
		AppStoreID:   "1064216828",
		WebSearchURL: "https://www.reddit.com/search/?q=",
		AppSearchURI: "reddit://www.reddit.com/search/?q=",
		AppOpenURI:   "reddit://",
	},
	{
		ID:           YouTube,
		DisplayName:  "YouTube",
		BrandColor:   "#FF0000",
		PackageName:  "com.google.android.youtube",
		AppStoreID:   "544007664",
		WebSearchURL: "https://www.youtube.com/results?search_query=",
		AppSearchURI: "youtube://www.youtube.com/results?search_query=",
		AppOpenURI:   "youtube://",
	},
	{
		ID:           X,
		DisplayName:  "X",
		BrandColor:   "#1DA1F2",
		PackageName:  "com.twitter.android",
		AppStoreID:   "333903271",
		WebSearchURL: "https://x.com/search?q=",
		AppSearchURI: "twitter://search?query=",
		AppOpenURI:   "twitter://",
	},
	{
		ID:           TikTok,
		DisplayName:  "TikTok",
		BrandColor:   "#000000",
		PackageName:  "com.ss.android.ugc.trill",
		AppStoreID:   "835599320",
		WebSearchURL: "https://www.tiktok.com/search?q=",
		AppSearchURI: "tiktok://search?q=",
		AppOpenURI:   "tiktok://",
	},
	{
		ID:           Instagram,
		DisplayName:  "Instagram",
		BrandColor:   "#E4405F",
		PackageName:  "com.instagram.android",
		AppStoreID:   "389801252",
		WebSearchURL: "https://www.instagram.com/explore/search/?q=",
		AppSearchURI: "instagram://tag?name=",
		AppOpenURI:   "instagram://",
		ProfileURI:   "instagram://user?username=",
	},
	{
		ID:           Facebook,
		DisplayName:  "Facebook",
		BrandColor:   "#1877F2",
		PackageName:  "com.facebook.katana",
		AppStoreID:   "284882215",
		WebSearchURL: "https://www.facebook.com/search/top/?q=",
		AppSearchURI: "fb://search/top/?q=",
		AppOpenURI:   "fb://",
	},
}

// index maps id -> registry position for O(1) Lookup and stable ordering.
var index = func() map[ID]int {
	m := make(map[ID]int, len(registry))
	for i, p := range registry {
		m[p.ID] = i
	}
	return m
}()

// Lookup returns the platform for id, or ErrUnknownPlatform when id is not
// part of the declared set.
func Lookup(id ID) (Platform, error) {
	i, ok := index[id]
	if !ok {
		return Platform{}, fmt.Errorf("%w: %q", ErrUnknownPlatform, id)
	}
	return registry[i], nil
}

// aliases folds legacy platform names onto their current ids.
var aliases = map[ID]ID{
	"twitter": X,
}

// Parse validates a raw string as a platform id. Legacy names still sent by
// old clients fold onto the current id.
func Parse(s string) (ID, error) {
	id := ID(s)
	if canonical, ok := aliases[id]; ok {
		id = canonical
	}
	if _, ok := index[id]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPlatform, s)
	}
	return id, nil
}

// All returns every supported platform in declaration order. The returned
// slice is a copy; callers may reorder it freely.
func All() []Platform {
	out := make([]Platform, len(registry))
	copy(out, registry)
	return out
}

// IDs returns the declared platform ids in declaration order.
func IDs() []ID {
	out := make([]ID, len(registry))
	for i, p := range registry {
		out[i] = p.ID
	}
	return out
}

// OrderOf returns the registry declaration position of id, or len(registry)
// for unknown ids so they sort last.
func OrderOf(id ID) int {
	if i, ok := index[id]; ok {
		return i
	}
	return len(registry)
}
