// Package domain defines the persistence models for search history, usage
// analytics, and the user-preferences blob. These types are mapped with GORM
// and form the core data layer of the SkipFeed backend.
package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/skipfeed/go-search-backend/internal/platform"
)

// Time accounting constants for the "time saved" heuristic. The wasted-time
// baseline is an assumed average of scrolling before finding content; the
// derived figure is an estimate, not a measurement.
const (
	// AverageWastedTimePerSearchMs is the assumed feed-scrolling time a
	// direct search replaces (3 minutes).
	AverageWastedTimePerSearchMs int64 = 180000
	// DefaultAverageTimePerSearchMs is the assumed cost of a direct search
	// itself (30 seconds).
	DefaultAverageTimePerSearchMs int64 = 30000
)

// DateKeyFormat is the calendar-date key format used by DailySearches.
const DateKeyFormat = "2006-01-02"

// CountMap is a string-keyed counter column persisted as a JSON object.
// It is used for per-platform search counts, per-day search counts, and
// per-platform cumulative milliseconds.
type CountMap map[string]int64

// Value implements driver.Valuer, serializing the map as JSON text. A nil
// map serializes as an empty object so reads never see SQL NULL.
func (m CountMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for TEXT/BLOB JSON columns.
func (m *CountMap) Scan(src any) error {
	if src == nil {
		*m = CountMap{}
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("countmap: cannot scan %T", src)
	}
	if len(b) == 0 {
		*m = CountMap{}
		return nil
	}
	return json.Unmarshal(b, m)
}

// SearchHistoryItem is one completed search. Rows are append-only: created on
// every completed search, removed only by explicit user action or pruning,
// never mutated.
type SearchHistoryItem struct {
	ID       string `json:"id"        gorm:"type:char(36);primaryKey"`
	Query    string `json:"query"     gorm:"type:text;not null"`
	Platform string `json:"platform"  gorm:"type:varchar(16);not null;index:idx_history_platform"`
	// Timestamp is the wall-clock capture time. Insert order follows the
	// clock at capture, nothing stronger.
	Timestamp time.Time `json:"timestamp" gorm:"index:idx_history_ts"`
	// ResultCount is set only for searches that surfaced an in-app result
	// list (e.g. Reddit browsing mode).
	ResultCount *int `json:"result_count,omitempty"`
	// CreatedAt breaks timestamp ties by insertion order.
	CreatedAt time.Time `json:"-"`
}

// TableName returns the database table name for SearchHistoryItem.
func (SearchHistoryItem) TableName() string { return "search_history" }

// UsageAnalytics is the singleton aggregate counters row, always stored under
// AnalyticsRowID. Absence of the row is equivalent to a zeroed record.
type UsageAnalytics struct {
	ID                   int       `json:"-"                       gorm:"primaryKey;autoIncrement:false"`
	TotalSearches        int64     `json:"total_searches"`
	SearchesByPlatform   CountMap  `json:"searches_by_platform"    gorm:"type:text"`
	DailySearches        CountMap  `json:"daily_searches"          gorm:"type:text"`
	TimeSpentOnPlatforms CountMap  `json:"time_spent_on_platforms" gorm:"type:text"`
	LastResetDate        time.Time `json:"last_reset_date"`
	// AverageTimePerSearchMs is the assumed cost of one search; kept in the
	// row so the heuristic survives future tuning without a migration.
	AverageTimePerSearchMs int64 `json:"average_time_per_search_ms"`
}

// AnalyticsRowID is the fixed primary key of the singleton analytics row.
const AnalyticsRowID = 0

// TableName returns the database table name for UsageAnalytics.
func (UsageAnalytics) TableName() string { return "usage_analytics" }

// NewUsageAnalytics returns a zeroed record with defaults applied and
// LastResetDate set to now.
func NewUsageAnalytics(now time.Time) UsageAnalytics {
	return UsageAnalytics{
		ID:                     AnalyticsRowID,
		SearchesByPlatform:     CountMap{},
		DailySearches:          CountMap{},
		TimeSpentOnPlatforms:   CountMap{},
		LastResetDate:          now,
		AverageTimePerSearchMs: DefaultAverageTimePerSearchMs,
	}
}

// timeSavedPerSearchMs derives the per-search saving from the wasted-time
// baseline less the cost of the search itself.
func (a UsageAnalytics) timeSavedPerSearchMs() int64 {
	avg := a.AverageTimePerSearchMs
	if avg == 0 {
		avg = DefaultAverageTimePerSearchMs
	}
	return AverageWastedTimePerSearchMs - avg
}

// TimeSavedMs estimates the cumulative milliseconds of attention reclaimed.
func (a UsageAnalytics) TimeSavedMs() int64 {
	return a.TotalSearches * a.timeSavedPerSearchMs()
}

// TodaysSearchCount returns today's search count in the local calendar of now.
func (a UsageAnalytics) TodaysSearchCount(now time.Time) int64 {
	return a.DailySearches[now.Format(DateKeyFormat)]
}

// TimeSavedTodayMs estimates milliseconds reclaimed by today's searches.
func (a UsageAnalytics) TimeSavedTodayMs(now time.Time) int64 {
	return a.TodaysSearchCount(now) * a.timeSavedPerSearchMs()
}

// PlatformCount pairs a platform id with its accumulated search count.
type PlatformCount struct {
	Platform platform.ID `json:"platform"`
	Count    int64       `json:"count"`
}

// MostUsedPlatforms returns per-platform counts sorted by count descending.
// Ties break by registry declaration order. Keys that do not name a declared
// platform are skipped.
func (a UsageAnalytics) MostUsedPlatforms() []PlatformCount {
	out := make([]PlatformCount, 0, len(a.SearchesByPlatform))
	for k, n := range a.SearchesByPlatform {
		id, err := platform.Parse(k)
		if err != nil {
			continue
		}
		out = append(out, PlatformCount{Platform: id, Count: n})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return platform.OrderOf(out[i].Platform) < platform.OrderOf(out[j].Platform)
	})
	return out
}

// Preference is a single key-value settings blob. The user-preferences JSON
// document lives in one row, mirroring a mobile key-value store.
type Preference struct {
	Key       string    `gorm:"type:varchar(64);primaryKey"`
	Value     []byte    `gorm:"type:blob"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the database table name for Preference.
func (Preference) TableName() string { return "preferences" }

// SearchMode selects how a dispatched search is presented.
type SearchMode string

const (
	// SearchModeDirect hands the query to the platform app or site.
	SearchModeDirect SearchMode = "direct"
	// SearchModeInApp browses results inside SkipFeed (Reddit listing mode).
	SearchModeInApp SearchMode = "inApp"
)

// ParseSearchMode maps a raw string to a SearchMode, defaulting to direct for
// anything unrecognized (matching the mobile clients' lenient decoding).
func ParseSearchMode(s string) SearchMode {
	if SearchMode(s) == SearchModeInApp {
		return SearchModeInApp
	}
	return SearchModeDirect
}

// DefaultDailySearchLimit caps free-tier searches per calendar day. Premium
// users and active trials are exempt.
const DefaultDailySearchLimit = 30

// UserPreferences is the settings document persisted under the
// "user_preferences" preference key.
type UserPreferences struct {
	PreferredLanguage  string        `json:"preferred_language"`
	AutoDetectLanguage bool          `json:"auto_detect_language"`
	PlatformOrder      []platform.ID `json:"platform_order"`
	SearchMode         SearchMode    `json:"search_mode"`
	HasSeenOnboarding  bool          `json:"has_seen_onboarding"`
	DailySearchLimit   int           `json:"daily_search_limit"`
	// TrialStartedAt is set once when the premium trial begins.
	TrialStartedAt *time.Time `json:"trial_started_at,omitempty"`
	// PremiumUnlocked marks a completed purchase restore.
	PremiumUnlocked bool `json:"premium_unlocked"`
}

// DefaultUserPreferences returns the out-of-the-box settings document.
func DefaultUserPreferences() UserPreferences {
	return UserPreferences{
		PreferredLanguage:  "en",
		AutoDetectLanguage: true,
		PlatformOrder:      platform.IDs(),
		SearchMode:         SearchModeDirect,
		DailySearchLimit:   DefaultDailySearchLimit,
	}
}

// NormalizePlatformOrder rewrites PlatformOrder into a permutation of the
// full platform set: unknown ids and duplicates are dropped, missing
// platforms are appended in declaration order.
func (p *UserPreferences) NormalizePlatformOrder() {
	seen := make(map[platform.ID]bool, len(p.PlatformOrder))
	order := make([]platform.ID, 0, len(platform.IDs()))
	for _, id := range p.PlatformOrder {
		if _, err := platform.Lookup(id); err != nil || seen[id] {
			continue
		}
		seen[id] = true
		order = append(order, id)
	}
	for _, id := range platform.IDs() {
		if !seen[id] {
			order = append(order, id)
		}
	}
	p.PlatformOrder = order
}
