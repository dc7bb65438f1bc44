package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/skipfeed/go-search-backend/internal/domain"
)

func getAnalytics(t *testing.T, r *gin.Engine) AnalyticsResponse {
	t.Helper()
	w := doJSON(t, r, http.MethodGet, "/analytics", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /analytics: status=%d body=%s", w.Code, w.Body.String())
	}
	var resp AnalyticsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	return resp
}

func TestGetAnalytics_EmptyReadsZero(t *testing.T) {
	r, _ := newTestRouter(t, &stubReddit{})

	snap := getAnalytics(t, r)
	if snap.TotalSearches != 0 || snap.TodaysSearches != 0 || snap.TimeSavedMs != 0 {
		t.Fatalf("expected zeroed snapshot, got %+v", snap)
	}
}

func TestRecordTimeSpent(t *testing.T) {
	r, _ := newTestRouter(t, &stubReddit{})

	w := doJSON(t, r, http.MethodPost, "/analytics/time-spent",
		`{"platform":"youtube","duration_ms":45000}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var resp AnalyticsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if resp.TimeSpentOnPlatforms["youtube"] != 45000 {
		t.Fatalf("time spent = %+v", resp.TimeSpentOnPlatforms)
	}

	// Negative durations clamp to zero instead of rewinding the counter.
	w = doJSON(t, r, http.MethodPost, "/analytics/time-spent",
		`{"platform":"youtube","duration_ms":-500}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("negative: status=%d", w.Code)
	}
	if got := getAnalytics(t, r).TimeSpentOnPlatforms["youtube"]; got != 45000 {
		t.Fatalf("counter moved on negative duration: %d", got)
	}

	w = doJSON(t, r, http.MethodPost, "/analytics/time-spent",
		`{"platform":"friendster","duration_ms":10}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown platform: status=%d", w.Code)
	}
}

func TestTopPlatforms(t *testing.T) {
	r, _ := newTestRouter(t, &stubReddit{})

	w := doJSON(t, r, http.MethodGet, "/analytics/top-platforms", "", nil)
	if w.Code != http.StatusOK || w.Body.String() != "[]" {
		t.Fatalf("empty: status=%d body=%s", w.Code, w.Body.String())
	}

	seed := []string{"youtube", "youtube", "reddit", "youtube", "x"}
	for _, p := range seed {
		body := `{"query":"stuff","platform":"` + p + `"}`
		if w := doJSON(t, r, http.MethodPost, "/searches", body, nil); w.Code != http.StatusCreated {
			t.Fatalf("seed %s: %d", p, w.Code)
		}
	}

	w = doJSON(t, r, http.MethodGet, "/analytics/top-platforms", "", nil)
	var counts []domain.PlatformCount
	if err := json.Unmarshal(w.Body.Bytes(), &counts); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(counts) != 3 {
		t.Fatalf("len=%d, want 3", len(counts))
	}
	if counts[0].Platform != "youtube" || counts[0].Count != 3 {
		t.Fatalf("top = %+v", counts[0])
	}
	// reddit and x tie on count 1; registry order puts reddit first.
	if counts[1].Platform != "reddit" || counts[2].Platform != "x" {
		t.Fatalf("tie order wrong: %+v", counts[1:])
	}
}

func TestResetAndClearAnalytics(t *testing.T) {
	r, _ := newTestRouter(t, &stubReddit{})

	if w := doJSON(t, r, http.MethodPost, "/searches", `{"query":"go","platform":"reddit"}`, nil); w.Code != http.StatusCreated {
		t.Fatalf("seed: %d", w.Code)
	}

	w := doJSON(t, r, http.MethodPost, "/analytics/reset", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("reset: status=%d", w.Code)
	}
	var resp AnalyticsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if resp.TotalSearches != 0 || len(resp.SearchesByPlatform) != 0 {
		t.Fatalf("reset left counters: %+v", resp)
	}
	if resp.LastResetDate.IsZero() {
		t.Fatal("reset date not stamped")
	}

	if w := doJSON(t, r, http.MethodDelete, "/analytics", "", nil); w.Code != http.StatusNoContent {
		t.Fatalf("clear: status=%d", w.Code)
	}
	if snap := getAnalytics(t, r); snap.TotalSearches != 0 {
		t.Fatalf("after clear: %+v", snap)
	}
}
