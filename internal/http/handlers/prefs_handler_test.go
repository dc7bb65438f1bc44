package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/skipfeed/go-search-backend/internal/domain"
	"github.com/skipfeed/go-search-backend/internal/services"
)

func getPrefs(t *testing.T, r *gin.Engine) domain.UserPreferences {
	t.Helper()
	w := doJSON(t, r, http.MethodGet, "/preferences", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /preferences: status=%d body=%s", w.Code, w.Body.String())
	}
	var prefs domain.UserPreferences
	if err := json.Unmarshal(w.Body.Bytes(), &prefs); err != nil {
		t.Fatalf("json: %v", err)
	}
	return prefs
}

func TestGetPreferences_Defaults(t *testing.T) {
	r, _ := newTestRouter(t, &stubReddit{})

	prefs := getPrefs(t, r)
	if prefs.PreferredLanguage != "en" || !prefs.AutoDetectLanguage {
		t.Fatalf("unexpected defaults: %+v", prefs)
	}
	if len(prefs.PlatformOrder) != 6 || prefs.PlatformOrder[0] != "reddit" {
		t.Fatalf("platform order: %v", prefs.PlatformOrder)
	}
	if prefs.DailySearchLimit != domain.DefaultDailySearchLimit {
		t.Fatalf("limit = %d", prefs.DailySearchLimit)
	}
}

func TestUpdatePreferences_RoundTrip(t *testing.T) {
	r, _ := newTestRouter(t, &stubReddit{})

	body := `{
		"preferred_language": "el",
		"auto_detect_language": false,
		"platform_order": ["tiktok", "instagram"],
		"search_mode": "inApp",
		"has_seen_onboarding": true,
		"daily_search_limit": 50
	}`
	w := doJSON(t, r, http.MethodPut, "/preferences", body, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	prefs := getPrefs(t, r)
	if prefs.PreferredLanguage != "el" || prefs.AutoDetectLanguage {
		t.Fatalf("language not saved: %+v", prefs)
	}
	if prefs.SearchMode != domain.SearchModeInApp || !prefs.HasSeenOnboarding {
		t.Fatalf("flags not saved: %+v", prefs)
	}
	if prefs.DailySearchLimit != 50 {
		t.Fatalf("limit = %d", prefs.DailySearchLimit)
	}
	// Partial order is completed with the remaining registry platforms.
	if len(prefs.PlatformOrder) != 6 || prefs.PlatformOrder[0] != "tiktok" || prefs.PlatformOrder[1] != "instagram" {
		t.Fatalf("order = %v", prefs.PlatformOrder)
	}
}

func TestUpdatePreferences_InvalidLanguage(t *testing.T) {
	r, _ := newTestRouter(t, &stubReddit{})

	w := doJSON(t, r, http.MethodPut, "/preferences",
		`{"preferred_language":"not a tag!!"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var er ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
		t.Fatalf("json: %v", err)
	}
	if er.Code != ErrCodeInvalidLanguage {
		t.Fatalf("code=%q", er.Code)
	}
}

func TestUpdatePreferences_PreservesEntitlements(t *testing.T) {
	r, _ := newTestRouter(t, &stubReddit{})

	if w := doJSON(t, r, http.MethodPost, "/premium/trial", "", nil); w.Code != http.StatusCreated {
		t.Fatalf("start trial: status=%d", w.Code)
	}

	// Entitlement fields in the body are ignored; a settings save neither
	// grants premium nor erases the running trial.
	body := `{
		"preferred_language": "en",
		"has_seen_onboarding": true,
		"premium_unlocked": true
	}`
	if w := doJSON(t, r, http.MethodPut, "/preferences", body, nil); w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}

	w := doJSON(t, r, http.MethodGet, "/premium", "", nil)
	var st services.PremiumStatus
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("json: %v", err)
	}
	if st.Premium {
		t.Fatalf("premium self-granted: %+v", st)
	}
	if !st.TrialUsed || !st.TrialActive {
		t.Fatalf("trial erased: %+v", st)
	}
}

func TestOrderPlatformsByUsage(t *testing.T) {
	r, _ := newTestRouter(t, &stubReddit{})

	for _, p := range []string{"x", "x", "facebook"} {
		body := `{"query":"news","platform":"` + p + `"}`
		if w := doJSON(t, r, http.MethodPost, "/searches", body, nil); w.Code != http.StatusCreated {
			t.Fatalf("seed %s: %d", p, w.Code)
		}
	}

	w := doJSON(t, r, http.MethodPost, "/preferences/platform-order/usage", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var prefs domain.UserPreferences
	if err := json.Unmarshal(w.Body.Bytes(), &prefs); err != nil {
		t.Fatalf("json: %v", err)
	}
	if prefs.PlatformOrder[0] != "x" || prefs.PlatformOrder[1] != "facebook" {
		t.Fatalf("order = %v", prefs.PlatformOrder)
	}
	if len(prefs.PlatformOrder) != 6 {
		t.Fatalf("order incomplete: %v", prefs.PlatformOrder)
	}
}

func TestPremiumTrialLifecycle(t *testing.T) {
	r, _ := newTestRouter(t, &stubReddit{})

	w := doJSON(t, r, http.MethodGet, "/premium", "", nil)
	var st services.PremiumStatus
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("json: %v", err)
	}
	if st.Premium || st.TrialActive || st.TrialUsed {
		t.Fatalf("fresh status: %+v", st)
	}
	if st.DailySearchLimit != domain.DefaultDailySearchLimit {
		t.Fatalf("limit = %d", st.DailySearchLimit)
	}

	w = doJSON(t, r, http.MethodPost, "/premium/trial", "", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("start trial: status=%d body=%s", w.Code, w.Body.String())
	}
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("json: %v", err)
	}
	// A trial does not flip the premium flag; features gate on either.
	if st.Premium || !st.TrialActive || st.TrialDaysRemaining != 3 || st.DailySearchLimit != 0 {
		t.Fatalf("trial status: %+v", st)
	}

	w = doJSON(t, r, http.MethodPost, "/premium/trial", "", nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("second trial: status=%d", w.Code)
	}
	var er ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
		t.Fatalf("json: %v", err)
	}
	if er.Code != ErrCodeTrialAlreadyUsed {
		t.Fatalf("code=%q", er.Code)
	}
}
