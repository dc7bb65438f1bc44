package services

import (
	"context"
	"time"

	"github.com/skipfeed/go-search-backend/internal/domain"
)

// TrialDuration is the length of the free premium trial.
const TrialDuration = 3 * 24 * time.Hour

// PremiumStatus describes the current entitlement state.
type PremiumStatus struct {
	Premium            bool `json:"premium"`
	TrialActive        bool `json:"trial_active"`
	TrialUsed          bool `json:"trial_used"`
	TrialDaysRemaining int  `json:"trial_days_remaining"`
	// DailySearchLimit is 0 when searches are unlimited.
	DailySearchLimit int `json:"daily_search_limit"`
}

// PremiumService derives entitlement state from the stored preferences.
type PremiumService struct {
	Prefs *PreferencesService

	now func() time.Time
}

// NewPremiumService wires a PremiumService over the preferences store.
func NewPremiumService(prefs *PreferencesService) *PremiumService {
	return &PremiumService{Prefs: prefs, now: time.Now}
}

// Status reports the current premium and trial state.
func (s *PremiumService) Status(ctx context.Context) PremiumStatus {
	return s.statusFor(s.Prefs.Get(ctx))
}

func (s *PremiumService) statusFor(prefs domain.UserPreferences) PremiumStatus {
	st := PremiumStatus{
		Premium:          prefs.PremiumUnlocked,
		DailySearchLimit: prefs.DailySearchLimit,
	}
	if prefs.TrialStartedAt != nil {
		st.TrialUsed = true
		remaining := TrialDuration - s.now().Sub(*prefs.TrialStartedAt)
		if remaining > 0 {
			st.TrialActive = true
			// Partial days round up so "3 days" shows until the first
			// full day has elapsed.
			st.TrialDaysRemaining = int((remaining + 24*time.Hour - 1) / (24 * time.Hour))
		}
	}
	if st.Premium || st.TrialActive {
		st.DailySearchLimit = 0
	}
	return st
}

// StartTrial begins the free trial. Starting it a second time is an error,
// even after expiry.
func (s *PremiumService) StartTrial(ctx context.Context) (PremiumStatus, error) {
	prefs := s.Prefs.Get(ctx)
	if prefs.TrialStartedAt != nil {
		return s.statusFor(prefs), ErrTrialAlreadyUsed
	}
	started := s.now()
	prefs.TrialStartedAt = &started
	if err := s.Prefs.save(ctx, prefs); err != nil {
		return PremiumStatus{}, err
	}
	return s.statusFor(prefs), nil
}

// CanSearch reports whether another search is allowed given today's count.
// Premium users and active trials are never limited.
func (s *PremiumService) CanSearch(ctx context.Context, todayCount int64) bool {
	st := s.Status(ctx)
	if st.DailySearchLimit == 0 {
		return true
	}
	return todayCount < int64(st.DailySearchLimit)
}
