package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/skipfeed/go-search-backend/internal/domain"
	"github.com/skipfeed/go-search-backend/internal/platform"
	"github.com/skipfeed/go-search-backend/internal/repo"
)

// PreferencesKey is the preference-store key of the settings document.
const PreferencesKey = "user_preferences"

// ErrInvalidLanguage is returned when a preferred language is not a valid
// BCP 47 tag.
var ErrInvalidLanguage = errors.New("invalid language tag")

// PreferencesService persists the user settings document as a JSON blob in
// the preference store.
type PreferencesService struct {
	DB *gorm.DB

	now func() time.Time
}

// NewPreferencesService wires a PreferencesService to the given database
// handle.
func NewPreferencesService(db *gorm.DB) *PreferencesService {
	return &PreferencesService{DB: db, now: time.Now}
}

// Get returns the stored settings document. A missing or undecodable blob
// degrades to defaults so a corrupt store never locks the user out.
func (s *PreferencesService) Get(ctx context.Context) domain.UserPreferences {
	raw, err := repo.GetPreference(ctx, s.DB, PreferencesKey)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			log.Ctx(ctx).Warn().Err(err).Msg("preferences read failed, using defaults")
		}
		return domain.DefaultUserPreferences()
	}
	prefs := domain.DefaultUserPreferences()
	if err := json.Unmarshal(raw, &prefs); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("preferences blob undecodable, using defaults")
		return domain.DefaultUserPreferences()
	}
	prefs.NormalizePlatformOrder()
	if prefs.DailySearchLimit <= 0 {
		prefs.DailySearchLimit = domain.DefaultDailySearchLimit
	}
	return prefs
}

// Update validates and persists a full settings document.
func (s *PreferencesService) Update(ctx context.Context, prefs domain.UserPreferences) (domain.UserPreferences, error) {
	if prefs.PreferredLanguage != "" {
		tag, err := language.Parse(prefs.PreferredLanguage)
		if err != nil {
			return domain.UserPreferences{}, fmt.Errorf("%w: %q", ErrInvalidLanguage, prefs.PreferredLanguage)
		}
		prefs.PreferredLanguage = tag.String()
	} else {
		prefs.PreferredLanguage = domain.DefaultUserPreferences().PreferredLanguage
	}
	prefs.SearchMode = domain.ParseSearchMode(string(prefs.SearchMode))
	prefs.NormalizePlatformOrder()
	if prefs.DailySearchLimit <= 0 {
		prefs.DailySearchLimit = domain.DefaultDailySearchLimit
	}
	if err := s.save(ctx, prefs); err != nil {
		return domain.UserPreferences{}, err
	}
	return prefs, nil
}

// SetPlatformOrderByUsage reorders the platform list so the most searched
// platforms come first; platforms without recorded searches keep their
// declaration order after them. The updated document is returned.
func (s *PreferencesService) SetPlatformOrderByUsage(ctx context.Context, counts []domain.PlatformCount) (domain.UserPreferences, error) {
	prefs := s.Get(ctx)
	order := make([]platform.ID, 0, len(counts))
	for _, pc := range counts {
		if pc.Count > 0 {
			order = append(order, pc.Platform)
		}
	}
	prefs.PlatformOrder = order
	prefs.NormalizePlatformOrder()
	if err := s.save(ctx, prefs); err != nil {
		return domain.UserPreferences{}, err
	}
	return prefs, nil
}

func (s *PreferencesService) save(ctx context.Context, prefs domain.UserPreferences) error {
	raw, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	return repo.PutPreference(ctx, s.DB, PreferencesKey, raw)
}
