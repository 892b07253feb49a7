// internal/domain/preference/service.go
package preference

import (
	"context"
	"fmt"

	"github.com/your-org/foodie-backend/internal/infrastructure/storage"
	"github.com/your-org/foodie-backend/internal/pkg/apperror"
)

// Durable keys
const (
	ThemeKey    = "theme"
	LanguageKey = "foodie:lang"
)

// Theme is the colour scheme of the site
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether t is a known theme
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Opposite returns the other theme
func (t Theme) Opposite() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Languages decides which language codes may be stored
type Languages interface {
	Supports(lang string) (string, bool)
}

// Service reads and writes per-client preferences
type Service struct {
	store       storage.Store
	languages   Languages
	defaultLang string
}

// NewService creates a preference service over the durable scope
func NewService(store storage.Store, languages Languages, defaultLang string) *Service {
	return &Service{store: store, languages: languages, defaultLang: defaultLang}
}

// Theme returns the stored theme, light when unset or unreadable
func (s *Service) Theme(ctx context.Context, clientID string) Theme {
	v, err := s.store.Get(ctx, clientID, ThemeKey)
	if err != nil {
		return ThemeLight
	}
	if t := Theme(v); t.Valid() {
		return t
	}
	return ThemeLight
}

// SetTheme stores a theme
func (s *Service) SetTheme(ctx context.Context, clientID string, t Theme) error {
	if !t.Valid() {
		return apperror.Validation("theme", "Theme must be light or dark")
	}
	if err := s.store.Set(ctx, clientID, ThemeKey, string(t)); err != nil {
		return apperror.Storage("save theme", err)
	}
	return nil
}

// ToggleTheme flips the stored theme and returns the new one
func (s *Service) ToggleTheme(ctx context.Context, clientID string) (Theme, error) {
	next := s.Theme(ctx, clientID).Opposite()
	if err := s.SetTheme(ctx, clientID, next); err != nil {
		return next, err
	}
	return next, nil
}

// Language returns the stored language, the default when unset
func (s *Service) Language(ctx context.Context, clientID string) string {
	v, err := s.store.Get(ctx, clientID, LanguageKey)
	if err != nil {
		return s.defaultLang
	}
	if lang, ok := s.languages.Supports(v); ok {
		return lang
	}
	return s.defaultLang
}

// SetLanguage stores a supported language and returns its canonical code
func (s *Service) SetLanguage(ctx context.Context, clientID, lang string) (string, error) {
	canonical, ok := s.languages.Supports(lang)
	if !ok {
		return "", apperror.Validation("language", fmt.Sprintf("Language %q is not available", lang))
	}
	if err := s.store.Set(ctx, clientID, LanguageKey, canonical); err != nil {
		return canonical, apperror.Storage("save language", err)
	}
	return canonical, nil
}
