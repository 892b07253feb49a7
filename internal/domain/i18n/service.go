// internal/domain/i18n/service.go
package i18n

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/your-org/foodie-backend/internal/config"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var embedded embed.FS

// Service loads and caches translation bundles
type Service struct {
	files    fs.FS
	fallback string
	logger   *logrus.Logger

	group   singleflight.Group
	mu      sync.RWMutex
	cache   map[string]*Bundle
	langs   []string
	matcher language.Matcher
}

// NewService reads bundles from LocalesPath when set, otherwise from the
// bundles compiled into the binary
func NewService(cfg *config.Config, logger *logrus.Logger) (*Service, error) {
	var files fs.FS
	if cfg.I18n.LocalesPath != "" {
		files = os.DirFS(cfg.I18n.LocalesPath)
	} else {
		sub, err := fs.Sub(embedded, "locales")
		if err != nil {
			return nil, err
		}
		files = sub
	}
	return newService(files, cfg.I18n.DefaultLanguage, logger)
}

func newService(files fs.FS, fallback string, logger *logrus.Logger) (*Service, error) {
	names, err := fs.Glob(files, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list locales: %w", err)
	}

	s := &Service{
		files:    files,
		fallback: fallback,
		logger:   logger,
		cache:    make(map[string]*Bundle),
	}

	var tags []language.Tag
	for _, name := range names {
		lang := strings.TrimSuffix(name, ".json")
		tag, err := language.Parse(lang)
		if err != nil {
			continue
		}
		s.langs = append(s.langs, lang)
		tags = append(tags, tag)
	}
	if len(s.langs) == 0 {
		return nil, fmt.Errorf("no locale bundles found")
	}
	sort.Strings(s.langs)

	// the default language is tried first on a tie
	if def, err := language.Parse(fallback); err == nil {
		tags = append([]language.Tag{def}, tags...)
	}
	s.matcher = language.NewMatcher(tags)
	return s, nil
}

// Languages lists the available bundle codes
func (s *Service) Languages() []string {
	return append([]string(nil), s.langs...)
}

// Supports reports whether lang names an available bundle and returns
// its canonical code
func (s *Service) Supports(lang string) (string, bool) {
	tag, err := language.Parse(strings.TrimSpace(lang))
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	for _, l := range s.langs {
		if l == tag.String() || l == base.String() {
			return l, true
		}
	}
	return "", false
}

// Negotiate picks the best bundle for an Accept-Language header
func (s *Service) Negotiate(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return s.fallback
	}
	tag, _, _ := s.matcher.Match(tags...)
	if lang, ok := s.Supports(tag.String()); ok {
		return lang
	}
	return s.fallback
}

// Bundle returns the bundle for lang. A language that fails to load falls
// back to the default language. Concurrent loads of one language share a
// single read.
func (s *Service) Bundle(ctx context.Context, lang string) (*Bundle, error) {
	b, err := s.load(ctx, lang)
	if err == nil {
		return b, nil
	}
	if lang == s.fallback {
		return nil, err
	}

	s.logger.WithError(err).WithField("lang", lang).Warn("translation load failed, using default language")
	return s.load(ctx, s.fallback)
}

func (s *Service) load(ctx context.Context, lang string) (*Bundle, error) {
	s.mu.RLock()
	b, ok := s.cache[lang]
	s.mu.RUnlock()
	if ok {
		return b, nil
	}

	ch := s.group.DoChan(lang, func() (interface{}, error) {
		data, err := fs.ReadFile(s.files, lang+".json")
		if err != nil {
			return nil, fmt.Errorf("could not load %s.json: %w", lang, err)
		}
		b, err := parseBundle(lang, data)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.cache[lang] = b
		s.mu.Unlock()
		return b, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Bundle), nil
	}
}
