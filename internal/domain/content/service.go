// internal/domain/content/service.go
package content

import (
	"strings"

	"golang.org/x/text/cases"
)

// Translator resolves dotted message keys
type Translator interface {
	T(key, fallback string) string
}

// Service serves the static page widgets
type Service struct{}

// NewService creates a content service
func NewService() *Service {
	return &Service{}
}

// Stars renders a rating as MaxStars flags, highlighted first
func Stars(rating int) []bool {
	stars := make([]bool, MaxStars)
	for i := range stars {
		stars[i] = i < rating
	}
	return stars
}

// Reviews returns the testimonials with their star rows
func (s *Service) Reviews() []Review {
	out := make([]Review, len(reviews))
	for i, r := range reviews {
		r.Stars = Stars(r.Rating)
		out[i] = r
	}
	return out
}

// Restaurants returns the nearby restaurant cards
func (s *Service) Restaurants() []Restaurant {
	return append([]Restaurant(nil), restaurants...)
}

// Footer resolves the footer labels through tr
func (s *Service) Footer(tr Translator) Footer {
	label := func(key string) string {
		if tr == nil {
			return footerFallbacks[key]
		}
		return tr.T(key, footerFallbacks[key])
	}

	sections := make([]FooterSection, len(footerSections))
	for i, sec := range footerSections {
		links := make([]FooterLink, len(sec.Links))
		for j, l := range sec.Links {
			l.Label = label(l.Key)
			links[j] = l
		}
		sections[i] = FooterSection{Key: sec.Key, Title: label(sec.Key), Links: links}
	}

	return Footer{
		Description: label("footer.description"),
		Socials:     append([]Social(nil), socials...),
		Sections:    sections,
	}
}

// SearchMenu matches dish names containing query, ignoring case. An empty
// query returns the whole menu.
func (s *Service) SearchMenu(query string) []MenuItem {
	// a Caser holds state, so each search gets its own
	fold := cases.Fold()
	q := fold.String(strings.TrimSpace(query))
	out := make([]MenuItem, 0, len(menu))
	for _, item := range menu {
		if q == "" || strings.Contains(fold.String(item.Name), q) {
			out = append(out, item)
		}
	}
	return out
}
