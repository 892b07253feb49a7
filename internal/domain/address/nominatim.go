// internal/domain/address/nominatim.go
package address

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Suggestion is one city offered to the user
type Suggestion struct {
	Label      string  `json:"label"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	Importance float64 `json:"importance"`
}

// Point returns the suggestion's coordinate
func (s Suggestion) Point() Point {
	return Point{Lat: s.Lat, Lon: s.Lon}
}

type nominatimPlace struct {
	Lat        string            `json:"lat"`
	Lon        string            `json:"lon"`
	Type       string            `json:"type"`
	Importance float64           `json:"importance"`
	Address    map[string]string `json:"address"`
}

func (p nominatimPlace) cityName() string {
	for _, k := range []string{"city", "town", "village", "hamlet"} {
		if v := strings.TrimSpace(p.Address[k]); v != "" {
			return v
		}
	}
	return ""
}

func (p nominatimPlace) cityLike() bool {
	switch strings.ToLower(p.Type) {
	case "city", "town", "municipality":
		return true
	}
	return p.Address["city"] != "" || p.Address["town"] != ""
}

// NominatimClient searches OpenStreetMap for cities
type NominatimClient struct {
	baseURL        string
	countryCode    string
	acceptLanguage string
	userAgent      string
	limit          int
	http           *http.Client
	breaker        *gobreaker.CircuitBreaker[[]nominatimPlace]
}

// NominatimOptions configures a NominatimClient
type NominatimOptions struct {
	BaseURL        string
	CountryCode    string
	AcceptLanguage string
	UserAgent      string
	Limit          int
	HTTPClient     *http.Client
	Breaker        gobreaker.Settings
}

// NewNominatimClient creates a city search client
func NewNominatimClient(opts NominatimOptions) *NominatimClient {
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Limit <= 0 {
		opts.Limit = 8
	}
	if opts.Breaker.Name == "" {
		opts.Breaker.Name = "nominatim"
	}
	return &NominatimClient{
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		countryCode:    opts.CountryCode,
		acceptLanguage: opts.AcceptLanguage,
		userAgent:      opts.UserAgent,
		limit:          opts.Limit,
		http:           opts.HTTPClient,
		breaker:        gobreaker.NewCircuitBreaker[[]nominatimPlace](opts.Breaker),
	}
}

// search returns the raw places for q
func (c *NominatimClient) search(ctx context.Context, q string) ([]nominatimPlace, error) {
	return c.breaker.Execute(func() ([]nominatimPlace, error) {
		params := url.Values{}
		params.Set("format", "jsonv2")
		params.Set("addressdetails", "1")
		params.Set("limit", strconv.Itoa(c.limit))
		params.Set("dedupe", "1")
		params.Set("countrycodes", c.countryCode)
		params.Set("q", q)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if c.acceptLanguage != "" {
			req.Header.Set("Accept-Language", c.acceptLanguage)
		}
		if c.userAgent != "" {
			req.Header.Set("User-Agent", c.userAgent)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		}

		var places []nominatimPlace
		if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
			return nil, fmt.Errorf("failed to decode search response: %w", err)
		}
		return places, nil
	})
}

// rankSuggestions keeps city-like places, drops repeated names (first
// wins, compared case-insensitively), orders by importance then name, and
// narrows to names starting with query when any do.
func rankSuggestions(places []nominatimPlace, query string) []Suggestion {
	fold := cases.Fold()
	seen := make(map[string]struct{})
	unique := make([]Suggestion, 0, len(places))

	for _, p := range places {
		name := p.cityName()
		if name == "" || !p.cityLike() {
			continue
		}
		key := fold.String(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		lat, _ := strconv.ParseFloat(p.Lat, 64)
		lon, _ := strconv.ParseFloat(p.Lon, 64)
		unique = append(unique, Suggestion{Label: name, Lat: lat, Lon: lon, Importance: p.Importance})
	}

	coll := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(unique, func(i, j int) bool {
		if unique[i].Importance != unique[j].Importance {
			return unique[i].Importance > unique[j].Importance
		}
		return coll.CompareString(unique[i].Label, unique[j].Label) < 0
	})

	q := fold.String(strings.TrimSpace(query))
	if q == "" {
		return unique
	}
	narrowed := make([]Suggestion, 0, len(unique))
	for _, s := range unique {
		if strings.HasPrefix(fold.String(s.Label), q) {
			narrowed = append(narrowed, s)
		}
	}
	if len(narrowed) == 0 {
		return unique
	}
	return narrowed
}
