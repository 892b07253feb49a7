// internal/domain/address/service.go
package address

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"
	"github.com/your-org/foodie-backend/internal/config"
	"github.com/your-org/foodie-backend/internal/pkg/apperror"
)

// PincodeStatus is the outcome of a pincode lookup
type PincodeStatus string

const (
	PincodeIncomplete PincodeStatus = "incomplete"
	PincodeOK         PincodeStatus = "ok"
	PincodeNotFound   PincodeStatus = "not_found"
	PincodeMismatch   PincodeStatus = "mismatch"
)

const (
	msgPinLength       = "Pincode must be 6 digits"
	msgPinNotFound     = "Pincode not found"
	msgPinMismatch     = "Pincode does not match selected city"
	msgPinUnavailable  = "Unable to validate pincode. Please check your connection and try again."
	msgCityUnavailable = "Unable to search cities. Please check your connection and try again."

	minQueryLength = 2
	pincodeLength  = 6

	debounceTTL = time.Minute
)

// PincodeResult is the answer to a pincode lookup
type PincodeResult struct {
	Pincode     string        `json:"pincode"`
	Status      PincodeStatus `json:"status"`
	Message     string        `json:"message,omitempty"`
	City        string        `json:"city,omitempty"`
	Autofilled  bool          `json:"autofilled"`
	PostOffices []PostOffice  `json:"post_offices,omitempty"`
}

// Service answers city searches, pincode lookups and distance advisories
type Service struct {
	cities      *NominatimClient
	postal      *PostalClient
	debouncer   *Debouncer
	zone        Zone
	cityWait    time.Duration
	pincodeWait time.Duration
	errors      *apperror.Log
	logger      *logrus.Logger
}

// NewService wires the lookup service from config. With a Redis client the
// last-query-wins ordering holds across instances. rdb may be nil.
func NewService(cfg *config.Config, rdb *redis.Client, errLog *apperror.Log, logger *logrus.Logger) *Service {
	httpClient := &http.Client{Timeout: cfg.Lookup.HTTPTimeout}
	debouncer := NewDebouncer()
	if rdb != nil {
		debouncer = NewSharedDebouncer(rdb, debounceTTL, logger)
	}

	return &Service{
		cities: NewNominatimClient(NominatimOptions{
			BaseURL:        cfg.Lookup.NominatimURL,
			CountryCode:    cfg.Lookup.CountryCode,
			AcceptLanguage: cfg.Lookup.AcceptLanguage,
			UserAgent:      cfg.Lookup.UserAgent,
			Limit:          cfg.Lookup.CityLimit,
			HTTPClient:     httpClient,
			Breaker:        BreakerSettings("nominatim", cfg.Lookup.BreakerFailures, cfg.Lookup.BreakerOpenPeriod, logger),
		}),
		postal: NewPostalClient(cfg.Lookup.PostalURL, httpClient,
			BreakerSettings("postal", cfg.Lookup.BreakerFailures, cfg.Lookup.BreakerOpenPeriod, logger)),
		debouncer: debouncer,
		zone: Zone{
			Name:     cfg.Checkout.ReferenceName,
			Center:   Point{Lat: cfg.Checkout.ReferenceLat, Lon: cfg.Checkout.ReferenceLon},
			RadiusKm: cfg.Checkout.AdvisoryRadiusKm,
		},
		cityWait:    cfg.Lookup.CityDebounce,
		pincodeWait: cfg.Lookup.PincodeDebounce,
		errors:      errLog,
		logger:      logger,
	}
}

// BreakerSettings trips after failures consecutive errors and stays open
// for openPeriod. Cancelled calls do not count against the service.
func BreakerSettings(name string, failures uint32, openPeriod time.Duration, logger *logrus.Logger) gobreaker.Settings {
	if failures == 0 {
		failures = 5
	}
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     openPeriod,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if logger != nil {
				logger.WithFields(logrus.Fields{
					"breaker": name,
					"from":    from.String(),
					"to":      to.String(),
				}).Warn("circuit breaker state changed")
			}
		},
	}
}

// SearchCities returns city suggestions for the latest query of a session
func (s *Service) SearchCities(ctx context.Context, sessionID, query string) ([]Suggestion, error) {
	q := strings.TrimSpace(query)
	var out []Suggestion

	err := s.debouncer.Do(ctx, sessionID+":city", s.cityWait, func(ctx context.Context) error {
		if utf8.RuneCountInString(q) < minQueryLength {
			return nil
		}
		places, err := s.cities.search(ctx, q)
		if err != nil {
			return err
		}
		out = rankSuggestions(places, q)
		return nil
	})
	if err != nil {
		return nil, s.lookupError("city search", msgCityUnavailable, sessionID, err)
	}
	if out == nil {
		out = []Suggestion{}
	}
	return out, nil
}

// SelectCity returns the distance advisory for a chosen suggestion
func (s *Service) SelectCity(choice Suggestion) (Advisory, error) {
	return s.Advise(choice.Point())
}

// Advise returns the distance advisory for p
func (s *Service) Advise(p Point) (Advisory, error) {
	if !p.Valid() {
		return Advisory{}, apperror.Validation("coordinates", "Invalid coordinates")
	}
	return s.zone.Check(p), nil
}

// SanitizePincode keeps digits only, at most six of them
func SanitizePincode(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == pincodeLength {
				break
			}
		}
	}
	return b.String()
}

// LookupPincode checks a pincode against the city field. An empty city is
// filled from the first post office.
func (s *Service) LookupPincode(ctx context.Context, sessionID, rawPin, city string) (*PincodeResult, error) {
	pin := SanitizePincode(rawPin)
	city = strings.TrimFunc(city, unicode.IsSpace)
	result := &PincodeResult{Pincode: pin, City: city}

	err := s.debouncer.Do(ctx, sessionID+":pincode", s.pincodeWait, func(ctx context.Context) error {
		if len(pin) < pincodeLength {
			result.Status = PincodeIncomplete
			result.Message = msgPinLength
			return nil
		}

		offices, found, err := s.postal.lookup(ctx, pin)
		if err != nil {
			return err
		}
		if !found {
			result.Status = PincodeNotFound
			result.Message = msgPinNotFound
			return nil
		}
		result.PostOffices = offices

		if result.City == "" {
			if filled := cityFromOffice(offices[0]); filled != "" {
				result.City = filled
				result.Autofilled = true
			}
		}
		if result.City != "" && !matchesCity(offices, result.City) {
			result.Status = PincodeMismatch
			result.Message = msgPinMismatch
			return nil
		}

		result.Status = PincodeOK
		return nil
	})
	if err != nil {
		return nil, s.lookupError("pincode lookup", msgPinUnavailable, sessionID, err)
	}
	return result, nil
}

func (s *Service) lookupError(op, message, sessionID string, err error) error {
	if errors.Is(err, apperror.ErrSuperseded) || errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = errors.Join(apperror.ErrCircuitOpen, err)
	}

	typed := &apperror.Error{Kind: apperror.KindNetwork, Op: op, Message: message, Err: err}
	if s.errors != nil {
		s.errors.Record(typed, map[string]interface{}{"session_id": sessionID, "cause": err.Error()})
	}
	return typed
}
