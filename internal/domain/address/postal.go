// internal/domain/address/postal.go
package address

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/sony/gobreaker/v2"
)

// PostOffice is one record returned for a pincode
type PostOffice struct {
	Name     string `json:"Name"`
	District string `json:"District"`
	Division string `json:"Division"`
	Region   string `json:"Region"`
	State    string `json:"State"`
}

type postalResponse struct {
	Status     string       `json:"Status"`
	Message    string       `json:"Message"`
	PostOffice []PostOffice `json:"PostOffice"`
}

// PostalClient looks up Indian pincodes
type PostalClient struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]postalResponse]
}

// NewPostalClient creates a pincode client
func NewPostalClient(baseURL string, httpClient *http.Client, settings gobreaker.Settings) *PostalClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if settings.Name == "" {
		settings.Name = "postal"
	}
	return &PostalClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		breaker: gobreaker.NewCircuitBreaker[[]postalResponse](settings),
	}
}

// lookup returns the post offices for pin. ok is false when the service
// does not know the pincode.
func (c *PostalClient) lookup(ctx context.Context, pin string) ([]PostOffice, bool, error) {
	data, err := c.breaker.Execute(func() ([]postalResponse, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/pincode/"+pin, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		}

		var body json.RawMessage
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return nil, fmt.Errorf("failed to decode pincode response: %w", err)
		}
		var out []postalResponse
		if err := json.Unmarshal(body, &out); err != nil {
			// well-formed but not the expected array: treat as unknown pin
			return nil, nil
		}
		return out, nil
	})
	if err != nil {
		return nil, false, err
	}

	if len(data) == 0 || data[0].Status != "Success" || len(data[0].PostOffice) == 0 {
		return nil, false, nil
	}
	return data[0].PostOffice, true, nil
}

// cityFromOffice is the city to fill in for an empty city field
func cityFromOffice(po PostOffice) string {
	for _, v := range []string{po.District, po.Division, po.Region} {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// matchesCity reports whether any office names city as its district,
// region, division, state or office name
func matchesCity(offices []PostOffice, city string) bool {
	typed := strings.ToLower(strings.TrimSpace(city))
	for _, po := range offices {
		for _, v := range []string{po.District, po.Region, po.Division, po.State, po.Name} {
			if strings.ToLower(strings.TrimSpace(v)) == typed {
				return true
			}
		}
	}
	return false
}
