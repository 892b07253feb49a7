package address

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/foodie-backend/internal/config"
	"github.com/your-org/foodie-backend/internal/pkg/apperror"
	"github.com/your-org/foodie-backend/internal/pkg/testutil"
)

var nashik = Point{Lat: 19.9975, Lon: 73.7898}

func testConfig(nominatimURL, postalURL string) *config.Config {
	return &config.Config{
		Checkout: config.CheckoutConfig{
			ReferenceName:    "Nashik",
			ReferenceLat:     nashik.Lat,
			ReferenceLon:     nashik.Lon,
			AdvisoryRadiusKm: 30,
		},
		Lookup: config.LookupConfig{
			NominatimURL:      nominatimURL,
			PostalURL:         postalURL,
			CountryCode:       "in",
			AcceptLanguage:    "en-IN,en",
			UserAgent:         "foodie-test",
			CityLimit:         8,
			CityDebounce:      10 * time.Millisecond,
			PincodeDebounce:   10 * time.Millisecond,
			HTTPTimeout:       2 * time.Second,
			BreakerFailures:   5,
			BreakerOpenPeriod: time.Minute,
		},
	}
}

func mumbaiOffices() []map[string]interface{} {
	return []map[string]interface{}{{
		"Status":  "Success",
		"Message": "Number of pincode(s) found:1",
		"PostOffice": []map[string]string{
			{"Name": "Fort", "District": "Mumbai", "Division": "Mumbai GPO", "Region": "Mumbai", "State": "Maharashtra"},
			{"Name": "Kalbadevi", "District": "Mumbai", "Division": "Mumbai GPO", "Region": "Mumbai", "State": "Maharashtra"},
		},
	}}
}

func postalServer(t *testing.T, hits *int32, status *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		if code := atomic.LoadInt32(status); code != http.StatusOK {
			w.WriteHeader(int(code))
			return
		}
		switch r.URL.Path {
		case "/pincode/400001":
			_ = json.NewEncoder(w).Encode(mumbaiOffices())
		default:
			_ = json.NewEncoder(w).Encode([]map[string]interface{}{{"Status": "Error", "Message": "No records found", "PostOffice": nil}})
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLookupPincode(t *testing.T) {
	var hits int32
	status := int32(http.StatusOK)
	srv := postalServer(t, &hits, &status)
	svc := NewService(testConfig("", srv.URL), nil, apperror.NewLog(10, nil), nil)
	ctx := context.Background()

	t.Run("mismatch", func(t *testing.T) {
		res, err := svc.LookupPincode(ctx, "tab", "400001", "Thane")
		require.NoError(t, err)
		assert.Equal(t, PincodeMismatch, res.Status)
		assert.Equal(t, "Pincode does not match selected city", res.Message)
		assert.False(t, res.Autofilled)
	})

	t.Run("autofill", func(t *testing.T) {
		res, err := svc.LookupPincode(ctx, "tab", "400001", "  ")
		require.NoError(t, err)
		assert.Equal(t, PincodeOK, res.Status)
		assert.Equal(t, "Mumbai", res.City)
		assert.True(t, res.Autofilled)
	})

	t.Run("matches state and office name", func(t *testing.T) {
		for _, city := range []string{"maharashtra", "KALBADEVI", "Mumbai GPO"} {
			res, err := svc.LookupPincode(ctx, "tab", "400001", city)
			require.NoError(t, err)
			assert.Equal(t, PincodeOK, res.Status, city)
		}
	})

	t.Run("not found", func(t *testing.T) {
		res, err := svc.LookupPincode(ctx, "tab", "999999", "Nashik")
		require.NoError(t, err)
		assert.Equal(t, PincodeNotFound, res.Status)
		assert.Equal(t, "Pincode not found", res.Message)
	})

	t.Run("incomplete input issues no request", func(t *testing.T) {
		before := atomic.LoadInt32(&hits)
		res, err := svc.LookupPincode(ctx, "tab", "42-20", "Nashik")
		require.NoError(t, err)
		assert.Equal(t, PincodeIncomplete, res.Status)
		assert.Equal(t, "4220", res.Pincode)
		assert.Equal(t, before, atomic.LoadInt32(&hits))
	})

	t.Run("network error is retryable", func(t *testing.T) {
		atomic.StoreInt32(&status, http.StatusBadGateway)
		_, err := svc.LookupPincode(ctx, "tab", "400001", "Mumbai")
		require.Error(t, err)
		assert.True(t, apperror.Is(err, apperror.KindNetwork))

		atomic.StoreInt32(&status, http.StatusOK)
		res, err := svc.LookupPincode(ctx, "tab", "400001", "Mumbai")
		require.NoError(t, err)
		assert.Equal(t, PincodeOK, res.Status)
	})
}

func TestPostalBreakerOpensAfterFailures(t *testing.T) {
	var hits int32
	status := int32(http.StatusBadGateway)
	srv := postalServer(t, &hits, &status)
	client := NewPostalClient(srv.URL, srv.Client(), BreakerSettings("postal", 5, time.Minute, nil))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _, err := client.lookup(ctx, "400001")
		require.Error(t, err)
	}
	assert.Equal(t, int32(5), atomic.LoadInt32(&hits))

	// open: the service is not called again until the period ends
	atomic.StoreInt32(&status, http.StatusOK)
	_, _, err := client.lookup(ctx, "400001")
	require.Error(t, err)
	assert.Equal(t, int32(5), atomic.LoadInt32(&hits))
}

func TestSanitizePincode(t *testing.T) {
	assert.Equal(t, "422005", SanitizePincode(" 422 005 "))
	assert.Equal(t, "422005", SanitizePincode("4220059999"))
	assert.Equal(t, "", SanitizePincode("abc"))
}

func TestSearchCities(t *testing.T) {
	var hits int32
	var lastQuery, lastLang, lastUA string
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		mu.Lock()
		lastQuery = r.URL.RawQuery
		lastLang = r.Header.Get("Accept-Language")
		lastUA = r.Header.Get("User-Agent")
		mu.Unlock()
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{
			{"lat": "19.9975", "lon": "73.7898", "type": "city", "importance": 0.6, "address": map[string]string{"city": "Nashik"}},
			{"lat": "19.99", "lon": "73.78", "type": "administrative", "importance": 0.5, "address": map[string]string{"city": "nashik"}},
			{"lat": "20.0", "lon": "73.8", "type": "village", "importance": 0.4, "address": map[string]string{"village": "Nashik Road"}},
			{"lat": "20.1", "lon": "73.9", "type": "town", "importance": 0.4, "address": map[string]string{"town": "Nandgaon"}},
			{"lat": "20.2", "lon": "74.0", "type": "suburb", "importance": 0.9, "address": map[string]string{"suburb": "Panchavati"}},
		})
	}))
	defer srv.Close()

	svc := NewService(testConfig(srv.URL, ""), nil, apperror.NewLog(10, nil), nil)
	ctx := context.Background()

	got, err := svc.SearchCities(ctx, "tab", " na ")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Nashik", got[0].Label)
	assert.Equal(t, "Nandgaon", got[1].Label)

	mu.Lock()
	assert.Contains(t, lastQuery, "format=jsonv2")
	assert.Contains(t, lastQuery, "countrycodes=in")
	assert.Contains(t, lastQuery, "limit=8")
	assert.Contains(t, lastQuery, "q=na")
	assert.Equal(t, "en-IN,en", lastLang)
	assert.Equal(t, "foodie-test", lastUA)
	mu.Unlock()

	before := atomic.LoadInt32(&hits)
	got, err = svc.SearchCities(ctx, "tab", "n")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, before, atomic.LoadInt32(&hits))
}

func TestRankSuggestionsFallsBackWhenNoPrefixMatch(t *testing.T) {
	places := []nominatimPlace{
		{Type: "city", Importance: 0.3, Address: map[string]string{"city": "Pune"}},
		{Type: "city", Importance: 0.3, Address: map[string]string{"city": "Aurangabad"}},
		{Type: "hamlet", Importance: 0.9, Address: map[string]string{"hamlet": "Wadi"}},
	}
	got := rankSuggestions(places, "xyz")
	require.Len(t, got, 2)
	assert.Equal(t, "Aurangabad", got[0].Label)
	assert.Equal(t, "Pune", got[1].Label)
}

func TestSearchCitiesLastQueryWins(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{
			{"lat": "18.52", "lon": "73.85", "type": "city", "importance": 0.7, "address": map[string]string{"city": "Pune"}},
		})
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL, "")
	cfg.Lookup.CityDebounce = 100 * time.Millisecond
	svc := NewService(cfg, nil, apperror.NewLog(10, nil), nil)

	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.SearchCities(context.Background(), "tab", "Pu")
		firstErr <- err
	}()
	time.Sleep(20 * time.Millisecond)

	got, err := svc.SearchCities(context.Background(), "tab", "Pun")
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.ErrorIs(t, <-firstErr, apperror.ErrSuperseded)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestDebouncerCancelsRunningCall(t *testing.T) {
	d := NewDebouncer()
	started := make(chan struct{})
	first := make(chan error, 1)

	go func() {
		first <- d.Do(context.Background(), "k", 0, func(ctx context.Context) error {
			close(started)
			<-ctx.Done()
			return ctx.Err()
		})
	}()
	<-started

	err := d.Do(context.Background(), "k", 0, func(context.Context) error { return nil })
	require.NoError(t, err)
	assert.ErrorIs(t, <-first, apperror.ErrSuperseded)
	assert.Equal(t, 0, d.Pending())
}

func TestDebouncerParentCancel(t *testing.T) {
	d := NewDebouncer()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := d.Do(ctx, "k", time.Second, func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestSharedDebouncerAcrossInstances(t *testing.T) {
	_, client := testutil.NewRedis(t)
	a := NewSharedDebouncer(client, time.Minute, nil)
	b := NewSharedDebouncer(client, time.Minute, nil)

	var calledA int32
	first := make(chan error, 1)
	go func() {
		first <- a.Do(context.Background(), "city:tab", 100*time.Millisecond, func(context.Context) error {
			atomic.StoreInt32(&calledA, 1)
			return nil
		})
	}()
	time.Sleep(20 * time.Millisecond)

	require.NoError(t, b.Do(context.Background(), "city:tab", 0, func(context.Context) error { return nil }))
	assert.ErrorIs(t, <-first, apperror.ErrSuperseded)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calledA))
}

func TestSharedDebouncerDropsResultFinishedLate(t *testing.T) {
	_, client := testutil.NewRedis(t)
	a := NewSharedDebouncer(client, time.Minute, nil)
	b := NewSharedDebouncer(client, time.Minute, nil)

	started := make(chan struct{})
	proceed := make(chan struct{})
	first := make(chan error, 1)
	go func() {
		first <- a.Do(context.Background(), "pin:tab", 0, func(context.Context) error {
			close(started)
			<-proceed
			return nil
		})
	}()
	<-started

	require.NoError(t, b.Do(context.Background(), "pin:tab", 0, func(context.Context) error { return nil }))
	close(proceed)
	assert.ErrorIs(t, <-first, apperror.ErrSuperseded)
}

func TestSharedDebouncerWithoutRedis(t *testing.T) {
	mr, client := testutil.NewRedis(t)
	d := NewSharedDebouncer(client, time.Minute, nil)
	mr.Close()

	called := false
	err := d.Do(context.Background(), "k", 0, func(context.Context) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, 0, d.Pending())
}

func TestZoneCheck(t *testing.T) {
	zone := Zone{Name: "Nashik", Center: nashik, RadiusKm: 30}
	center := zone.Check(nashik)
	assert.Zero(t, center.DistanceKm)
	assert.False(t, center.Warn)

	kmPerDegree := earthRadiusKm * 3.141592653589793 / 180

	near := Point{Lat: nashik.Lat + 29.9/kmPerDegree, Lon: nashik.Lon}
	assert.False(t, zone.Check(near).Warn)

	far := Point{Lat: nashik.Lat + 30.1/kmPerDegree, Lon: nashik.Lon}
	adv := zone.Check(far)
	assert.True(t, adv.Warn)
	assert.Equal(t, "Note: Your address is approximately 30.1 km from Nashik. Delivery availability may vary.", adv.Message)

	// exactly on the radius does not warn
	boundary := Zone{Name: "Nashik", Center: nashik, RadiusKm: HaversineKm(far, nashik)}
	assert.False(t, boundary.Check(far).Warn)

	assert.Equal(t, Advisory{}, zone.Check(Point{Lat: 0, Lon: 73}))
}

func TestAdviseMumbai(t *testing.T) {
	svc := NewService(testConfig("", ""), nil, nil, nil)

	adv, err := svc.Advise(Point{Lat: 19.0760, Lon: 72.8777})
	require.NoError(t, err)
	assert.True(t, adv.Warn)
	assert.InDelta(t, 140, adv.DistanceKm, 15)

	_, err = svc.Advise(Point{Lat: 91, Lon: 0})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}
