package roamauth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// authedBackend seeds a client with a live token so typed API calls pass the
// gateway without refreshing.
func authedAPIClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	backend := httptest.NewServer(handler)
	t.Cleanup(backend.Close)

	c := newTestClient(t, backend.URL)
	seedCredentials(t, c,
		mintTestToken(t, time.Now().Add(time.Hour)),
		mintTestToken(t, time.Now().Add(24*time.Hour)),
		testUser())
	return c
}

func TestPlaces(t *testing.T) {
	c := authedAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/places/" || r.Method != http.MethodGet {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		io.WriteString(w, `{"places": [
			{"id": "p-1", "name": "Athirappilly Falls", "formatted_address": "Athirappilly, Kerala", "rating": 4.6, "photo_url": "https://img.example.com/p1.jpg"},
			{"id": "p-2", "name": "Munnar Tea Gardens", "formatted_address": "Munnar, Kerala"}
		]}`)
	})

	places, err := c.Places(context.Background())
	if err != nil {
		t.Fatalf("Places failed: %v", err)
	}
	if len(places) != 2 {
		t.Fatalf("len(places) = %d, want 2", len(places))
	}
	if places[0].Name != "Athirappilly Falls" || places[0].Rating != 4.6 {
		t.Fatalf("places[0] = %+v", places[0])
	}
}

func TestPlaceDetails(t *testing.T) {
	c := authedAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/places/p-1/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		io.WriteString(w, `{"place_details": {"id": "p-1", "name": "Athirappilly Falls", "types": ["waterfall", "tourist_attraction"]}}`)
	})

	place, err := c.PlaceDetails(context.Background(), "p-1")
	if err != nil {
		t.Fatalf("PlaceDetails failed: %v", err)
	}
	if place.ID != "p-1" || len(place.Types) != 2 {
		t.Fatalf("place = %+v", place)
	}

	if _, err := c.PlaceDetails(context.Background(), ""); err == nil {
		t.Fatal("PlaceDetails with empty id should fail")
	}
}

func TestPreferenceCataloguesAreUnauthenticated(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("catalogue request carried Authorization %q", got)
		}
		switch r.URL.Path {
		case "/preferences/districts/":
			io.WriteString(w, `[{"code": "EKM", "name": "Ernakulam"}, {"code": "IDK", "name": "Idukki"}]`)
		case "/preferences/geographies/":
			io.WriteString(w, `[{"code": "hill", "api_code": "hills", "name": "Hill Stations"}]`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer backend.Close()

	// No credentials at all: catalogues must still load.
	c := newTestClient(t, backend.URL)
	ctx := context.Background()

	districts, err := c.Districts(ctx)
	if err != nil {
		t.Fatalf("Districts failed: %v", err)
	}
	if len(districts) != 2 || districts[0].Code != "EKM" {
		t.Fatalf("districts = %+v", districts)
	}

	geos, err := c.Geographies(ctx)
	if err != nil {
		t.Fatalf("Geographies failed: %v", err)
	}
	if len(geos) != 1 || geos[0].APICode != "hills" {
		t.Fatalf("geographies = %+v", geos)
	}
}

func TestLocalHostsFilterQuery(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("services") != "guide" || q.Get("search") != "munnar" || q.Get("page") != "3" {
			t.Errorf("query = %q", r.URL.RawQuery)
		}
		io.WriteString(w, `{"count": 1, "next": "", "previous": "", "results": [
			{"id": 7, "full_name": "Ravi", "services_offered": ["guide"], "average_rating": 4.5, "review_count": 12}
		]}`)
	}))
	defer backend.Close()

	c := newTestClient(t, backend.URL)

	page, err := c.LocalHosts(context.Background(), LocalHostFilter{
		Services: "guide",
		Search:   "munnar",
		Page:     3,
	})
	if err != nil {
		t.Fatalf("LocalHosts failed: %v", err)
	}
	if page.Count != 1 || len(page.Results) != 1 {
		t.Fatalf("page = %+v", page)
	}
	host := page.Results[0]
	if host.ID != 7 || host.AverageRating == nil || *host.AverageRating != 4.5 {
		t.Fatalf("host = %+v", host)
	}
}

func TestSubmitHostApplicationWireFormat(t *testing.T) {
	c := authedAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/local-hosts/apply/" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var got map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("body does not parse: %v", err)
		}
		for _, field := range []string{"full_name", "phone_number", "aadhaar_number", "pan_number", "services_offered", "service_description", "documents_provided"} {
			if _, ok := got[field]; !ok {
				t.Errorf("wire field %s missing", field)
			}
		}
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"message": "Application submitted successfully", "application_id": 42, "status": "pending"}`)
	})

	receipt, err := c.SubmitHostApplication(context.Background(), HostApplication{
		FullName:           "Alice",
		Age:                27,
		Address:            "Kochi",
		PhoneNumber:        "9999999999",
		AadhaarNumber:      "123412341234",
		PANNumber:          "ABCDE1234F",
		ServicesOffered:    []string{"guide"},
		ServiceDescription: "Local guiding around Kochi",
		DocumentsProvided:  []string{"aadhaar"},
	})
	if err != nil {
		t.Fatalf("SubmitHostApplication failed: %v", err)
	}
	if receipt.ApplicationID != 42 || receipt.Status != "pending" {
		t.Fatalf("receipt = %+v", receipt)
	}
}

func TestBookingsRoundTrip(t *testing.T) {
	c := authedAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/local-hosts/bookings/create/" && r.Method == http.MethodPost:
			var req BookingRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.LocalHost != 7 {
				t.Errorf("booking request = %+v (err %v)", req, err)
			}
			w.WriteHeader(http.StatusCreated)
			io.WriteString(w, `{"id": 1, "local_host": 7, "service_type": "guide", "status": "pending"}`)
		case r.URL.Path == "/local-hosts/bookings/" && r.Method == http.MethodGet:
			io.WriteString(w, `{"count": 1, "results": [{"id": 1, "local_host": 7, "status": "pending"}]}`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})
	ctx := context.Background()

	booking, err := c.CreateBooking(ctx, BookingRequest{
		LocalHost:      7,
		ServiceType:    "guide",
		StartDate:      "2026-09-01",
		EndDate:        "2026-09-03",
		NumberOfPeople: 2,
	})
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}
	if booking.ID != 1 || booking.Status != "pending" {
		t.Fatalf("booking = %+v", booking)
	}

	page, err := c.Bookings(ctx)
	if err != nil {
		t.Fatalf("Bookings failed: %v", err)
	}
	if page.Count != 1 || len(page.Results) != 1 {
		t.Fatalf("page = %+v", page)
	}
}

func TestGetProfileRefreshesSessionUser(t *testing.T) {
	c := authedAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/profile/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		io.WriteString(w, `{"id": "u-1", "username": "alice-renamed", "email": "alice@example.com"}`)
	})
	ctx := context.Background()

	if err := c.Hydrate(ctx); err != nil {
		t.Fatalf("Hydrate failed: %v", err)
	}

	user, err := c.GetProfile(ctx)
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if user.Username != "alice-renamed" {
		t.Fatalf("user = %+v", user)
	}
	if got := c.Session().User.Username; got != "alice-renamed" {
		t.Fatalf("session user not refreshed, got %q", got)
	}
}
