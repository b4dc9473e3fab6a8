package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/bobmcallan/parks-mcp/internal/common"
)

func newNominatimTestClient(baseURL string) *NominatimClient {
	return NewNominatimClient(common.NominatimConfig{
		BaseURL:   baseURL,
		UserAgent: "ParksTest/1.0",
		Email:     "ops@example.com",
		Timeout:   "2s",
	}, testLogger())
}

func TestNominatimClient_Search(t *testing.T) {
	var gotQuery url.Values
	var gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("expected path /search, got %s", r.URL.Path)
		}
		gotQuery = r.URL.Query()
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(`[
			{
				"place_id": 297677012,
				"lat": "37.7451251",
				"lon": "-119.59338",
				"category": "boundary",
				"type": "national_park",
				"importance": 0.73,
				"name": "Yosemite National Park",
				"display_name": "Yosemite National Park, California, United States",
				"address": {"state": "California", "country": "United States"},
				"boundingbox": ["37.4947616", "38.1862693", "-119.8864021", "-119.1964931"]
			}
		]`))
	}))
	defer server.Close()

	client := newNominatimTestClient(server.URL)

	places, err := client.Search(context.Background(), "Yosemite", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if gotAgent != "ParksTest/1.0" {
		t.Errorf("User-Agent not sent, got %q", gotAgent)
	}
	if gotQuery.Get("q") != "Yosemite" || gotQuery.Get("format") != "jsonv2" ||
		gotQuery.Get("addressdetails") != "1" || gotQuery.Get("limit") != "5" {
		t.Errorf("unexpected query: %v", gotQuery)
	}
	if gotQuery.Get("email") != "ops@example.com" {
		t.Errorf("contact email not sent: %v", gotQuery)
	}
	if len(places) != 1 {
		t.Fatalf("expected 1 place, got %d", len(places))
	}
	place := places[0]
	if place.PlaceID != 297677012 {
		t.Errorf("place_id not decoded: %+v", place)
	}
	if place.Lat != "37.7451251" {
		t.Errorf("expected string latitude, got %q", place.Lat)
	}
	if place.Address["state"] != "California" {
		t.Errorf("address details not decoded: %v", place.Address)
	}
}

func TestNominatimClient_SearchNonArrayBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"notice": "service migrating"}`))
	}))
	defer server.Close()

	client := newNominatimTestClient(server.URL)

	places, err := client.Search(context.Background(), "Yosemite", 5)
	if err != nil {
		t.Fatalf("expected no error for non-array body, got %v", err)
	}
	if len(places) != 0 {
		t.Errorf("expected no matches, got %d", len(places))
	}
}

func TestNominatimClient_Reverse(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reverse" {
			t.Errorf("expected path /reverse, got %s", r.URL.Path)
		}
		gotQuery = r.URL.Query()
		w.Write([]byte(`{
			"place_id": 127591349,
			"lat": "37.74843865",
			"lon": "-119.58661418",
			"category": "leisure",
			"type": "park",
			"display_name": "Yosemite Valley, Mariposa County, California, United States",
			"address": {"county": "Mariposa County", "state": "California"}
		}`))
	}))
	defer server.Close()

	client := newNominatimTestClient(server.URL)

	place, err := client.Reverse(context.Background(), 37.74843865, -119.58661418)
	if err != nil {
		t.Fatalf("Reverse failed: %v", err)
	}
	if gotQuery.Get("lat") != "37.74843865" || gotQuery.Get("lon") != "-119.58661418" {
		t.Errorf("coordinates not forwarded: %v", gotQuery)
	}
	if place.DisplayName == "" {
		t.Error("display_name not decoded")
	}
}

func TestNominatimClient_ReverseMissIsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": "Unable to geocode"}`))
	}))
	defer server.Close()

	client := newNominatimTestClient(server.URL)

	_, err := client.Reverse(context.Background(), 0, 0)
	apiErr := asUpstreamError(t, err)
	if apiErr.Kind != KindNotFound {
		t.Errorf("expected kind %q, got %q", KindNotFound, apiErr.Kind)
	}
	if apiErr.Message != "Unable to geocode" {
		t.Errorf("expected upstream message passed through, got %q", apiErr.Message)
	}
}
