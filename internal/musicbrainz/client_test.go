package musicbrainz

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"cadence/internal/services"
)

// fastClient builds a client against the test server with the rate limit
// effectively disabled.
func fastClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := New(Config{
		BaseURL:           baseURL,
		UserAgent:         "cadence-test/1.0",
		RequestsPerSecond: 10000,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

func TestSearchReleases(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/release" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("fmt"); got != "json" {
			t.Errorf("fmt = %q, want json", got)
		}
		query := r.URL.Query().Get("query")
		if query != `artist:"Pink Floyd" AND release:"Animals" AND tracks:5` {
			t.Errorf("unexpected query %q", query)
		}
		if ua := r.Header.Get("User-Agent"); ua != "cadence-test/1.0" {
			t.Errorf("user agent = %q", ua)
		}
		payload := map[string]any{
			"count": 1,
			"releases": []any{
				map[string]any{
					"id":    "rel-1",
					"title": "Animals",
					"score": 100,
					"date":  "1977-01-21",
					"artist-credit": []any{
						map[string]any{"name": "Pink Floyd"},
					},
					"media": []any{
						map[string]any{"position": 1, "track-count": 5},
					},
				},
			},
		}
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			t.Fatalf("encode response: %v", err)
		}
	}))
	defer server.Close()

	client := fastClient(t, server.URL)
	stubs, err := client.SearchReleases(context.Background(), ReleaseQuery{
		Artist:  "Pink Floyd",
		Release: "Animals",
		Tracks:  5,
	})
	if err != nil {
		t.Fatalf("SearchReleases: %v", err)
	}
	if len(stubs) != 1 {
		t.Fatalf("stubs = %d, want 1", len(stubs))
	}
	stub := stubs[0]
	if stub.ID != "rel-1" || stub.Artist != "Pink Floyd" || stub.Year != 1977 || stub.TrackCount != 5 {
		t.Errorf("unexpected stub: %+v", stub)
	}
}

func TestSearchReleasesVariousArtists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("query")
		want := `arid:` + vaArtistMBID + ` AND release:"Now That's What I Call Music"`
		if query != want {
			t.Errorf("query = %q, want %q", query, want)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"count": 0, "releases": []any{}})
	}))
	defer server.Close()

	client := fastClient(t, server.URL)
	_, err := client.SearchReleases(context.Background(), ReleaseQuery{
		Artist:         "ignored",
		Release:        "Now That's What I Call Music",
		VariousArtists: true,
	})
	if err != nil {
		t.Fatalf("SearchReleases: %v", err)
	}
}

func TestLookupRelease(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/release/rel-1" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if inc := r.URL.Query().Get("inc"); inc != releaseIncludes {
			t.Errorf("inc = %q, want %q", inc, releaseIncludes)
		}
		payload := map[string]any{
			"id":             "rel-1",
			"title":          "Animals",
			"date":           "1977-01-21",
			"country":        "GB",
			"disambiguation": "UK first pressing",
			"artist-credit": []any{
				map[string]any{"name": "Pink Floyd"},
			},
			"label-info": []any{
				map[string]any{
					"catalog-number": "SHVL 815",
					"label":          map[string]any{"name": "Harvest"},
				},
			},
			"release-group": map[string]any{
				"id":                 "rg-1",
				"first-release-date": "1977-01-21",
			},
			"media": []any{
				map[string]any{
					"position": 1,
					"tracks": []any{
						map[string]any{
							"id":       "mb-track-1",
							"position": 1,
							"title":    "Pigs on the Wing 1",
							"length":   85000,
							"recording": map[string]any{
								"id":     "rec-1",
								"title":  "Pigs on the Wing, Part 1",
								"length": 85000,
							},
						},
						map[string]any{
							"id":       "mb-track-2",
							"position": 2,
							"title":    "Dogs",
							"recording": map[string]any{
								"id":     "rec-2",
								"length": 1024000,
							},
						},
					},
				},
			},
		}
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			t.Fatalf("encode response: %v", err)
		}
	}))
	defer server.Close()

	client := fastClient(t, server.URL)
	release, err := client.LookupRelease(context.Background(), "rel-1")
	if err != nil {
		t.Fatalf("LookupRelease: %v", err)
	}
	if release.Title != "Animals" || release.Year != 1977 || release.OriginalYear != 1977 {
		t.Errorf("unexpected header: %+v", release)
	}
	if release.Label != "Harvest" || release.CatalogNum != "SHVL 815" || release.Country != "GB" {
		t.Errorf("unexpected label fields: %+v", release)
	}
	if len(release.Tracks) != 2 {
		t.Fatalf("tracks = %d, want 2", len(release.Tracks))
	}
	first := release.Tracks[0]
	if first.ID != "rec-1" || first.Title != "Pigs on the Wing 1" || first.Duration != 85 {
		t.Errorf("unexpected first track: %+v", first)
	}
	second := release.Tracks[1]
	// Missing track length falls back to the recording, missing title to the
	// recording title.
	if second.Title != "Dogs" || second.Duration != 1024 || second.Index != 2 {
		t.Errorf("unexpected second track: %+v", second)
	}
}

func TestLookupReleaseNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := fastClient(t, server.URL)
	_, err := client.LookupRelease(context.Background(), "gone")
	if !errors.Is(err, services.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRetryAfterThrottle(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0.01")
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"count": 0, "releases": []any{}})
	}))
	defer server.Close()

	client := fastClient(t, server.URL)
	_, err := client.SearchReleases(context.Background(), ReleaseQuery{Artist: "a", Release: "b"})
	if err != nil {
		t.Fatalf("SearchReleases after retry: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("calls = %d, want 2", got)
	}
}

func TestSearchReleasesRejectsEmptyQuery(t *testing.T) {
	client := fastClient(t, "http://unused.invalid")
	_, err := client.SearchReleases(context.Background(), ReleaseQuery{})
	if !errors.Is(err, services.ErrInput) {
		t.Errorf("err = %v, want ErrInput", err)
	}
}

func TestYearOf(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{"1977-01-21", 1977},
		{"1977", 1977},
		{"", 0},
		{"19", 0},
		{"abcd-01-01", 0},
	}
	for _, tc := range tests {
		if got := yearOf(tc.date); got != tc.want {
			t.Errorf("yearOf(%q) = %d, want %d", tc.date, got, tc.want)
		}
	}
}
