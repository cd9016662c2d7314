package kinopoisk

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSampleMovieReturnsItemFromPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-API-KEY"); got != "test-key" {
			t.Errorf("expected api key header, got %q", got)
		}
		query := r.URL.Query()
		if query.Get("order") != "RATING" || query.Get("type") != "FILM" {
			t.Errorf("unexpected filter params: %v", query)
		}
		if query.Get("ratingFrom") != "3" || query.Get("ratingTo") != "10" {
			t.Errorf("unexpected rating bounds: %v", query)
		}
		if query.Get("yearFrom") != "1900" || query.Get("yearTo") != "2025" {
			t.Errorf("unexpected year bounds: %v", query)
		}
		if page := query.Get("page"); page < "1" || page > "5" {
			t.Errorf("page out of range: %q", page)
		}
		w.Write([]byte(`{"items":[{"kinopoiskId":326}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	movieID, err := client.SampleMovie(context.Background())
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if movieID != 326 {
		t.Fatalf("expected movie 326 got %d", movieID)
	}
}

func TestSampleMovieServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	if _, err := client.SampleMovie(context.Background()); !errors.Is(err, ErrCatalogUnavailable) {
		t.Fatalf("expected ErrCatalogUnavailable got %v", err)
	}
}

func TestSampleMovieEmptyPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	if _, err := client.SampleMovie(context.Background()); !errors.Is(err, ErrEmptyResult) {
		t.Fatalf("expected ErrEmptyResult got %v", err)
	}
}

func TestSampleMovieItemWithoutID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[{"nameRu":"no id here"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	if _, err := client.SampleMovie(context.Background()); !errors.Is(err, ErrEmptyResult) {
		t.Fatalf("expected ErrEmptyResult got %v", err)
	}
}

func TestFetchDetailsFullPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/326" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{
			"nameRu": "Побег из Шоушенка",
			"description": "Two imprisoned men bond over a number of years.",
			"ratingKinopoisk": 9.1,
			"year": 1994,
			"posterUrl": "https://example.com/poster.jpg",
			"genres": [{"genre": "drama"}, {"genre": "crime"}],
			"countries": [{"country": "USA"}],
			"webUrl": "https://example.com/film/326"
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	details, err := client.FetchDetails(context.Background(), 326)
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if details.Title != "Побег из Шоушенка" {
		t.Fatalf("unexpected title %q", details.Title)
	}
	if details.Rating != "9.1" {
		t.Fatalf("unexpected rating %q", details.Rating)
	}
	if details.Year != "1994" {
		t.Fatalf("unexpected year %q", details.Year)
	}
	if details.Genres != "drama, crime" {
		t.Fatalf("unexpected genres %q", details.Genres)
	}
	if details.Countries != "USA" {
		t.Fatalf("unexpected countries %q", details.Countries)
	}
}

func TestFetchDetailsMissingFieldsFallBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"posterUrl": ""}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	details, err := client.FetchDetails(context.Background(), 42)
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if details.Title != PlaceholderTitle {
		t.Fatalf("expected placeholder title got %q", details.Title)
	}
	if details.Description != PlaceholderDescription {
		t.Fatalf("expected placeholder description got %q", details.Description)
	}
	if details.Rating != PlaceholderRating {
		t.Fatalf("expected placeholder rating got %q", details.Rating)
	}
	if details.Year != PlaceholderYear {
		t.Fatalf("expected placeholder year got %q", details.Year)
	}
	if details.Genres != PlaceholderGenres {
		t.Fatalf("expected placeholder genres got %q", details.Genres)
	}
	if details.Countries != PlaceholderCountries {
		t.Fatalf("expected placeholder countries got %q", details.Countries)
	}
	if details.WebURL != PlaceholderWebURL {
		t.Fatalf("expected placeholder link got %q", details.WebURL)
	}
}

func TestFetchDetailsShortDescriptionFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"nameRu": "x", "shortDescription": "short one"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	details, err := client.FetchDetails(context.Background(), 42)
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if details.Description != "short one" {
		t.Fatalf("expected short description fallback got %q", details.Description)
	}
}

func TestFetchDetailsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	if _, err := client.FetchDetails(context.Background(), 42); !errors.Is(err, ErrCatalogUnavailable) {
		t.Fatalf("expected ErrCatalogUnavailable got %v", err)
	}
}
