package kinopoisk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrCatalogUnavailable means the catalog answered with a non-success
	// status or could not be reached at all.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrEmptyResult means the catalog answered but returned nothing usable.
	ErrEmptyResult = errors.New("catalog returned no movies")
)

// Placeholders for detail fields the catalog may omit. Rendered messages
// must never carry an empty field.
const (
	PlaceholderTitle       = "Untitled"
	PlaceholderDescription = "No description available"
	PlaceholderRating      = "No rating"
	PlaceholderYear        = "Unknown"
	PlaceholderGenres      = "Genres not listed"
	PlaceholderCountries   = "Countries not listed"
	PlaceholderWebURL      = "Link not available"
)

const (
	apiKeyHeader = "X-API-KEY"
	maxPage      = 5
)

// Client talks to the Kinopoisk unofficial API.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewClient(baseURL string, apiKey string) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

type searchItem struct {
	KinopoiskID int64 `json:"kinopoiskId"`
}

type searchResponse struct {
	Items []searchItem `json:"items"`
}

type detailsResponse struct {
	NameRu           string   `json:"nameRu"`
	Description      string   `json:"description"`
	ShortDescription string   `json:"shortDescription"`
	RatingKinopoisk  *float64 `json:"ratingKinopoisk"`
	Year             *int     `json:"year"`
	PosterURL        string   `json:"posterUrl"`
	Genres           []struct {
		Genre string `json:"genre"`
	} `json:"genres"`
	Countries []struct {
		Country string `json:"country"`
	} `json:"countries"`
	WebURL string `json:"webUrl"`
}

// Details is a fully rendered movie record; every field is non-empty.
type Details struct {
	ID          int64
	Title       string
	Description string
	Rating      string
	Year        string
	PosterURL   string
	Genres      string
	Countries   string
	WebURL      string
}

// SampleMovie searches the catalog with fixed filter bounds on one random
// page out of the first five and picks one movie uniformly from it.
func (c *Client) SampleMovie(ctx context.Context) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set(apiKeyHeader, c.apiKey)

	query := req.URL.Query()
	query.Set("order", "RATING")
	query.Set("type", "FILM")
	query.Set("ratingFrom", "3")
	query.Set("ratingTo", "10")
	query.Set("yearFrom", "1900")
	query.Set("yearTo", "2025")
	query.Set("page", strconv.Itoa(rand.Intn(maxPage)+1))
	req.URL.RawQuery = query.Encode()

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: search returned status %d", ErrCatalogUnavailable, resp.StatusCode)
	}

	search := new(searchResponse)
	if err := json.NewDecoder(resp.Body).Decode(search); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrEmptyResult, err)
	}
	if len(search.Items) == 0 {
		return 0, ErrEmptyResult
	}

	movie := search.Items[rand.Intn(len(search.Items))]
	if movie.KinopoiskID == 0 {
		return 0, fmt.Errorf("%w: item without an id", ErrEmptyResult)
	}
	return movie.KinopoiskID, nil
}

// FetchDetails retrieves the full record for a movie. Optional fields the
// catalog left out are replaced with placeholders.
func (c *Client) FetchDetails(ctx context.Context, movieID int64) (Details, error) {
	url := fmt.Sprintf("%s/%d", c.baseURL, movieID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Details{}, err
	}
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return Details{}, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Details{}, fmt.Errorf("%w: details returned status %d", ErrCatalogUnavailable, resp.StatusCode)
	}

	raw := new(detailsResponse)
	if err := json.NewDecoder(resp.Body).Decode(raw); err != nil {
		return Details{}, fmt.Errorf("%w: %v", ErrEmptyResult, err)
	}

	details := Details{
		ID:          movieID,
		Title:       raw.NameRu,
		Description: raw.Description,
		Rating:      PlaceholderRating,
		Year:        PlaceholderYear,
		PosterURL:   raw.PosterURL,
		Genres:      joinNames(genreNames(raw)),
		Countries:   joinNames(countryNames(raw)),
		WebURL:      raw.WebURL,
	}

	if details.Title == "" {
		details.Title = PlaceholderTitle
	}
	if details.Description == "" {
		details.Description = raw.ShortDescription
	}
	if details.Description == "" {
		details.Description = PlaceholderDescription
	}
	if raw.RatingKinopoisk != nil {
		details.Rating = strconv.FormatFloat(*raw.RatingKinopoisk, 'f', -1, 64)
	}
	if raw.Year != nil {
		details.Year = strconv.Itoa(*raw.Year)
	}
	if details.Genres == "" {
		details.Genres = PlaceholderGenres
	}
	if details.Countries == "" {
		details.Countries = PlaceholderCountries
	}
	if details.WebURL == "" {
		details.WebURL = PlaceholderWebURL
	}
	return details, nil
}

func genreNames(raw *detailsResponse) []string {
	names := make([]string, 0, len(raw.Genres))
	for _, genre := range raw.Genres {
		if genre.Genre != "" {
			names = append(names, genre.Genre)
		}
	}
	return names
}

func countryNames(raw *detailsResponse) []string {
	names := make([]string, 0, len(raw.Countries))
	for _, country := range raw.Countries {
		if country.Country != "" {
			names = append(names, country.Country)
		}
	}
	return names
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}
