package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const omdbAPIBaseURL = "https://www.omdbapi.com"

// OMDBClient resolves IMDB and Rotten Tomatoes ratings by IMDB ID.
type OMDBClient struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// NewOMDBClient creates a client. An empty API key disables lookups.
func NewOMDBClient(apiKey string) *OMDBClient {
	return &OMDBClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiKey:     apiKey,
		baseURL:    omdbAPIBaseURL,
	}
}

// NewOMDBClientWithBaseURL creates a client against an explicit base URL,
// used by tests.
func NewOMDBClientWithBaseURL(apiKey, baseURL string) *OMDBClient {
	c := NewOMDBClient(apiKey)
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	return c
}

// Enabled reports whether the client is configured for lookups.
func (c *OMDBClient) Enabled() bool {
	return c.apiKey != ""
}

type omdbResponse struct {
	IMDBRating string `json:"imdbRating"`
	Ratings    []struct {
		Source string `json:"Source"`
		Value  string `json:"Value"`
	} `json:"Ratings"`
}

// Ratings returns the IMDB rating (nil when absent or "N/A") and the Rotten
// Tomatoes score as a display string ("94%", "" when absent).
func (c *OMDBClient) Ratings(ctx context.Context, imdbID string) (imdbRating *float64, rottenTomatoes string, err error) {
	if !c.Enabled() || imdbID == "" {
		return nil, "", nil
	}

	query := url.Values{
		"i":      []string{imdbID},
		"apikey": []string{c.apiKey},
	}
	endpoint := c.baseURL + "/?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("omdb status %d", resp.StatusCode)
	}

	var result omdbResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, "", fmt.Errorf("decode response: %w", err)
	}

	if result.IMDBRating != "" && result.IMDBRating != "N/A" {
		if v, parseErr := strconv.ParseFloat(result.IMDBRating, 64); parseErr == nil {
			imdbRating = &v
		}
	}
	for _, r := range result.Ratings {
		if r.Source == "Rotten Tomatoes" {
			rottenTomatoes = r.Value
			break
		}
	}
	return imdbRating, rottenTomatoes, nil
}
