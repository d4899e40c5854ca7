package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	tmdbAPIBaseURL   = "https://api.themoviedb.org/3"
	tmdbImageBaseURL = "https://image.tmdb.org/t/p/w500"
)

// TMDBClient handles requests against the TMDB REST API.
type TMDBClient struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// NewTMDBClient creates a client with the default base URL and a bounded
// request timeout.
func NewTMDBClient(apiKey string) *TMDBClient {
	return &TMDBClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiKey:     apiKey,
		baseURL:    tmdbAPIBaseURL,
	}
}

// NewTMDBClientWithBaseURL creates a client against an explicit base URL,
// used by tests.
func NewTMDBClientWithBaseURL(apiKey, baseURL string) *TMDBClient {
	c := NewTMDBClient(apiKey)
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	return c
}

// PopularMovie is one entry of a raw popular-listing page. Genres arrive as
// numeric IDs here; the detail endpoint is the one that carries names.
type PopularMovie struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	PosterPath  string   `json:"poster_path"`
	Overview    string   `json:"overview"`
	ReleaseDate string   `json:"release_date"`
	GenreIDs    []int64  `json:"genre_ids"`
	VoteAverage *float64 `json:"vote_average"`
}

type popularResponse struct {
	Page    int            `json:"page"`
	Results []PopularMovie `json:"results"`
}

// MovieDetails is the full single-movie record.
type MovieDetails struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	PosterPath  string   `json:"poster_path"`
	Overview    string   `json:"overview"`
	ReleaseDate string   `json:"release_date"`
	Genres      []Genre  `json:"genres"`
	VoteAverage *float64 `json:"vote_average"`
}

// Genre is a TMDB genre record.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type genreListResponse struct {
	Genres []Genre `json:"genres"`
}

type externalIDsResponse struct {
	IMDBID string `json:"imdb_id"`
}

type watchProvidersResponse struct {
	Results map[string]struct {
		Flatrate []struct {
			ProviderName string `json:"provider_name"`
		} `json:"flatrate"`
	} `json:"results"`
}

type creditsResponse struct {
	Cast []struct {
		Name string `json:"name"`
	} `json:"cast"`
}

type videosResponse struct {
	Results []struct {
		Site string `json:"site"`
		Type string `json:"type"`
		Key  string `json:"key"`
	} `json:"results"`
}

// PopularPage fetches one page of the popular-movie listing.
func (c *TMDBClient) PopularPage(ctx context.Context, page int) ([]PopularMovie, error) {
	var resp popularResponse
	query := url.Values{"page": []string{fmt.Sprintf("%d", page)}}
	if err := c.getJSON(ctx, "/movie/popular", query, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// Details fetches the full record for a single movie.
func (c *TMDBClient) Details(ctx context.Context, movieID int64) (*MovieDetails, error) {
	var resp MovieDetails
	if err := c.getJSON(ctx, fmt.Sprintf("/movie/%d", movieID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GenreList fetches the id-to-name genre table.
func (c *TMDBClient) GenreList(ctx context.Context) (map[int64]string, error) {
	var resp genreListResponse
	if err := c.getJSON(ctx, "/genre/movie/list", nil, &resp); err != nil {
		return nil, err
	}
	genres := make(map[int64]string, len(resp.Genres))
	for _, g := range resp.Genres {
		genres[g.ID] = g.Name
	}
	return genres, nil
}

// IMDBID resolves a TMDB movie to its IMDB identifier, "" when unknown.
func (c *TMDBClient) IMDBID(ctx context.Context, movieID int64) (string, error) {
	var resp externalIDsResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/movie/%d/external_ids", movieID), nil, &resp); err != nil {
		return "", err
	}
	return resp.IMDBID, nil
}

// StreamingFlags reports US flatrate availability on the supported providers.
func (c *TMDBClient) StreamingFlags(ctx context.Context, movieID int64) (netflix, amazon, disney bool, err error) {
	var resp watchProvidersResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/movie/%d/watch/providers", movieID), nil, &resp); err != nil {
		return false, false, false, err
	}
	for _, p := range resp.Results["US"].Flatrate {
		switch {
		case strings.Contains(p.ProviderName, "Netflix"):
			netflix = true
		case strings.Contains(p.ProviderName, "Prime"):
			amazon = true
		case strings.Contains(p.ProviderName, "Disney"):
			disney = true
		}
	}
	return netflix, amazon, disney, nil
}

// TopCast returns up to max credited cast names in billing order.
func (c *TMDBClient) TopCast(ctx context.Context, movieID int64, max int) ([]string, error) {
	var resp creditsResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/movie/%d/credits", movieID), nil, &resp); err != nil {
		return nil, err
	}
	names := make([]string, 0, max)
	for _, member := range resp.Cast {
		if len(names) == max {
			break
		}
		names = append(names, member.Name)
	}
	return names, nil
}

// TrailerURL returns a YouTube watch URL for the movie's trailer, "" when
// none is listed.
func (c *TMDBClient) TrailerURL(ctx context.Context, movieID int64) (string, error) {
	var resp videosResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/movie/%d/videos", movieID), nil, &resp); err != nil {
		return "", err
	}
	for _, v := range resp.Results {
		if v.Site == "YouTube" && v.Type == "Trailer" {
			return "https://www.youtube.com/watch?v=" + v.Key, nil
		}
	}
	return "", nil
}

// PosterURL builds a full image URL from a TMDB poster path.
func PosterURL(posterPath string) string {
	if posterPath == "" {
		return ""
	}
	return tmdbImageBaseURL + posterPath
}

func (c *TMDBClient) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("api_key", c.apiKey)
	endpoint := c.baseURL + path + "?" + query.Encode()

	return retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("create request: %w", err))
			}

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return fmt.Errorf("http request: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode >= http.StatusInternalServerError {
				return fmt.Errorf("tmdb status %d for %s", resp.StatusCode, path)
			}
			if resp.StatusCode != http.StatusOK {
				return retry.Unrecoverable(fmt.Errorf("tmdb status %d for %s", resp.StatusCode, path))
			}

			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return retry.Unrecoverable(fmt.Errorf("decode response: %w", err))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(200*time.Millisecond),
		retry.LastErrorOnly(true),
	)
}
