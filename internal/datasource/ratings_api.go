package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/yourusername/convergence/internal/models"
)

// RatingsAPIClient implements RatingProvider and PITRatingArchive against a
// JSON rating service.
type RatingsAPIClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	logger     *log.Logger
}

// NewRatingsAPIClient creates a rating API adapter
func NewRatingsAPIClient(baseURL, apiKey string, httpClient *RateLimitedHTTPClient, logger *log.Logger) *RatingsAPIClient {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &RatingsAPIClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		logger:     logger,
	}
}

type ratingsAPITeam struct {
	Team   string  `json:"team"`
	Power  float64 `json:"power"`
	OffEff float64 `json:"offensiveEfficiency"`
	DefEff float64 `json:"defensiveEfficiency"`
	Pace   float64 `json:"pace"`
}

type ratingsAPISnapshot struct {
	Sport string           `json:"sport"`
	Date  string           `json:"date"`
	Teams []ratingsAPITeam `json:"teams"`
}

// CurrentRatings fetches the provider's latest snapshot for a sport
func (c *RatingsAPIClient) CurrentRatings(ctx context.Context, sport models.Sport) (*models.RatingSnapshot, error) {
	endpoint := fmt.Sprintf("%s/ratings?sport=%s", c.baseURL, url.QueryEscape(string(sport)))
	payload := ratingsAPISnapshot{}
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("failed to fetch current ratings: %w", err)
	}
	return toSnapshot(sport, payload)
}

// SnapshotsByRange fetches dated archive snapshots ordered by date ascending
func (c *RatingsAPIClient) SnapshotsByRange(ctx context.Context, sport models.Sport, start, end time.Time) ([]*models.RatingSnapshot, error) {
	endpoint := fmt.Sprintf("%s/ratings/archive?sport=%s&start=%s&end=%s",
		c.baseURL, url.QueryEscape(string(sport)),
		start.Format("2006-01-02"), end.Format("2006-01-02"))

	payload := []ratingsAPISnapshot{}
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("failed to fetch rating archive: %w", err)
	}

	snapshots := make([]*models.RatingSnapshot, 0, len(payload))
	for _, raw := range payload {
		snapshot, err := toSnapshot(sport, raw)
		if err != nil {
			c.logger.Printf("Skipping malformed archive snapshot: %v", err)
			continue
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, nil
}

func (c *RatingsAPIClient) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("rating API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode rating payload: %w", err)
	}
	return nil
}

func toSnapshot(sport models.Sport, raw ratingsAPISnapshot) (*models.RatingSnapshot, error) {
	date, err := time.Parse("2006-01-02", raw.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid snapshot date %q: %w", raw.Date, err)
	}

	ratings := make(map[string]models.TeamRating, len(raw.Teams))
	for _, team := range raw.Teams {
		ratings[team.Team] = models.TeamRating{
			Team:   team.Team,
			Power:  team.Power,
			OffEff: team.OffEff,
			DefEff: team.DefEff,
			Pace:   team.Pace,
		}
	}

	return &models.RatingSnapshot{Sport: sport, Date: date, Ratings: ratings}, nil
}
