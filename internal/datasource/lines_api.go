package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/convergence/internal/models"
)

// getJSONWithKey performs an authenticated GET and decodes the JSON body
func getJSONWithKey(ctx context.Context, client *RateLimitedHTTPClient, apiKey, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	resp, err := client.Do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("lines API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode lines payload: %w", err)
	}
	return nil
}

// LinesAPIClient implements MatchupProvider and AngleProvider against a JSON
// lines service.
type LinesAPIClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
}

// NewLinesAPIClient creates a lines API adapter
func NewLinesAPIClient(baseURL, apiKey string, httpClient *RateLimitedHTTPClient) *LinesAPIClient {
	return &LinesAPIClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

type linesAPIMatchup struct {
	ID            string   `json:"id"`
	Sport         string   `json:"sport"`
	Date          string   `json:"date"`
	HomeTeam      string   `json:"homeTeam"`
	AwayTeam      string   `json:"awayTeam"`
	Spread        float64  `json:"spread"`
	Total         float64  `json:"total"`
	HomeMoneyline *int     `json:"homeMoneyline"`
	AwayMoneyline *int     `json:"awayMoneyline"`
	WindMPH       *float64 `json:"windMph"`
	UpdatedAt     string   `json:"linesUpdatedAt"`
}

type linesAPIAngle struct {
	Label    string `json:"label"`
	Side     string `json:"side"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
	Strength string `json:"strength"`
}

// UpcomingMatchups fetches the slate with current lines for a date
func (c *LinesAPIClient) UpcomingMatchups(ctx context.Context, sport models.Sport, date time.Time) ([]models.Matchup, error) {
	endpoint := fmt.Sprintf("%s/matchups?sport=%s&date=%s",
		c.baseURL, url.QueryEscape(string(sport)), date.Format("2006-01-02"))

	payload := []linesAPIMatchup{}
	if err := getJSONWithKey(ctx, c.httpClient, c.apiKey, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("failed to fetch matchups: %w", err)
	}

	matchups := make([]models.Matchup, 0, len(payload))
	for _, raw := range payload {
		matchup, err := toMatchup(raw)
		if err != nil {
			return nil, err
		}
		matchups = append(matchups, matchup)
	}
	return matchups, nil
}

// AnglesFor fetches the qualifying historical angles for a matchup and market
func (c *LinesAPIClient) AnglesFor(ctx context.Context, matchup models.Matchup, market models.Market) ([]models.Angle, error) {
	endpoint := fmt.Sprintf("%s/angles?matchup=%s&market=%s",
		c.baseURL, url.QueryEscape(matchup.ID.String()), url.QueryEscape(string(market)))

	payload := []linesAPIAngle{}
	if err := getJSONWithKey(ctx, c.httpClient, c.apiKey, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("failed to fetch angles: %w", err)
	}

	angles := make([]models.Angle, 0, len(payload))
	for _, raw := range payload {
		angle := models.Angle{
			Label:    raw.Label,
			Side:     models.Direction(raw.Side),
			Wins:     raw.Wins,
			Losses:   raw.Losses,
			Strength: models.Strength(raw.Strength),
		}
		if decided := angle.Wins + angle.Losses; decided > 0 {
			angle.Rate = float64(angle.Wins) / float64(decided)
		}
		angles = append(angles, angle)
	}
	return angles, nil
}

func toMatchup(raw linesAPIMatchup) (models.Matchup, error) {
	date, err := time.Parse("2006-01-02", raw.Date)
	if err != nil {
		return models.Matchup{}, fmt.Errorf("invalid matchup date %q: %w", raw.Date, err)
	}

	id, err := uuid.Parse(raw.ID)
	if err != nil {
		id = uuid.New()
	}

	updatedAt := time.Time{}
	if raw.UpdatedAt != "" {
		updatedAt, err = time.Parse(time.RFC3339, raw.UpdatedAt)
		if err != nil {
			return models.Matchup{}, fmt.Errorf("invalid lines timestamp %q: %w", raw.UpdatedAt, err)
		}
	}

	return models.Matchup{
		ID:             id,
		Sport:          models.Sport(raw.Sport),
		Date:           date,
		HomeTeam:       raw.HomeTeam,
		AwayTeam:       raw.AwayTeam,
		Spread:         raw.Spread,
		Total:          raw.Total,
		HomeMoneyline:  raw.HomeMoneyline,
		AwayMoneyline:  raw.AwayMoneyline,
		WindMPH:        raw.WindMPH,
		LinesUpdatedAt: updatedAt,
	}, nil
}
