package scores

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/zhouzirui/sports-explorer/backend/pkg/logger"
)

const (
	// MaxMatches caps how many matches are rendered per summary.
	MaxMatches = 5

	NoMatchesMessage = "No live cricket matches right now."
	errorPrefix      = "⚠️ Unable to fetch live scores: "
)

var ErrUpstream = errors.New("live score api error")

// Config 描述比分接口的访问参数。
type Config struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

// Inning is one innings line of a match score.
type Inning struct {
	Name    string  `json:"inning"`
	Runs    int     `json:"r"`
	Wickets int     `json:"w"`
	Overs   float64 `json:"o"`
}

// Match is the subset of a live match the summary renders.
type Match struct {
	TeamA   string
	TeamB   string
	Status  string
	Innings []Inning
}

type apiResponse struct {
	Status string     `json:"status"`
	Reason string     `json:"reason"`
	Data   []apiMatch `json:"data"`
}

type apiMatch struct {
	Status   string `json:"status"`
	TeamInfo []struct {
		Name string `json:"name"`
	} `json:"teamInfo"`
	Teams []string `json:"teams"`
	Score []Inning `json:"score"`
}

// Service fetches live cricket matches with a single outbound call per request.
type Service struct {
	cfg    Config
	client *http.Client
}

// NewService builds a fetcher. A nil client gets one with cfg.Timeout.
func NewService(cfg Config, client *http.Client) *Service {
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Service{cfg: cfg, client: client}
}

// Fetch issues one GET to the score endpoint and returns at most MaxMatches matches.
// There is no retry.
func (s *Service) Fetch(ctx context.Context) ([]Match, error) {
	endpoint, err := url.Parse(s.cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid score endpoint: %w", err)
	}
	query := endpoint.Query()
	query.Set("apikey", s.cfg.APIKey)
	query.Set("offset", "0")
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build score request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request live scores: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode live scores: %w", err)
	}
	if strings.EqualFold(payload.Status, "failure") {
		return nil, fmt.Errorf("%w: %s", ErrUpstream, payload.Reason)
	}

	limit := len(payload.Data)
	if limit > MaxMatches {
		limit = MaxMatches
	}

	matches := make([]Match, 0, limit)
	for _, raw := range payload.Data[:limit] {
		matches = append(matches, toMatch(raw))
	}
	return matches, nil
}

// Summary renders the live matches as chat text. Failures are returned as a
// readable message instead of an error.
func (s *Service) Summary(ctx context.Context) string {
	matches, err := s.Fetch(ctx)
	if err != nil {
		logger.WithCtx(ctx).Warn("live score fetch failed", zap.Error(err))
		return errorPrefix + err.Error()
	}
	return Format(matches)
}

// Format renders matches as blocks separated by a blank line.
func Format(matches []Match) string {
	if len(matches) == 0 {
		return NoMatchesMessage
	}

	blocks := make([]string, 0, len(matches))
	for _, match := range matches {
		var b strings.Builder
		fmt.Fprintf(&b, "🏏 %s vs %s\nStatus: %s", match.TeamA, match.TeamB, match.Status)
		for _, inning := range match.Innings {
			fmt.Fprintf(&b, "\n%s: %d/%d in %s overs",
				inning.Name, inning.Runs, inning.Wickets, strconv.FormatFloat(inning.Overs, 'f', -1, 64))
		}
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}

func toMatch(raw apiMatch) Match {
	return Match{
		TeamA:   teamName(raw, 0, "Team A"),
		TeamB:   teamName(raw, 1, "Team B"),
		Status:  raw.Status,
		Innings: raw.Score,
	}
}

// teamName prefers the teamInfo entry at index, then the teams entry, then fallback.
func teamName(raw apiMatch, index int, fallback string) string {
	if index < len(raw.TeamInfo) {
		if name := strings.TrimSpace(raw.TeamInfo[index].Name); name != "" {
			return name
		}
	}
	if index < len(raw.Teams) {
		if name := strings.TrimSpace(raw.Teams[index]); name != "" {
			return name
		}
	}
	return fallback
}
