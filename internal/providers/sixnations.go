// Package providers fetches raw player data from the upstream fantasy API.
package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/jstittsworth/rugby-optimizer/internal/models"
)

// Cache is the subset of the cache service the provider needs.
type Cache interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
}

// positionCodes maps the upstream numeric position ids to categories.
var positionCodes = map[int]models.Position{
	6:  models.PositionBackThree,
	7:  models.PositionCentre,
	8:  models.PositionFlyHalf,
	9:  models.PositionScrumHalf,
	10: models.PositionBackRow,
	11: models.PositionSecondRow,
	12: models.PositionProp,
	13: models.PositionHooker,
}

// appearanceCodes maps the upstream per-round form letters.
var appearanceCodes = map[string]models.Availability{
	"T": models.AvailabilityStarted,
	"R": models.AvailabilityOnAsSub,
	"N": models.AvailabilityDidNotPlay,
	"U": models.AvailabilityUndefined,
}

// statNames maps the upstream stat labels to canonical keys. The trailing
// space in "Red cards " is present in the upstream data.
var statNames = map[string]string{
	"Man of the match":    "man_of_the_match",
	"Penalty":             "penalty",
	"Assists":             "assist",
	"Kick 50-22":          "fifty_twenty_two",
	"Tackles":             "tackle",
	"Drop goal":           "drop_goal",
	"Attacking scrum win": "scrum_win",
	"Try":                 "try",
	"Red cards ":          "red_card",
	"Metres carried":      "metres_carried",
	"Yellow cards":        "yellow_card",
	"Conversion":          "conversion",
	"Offloads":            "offload",
	"Lineout steal":       "lineout_steal",
	"Breakdown steal":     "breakdown_steal",
	"Conceded penalty":    "conceded_penalty",
	"Defenders beaten":    "defenders_beaten",
}

// PlayerRecord is a parsed upstream player row.
type PlayerRecord struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	ShortName   string                `json:"short_name"`
	Country     string                `json:"country"`
	Position    models.Position       `json:"position"`
	Appearances []models.Availability `json:"appearances"`
}

// MatchStats is a parsed stat line for one player in one match.
type MatchStats struct {
	MatchNo         int            `json:"match_no"`
	TeamScore       int            `json:"team_score"`
	OppositionScore int            `json:"opposition_score"`
	Away            bool           `json:"away"`
	Opposition      string         `json:"opposition"`
	Played          bool           `json:"played"`
	Stats           map[string]int `json:"stats"`
}

// SixNationsClient talks to the fantasy Six Nations private API. All calls
// are token-authenticated POSTs, rate limited and circuit broken.
type SixNationsClient struct {
	httpClient *http.Client
	baseURL    string
	token      string
	accessKey  string
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	cache      Cache
	cacheTTL   time.Duration
	logger     *logrus.Logger
}

// ClientConfig configures the upstream client.
type ClientConfig struct {
	BaseURL   string
	Token     string
	AccessKey string
	Timeout   time.Duration
	// RateLimit is requests per second against the upstream.
	RateLimit float64
	CacheTTL  time.Duration
}

// NewSixNationsClient creates a client. cache may be nil.
func NewSixNationsClient(cfg ClientConfig, cache Cache, logger *logrus.Logger) *SixNationsClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 5
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 15 * time.Minute
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "sixnations",
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})
	return &SixNationsClient{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		accessKey:  cfg.AccessKey,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		breaker:    breaker,
		cache:      cache,
		cacheTTL:   cfg.CacheTTL,
		logger:     logger,
	}
}

// Upstream response structures. Field names follow the provider's French
// schema, mapped at the edge and never leaked past this package.
type playerSearchResponse struct {
	Players []rawPlayer `json:"joueurs"`
	Total   json.Number `json:"total"`
}

type rawPlayer struct {
	ID           int     `json:"id"`
	FullName     string  `json:"nomcomplet"`
	ShortName    string  `json:"nom"`
	Country      string  `json:"trgclub"`
	PositionCode int     `json:"id_position"`
	Form         rawForm `json:"forme"`
}

type rawForm struct {
	Items []string `json:"items"`
}

type playerStatsResponse struct {
	PlayerID int        `json:"idf"`
	Matches  []rawMatch `json:"detail"`
}

type rawMatch struct {
	MatchNo    int       `json:"numero"`
	Score      string    `json:"score"`
	Played     bool      `json:"joue"`
	Club       rawClub   `json:"club"`
	Opposition rawOpp    `json:"adversaire"`
	Stats      []rawStat `json:"stats"`
}

type rawClub struct {
	Home bool `json:"domicile"`
}

type rawOpp struct {
	Code string `json:"trg"`
}

type rawStat struct {
	Label string `json:"libelle"`
	Total int    `json:"total"`
}

// SearchPlayers fetches every player for a gameweek. The upstream paginates,
// so a first probe request reads the pool size and a second request fetches
// the whole pool with the page size rounded up to a multiple of ten.
func (c *SixNationsClient) SearchPlayers(ctx context.Context, gameweek int) ([]PlayerRecord, error) {
	cacheKey := fmt.Sprintf("sixnations:players:%d", gameweek)
	var cached []PlayerRecord
	if c.cache != nil && c.cache.Get(ctx, cacheKey, &cached) == nil {
		return cached, nil
	}

	probe, err := c.searchPage(ctx, gameweek, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to probe player count: %w", err)
	}
	total, err := probe.Total.Int64()
	if err != nil {
		return nil, fmt.Errorf("invalid player count %q: %w", probe.Total.String(), err)
	}

	pageSize := int(math.Ceil(float64(total)/10.0)) * 10
	full, err := c.searchPage(ctx, gameweek, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch players: %w", err)
	}

	records := make([]PlayerRecord, 0, len(full.Players))
	for _, raw := range full.Players {
		record, err := parsePlayer(raw)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if c.cache != nil && len(records) > 0 {
		if err := c.cache.Set(ctx, cacheKey, records, c.cacheTTL); err != nil {
			c.logger.Warnf("Failed to cache players: %v", err)
		}
	}
	return records, nil
}

// PlayerStats fetches the per-match stat detail for a single player.
func (c *SixNationsClient) PlayerStats(ctx context.Context, gameweek int, playerID string) ([]MatchStats, error) {
	cacheKey := fmt.Sprintf("sixnations:stats:%d:%s", gameweek, playerID)
	var cached []MatchStats
	if c.cache != nil && c.cache.Get(ctx, cacheKey, &cached) == nil {
		return cached, nil
	}

	id, err := strconv.Atoi(playerID)
	if err != nil {
		return nil, fmt.Errorf("invalid player id %q: %w", playerID, err)
	}
	body := map[string]interface{}{
		"credentials": map[string]interface{}{
			"idj":    strconv.Itoa(gameweek),
			"idf":    id,
			"detail": true,
		},
	}

	var resp playerStatsResponse
	if err := c.post(ctx, "/v1/private/statsjoueur", body, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch stats for player %s: %w", playerID, err)
	}

	matches := make([]MatchStats, 0, len(resp.Matches))
	for _, raw := range resp.Matches {
		match, err := parseMatch(raw)
		if err != nil {
			return nil, fmt.Errorf("player %s: %w", playerID, err)
		}
		matches = append(matches, match)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey, matches, c.cacheTTL); err != nil {
			c.logger.Warnf("Failed to cache stats: %v", err)
		}
	}
	return matches, nil
}

func (c *SixNationsClient) searchPage(ctx context.Context, gameweek, pageSize int) (*playerSearchResponse, error) {
	body := map[string]interface{}{
		"filters": map[string]interface{}{
			"nom":        "",
			"club":       "",
			"position":   "",
			"budget_ok":  false,
			"engage":     "false",
			"partant":    false,
			"dreamteam":  false,
			"quota":      "",
			"idj":        strconv.Itoa(gameweek),
			"pageIndex":  0,
			"pageSize":   pageSize,
			"loadSelect": 0,
			"searchonly": 1,
		},
	}
	var resp playerSearchResponse
	if err := c.post(ctx, "/v1/private/searchjoueurs", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *SixNationsClient) post(ctx context.Context, path string, body, dest interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path+"?lg=en", bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Token "+c.token)
		req.Header.Set("X-Access-Key", c.accessKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("upstream returned status %d", resp.StatusCode)
		}

		var out json.RawMessage
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		return out, nil
	})
	if err != nil {
		return err
	}

	return json.Unmarshal(result.(json.RawMessage), dest)
}

func parsePlayer(raw rawPlayer) (PlayerRecord, error) {
	position, ok := positionCodes[raw.PositionCode]
	if !ok {
		return PlayerRecord{}, fmt.Errorf("player %d: unknown position code %d", raw.ID, raw.PositionCode)
	}
	appearances := make([]models.Availability, 0, len(raw.Form.Items))
	for _, letter := range raw.Form.Items {
		availability, ok := appearanceCodes[letter]
		if !ok {
			return PlayerRecord{}, fmt.Errorf("player %d: unknown appearance type %q", raw.ID, letter)
		}
		appearances = append(appearances, availability)
	}
	return PlayerRecord{
		ID:          strconv.Itoa(raw.ID),
		Name:        raw.FullName,
		ShortName:   raw.ShortName,
		Country:     raw.Country,
		Position:    position,
		Appearances: appearances,
	}, nil
}

func parseMatch(raw rawMatch) (MatchStats, error) {
	parts := strings.SplitN(raw.Score, "-", 2)
	if len(parts) != 2 {
		return MatchStats{}, fmt.Errorf("match %d: malformed score %q", raw.MatchNo, raw.Score)
	}
	home, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return MatchStats{}, fmt.Errorf("match %d: malformed score %q", raw.MatchNo, raw.Score)
	}
	away, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return MatchStats{}, fmt.Errorf("match %d: malformed score %q", raw.MatchNo, raw.Score)
	}

	stats := make(map[string]int, len(raw.Stats))
	for _, stat := range raw.Stats {
		name, ok := statNames[stat.Label]
		if !ok {
			return MatchStats{}, fmt.Errorf("match %d: unknown stat %q", raw.MatchNo, stat.Label)
		}
		stats[name] = stat.Total
	}

	isAway := !raw.Club.Home
	match := MatchStats{
		MatchNo:    raw.MatchNo,
		Away:       isAway,
		Opposition: raw.Opposition.Code,
		Played:     raw.Played,
		Stats:      stats,
	}
	if isAway {
		match.TeamScore, match.OppositionScore = away, home
	} else {
		match.TeamScore, match.OppositionScore = home, away
	}
	return match, nil
}
