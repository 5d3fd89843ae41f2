package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/valyala/fasthttp"

	"royale-meta/internal/config"
	"royale-meta/internal/constants"
)

const baseURL = "https://api.clashroyale.com/v1"

// CRClient talks to the official Clash Royale API. Requests carry the
// bearer key from config and transient failures (429, 5xx) are retried with
// exponential backoff.
type CRClient struct {
	apiKey      string
	client      *fasthttp.Client
	rateLimitMu sync.RWMutex
	rateLimit   RateLimitInfo
}

// RateLimitInfo tracks what the API last told us about throttling. The CR
// API only signals limits through 429 responses and an optional Retry-After
// header.
type RateLimitInfo struct {
	LastStatus    int       `json:"last_status"`
	RetryAfterSec int       `json:"retry_after_sec"`
	Throttled     bool      `json:"throttled"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func NewCRClient(cfg *config.Config) *CRClient {
	return &CRClient{
		apiKey: cfg.CRAPIKey,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

func (c *CRClient) GetRateLimitInfo() RateLimitInfo {
	c.rateLimitMu.RLock()
	defer c.rateLimitMu.RUnlock()
	return c.rateLimit
}

func (c *CRClient) updateRateLimit(resp *fasthttp.Response) {
	c.rateLimitMu.Lock()
	defer c.rateLimitMu.Unlock()

	c.rateLimit.LastStatus = resp.StatusCode()
	c.rateLimit.Throttled = resp.StatusCode() == fasthttp.StatusTooManyRequests
	if after := string(resp.Header.Peek("Retry-After")); after != "" {
		if val, err := strconv.Atoi(after); err == nil {
			c.rateLimit.RetryAfterSec = val
		}
	}
	c.rateLimit.UpdatedAt = time.Now()
}

// GetTopPlayers walks the global rankings, 200 players per page, until
// limit players are collected or the cursor runs out.
func (c *CRClient) GetTopPlayers(ctx context.Context, limit int) ([]RankedPlayer, error) {
	var players []RankedPlayer
	after := ""

	for len(players) < limit {
		pageLimit := constants.RankingsPageLimit
		if remaining := limit - len(players); remaining < pageLimit {
			pageLimit = remaining
		}

		reqURL := fmt.Sprintf("%s/locations/global/rankings/players?limit=%d", baseURL, pageLimit)
		if after != "" {
			reqURL += "&after=" + url.QueryEscape(after)
		}

		page, err := doRequest[RankingsResponse](ctx, c, reqURL)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch rankings page: %w", err)
		}
		if len(page.Items) == 0 {
			break
		}

		players = append(players, page.Items...)
		after = page.Paging.Cursors.After
		if after == "" {
			break
		}
	}

	if len(players) > limit {
		players = players[:limit]
	}
	return players, nil
}

// GetBattleLog fetches a player's recent battles, most recent first.
func (c *CRClient) GetBattleLog(ctx context.Context, tag string) ([]BattleLogEntry, error) {
	reqURL := fmt.Sprintf("%s/players/%s/battlelog", baseURL, url.PathEscape(tag))
	entries, err := doRequest[[]BattleLogEntry](ctx, c, reqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch battle log for %s: %w", tag, err)
	}
	return *entries, nil
}

func doRequest[T any](ctx context.Context, client *CRClient, reqURL string) (*T, error) {
	var body []byte

	backoff := retry.WithMaxRetries(constants.APIRetryAttempts,
		retry.NewExponential(constants.APIRetryBaseBackoff))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req := fasthttp.AcquireRequest()
		resp := fasthttp.AcquireResponse()
		defer fasthttp.ReleaseRequest(req)
		defer fasthttp.ReleaseResponse(resp)

		req.SetRequestURI(reqURL)
		req.Header.SetMethod(fasthttp.MethodGet)
		req.Header.Set("Authorization", "Bearer "+client.apiKey)
		req.Header.Set("Accept", "application/json")

		if deadline, ok := ctx.Deadline(); ok {
			if err := client.client.DoDeadline(req, resp, deadline); err != nil {
				return retry.RetryableError(err)
			}
		} else {
			if err := client.client.Do(req, resp); err != nil {
				return retry.RetryableError(err)
			}
		}

		client.updateRateLimit(resp)

		status := resp.StatusCode()
		switch {
		case status == fasthttp.StatusOK:
			body = append(body[:0], resp.Body()...)
			return nil
		case status == fasthttp.StatusTooManyRequests || status >= 500:
			return retry.RetryableError(fmt.Errorf("API error: %d", status))
		default:
			return fmt.Errorf("API error: %d", status)
		}
	})
	if err != nil {
		return nil, err
	}

	var result T
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type RankingsResponse struct {
	Items  []RankedPlayer `json:"items"`
	Paging struct {
		Cursors struct {
			After string `json:"after"`
		} `json:"cursors"`
	} `json:"paging"`
}

type RankedPlayer struct {
	Tag      string `json:"tag"`
	Name     string `json:"name"`
	Rank     int    `json:"rank"`
	Trophies int    `json:"trophies"`
	ExpLevel int    `json:"expLevel"`
	Clan     struct {
		Tag  string `json:"tag"`
		Name string `json:"name"`
	} `json:"clan"`
}

type BattleLogEntry struct {
	Type       string `json:"type"`
	BattleTime string `json:"battleTime"`
	GameMode   struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"gameMode"`
	IsLadderTournament bool                `json:"isLadderTournament"`
	Team               []BattleParticipant `json:"team"`
	Opponent           []BattleParticipant `json:"opponent"`
}

type BattleParticipant struct {
	Tag    string       `json:"tag"`
	Name   string       `json:"name"`
	Crowns int          `json:"crowns"`
	Cards  []BattleCard `json:"cards"`
}

type BattleCard struct {
	Name       string `json:"name"`
	Level      int    `json:"level"`
	ElixirCost int    `json:"elixirCost"`
}
