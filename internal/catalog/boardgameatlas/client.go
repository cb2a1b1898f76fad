package boardgameatlas

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/preston-bernstein/borga-service/internal/catalog"
	"github.com/preston-bernstein/borga-service/internal/domain/games"
)

// Config controls how the Board Game Atlas client reaches the upstream API.
type Config struct {
	BaseURL    string
	ClientID   string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client resolves game ids against the Board Game Atlas search API.
type Client struct {
	baseURL    string
	clientID   string
	httpClient httpDoer
	now        func() time.Time
}

// NewClient constructs a Board Game Atlas client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		clientID:   cfg.ClientID,
		httpClient: resolveHTTPClient(cfg.HTTPClient, cfg.Timeout),
		now:        time.Now,
	}
}

// Name identifies the catalog in logs and metrics.
func (c *Client) Name() string {
	return catalogName
}

// Resolve fetches the metadata of a single game.
func (c *Client) Resolve(ctx context.Context, id string) (games.Game, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return games.Game{}, catalog.ErrGameNotFound
	}

	req, err := c.buildRequest(ctx, id)
	if err != nil {
		return games.Game{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return games.Game{}, fmt.Errorf("boardgameatlas: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return games.Game{}, &catalog.RateLimitError{
			Catalog:    catalogName,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), c.now()),
		}
	case resp.StatusCode == http.StatusNotFound:
		return games.Game{}, catalog.ErrGameNotFound
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return games.Game{}, fmt.Errorf("boardgameatlas: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return games.Game{}, fmt.Errorf("boardgameatlas: decode: %w", err)
	}

	g, ok := pickGame(payload.Games, id)
	if !ok {
		return games.Game{}, catalog.ErrGameNotFound
	}
	return mapGame(g), nil
}

func (c *Client) buildRequest(ctx context.Context, id string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search", nil)
	if err != nil {
		return nil, err
	}
	q := req.URL.Query()
	q.Set("ids", id)
	if c.clientID != "" {
		q.Set("client_id", c.clientID)
	}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/json")
	return req, nil
}
