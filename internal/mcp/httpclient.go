package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/claude/setlog/internal/engine"
	"github.com/claude/setlog/internal/models"
)

// HTTPClient implements DataSource by calling the setlog REST API. Used for
// remote MCP mode where the binary runs locally (stdio) but data lives on
// the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}
	return body, nil
}

func (c *HTTPClient) Exercises(ctx context.Context) ([]models.ExerciseDefinition, error) {
	body, err := c.get(ctx, "/api/v1/exercises", nil)
	if err != nil {
		return nil, err
	}
	var defs []models.ExerciseDefinition
	if err := json.Unmarshal(body, &defs); err != nil {
		return nil, fmt.Errorf("httpclient: parse exercises: %w", err)
	}
	return defs, nil
}

func (c *HTTPClient) History(ctx context.Context) ([]models.HistoryRecord, error) {
	body, err := c.get(ctx, "/api/v1/history", nil)
	if err != nil {
		return nil, err
	}
	var records []models.HistoryRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("httpclient: parse history: %w", err)
	}
	return records, nil
}

func (c *HTTPClient) ActiveSession(ctx context.Context) (*models.ActiveSession, error) {
	body, err := c.get(ctx, "/api/v1/session", nil)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Active  bool                  `json:"active"`
		Session *models.ActiveSession `json:"session"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("httpclient: parse session: %w", err)
	}
	if !resp.Active {
		return nil, nil
	}
	return resp.Session, nil
}

func (c *HTTPClient) LastPerformance(ctx context.Context, exerciseID int64) (*engine.Performance, error) {
	params := url.Values{"exercise_id": {strconv.FormatInt(exerciseID, 10)}}
	body, err := c.get(ctx, "/api/v1/history/last-performance", params)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Found       bool                `json:"found"`
		Performance *engine.Performance `json:"performance"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("httpclient: parse last performance: %w", err)
	}
	if !resp.Found {
		return nil, nil
	}
	return resp.Performance, nil
}
