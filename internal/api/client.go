// Package api is the HTTP client for the remote financial API that owns
// authentication, movement persistence and aggregate computation.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"tesouraria/internal/models"
)

const (
	defaultTimeout = 30 * time.Second

	loginPath     = "/auth/login"
	usersPath     = "/auth"
	movementsPath = "/movimentacoes"
	totalsPath    = "/movimentacoes/totais"
	balancePath   = "/movimentacoes/totalGeral"
)

// Client communicates with the remote financial API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Ensure Client implements Service.
var _ Service = (*Client)(nil)

// NewClient creates a client for the API at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    baseURL,
	}
}

// ErrorResponse is the structured error payload the API may return.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type credentials struct {
	Username string `json:"usuario"`
	Password string `json:"senha"`
}

// Login authenticates the given credentials and returns the user record
// the API associates with them.
func (c *Client) Login(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPost, loginPath, nil, credentials{Username: username, Password: password}, &user); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &user, nil
}

// ListUsers fetches every registered user (used to populate the
// tithe-payer selector on movement forms).
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.do(ctx, http.MethodGet, usersPath, nil, nil, &users); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// ListMovements fetches the movements of one type within a period.
func (c *Client) ListMovements(ctx context.Context, tipo models.MovementType, period models.Period) ([]models.Movement, error) {
	query := url.Values{
		"tipo": {string(tipo)},
		"mes":  {period.Month},
		"ano":  {period.Year},
	}
	var movements []models.Movement
	if err := c.do(ctx, http.MethodGet, movementsPath, query, nil, &movements); err != nil {
		return nil, fmt.Errorf("list movements (tipo=%s, mes=%s, ano=%s): %w", tipo, period.Month, period.Year, err)
	}
	return movements, nil
}

// GetMovement fetches a single movement by id.
func (c *Client) GetMovement(ctx context.Context, id int64) (*models.Movement, error) {
	var movement models.Movement
	if err := c.do(ctx, http.MethodGet, movementsPath+"/"+strconv.FormatInt(id, 10), nil, nil, &movement); err != nil {
		return nil, fmt.Errorf("get movement %d: %w", id, err)
	}
	return &movement, nil
}

// CreateMovement submits a new movement for persistence.
func (c *Client) CreateMovement(ctx context.Context, m models.Movement) error {
	if err := c.do(ctx, http.MethodPost, movementsPath, nil, m, nil); err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// UpdateMovement replaces the movement with the given id.
func (c *Client) UpdateMovement(ctx context.Context, id int64, m models.Movement) error {
	if err := c.do(ctx, http.MethodPut, movementsPath+"/"+strconv.FormatInt(id, 10), nil, m, nil); err != nil {
		return fmt.Errorf("update movement %d: %w", id, err)
	}
	return nil
}

// DeleteMovement removes the movement with the given id.
func (c *Client) DeleteMovement(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, movementsPath+"/"+strconv.FormatInt(id, 10), nil, nil, nil); err != nil {
		return fmt.Errorf("delete movement %d: %w", id, err)
	}
	return nil
}

// GetTotals fetches the per-type aggregate amounts for a period.
func (c *Client) GetTotals(ctx context.Context, period models.Period) (models.Totals, error) {
	query := url.Values{
		"mes": {period.Month},
		"ano": {period.Year},
	}
	var totals models.Totals
	if err := c.do(ctx, http.MethodGet, totalsPath, query, nil, &totals); err != nil {
		return models.Totals{}, fmt.Errorf("get totals (mes=%s, ano=%s): %w", period.Month, period.Year, err)
	}
	return totals, nil
}

// GetOverallBalance fetches the running balance across all time.
func (c *Client) GetOverallBalance(ctx context.Context) (decimal.Decimal, error) {
	var balance decimal.Decimal
	if err := c.do(ctx, http.MethodGet, balancePath, nil, nil, &balance); err != nil {
		return decimal.Zero, fmt.Errorf("get overall balance: %w", err)
	}
	return balance, nil
}

// do builds and executes one request against the API, decoding a JSON
// response into out when out is non-nil. Non-2xx responses are turned
// into errors carrying the API's structured error payload when present.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload, out any) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp ErrorResponse
		if err := json.Unmarshal(body, &errResp); err != nil || errResp.Message == "" && errResp.Error == "" {
			return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
		}
		return fmt.Errorf("API error (status %d): %s - %s", resp.StatusCode, errResp.Error, errResp.Message)
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
