// Package shalom is a typed HTTP client for the Shalom API.
package shalom

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Config configures a Client.
type Config struct {
	// BaseURL is the service root, e.g. "http://localhost:8080".
	BaseURL string

	// APIKey is the bearer token for protected endpoints.
	APIKey string

	// HTTPClient overrides the default HTTP client.
	HTTPClient *http.Client
}

// Client talks to a Shalom server.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// New creates a new Client.
func New(config Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, errors.New("BaseURL is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		baseURL: config.BaseURL,
		apiKey:  config.APIKey,
		client:  httpClient,
	}, nil
}

// Health checks connectivity and returns the service health payload.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var out Health
	if err := c.do(ctx, http.MethodGet, "/api/v1/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreatePlan creates a plan and returns it with its seeded dependents.
func (c *Client) CreatePlan(ctx context.Context, params NewPlanParams) (*PlanBundle, error) {
	var out PlanBundle
	if err := c.do(ctx, http.MethodPost, "/api/v1/plans", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListPlans returns all plans for a user.
func (c *Client) ListPlans(ctx context.Context, userID string) ([]PlanBundle, error) {
	var out []PlanBundle
	path := "/api/v1/plans?user_id=" + url.QueryEscape(userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetPlan returns a single plan bundle.
func (c *Client) GetPlan(ctx context.Context, id string) (*PlanBundle, error) {
	var out PlanBundle
	if err := c.do(ctx, http.MethodGet, "/api/v1/plans/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeletePlan deletes a plan and everything under it.
func (c *Client) DeletePlan(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/plans/"+id, nil, nil)
}

// ToggleMilestone flips a milestone's completion and returns the new plan progress.
func (c *Client) ToggleMilestone(ctx context.Context, id string) (*MilestoneResult, error) {
	var out MilestoneResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/milestones/"+id+"/toggle", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CompleteHabit marks a habit done for today. A second completion on the same
// day fails with a conflict APIError.
func (c *Client) CompleteHabit(ctx context.Context, id string) (*Habit, error) {
	var out Habit
	if err := c.do(ctx, http.MethodPost, "/api/v1/habits/"+id+"/complete", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddTransaction records a ledger row.
func (c *Client) AddTransaction(ctx context.Context, params NewTransactionParams) (*Transaction, error) {
	var out Transaction
	if err := c.do(ctx, http.MethodPost, "/api/v1/transactions", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListTransactions returns a user's transactions, optionally filtered to a
// month in "2006-01" form.
func (c *Client) ListTransactions(ctx context.Context, userID, month string) ([]Transaction, error) {
	q := url.Values{"user_id": {userID}}
	if month != "" {
		q.Set("month", month)
	}
	var out []Transaction
	if err := c.do(ctx, http.MethodGet, "/api/v1/transactions?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FinanceSummary returns a user's derived ledger aggregates.
func (c *Client) FinanceSummary(ctx context.Context, userID, month string) (*FinanceSummary, error) {
	q := url.Values{"user_id": {userID}}
	if month != "" {
		q.Set("month", month)
	}
	var out FinanceSummary
	if err := c.do(ctx, http.MethodGet, "/api/v1/finance/summary?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExportFinance downloads a user's finance and diary data as raw JSON.
func (c *Client) ExportFinance(ctx context.Context, userID string) ([]byte, error) {
	path := "/api/v1/finance/export?user_id=" + url.QueryEscape(userID)
	resp, err := c.send(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}
	return io.ReadAll(resp.Body)
}

// ImportFinance replaces ALL of the user's finance and diary data with the
// contents of a previously exported payload. The server requires the confirm
// flag for this destructive operation; calling this method is the consent.
func (c *Client) ImportFinance(ctx context.Context, userID string, payload []byte) error {
	q := url.Values{"user_id": {userID}, "confirm": {"true"}}
	path := "/api/v1/finance/import?" + q.Encode()
	resp, err := c.send(ctx, http.MethodPost, path, bytes.NewReader(payload), "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	return nil
}

// AddEmotion journals an emotional state.
func (c *Client) AddEmotion(ctx context.Context, params NewEmotionParams) (*EmotionEntry, error) {
	var out EmotionEntry
	if err := c.do(ctx, http.MethodPost, "/api/v1/emotions", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Wellbeing returns a user's derived emotional aggregates.
func (c *Client) Wellbeing(ctx context.Context, userID string) (*Wellbeing, error) {
	path := "/api/v1/emotions/wellbeing?user_id=" + url.QueryEscape(userID)
	var out Wellbeing
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PutDocument stores a JSON document under a namespace and key.
func (c *Client) PutDocument(ctx context.Context, userID, namespace, key string, value json.RawMessage) (*Document, error) {
	path := fmt.Sprintf("/api/v1/data/%s/%s?user_id=%s",
		url.PathEscape(namespace), url.PathEscape(key), url.QueryEscape(userID))
	resp, err := c.send(ctx, http.MethodPut, path, bytes.NewReader(value), "application/json")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}
	var out Document
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

// GetDocument fetches a JSON document by namespace and key.
func (c *Client) GetDocument(ctx context.Context, userID, namespace, key string) (*Document, error) {
	path := fmt.Sprintf("/api/v1/data/%s/%s?user_id=%s",
		url.PathEscape(namespace), url.PathEscape(key), url.QueryEscape(userID))
	var out Document
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Chat sends a message to the assistant with optional prior turns.
func (c *Client) Chat(ctx context.Context, userID, message string, history []ChatTurn) (string, error) {
	body := map[string]any{
		"user_id": userID,
		"message": message,
		"history": history,
	}
	var out struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/assistant/chat", body, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// do sends a JSON request and decodes a JSON response into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	contentType := ""
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
		contentType = "application/json"
	}

	resp, err := c.send(ctx, method, path, reqBody, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// send issues an authenticated request.
func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return c.client.Do(req)
}

// decodeError turns a non-2xx response into an *APIError.
func decodeError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var apiErr APIError
	if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Title != "" {
		if apiErr.Status == 0 {
			apiErr.Status = resp.StatusCode
		}
		return &apiErr
	}

	return &APIError{
		Title:  http.StatusText(resp.StatusCode),
		Status: resp.StatusCode,
	}
}
