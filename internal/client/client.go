// Package client is the typed HTTP client for the sparkchat API.
package client

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/sparklabs/sparkchat/internal/model/chat"
)

// SubmitResult carries both turns persisted by a successful submission.
type SubmitResult struct {
	UserMsg chat.Turn `json:"userMsg"`
	AIMsg   chat.Turn `json:"aiMsg"`
}

type errorBody struct {
	Error string `json:"error"`
}

// Client wraps the REST endpoints the terminal UI needs.
type Client struct {
	http *resty.Client
}

// New builds a client for the given base URL, e.g. "http://localhost:8080".
// The generous timeout covers the synchronous completion round trip.
func New(baseURL string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(90 * time.Second).
			SetHeader("Content-Type", "application/json"),
	}
}

// History fetches the full conversation log.
func (c *Client) History(ctx context.Context) ([]chat.Turn, error) {
	var turns []chat.Turn
	var apiErr errorBody

	res, err := c.http.R().
		SetContext(ctx).
		SetResult(&turns).
		SetError(&apiErr).
		Get("/api/history")
	if err != nil {
		return nil, fmt.Errorf("history request failed: %w", err)
	}
	if res.IsError() {
		return nil, apiError("history", res, apiErr)
	}

	return turns, nil
}

// Submit sends one user message and returns both stored turns.
func (c *Client) Submit(ctx context.Context, message string) (SubmitResult, error) {
	var result SubmitResult
	var apiErr errorBody

	res, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"message": message}).
		SetResult(&result).
		SetError(&apiErr).
		Post("/api/chat")
	if err != nil {
		return SubmitResult{}, fmt.Errorf("chat request failed: %w", err)
	}
	if res.IsError() {
		return SubmitResult{}, apiError("chat", res, apiErr)
	}

	return result, nil
}

// Clear deletes the entire conversation log.
func (c *Client) Clear(ctx context.Context) error {
	var apiErr errorBody

	res, err := c.http.R().
		SetContext(ctx).
		SetError(&apiErr).
		Delete("/api/history")
	if err != nil {
		return fmt.Errorf("clear request failed: %w", err)
	}
	if res.IsError() {
		return apiError("clear", res, apiErr)
	}

	return nil
}

func apiError(op string, res *resty.Response, body errorBody) error {
	if body.Error != "" {
		return fmt.Errorf("%s request rejected: %s", op, body.Error)
	}
	return fmt.Errorf("%s request rejected: %s", op, res.Status())
}
