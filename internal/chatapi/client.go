// Package chatapi is the HTTP client for the chat backend.
package chatapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"zai/internal/conversation"
	"zai/internal/logging"

	"go.uber.org/zap"
)

// ErrUnexpectedStatus is returned when the backend answers with a non-2xx status.
var ErrUnexpectedStatus = errors.New("unexpected status")

// maxErrorBody caps how much of an error response is kept for the log.
const maxErrorBody = 512

// Config configures a Client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// DefaultConfig returns a config for baseURL with the default timeout.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL: baseURL,
		Timeout: 60 * time.Second,
	}
}

// Client talks to the chat backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for baseURL with default settings.
func NewClient(baseURL string) *Client {
	return NewClientWithConfig(DefaultConfig(baseURL))
}

// NewClientWithConfig creates a client with custom config.
func NewClientWithConfig(cfg Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// BaseURL returns the backend root the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type sendRequest struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

type sendResponse struct {
	Response string `json:"response"`
}

// FetchHistory returns the stored conversation for userID.
func (c *Client) FetchHistory(ctx context.Context, userID string) ([]conversation.Message, error) {
	timer := logging.StartTimer(logging.CategoryAPI, "FetchHistory")
	defer timer.StopWithThreshold(5 * time.Second)

	endpoint := c.baseURL + "/chat-history?userId=" + url.QueryEscape(userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}

	var history []conversation.Message
	if err := json.Unmarshal(body, &history); err != nil {
		return nil, fmt.Errorf("fetch history: failed to parse response: %w", err)
	}
	logging.APIDebug("Fetched %d history messages", len(history))
	return history, nil
}

// Send posts message for userID and returns the backend's reply text.
func (c *Client) Send(ctx context.Context, userID, message string) (string, error) {
	timer := logging.StartTimer(logging.CategoryAPI, "Send")
	defer timer.StopWithThreshold(10 * time.Second)

	payload, err := json.Marshal(sendRequest{UserID: userID, Message: message})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("send: %w", err)
	}

	var out sendResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("send: failed to parse response: %w", err)
	}
	logging.APIDebug("Received reply (%d chars)", len(out.Response))
	return out.Response, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	log := logging.Get(logging.CategoryAPI).With(
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
	)
	log.Debug("request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("request failed: %v", err)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := string(body)
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		log.Warn("status %d", resp.StatusCode)
		return nil, fmt.Errorf("%w %d: %s", ErrUnexpectedStatus, resp.StatusCode, snippet)
	}
	return body, nil
}
