// Package backend implements sitechat.Backend over the HTTP contract of a
// website question-answering service.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/longkey1/sitechat/internal/sitechat"
	"github.com/rs/zerolog/log"
)

const (
	DefaultBaseURL = "http://localhost:8000"
	DefaultTimeout = 30 * time.Second
)

// Config defines the configuration interface for the backend client
type Config interface {
	GetBaseURL() string
	GetToken() string
	GetTimeout() time.Duration
	GetContract() sitechat.Contract
}

// Client implements the sitechat.Backend interface over HTTP
type Client struct {
	baseURL    string
	token      string
	contract   sitechat.Contract
	httpClient *http.Client
}

var _ sitechat.Backend = (*Client)(nil)

// NewClient creates a new backend client. One http.Client is shared by all requests.
func NewClient(config Config) *Client {
	timeout := config.GetTimeout()
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	baseURL := config.GetBaseURL()
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      config.GetToken(),
		contract:   config.GetContract(),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Contract returns the endpoint contract the client speaks.
func (c *Client) Contract() sitechat.Contract {
	return c.contract
}

// Scrape sends the URL to the scrape endpoint. Any 2xx status is success; the body is ignored.
func (c *Client) Scrape(ctx context.Context, url string) error {
	if !c.contract.ScrapeEnabled() {
		return ErrScrapeUnsupported
	}
	_, _, err := c.post(ctx, "scrape", c.contract.ScrapePath, map[string]string{"url": url})
	return err
}

// Ask sends the question to the answer endpoint and extracts the answer text.
func (c *Client) Ask(ctx context.Context, question string) (string, error) {
	status, body, err := c.post(ctx, "ask", c.contract.AskPath, map[string]string{c.contract.QuestionField: question})
	if err != nil {
		return "", err
	}
	answer, err := extractAnswer(body, c.contract.AnswerField, c.contract.RawFallback)
	if err != nil {
		return "", &ServerError{Op: "ask", StatusCode: status, Body: string(body), Err: err}
	}
	return answer, nil
}

// post sends a JSON request and returns the status code and body of a 2xx response.
func (c *Client) post(ctx context.Context, op, path string, payload map[string]string) (int, []byte, error) {
	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return 0, nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	logger := log.With().Str("op", op).Str("url", endpoint).Logger()
	logger.Debug().RawJSON("body", jsonData).Msg("sending request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Debug().Err(err).Dur("elapsed", time.Since(start)).Msg("request failed")
		return 0, nil, &TransportError{Op: op, URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, &TransportError{Op: op, URL: endpoint, Err: fmt.Errorf("reading response: %w", err)}
	}

	logger.Debug().Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Int("bytes", len(body)).Msg("received response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, body, &ServerError{Op: op, StatusCode: resp.StatusCode, Body: string(body)}
	}

	return resp.StatusCode, body, nil
}

// extractAnswer pulls the answer field out of a JSON object body. Field names
// are matched case-insensitively. With rawFallback, a body that lacks the
// field, or whose answer is empty or null, is returned as text instead.
func extractAnswer(body []byte, field string, rawFallback bool) (string, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		if rawFallback {
			return strings.TrimSpace(string(body)), nil
		}
		return "", fmt.Errorf("error parsing response: %w", err)
	}

	raw, ok := lookupField(obj, field)
	if !ok {
		if rawFallback {
			return compactJSON(body), nil
		}
		return "", fmt.Errorf("response has no %q field", field)
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		if text == "" && rawFallback {
			return compactJSON(body), nil
		}
		return text, nil
	}
	// Non-string answers are shown as JSON.
	return compactJSON(raw), nil
}

func lookupField(obj map[string]json.RawMessage, field string) (json.RawMessage, bool) {
	if raw, ok := obj[field]; ok {
		return raw, true
	}
	for key, raw := range obj {
		if strings.EqualFold(key, field) {
			return raw, true
		}
	}
	return nil, false
}

func compactJSON(data []byte) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return strings.TrimSpace(string(data))
	}
	return buf.String()
}
