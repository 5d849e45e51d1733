package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"noterelay/internal/constants"
	"noterelay/pkg/metrics"
)

const (
	OutcomeDelivered = "delivered"
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
)

// Sender executes a webhook with a message.
type Sender interface {
	Execute(ctx context.Context, hook Webhook, msg Message) error
}

type ClientConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// Client performs exactly one POST per Execute call. It never retries.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultHTTPTimeout
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = constants.DefaultDeliveryBaseURL
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = constants.DefaultUserAgent
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
	}
}

func (c *Client) WebhookURL(hook Webhook) string {
	return c.baseURL + "/" + strconv.FormatUint(hook.ID, 10) + "/" + url.PathEscape(hook.Token)
}

// Execute returns nil on 2xx, *StatusError on any other status, and
// *TransportError when no response could be obtained.
func (c *Client) Execute(ctx context.Context, hook Webhook, msg Message) error {
	start := time.Now()
	err := c.execute(ctx, hook, msg)
	metrics.ObserveDelivery(outcomeOf(err), time.Since(start))
	return err
}

func (c *Client) execute(ctx context.Context, hook Webhook, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return &TransportError{Op: "encode", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.WebhookURL(hook), bytes.NewReader(payload))
	if err != nil {
		return &TransportError{Op: "request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: "post", Err: redactURLError(err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < constants.HTTPStatusOKMin || resp.StatusCode >= constants.HTTPStatusOKMax {
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, constants.MaxErrorBodyBytes))
		if readErr != nil {
			return &TransportError{Op: "read response", Err: readErr}
		}
		return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// redactURLError strips the request URL, which embeds the webhook token.
func redactURLError(err error) error {
	if urlErr, ok := err.(*url.Error); ok {
		return urlErr.Err
	}
	return err
}

func outcomeOf(err error) string {
	switch err.(type) {
	case nil:
		return OutcomeDelivered
	case *StatusError:
		return OutcomeRejected
	default:
		return OutcomeFailed
	}
}
