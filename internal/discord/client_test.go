package discord

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noterelay/internal/config"
)

type capturedRequest struct {
	Method    string
	Path      string
	UserAgent string
	Body      map[string]interface{}
}

func newTestServer(t *testing.T, status int, respBody string, captured *capturedRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			captured.Method = r.Method
			captured.Path = r.URL.EscapedPath()
			captured.UserAgent = r.Header.Get("User-Agent")
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, &captured.Body)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(respBody))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(baseURL string) *Client {
	return NewClient(ClientConfig{
		BaseURL:   baseURL,
		UserAgent: "noterelay-test/1",
		Timeout:   2 * time.Second,
	})
}

func TestClient_WebhookURL(t *testing.T) {
	c := NewClient(ClientConfig{})
	assert.Equal(t,
		"https://discord.com/api/webhooks/1234567890123456789/abc%2Fdef",
		c.WebhookURL(Webhook{ID: 1234567890123456789, Token: "abc/def"}),
	)
}

func TestClient_Execute_Delivered(t *testing.T) {
	var captured capturedRequest
	srv := newTestServer(t, http.StatusNoContent, "", &captured)
	c := newTestClient(srv.URL + "/api/webhooks/")

	err := c.Execute(context.Background(), Webhook{ID: 42, Token: "tok"}, NewTextMessage("hi @everyone"))
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, captured.Method)
	assert.Equal(t, "/api/webhooks/42/tok", captured.Path)
	assert.Equal(t, "noterelay-test/1", captured.UserAgent)
	assert.Equal(t, "hi @everyone", captured.Body["content"])
	assert.NotContains(t, captured.Body, "embeds")
	assert.Equal(t, map[string]interface{}{"parse": []interface{}{}}, captured.Body["allowed_mentions"])
}

func TestClient_Execute_EmbedShape(t *testing.T) {
	var captured capturedRequest
	srv := newTestServer(t, http.StatusOK, "{}", &captured)
	c := newTestClient(srv.URL)

	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	msg := NewEmbedMessage(Embed{
		Title:       "Alice (@alice)",
		Description: "hello",
		URL:         "https://example.test/notes/1",
		Timestamp:   ts,
		Author:      EmbedAuthor{Name: "@alice", URL: "https://example.test/@alice", IconURL: "https://example.test/a.png"},
	})

	require.NoError(t, c.Execute(context.Background(), Webhook{ID: 1, Token: "t"}, msg))

	assert.NotContains(t, captured.Body, "content")
	embeds, ok := captured.Body["embeds"].([]interface{})
	require.True(t, ok)
	require.Len(t, embeds, 1)
	embed := embeds[0].(map[string]interface{})
	assert.Equal(t, "2024-01-02T03:04:05Z", embed["timestamp"])
	assert.NotContains(t, embed, "image")
	assert.Equal(t, "https://example.test/a.png", embed["author"].(map[string]interface{})["icon_url"])
}

func TestClient_Execute_Rejected(t *testing.T) {
	srv := newTestServer(t, http.StatusBadRequest, `{"message":"Invalid Webhook Token","code":50027}`, nil)
	c := newTestClient(srv.URL)

	err := c.Execute(context.Background(), Webhook{ID: 1, Token: "bad"}, NewTextMessage("x"))

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "Invalid Webhook Token")
	assert.False(t, statusErr.ServerSide())
}

func TestClient_Execute_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := srv.URL
	srv.Close()

	c := newTestClient(baseURL)
	err := c.Execute(context.Background(), Webhook{ID: 1, Token: "secret-token"}, NewTextMessage("x"))

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.NotContains(t, err.Error(), "secret-token")
}

func TestClient_Execute_CancelledContext(t *testing.T) {
	srv := newTestServer(t, http.StatusNoContent, "", nil)
	c := newTestClient(srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Execute(ctx, Webhook{ID: 1, Token: "t"}, NewTextMessage("x"))
	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestCircuitBreakerSender_OpensOnServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	s := NewCircuitBreakerSender(newTestClient(srv.URL), config.CircuitBreakerConfig{
		Enabled:      true,
		Timeout:      time.Minute,
		FailureRatio: 0.5,
		MinRequests:  2,
	})

	hook := Webhook{ID: 1, Token: "t"}
	for i := 0; i < 2; i++ {
		var statusErr *StatusError
		require.ErrorAs(t, s.Execute(context.Background(), hook, NewTextMessage("x")), &statusErr)
	}
	require.True(t, s.IsOpen())

	err := s.Execute(context.Background(), hook, NewTextMessage("x"))
	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, int32(2), hits.Load())
	assert.Equal(t, "open", s.State())
}

func TestCircuitBreakerSender_ClientErrorsDoNotTrip(t *testing.T) {
	srv := newTestServer(t, http.StatusNotFound, `{"message":"Unknown Webhook"}`, nil)

	s := NewCircuitBreakerSender(newTestClient(srv.URL), config.CircuitBreakerConfig{
		Enabled:      true,
		FailureRatio: 0.5,
		MinRequests:  1,
	})

	for i := 0; i < 3; i++ {
		var statusErr *StatusError
		require.ErrorAs(t, s.Execute(context.Background(), Webhook{ID: 1, Token: "t"}, NewTextMessage("x")), &statusErr)
	}
	assert.False(t, s.IsOpen())
}
