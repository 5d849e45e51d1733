package logging

import (
	"context"
)

type contextKey string

const (
	RequestIDKey   contextKey = "request_id"
	WebhookIDKey   contextKey = "webhook_id"
	EventTypeKey   contextKey = "event_type"
	ServiceNameKey contextKey = "service_name"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

func WithWebhookID(ctx context.Context, webhookID uint64) context.Context {
	return context.WithValue(ctx, WebhookIDKey, webhookID)
}

func WithEventType(ctx context.Context, eventType string) context.Context {
	return context.WithValue(ctx, EventTypeKey, eventType)
}

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

func GetWebhookID(ctx context.Context) (uint64, bool) {
	webhookID, ok := ctx.Value(WebhookIDKey).(uint64)
	return webhookID, ok
}

func GetEventType(ctx context.Context) string {
	if eventType, ok := ctx.Value(EventTypeKey).(string); ok {
		return eventType
	}
	return ""
}

// GetLogFields returns the request-scoped fields stored in ctx as zap key/value pairs.
func GetLogFields(ctx context.Context) []interface{} {
	fields := make([]interface{}, 0, 8)

	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, string(RequestIDKey), requestID)
	}

	if webhookID, ok := GetWebhookID(ctx); ok {
		fields = append(fields, string(WebhookIDKey), webhookID)
	}

	if eventType := GetEventType(ctx); eventType != "" {
		fields = append(fields, string(EventTypeKey), eventType)
	}

	return fields
}
