package relay

import (
	"net/http"

	apperrors "noterelay/pkg/errors"
)

var (
	ErrMissingOrigin = apperrors.NewError("MISSING_ORIGIN",
		"No 'server' payload found. this proxy requires misskey 2023.9.0-beta.2 or later.", http.StatusBadRequest)
	ErrMissingType       = apperrors.NewError("MISSING_TYPE", "type field not found", http.StatusBadRequest)
	ErrUnsupportedType   = apperrors.NewError("UNSUPPORTED_TYPE", "Unsupported event type", http.StatusBadRequest)
	ErrUnknownType       = apperrors.NewError("UNKNOWN_TYPE", "Unknown event type", http.StatusBadRequest)
	ErrMalformedEnvelope = apperrors.NewError("MALFORMED_ENVELOPE", "webhook envelope must be a JSON object", http.StatusBadRequest)
	ErrInvalidWebhookID  = apperrors.NewError("INVALID_WEBHOOK_ID", "webhook id must be an unsigned integer", http.StatusBadRequest)
	ErrPayloadNotFound   = apperrors.NewError("PAYLOAD_NOT_FOUND", "webhook payload not found", http.StatusBadRequest)
	ErrPayloadParse      = apperrors.NewError("PAYLOAD_PARSE_ERROR", "webhook payload parse error", http.StatusBadRequest)

	ErrDownstreamRejected = apperrors.NewError("DOWNSTREAM_REJECTED", "discord returns error", http.StatusInternalServerError)
	ErrDeliveryFailed     = apperrors.NewError("DELIVERY_FAILED", "failed to deliver to discord", http.StatusInternalServerError)
)
