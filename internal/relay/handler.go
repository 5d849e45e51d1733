package relay

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"noterelay/internal/discord"
	"noterelay/internal/logger"
	apperrors "noterelay/pkg/errors"
	"noterelay/pkg/logging"
)

const (
	WebhookRoute = "/discord/:webhook_id/:webhook_token/misskey"

	MsgDuplicate = "duplicated note so not sent to discord"
	MsgCreated   = "successfully created"
)

// Handler exposes Service over HTTP. Every response body is plain text.
type Handler struct {
	service *Service
	logger  logger.Logger
}

func NewHandler(service *Service, log logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.POST(WebhookRoute, h.HandleWebhook)
}

func (h *Handler) HandleWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	webhookID, err := strconv.ParseUint(c.Param("webhook_id"), 10, 64)
	if err != nil {
		h.respondError(c, ErrInvalidWebhookID.WithCause(err))
		return
	}
	ctx = logging.WithWebhookID(ctx, webhookID)

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.respondError(c, apperrors.ErrPayloadTooLarge.WithCause(err))
			return
		}
		h.respondError(c, apperrors.ErrValidation.WithMessage("failed to read request body").WithCause(err))
		return
	}

	hook := discord.Webhook{ID: webhookID, Token: c.Param("webhook_token")}
	c.Request = c.Request.WithContext(ctx)

	outcome, err := h.service.Relay(ctx, hook, body)
	if err != nil {
		h.respondError(c, err)
		return
	}

	switch outcome {
	case Duplicate:
		c.String(http.StatusOK, MsgDuplicate)
	default:
		c.String(http.StatusCreated, MsgCreated)
	}
}

func (h *Handler) respondError(c *gin.Context, err error) {
	ctx := c.Request.Context()
	status := apperrors.ToHTTPStatus(err)

	if apperrors.IsValidation(err) {
		h.logger.WarnwCtx(ctx, "Rejected webhook", "code", apperrors.ToCode(err), "error", err)
	} else {
		h.logger.ErrorwCtx(ctx, "Relay failed", "code", apperrors.ToCode(err), "status", status, "error", err)
	}

	_ = c.Error(err)
	c.String(status, apperrors.ToMessage(err))
}
