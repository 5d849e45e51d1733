package relay

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"

	"noterelay/internal/constants"
	"noterelay/internal/deduplication"
	"noterelay/internal/discord"
	"noterelay/internal/logger"
	"noterelay/internal/misskey"
	"noterelay/pkg/logging"
	"noterelay/pkg/metrics"
	"noterelay/pkg/tracing"
)

type Outcome int

const (
	Delivered Outcome = iota + 1
	Duplicate
)

func (o Outcome) String() string {
	switch o {
	case Delivered:
		return "delivered"
	case Duplicate:
		return "duplicate"
	default:
		return "unknown"
	}
}

// Deduplicator is the check-and-insert half of the dedup cache.
type Deduplicator interface {
	CheckAndInsert(key deduplication.Key) deduplication.Result
	Len() int
}

// Service runs classify, dedup, translate and deliver for one inbound event.
// It holds no per-request state; dedup is the only shared resource.
type Service struct {
	dedup  Deduplicator
	sender discord.Sender
	logger logger.Logger
}

func NewService(dedup Deduplicator, sender discord.Sender, log logger.Logger) *Service {
	return &Service{
		dedup:  dedup,
		sender: sender,
		logger: log,
	}
}

// Relay forwards one raw webhook envelope to hook. Client-input problems come
// back as 4xx-class *errors.Error values, delivery problems as 5xx-class ones.
func (s *Service) Relay(ctx context.Context, hook discord.Webhook, raw []byte) (Outcome, error) {
	ctx, span := tracing.GetTracer(constants.ServiceName).Start(ctx, "relay.event")
	defer span.End()

	env, err := Classify(raw)
	if err != nil {
		metrics.IncRelayEvent("rejected", "invalid")
		tracing.RecordError(span, err)
		return 0, err
	}

	ctx = logging.WithEventType(ctx, env.Type)
	span.SetAttributes(
		attribute.String("relay.event_type", env.Type),
		attribute.String("relay.route", env.Route.String()),
		attribute.String("relay.origin", env.Server),
	)

	var outcome Outcome
	switch env.Route {
	case RouteNote:
		outcome, err = s.relayNote(ctx, hook, env)
	case RouteAbuseReport:
		outcome, err = s.relayAbuseReport(ctx, hook, env)
	}

	if err != nil {
		metrics.IncRelayEvent(env.Route.String(), "error")
		tracing.RecordError(span, err)
		return 0, err
	}

	metrics.IncRelayEvent(env.Route.String(), outcome.String())
	return outcome, nil
}

func (s *Service) relayNote(ctx context.Context, hook discord.Webhook, env *Envelope) (Outcome, error) {
	note, err := misskey.DecodeNote(env.Body)
	if err != nil {
		return 0, payloadError(err)
	}

	key := deduplication.Key{WebhookID: hook.ID, Origin: env.Server, NoteID: note.ID}
	result := s.dedup.CheckAndInsert(key)
	metrics.IncDedupCheck(result.String())
	metrics.SetDedupCacheSize(s.dedup.Len())

	if result == deduplication.Duplicate {
		s.logger.InfowCtx(ctx, "Duplicate note, not forwarded",
			"origin", env.Server,
			"note_id", note.ID,
		)
		return Duplicate, nil
	}

	embed := TranslateNote(note, env.Server)
	if err := s.deliver(ctx, hook, discord.NewEmbedMessage(embed)); err != nil {
		return 0, err
	}

	s.logger.InfowCtx(ctx, "Note forwarded",
		"origin", env.Server,
		"note_id", note.ID,
	)
	return Delivered, nil
}

func (s *Service) relayAbuseReport(ctx context.Context, hook discord.Webhook, env *Envelope) (Outcome, error) {
	report, err := misskey.DecodeAbuseReport(env.Body)
	if err != nil {
		s.logger.WarnwCtx(ctx, "Invalid abuse report payload", "error", err)
		return 0, payloadError(err)
	}

	if err := s.deliver(ctx, hook, discord.NewTextMessage(TranslateAbuseReport(report))); err != nil {
		return 0, err
	}

	s.logger.InfowCtx(ctx, "Abuse report forwarded", "origin", env.Server)
	return Delivered, nil
}

func (s *Service) deliver(ctx context.Context, hook discord.Webhook, msg discord.Message) error {
	err := s.sender.Execute(ctx, hook, msg)
	if err == nil {
		return nil
	}

	var statusErr *discord.StatusError
	if errors.As(err, &statusErr) {
		s.logger.ErrorwCtx(ctx, "Error response from discord",
			"status", statusErr.StatusCode,
			"body", statusErr.Body,
		)
		return ErrDownstreamRejected.WithCause(err)
	}

	s.logger.ErrorwCtx(ctx, "Failed to deliver to discord", "error", err)
	return ErrDeliveryFailed.WithCause(err)
}

func payloadError(err error) error {
	if errors.Is(err, misskey.ErrPayloadNotFound) {
		return ErrPayloadNotFound.WithCause(err)
	}
	return ErrPayloadParse.WithCause(err)
}
