package relay

import (
	"encoding/json"
	"strings"
)

type Route int

const (
	RouteNote Route = iota + 1
	RouteAbuseReport
)

func (r Route) String() string {
	switch r {
	case RouteNote:
		return "note"
	case RouteAbuseReport:
		return "abuse_report"
	default:
		return "unknown"
	}
}

// Notes from a specifically watched remote user arrive as "note@<acct>".
const watchedNotePrefix = "note@"

// Envelope is a classified inbound webhook request.
type Envelope struct {
	Route  Route
	Type   string
	Server string
	Body   json.RawMessage
}

// Classify decodes the outer webhook envelope and selects the pipeline for it.
// It never looks inside body.
func Classify(raw []byte) (*Envelope, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, ErrMalformedEnvelope.WithCause(err)
	}

	server, ok := stringField(fields, "server")
	if !ok {
		return nil, ErrMissingOrigin
	}

	eventType, ok := stringField(fields, "type")
	if !ok {
		return nil, ErrMissingType
	}

	env := &Envelope{
		Type:   eventType,
		Server: NormalizeOrigin(server),
		Body:   fields["body"],
	}

	switch {
	case eventType == "follow" || eventType == "followed" || eventType == "unfollow":
		return nil, ErrUnsupportedType.WithMessagef("Unsupported event type: %s", eventType)
	case eventType == "note" || eventType == "reply" || eventType == "mention" || eventType == "renote",
		strings.HasPrefix(eventType, watchedNotePrefix):
		env.Route = RouteNote
	case eventType == "abuseReport":
		env.Route = RouteAbuseReport
	default:
		return nil, ErrUnknownType.WithMessagef("Unknown event type: %s", eventType)
	}

	return env, nil
}

// stringField returns fields[name] when it is a JSON string. Absent keys,
// null and non-string values all report false.
func stringField(fields map[string]json.RawMessage, name string) (string, bool) {
	raw, ok := fields[name]
	if !ok {
		return "", false
	}
	var s *string
	if err := json.Unmarshal(raw, &s); err != nil || s == nil {
		return "", false
	}
	return *s, true
}
