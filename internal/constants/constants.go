package constants

import "time"

const (
	ServiceName = "relay-service"
	Version     = "0.4.0"
)

const (
	DefaultServerPort    = 8080
	DefaultMaxBodyBytes  = 4096
	DefaultReadTimeout   = 10 * time.Second
	DefaultWriteTimeout  = 30 * time.Second
	DefaultDedupCapacity = 1024
)

const (
	DefaultHTTPTimeout     = 10 * time.Second
	DefaultDeliveryBaseURL = "https://discord.com/api/webhooks"
	DefaultUserAgent       = "noterelay/" + Version + " (+https://github.com/niri-la/misskey-discord-webhook-proxy)"
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	HTTPStatusOKMin = 200
	HTTPStatusOKMax = 300
)

// Upper bound on how much of a rejected delivery's response body is kept for logging.
const MaxErrorBodyBytes = 64 * 1024
