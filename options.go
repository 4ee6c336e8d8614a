package spoome

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// BodyEncoding selects how creation requests are serialized.
type BodyEncoding int

const (
	// EncodingForm sends application/x-www-form-urlencoded, which every
	// spoo.me instance accepts.
	EncodingForm BodyEncoding = iota
	// EncodingJSON sends application/json.
	EncodingJSON
)

func (e BodyEncoding) String() string {
	if e == EncodingJSON {
		return "json"
	}
	return "form"
}

type options struct {
	baseURL      string
	apiKey       string
	apiKeyHeader string
	userAgent    string
	timeout      time.Duration
	encoding     BodyEncoding
	httpClient   *http.Client
	logger       zerolog.Logger
}

type Option func(*options)

// WithBaseURL points the client at a self-hosted instance.
func WithBaseURL(baseURL string) Option {
	return func(o *options) { o.baseURL = baseURL }
}

// WithAPIKey sends key on every request. With the default Authorization
// header the key is sent as a bearer token.
func WithAPIKey(key string) Option {
	return func(o *options) { o.apiKey = key }
}

// WithAPIKeyHeader changes the header carrying the API key. Headers other
// than Authorization carry the raw key.
func WithAPIKeyHeader(name string) Option {
	return func(o *options) { o.apiKeyHeader = name }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithTimeout bounds each call. Zero leaves only the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

func WithUserAgent(ua string) Option {
	return func(o *options) { o.userAgent = ua }
}

func WithBodyEncoding(e BodyEncoding) Option {
	return func(o *options) { o.encoding = e }
}

// WithLogger sets the logger used for request traces at debug level.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}
