package spoome

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rowjay/spoome-go/dto"
	serviceErrors "github.com/rowjay/spoome-go/errors"
	"github.com/rowjay/spoome-go/internal/constants"
	"github.com/rowjay/spoome-go/validator"
	"github.com/rs/zerolog"
)

// DefaultBaseURL is the public spoo.me instance.
const DefaultBaseURL = constants.DefaultBaseURL

// Client talks to one spoo.me instance. It holds no per-call state and is
// safe for concurrent use.
type Client struct {
	baseURL      string
	apiKey       string
	apiKeyHeader string
	userAgent    string
	timeout      time.Duration
	encoding     BodyEncoding
	httpClient   *http.Client
	logger       zerolog.Logger
	validator    *validator.URLValidator
}

func New(opts ...Option) (*Client, error) {
	o := options{
		baseURL:      constants.DefaultBaseURL,
		apiKeyHeader: constants.DefaultAPIKeyHeader,
		userAgent:    constants.DefaultUserAgent,
		timeout:      constants.RequestTimeout,
		encoding:     EncodingForm,
		logger:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	base, err := url.Parse(strings.TrimSpace(o.baseURL))
	if err != nil {
		return nil, serviceErrors.NewValidationError("client.New", "base_url", fmt.Sprintf("invalid base URL %q: %v", o.baseURL, err))
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, serviceErrors.NewValidationError("client.New", "base_url", fmt.Sprintf("base URL %q must use http or https", o.baseURL))
	}
	if base.Host == "" {
		return nil, serviceErrors.NewValidationError("client.New", "base_url", fmt.Sprintf("base URL %q has no host", o.baseURL))
	}
	if o.timeout < 0 {
		return nil, serviceErrors.NewValidationError("client.New", "timeout", "timeout must not be negative")
	}
	if o.apiKeyHeader == "" {
		o.apiKeyHeader = constants.DefaultAPIKeyHeader
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{}
	}

	base.RawQuery = ""
	base.Fragment = ""

	return &Client{
		baseURL:      strings.TrimRight(base.String(), "/"),
		apiKey:       o.apiKey,
		apiKeyHeader: o.apiKeyHeader,
		userAgent:    o.userAgent,
		timeout:      o.timeout,
		encoding:     o.encoding,
		httpClient:   o.httpClient,
		logger:       o.logger,
		validator:    validator.NewURLValidator(base.Host),
	}, nil
}

// BaseURL returns the origin every call is resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Shorten creates a short link.
func (c *Client) Shorten(ctx context.Context, req *dto.ShortenRequest) (*dto.ShortenResponse, error) {
	const op = "client.Shorten"

	if err := c.validator.ValidateShorten(req); err != nil {
		return nil, err
	}

	raw, err := c.send(ctx, op, constants.PathShorten, c.body(req.Values(), req))
	if err != nil {
		return nil, err
	}

	var resp dto.ShortenResponse
	if err := c.decode(op, raw, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Emoji creates a short link whose code is a sequence of emoji, chosen by
// the instance unless the request carries one.
func (c *Client) Emoji(ctx context.Context, req *dto.EmojiRequest) (*dto.ShortenResponse, error) {
	const op = "client.Emoji"

	if err := c.validator.ValidateEmoji(req); err != nil {
		return nil, err
	}

	raw, err := c.send(ctx, op, constants.PathEmoji, c.body(req.Values(), req))
	if err != nil {
		return nil, err
	}

	var resp dto.ShortenResponse
	if err := c.decode(op, raw, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stats fetches click statistics for a short link.
func (c *Client) Stats(ctx context.Context, req *dto.StatsRequest) (*dto.StatsResponse, error) {
	return c.stats(ctx, "client.Stats", req)
}

// Info fetches the metadata of a short link.
func (c *Client) Info(ctx context.Context, req *dto.StatsRequest) (*dto.LinkInfo, error) {
	stats, err := c.stats(ctx, "client.Info", req)
	if err != nil {
		return nil, err
	}
	info := stats.Info()
	if info.ShortCode == "" {
		info.ShortCode = req.ShortCode
	}
	return &info, nil
}

func (c *Client) stats(ctx context.Context, op string, req *dto.StatsRequest) (*dto.StatsResponse, error) {
	if err := c.validator.ValidateStats(req); err != nil {
		return nil, err
	}

	path := constants.PathStats + url.PathEscape(req.ShortCode)
	raw, err := c.send(ctx, op, path, formBody(req.Values()))
	if err != nil {
		return nil, err
	}

	var resp dto.StatsResponse
	if err := c.decode(op, raw, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Export downloads the statistics of a short link in the requested format.
func (c *Client) Export(ctx context.Context, req *dto.ExportRequest) (*dto.ExportResponse, error) {
	const op = "client.Export"

	if err := c.validator.ValidateExport(req); err != nil {
		return nil, err
	}

	path := constants.PathExport + url.PathEscape(req.ShortCode) + "/" + string(req.Format)
	raw, err := c.send(ctx, op, path, formBody(req.Values()))
	if err != nil {
		return nil, err
	}
	if len(raw.body) == 0 {
		return nil, serviceErrors.NewDecodeError(op, "empty export body", nil, nil)
	}

	contentType := raw.header.Get("Content-Type")
	if contentType == "" {
		contentType = req.Format.ContentType()
	}
	return &dto.ExportResponse{
		Format:      req.Format,
		ContentType: contentType,
		Data:        raw.body,
	}, nil
}

func (c *Client) body(values url.Values, v any) requestBody {
	if c.encoding == EncodingJSON {
		return jsonBody(v)
	}
	return formBody(values)
}
