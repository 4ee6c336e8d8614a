// Package spoometest runs an in-process fake spoo.me instance for tests.
//
//	srv := spoometest.NewServer()
//	defer srv.Close()
//
//	client, _ := spoome.New(spoome.WithBaseURL(srv.URL))
//
// The fake implements the shorten, emoji, stats and export endpoints with
// the same validation and error bodies as the real service, records every
// request it receives, and can be told to answer a path with a canned
// response.
package spoometest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rowjay/spoome-go/internal/handlers"
	"github.com/rowjay/spoome-go/internal/middleware"
	"github.com/rowjay/spoome-go/internal/models"
	"github.com/rowjay/spoome-go/internal/repository"
	"github.com/rowjay/spoome-go/internal/services"
	"github.com/rs/zerolog"
)

var ginMode sync.Once

// RecordedRequest is a request as the fake received it.
type RecordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// Form parses a form-encoded body.
func (r RecordedRequest) Form() url.Values {
	v, _ := url.ParseQuery(string(r.Body))
	return v
}

type Click = models.Click

type cannedResponse struct {
	status      int
	contentType string
	body        string
}

type config struct {
	logger       zerolog.Logger
	apiKeyHeader string
	apiKey       string
}

type Option func(*config)

// WithAPIKey makes the fake reject requests that do not carry key.
func WithAPIKey(header, key string) Option {
	return func(c *config) {
		c.apiKeyHeader = header
		c.apiKey = key
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *config) { c.logger = l }
}

type Server struct {
	URL string

	httpServer *httptest.Server
	service    services.LinkService

	mu       sync.Mutex
	requests []RecordedRequest
	canned   map[string]cannedResponse
}

func NewServer(opts ...Option) *Server {
	s := &Server{canned: make(map[string]cannedResponse)}
	s.httpServer = httptest.NewServer(s.handler(opts...))
	s.URL = s.httpServer.URL
	return s
}

// NewHandler returns the fake as a plain http.Handler, for serving it on a
// real listener.
func NewHandler(opts ...Option) http.Handler {
	s := &Server{canned: make(map[string]cannedResponse)}
	return s.handler(opts...)
}

func (s *Server) handler(opts ...Option) http.Handler {
	cfg := config{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	ginMode.Do(func() { gin.SetMode(gin.ReleaseMode) })

	repo := repository.NewMemoryRepository(cfg.logger)
	s.service = services.NewLinkService(repo)
	h := handlers.NewLinkHandler(s.service, cfg.logger)

	extra := []gin.HandlerFunc{middleware.Capture(s.record), s.cannedResponses}
	if cfg.apiKey != "" {
		extra = append(extra, middleware.APIKey(cfg.apiKeyHeader, cfg.apiKey))
	}
	return handlers.NewRouter(h, cfg.logger, extra...)
}

func (s *Server) Close() {
	if s.httpServer != nil {
		s.httpServer.Close()
	}
}

// Requests returns every request received so far, oldest first.
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

// LastRequest returns the most recent request.
func (s *Server) LastRequest() (RecordedRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return RecordedRequest{}, false
	}
	return s.requests[len(s.requests)-1], true
}

// Respond answers every request to path with the given response until
// Reset is called.
func (s *Server) Respond(path string, status int, contentType, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.canned[path] = cannedResponse{status: status, contentType: contentType, body: body}
}

// Reset drops canned responses and recorded requests. Stored links stay.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.canned = make(map[string]cannedResponse)
	s.requests = nil
}

// AddLink stores a link directly, bypassing validation.
func (s *Server) AddLink(shortCode, longURL, password string) error {
	return s.service.AddLink(context.Background(), &models.Link{
		ShortCode: shortCode,
		URL:       longURL,
		Password:  password,
		Created:   time.Now().UTC(),
	})
}

// Click records a redirect through shortCode.
func (s *Server) Click(shortCode string, click Click) error {
	return s.service.RecordClick(context.Background(), shortCode, click)
}

func (s *Server) record(r *http.Request, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Header: r.Header.Clone(),
		Body:   body,
	})
}

func (s *Server) cannedResponses(c *gin.Context) {
	s.mu.Lock()
	resp, ok := s.canned[c.Request.URL.Path]
	s.mu.Unlock()
	if !ok {
		c.Next()
		return
	}

	contentType := resp.contentType
	if contentType == "" {
		contentType = "application/json"
	}
	if !strings.Contains(contentType, "charset") && strings.HasPrefix(contentType, "text/") {
		contentType += "; charset=utf-8"
	}
	c.Data(resp.status, contentType, []byte(resp.body))
	c.Abort()
}
