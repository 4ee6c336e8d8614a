// Package dto holds the request and response types exchanged with a spoo.me
// instance. Both the context-aware client and the blocking client use them.
package dto

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// ShortenRequest is the payload of POST /.
type ShortenRequest struct {
	URL       string     `json:"url" form:"url" validate:"required,spoo_url"`
	Alias     *string    `json:"alias,omitempty" form:"alias" validate:"omitempty,spoo_alias"`
	Password  *string    `json:"password,omitempty" form:"password" validate:"omitempty,spoo_password"`
	MaxClicks *int       `json:"max-clicks,omitempty" form:"max-clicks" validate:"omitempty,gt=0"`
	BlockBots *bool      `json:"block-bots,omitempty" form:"block-bots"`
	Expiry    *time.Time `json:"expiry,omitempty" form:"expiry"`
}

func NewShortenRequest(longURL string) *ShortenRequest {
	return &ShortenRequest{URL: longURL}
}

func (r *ShortenRequest) WithAlias(alias string) *ShortenRequest {
	r.Alias = &alias
	return r
}

func (r *ShortenRequest) WithPassword(password string) *ShortenRequest {
	r.Password = &password
	return r
}

func (r *ShortenRequest) WithMaxClicks(n int) *ShortenRequest {
	r.MaxClicks = &n
	return r
}

func (r *ShortenRequest) WithBlockBots(block bool) *ShortenRequest {
	r.BlockBots = &block
	return r
}

// WithExpiry sets the expiry, normalized to UTC with second precision.
func (r *ShortenRequest) WithExpiry(t time.Time) *ShortenRequest {
	t = t.UTC().Truncate(time.Second)
	r.Expiry = &t
	return r
}

// Values returns the form encoding of the request. Unset fields are omitted.
func (r *ShortenRequest) Values() url.Values {
	v := url.Values{}
	v.Set("url", r.URL)
	setString(v, "alias", r.Alias)
	setString(v, "password", r.Password)
	setInt(v, "max-clicks", r.MaxClicks)
	setBool(v, "block-bots", r.BlockBots)
	setTime(v, "expiry", r.Expiry)
	return v
}

// MarshalJSON writes expiry the same way Values does.
func (r ShortenRequest) MarshalJSON() ([]byte, error) {
	type plain ShortenRequest
	return json.Marshal(struct {
		plain
		Expiry *string `json:"expiry,omitempty"`
	}{plain(r), formatTime(r.Expiry)})
}

// EmojiRequest is the payload of POST /emoji.
type EmojiRequest struct {
	URL       string     `json:"url" form:"url" validate:"required,spoo_url"`
	Emojies   *string    `json:"emojies,omitempty" form:"emojies" validate:"omitempty,spoo_emoji"`
	Password  *string    `json:"password,omitempty" form:"password" validate:"omitempty,spoo_password"`
	MaxClicks *int       `json:"max-clicks,omitempty" form:"max-clicks" validate:"omitempty,gt=0"`
	BlockBots *bool      `json:"block-bots,omitempty" form:"block-bots"`
	Expiry    *time.Time `json:"expiry,omitempty" form:"expiry"`
}

func NewEmojiRequest(longURL string) *EmojiRequest {
	return &EmojiRequest{URL: longURL}
}

func (r *EmojiRequest) WithEmojies(seq string) *EmojiRequest {
	r.Emojies = &seq
	return r
}

func (r *EmojiRequest) WithPassword(password string) *EmojiRequest {
	r.Password = &password
	return r
}

func (r *EmojiRequest) WithMaxClicks(n int) *EmojiRequest {
	r.MaxClicks = &n
	return r
}

func (r *EmojiRequest) WithBlockBots(block bool) *EmojiRequest {
	r.BlockBots = &block
	return r
}

func (r *EmojiRequest) WithExpiry(t time.Time) *EmojiRequest {
	t = t.UTC().Truncate(time.Second)
	r.Expiry = &t
	return r
}

func (r *EmojiRequest) Values() url.Values {
	v := url.Values{}
	v.Set("url", r.URL)
	setString(v, "emojies", r.Emojies)
	setString(v, "password", r.Password)
	setInt(v, "max-clicks", r.MaxClicks)
	setBool(v, "block-bots", r.BlockBots)
	setTime(v, "expiry", r.Expiry)
	return v
}

func (r EmojiRequest) MarshalJSON() ([]byte, error) {
	type plain EmojiRequest
	return json.Marshal(struct {
		plain
		Expiry *string `json:"expiry,omitempty"`
	}{plain(r), formatTime(r.Expiry)})
}

// ShortenResponse is returned by both POST / and POST /emoji.
type ShortenResponse struct {
	ShortURL    string `json:"short_url" validate:"required"`
	Domain      string `json:"domain"`
	OriginalURL string `json:"original_url"`
	QRCode      string `json:"qr_code,omitempty"`
}

// StatsRequest addresses POST /stats/{code}. ShortCode is a path segment.
type StatsRequest struct {
	ShortCode string  `json:"-" form:"-" validate:"required,spoo_code"`
	Password  *string `json:"password,omitempty" form:"password" validate:"omitempty,spoo_password"`
}

func NewStatsRequest(code string) *StatsRequest {
	return &StatsRequest{ShortCode: code}
}

func (r *StatsRequest) WithPassword(password string) *StatsRequest {
	r.Password = &password
	return r
}

func (r *StatsRequest) Values() url.Values {
	v := url.Values{}
	setString(v, "password", r.Password)
	return v
}

// StatsResponse is a stats payload. Instances identify the link by either
// short_code or _id.
type StatsResponse struct {
	ID                string         `json:"_id,omitempty"`
	ShortCode         string         `json:"short_code"`
	URL               string         `json:"url" validate:"required"`
	TotalClicks       int            `json:"total-clicks"`
	TotalUniqueClicks int            `json:"total_unique_clicks"`
	CreationDate      *string        `json:"creation-date,omitempty"`
	Expired           *bool          `json:"expired,omitempty"`
	LastClick         *string        `json:"last-click,omitempty"`
	LastClickBrowser  *string        `json:"last-click-browser,omitempty"`
	LastClickOS       *string        `json:"last-click-os,omitempty"`
	MaxClicks         *int           `json:"max-clicks,omitempty"`
	Password          *string        `json:"password,omitempty"`
	BlockBots         *bool          `json:"block_bots,omitempty"`
	Bots              map[string]int `json:"bots,omitempty"`
	Browser           map[string]int `json:"browser,omitempty"`
	Country           map[string]int `json:"country,omitempty"`
	Counter           map[string]int `json:"counter,omitempty"`
	OSName            map[string]int `json:"os_name,omitempty"`
	Referrer          map[string]int `json:"referrer,omitempty"`
	UniqueBrowser     map[string]int `json:"unique_browser,omitempty"`
	UniqueCountry     map[string]int `json:"unique_country,omitempty"`
	UniqueCounter     map[string]int `json:"unique_counter,omitempty"`
	UniqueOSName      map[string]int `json:"unique_os_name,omitempty"`
	UniqueReferrer    map[string]int `json:"unique_referrer,omitempty"`
}

func (s *StatsResponse) UnmarshalJSON(data []byte) error {
	type plain StatsResponse
	if err := json.Unmarshal(data, (*plain)(s)); err != nil {
		return err
	}
	if s.ShortCode == "" {
		s.ShortCode = s.ID
	}
	return nil
}

// LinkInfo is the metadata part of a stats payload, without click breakdowns.
type LinkInfo struct {
	ShortCode         string  `json:"short_code"`
	URL               string  `json:"url"`
	CreationDate      *string `json:"creation_date,omitempty"`
	Expired           bool    `json:"expired"`
	MaxClicks         *int    `json:"max_clicks,omitempty"`
	BlockBots         bool    `json:"block_bots"`
	PasswordProtected bool    `json:"password_protected"`
	TotalClicks       int     `json:"total_clicks"`
}

func (s *StatsResponse) Info() LinkInfo {
	info := LinkInfo{
		ShortCode:         s.ShortCode,
		URL:               s.URL,
		CreationDate:      s.CreationDate,
		MaxClicks:         s.MaxClicks,
		PasswordProtected: s.Password != nil && *s.Password != "",
		TotalClicks:       s.TotalClicks,
	}
	if s.Expired != nil {
		info.Expired = *s.Expired
	}
	if s.BlockBots != nil {
		info.BlockBots = *s.BlockBots
	}
	return info
}

type ExportFormat string

const (
	ExportJSON ExportFormat = "json"
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
	ExportXML  ExportFormat = "xml"
)

var ExportFormats = []ExportFormat{ExportJSON, ExportCSV, ExportXLSX, ExportXML}

func ParseExportFormat(s string) (ExportFormat, error) {
	f := ExportFormat(strings.ToLower(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", fmt.Errorf("unknown export format %q", s)
	}
	return f, nil
}

func (f ExportFormat) Valid() bool {
	switch f {
	case ExportJSON, ExportCSV, ExportXLSX, ExportXML:
		return true
	}
	return false
}

// ContentType is the media type an instance serves for the format. CSV
// exports arrive as a zip archive of several files.
func (f ExportFormat) ContentType() string {
	switch f {
	case ExportJSON:
		return "application/json"
	case ExportCSV:
		return "application/zip"
	case ExportXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ExportXML:
		return "application/xml"
	}
	return "application/octet-stream"
}

// FileExtension is the suffix to use when saving an export.
func (f ExportFormat) FileExtension() string {
	if f == ExportCSV {
		return ".zip"
	}
	return "." + string(f)
}

// ExportRequest addresses POST /export/{code}/{format}.
type ExportRequest struct {
	ShortCode string       `json:"-" form:"-" validate:"required,spoo_code"`
	Format    ExportFormat `json:"-" form:"-" validate:"required,spoo_export_format"`
	Password  *string      `json:"password,omitempty" form:"password" validate:"omitempty,spoo_password"`
}

func NewExportRequest(code string, format ExportFormat) *ExportRequest {
	return &ExportRequest{ShortCode: code, Format: format}
}

func (r *ExportRequest) WithPassword(password string) *ExportRequest {
	r.Password = &password
	return r
}

func (r *ExportRequest) Values() url.Values {
	v := url.Values{}
	setString(v, "password", r.Password)
	return v
}

// ExportResponse carries the raw export bytes.
type ExportResponse struct {
	Format      ExportFormat
	ContentType string
	Data        []byte
}

func (r *ExportResponse) SaveToFile(path string) error {
	if err := os.WriteFile(path, r.Data, 0o644); err != nil {
		return fmt.Errorf("save export: %w", err)
	}
	return nil
}

// ErrorResponse is an error body. It accepts both {"error": ..., "message": ...}
// and the spoo.me form {"AliasError": "Alias already exists"}.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

var knownErrorKeys = []string{"UrlError", "AliasError", "PasswordError", "MaxClicksError", "EmojiError"}

func (e *ErrorResponse) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = ErrorResponse{}

	if v, ok := raw["error"]; ok {
		if err := json.Unmarshal(v, &e.Error); err != nil {
			return fmt.Errorf("error field: %w", err)
		}
		if m, ok := raw["message"]; ok {
			_ = json.Unmarshal(m, &e.Message)
		}
		if c, ok := raw["code"]; ok {
			_ = json.Unmarshal(c, &e.Code)
		}
		return nil
	}

	for _, key := range knownErrorKeys {
		if v, ok := raw[key]; ok {
			e.Error = key
			_ = json.Unmarshal(v, &e.Message)
			return nil
		}
	}
	if m, ok := raw["message"]; ok {
		_ = json.Unmarshal(m, &e.Message)
	}
	return nil
}

// MarshalJSON writes the spoo.me shape when Error names a known kind.
func (e ErrorResponse) MarshalJSON() ([]byte, error) {
	for _, key := range knownErrorKeys {
		if e.Error == key {
			return json.Marshal(map[string]string{key: e.Message})
		}
	}
	type plain ErrorResponse
	return json.Marshal(plain(e))
}

func setString(v url.Values, key string, s *string) {
	if s != nil {
		v.Set(key, *s)
	}
}

func setInt(v url.Values, key string, n *int) {
	if n != nil {
		v.Set(key, strconv.Itoa(*n))
	}
}

func setBool(v url.Values, key string, b *bool) {
	if b != nil {
		v.Set(key, strconv.FormatBool(*b))
	}
}

func setTime(v url.Values, key string, t *time.Time) {
	if s := formatTime(t); s != nil {
		v.Set(key, *s)
	}
}

// formatTime renders t as RFC 3339 in UTC with second precision.
func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Truncate(time.Second).Format(time.RFC3339)
	return &s
}
