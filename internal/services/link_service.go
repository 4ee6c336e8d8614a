package services

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/rowjay/spoome-go/dto"
	serviceErrors "github.com/rowjay/spoome-go/errors"
	"github.com/rowjay/spoome-go/internal/models"
	"github.com/rowjay/spoome-go/internal/repository"
	"github.com/rowjay/spoome-go/internal/utils"
	"github.com/rowjay/spoome-go/validator"
)

const (
	shortCodeLength = 7
	emojiCodeLength = 3
	maxAttempts     = 10
)

type LinkService interface {
	Shorten(ctx context.Context, origin, host string, req *dto.ShortenRequest) (*dto.ShortenResponse, error)
	Emoji(ctx context.Context, origin, host string, req *dto.EmojiRequest) (*dto.ShortenResponse, error)
	Stats(ctx context.Context, shortCode, password string) (*dto.StatsResponse, error)
	Export(ctx context.Context, shortCode string, format dto.ExportFormat, password string) (*Export, error)
	AddLink(ctx context.Context, link *models.Link) error
	RecordClick(ctx context.Context, shortCode string, click models.Click) error
}

type Export struct {
	ContentType string
	Filename    string
	Data        []byte
}

type linkServiceImpl struct {
	repo repository.LinkRepository
	now  func() time.Time
}

func NewLinkService(repo repository.LinkRepository) LinkService {
	return &linkServiceImpl{repo: repo, now: time.Now}
}

func (s *linkServiceImpl) Shorten(ctx context.Context, origin, host string, req *dto.ShortenRequest) (*dto.ShortenResponse, error) {
	const op = "service.Shorten"

	if err := validator.NewURLValidator(host).ValidateShorten(req); err != nil {
		return nil, rejection(op, err)
	}

	var shortCode string
	if req.Alias != nil {
		exists, err := s.repo.ExistsByShortCode(ctx, *req.Alias)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, serviceErrors.NewAPIError(op, http.StatusBadRequest, serviceErrors.KindAlias, "Alias already exists", nil)
		}
		shortCode = *req.Alias
	} else {
		var err error
		shortCode, err = s.generateUniqueCode(ctx, func() (string, error) {
			return utils.GenerateShortCode(shortCodeLength)
		})
		if err != nil {
			return nil, err
		}
	}

	link := &models.Link{
		ShortCode: shortCode,
		URL:       req.URL,
		Password:  deref(req.Password),
		MaxClicks: derefInt(req.MaxClicks),
		BlockBots: req.BlockBots != nil && *req.BlockBots,
		Expiry:    req.Expiry,
	}
	if err := s.create(ctx, op, link); err != nil {
		return nil, err
	}

	return &dto.ShortenResponse{
		ShortURL:    origin + "/" + shortCode,
		Domain:      host,
		OriginalURL: req.URL,
	}, nil
}

func (s *linkServiceImpl) Emoji(ctx context.Context, origin, host string, req *dto.EmojiRequest) (*dto.ShortenResponse, error) {
	const op = "service.Emoji"

	if err := validator.NewURLValidator(host).ValidateEmoji(req); err != nil {
		return nil, rejection(op, err)
	}

	var shortCode string
	if req.Emojies != nil {
		exists, err := s.repo.ExistsByShortCode(ctx, *req.Emojies)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, serviceErrors.NewAPIError(op, http.StatusBadRequest, serviceErrors.KindEmoji, "Emoji already exists", nil)
		}
		shortCode = *req.Emojies
	} else {
		var err error
		shortCode, err = s.generateUniqueCode(ctx, func() (string, error) {
			return utils.GenerateEmojiCode(emojiCodeLength)
		})
		if err != nil {
			return nil, err
		}
	}

	link := &models.Link{
		ShortCode: shortCode,
		URL:       req.URL,
		Password:  deref(req.Password),
		MaxClicks: derefInt(req.MaxClicks),
		BlockBots: req.BlockBots != nil && *req.BlockBots,
		Emoji:     true,
		Expiry:    req.Expiry,
	}
	if err := s.create(ctx, op, link); err != nil {
		return nil, err
	}

	return &dto.ShortenResponse{
		ShortURL:    origin + "/" + shortCode,
		Domain:      host,
		OriginalURL: req.URL,
	}, nil
}

func (s *linkServiceImpl) Stats(ctx context.Context, shortCode, password string) (*dto.StatsResponse, error) {
	link, err := s.authorized(ctx, "service.Stats", shortCode, password)
	if err != nil {
		return nil, err
	}
	return link.ToStats(s.now()), nil
}

func (s *linkServiceImpl) Export(ctx context.Context, shortCode string, format dto.ExportFormat, password string) (*Export, error) {
	const op = "service.Export"

	if !format.Valid() {
		return nil, serviceErrors.NewAPIError(op, http.StatusBadRequest, serviceErrors.KindUnknown, "Invalid export format", nil)
	}
	link, err := s.authorized(ctx, op, shortCode, password)
	if err != nil {
		return nil, err
	}
	stats := link.ToStats(s.now())

	var data []byte
	switch format {
	case dto.ExportJSON:
		data, err = json.MarshalIndent(stats, "", "  ")
	case dto.ExportXML:
		data, err = exportXML(stats)
	case dto.ExportCSV, dto.ExportXLSX:
		// Both are zip containers upstream; the fake serves CSV sheets in each.
		data, err = exportZip(stats)
	}
	if err != nil {
		return nil, serviceErrors.NewAPIError(op, http.StatusInternalServerError, serviceErrors.KindUnknown, "failed to build export", nil)
	}

	return &Export{
		ContentType: format.ContentType(),
		Filename:    shortCode + format.FileExtension(),
		Data:        data,
	}, nil
}

func (s *linkServiceImpl) AddLink(ctx context.Context, link *models.Link) error {
	return s.create(ctx, "service.AddLink", link)
}

func (s *linkServiceImpl) RecordClick(ctx context.Context, shortCode string, click models.Click) error {
	if click.At.IsZero() {
		click.At = s.now().UTC()
	}
	return s.repo.RecordClick(ctx, shortCode, click)
}

func (s *linkServiceImpl) create(ctx context.Context, op string, link *models.Link) error {
	if err := s.repo.Create(ctx, link); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return serviceErrors.NewAPIError(op, http.StatusBadRequest, serviceErrors.KindAlias, "Alias already exists", nil)
		}
		return err
	}
	return nil
}

func (s *linkServiceImpl) authorized(ctx context.Context, op, shortCode, password string) (*models.Link, error) {
	link, err := s.repo.GetByShortCode(ctx, shortCode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, serviceErrors.NewAPIError(op, http.StatusNotFound, serviceErrors.KindURL, "The requested Url never existed", nil)
		}
		return nil, err
	}
	if link.Password != "" && link.Password != password {
		return nil, serviceErrors.NewAPIError(op, http.StatusUnauthorized, serviceErrors.KindPassword, "Invalid Password", nil)
	}
	return link, nil
}

func (s *linkServiceImpl) generateUniqueCode(ctx context.Context, generate func() (string, error)) (string, error) {
	for i := 0; i < maxAttempts; i++ {
		code, err := generate()
		if err != nil {
			return "", serviceErrors.NewAPIError("service.generateUniqueCode", http.StatusInternalServerError, serviceErrors.KindUnknown, "failed to generate short code", nil)
		}
		exists, err := s.repo.ExistsByShortCode(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", serviceErrors.NewAPIError("service.generateUniqueCode", http.StatusInternalServerError, serviceErrors.KindUnknown, "failed to generate unique code after 10 attempts", nil)
}

var fieldKinds = map[string]serviceErrors.APIErrorKind{
	"url":        serviceErrors.KindURL,
	"alias":      serviceErrors.KindAlias,
	"password":   serviceErrors.KindPassword,
	"max-clicks": serviceErrors.KindMaxClicks,
	"emojies":    serviceErrors.KindEmoji,
}

var kindMessages = map[serviceErrors.APIErrorKind]string{
	serviceErrors.KindURL:       "Invalid URL, URL must have a valid protocol and must follow rfc_1034 & rfc_2728 patterns",
	serviceErrors.KindAlias:     "Invalid Alias",
	serviceErrors.KindPassword:  "Invalid password, password must be at least 8 characters long, must contain a letter and a number and a special character either '@' or '.' and cannot be consecutive",
	serviceErrors.KindMaxClicks: "max-clicks must be an positive integer",
	serviceErrors.KindEmoji:     "Invalid emoji",
}

// rejection turns a local validation failure into the 400 body an instance
// would send for it.
func rejection(op string, err error) error {
	var serviceErr *serviceErrors.ServiceError
	if !errors.As(err, &serviceErr) {
		return err
	}
	kind := fieldKinds[serviceErr.Field]
	message, ok := kindMessages[kind]
	if !ok {
		message = serviceErr.Message
	}
	return serviceErrors.NewAPIError(op, http.StatusBadRequest, kind, message, nil)
}

type xmlEntry struct {
	Key   string `xml:"key,attr"`
	Value int    `xml:",chardata"`
}

type xmlStats struct {
	XMLName           xml.Name   `xml:"stats"`
	ShortCode         string     `xml:"short_code"`
	URL               string     `xml:"url"`
	TotalClicks       int        `xml:"total_clicks"`
	TotalUniqueClicks int        `xml:"total_unique_clicks"`
	Counter           []xmlEntry `xml:"counter>entry"`
	Browser           []xmlEntry `xml:"browser>entry"`
	Country           []xmlEntry `xml:"country>entry"`
	OSName            []xmlEntry `xml:"os_name>entry"`
	Referrer          []xmlEntry `xml:"referrer>entry"`
}

func exportXML(stats *dto.StatsResponse) ([]byte, error) {
	doc := xmlStats{
		ShortCode:         stats.ShortCode,
		URL:               stats.URL,
		TotalClicks:       stats.TotalClicks,
		TotalUniqueClicks: stats.TotalUniqueClicks,
		Counter:           xmlEntries(stats.Counter),
		Browser:           xmlEntries(stats.Browser),
		Country:           xmlEntries(stats.Country),
		OSName:            xmlEntries(stats.OSName),
		Referrer:          xmlEntries(stats.Referrer),
	}
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

func exportZip(stats *dto.StatsResponse) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	general := [][]string{
		{"short_code", "url", "total_clicks", "total_unique_clicks"},
		{stats.ShortCode, stats.URL, strconv.Itoa(stats.TotalClicks), strconv.Itoa(stats.TotalUniqueClicks)},
	}
	if err := writeCSV(zw, "general_info.csv", general); err != nil {
		return nil, err
	}

	sheets := []struct {
		name   string
		header string
		data   map[string]int
	}{
		{"clicks_by_day.csv", "date", stats.Counter},
		{"browser.csv", "browser", stats.Browser},
		{"country.csv", "country", stats.Country},
		{"os_name.csv", "os_name", stats.OSName},
		{"referrer.csv", "referrer", stats.Referrer},
	}
	for _, sheet := range sheets {
		rows := [][]string{{sheet.header, "clicks"}}
		for _, e := range xmlEntries(sheet.data) {
			rows = append(rows, []string{e.Key, strconv.Itoa(e.Value)})
		}
		if err := writeCSV(zw, sheet.name, rows); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCSV(zw *zip.Writer, name string, rows [][]string) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

func xmlEntries(m map[string]int) []xmlEntry {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]xmlEntry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, xmlEntry{Key: k, Value: m[k]})
	}
	return entries
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}
