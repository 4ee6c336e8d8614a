package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rowjay/spoome-go/internal/models"
	"github.com/rs/zerolog"
)

var (
	ErrNotFound  = errors.New("link not found")
	ErrDuplicate = errors.New("short code already exists")
)

type LinkRepository interface {
	Create(ctx context.Context, link *models.Link) error
	GetByShortCode(ctx context.Context, shortCode string) (*models.Link, error)
	ExistsByShortCode(ctx context.Context, shortCode string) (bool, error)
	RecordClick(ctx context.Context, shortCode string, click models.Click) error
}

type memoryRepository struct {
	mu     sync.RWMutex
	links  map[string]*models.Link
	logger zerolog.Logger
}

// NewMemoryRepository keeps links in process memory for the lifetime of a
// fake instance.
func NewMemoryRepository(logger zerolog.Logger) LinkRepository {
	return &memoryRepository{
		links:  make(map[string]*models.Link),
		logger: logger,
	}
}

func (r *memoryRepository) Create(ctx context.Context, link *models.Link) error {
	r.logger.Debug().Str("short_code", link.ShortCode).Str("url", link.URL).Msg("Creating new short URL")

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.links[link.ShortCode]; ok {
		return ErrDuplicate
	}
	if link.ID == "" {
		link.ID = uuid.NewString()
	}
	if link.Created.IsZero() {
		link.Created = time.Now().UTC()
	}
	stored := *link
	r.links[link.ShortCode] = &stored

	r.logger.Info().Str("short_code", link.ShortCode).Str("id", link.ID).Msg("Short URL record created successfully")
	return nil
}

// GetByShortCode returns a copy, so callers cannot race with RecordClick.
func (r *memoryRepository) GetByShortCode(ctx context.Context, shortCode string) (*models.Link, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	link, ok := r.links[shortCode]
	if !ok {
		r.logger.Debug().Str("short_code", shortCode).Msg("Short URL not found")
		return nil, ErrNotFound
	}
	cp := *link
	cp.Clicks = append([]models.Click(nil), link.Clicks...)
	return &cp, nil
}

func (r *memoryRepository) ExistsByShortCode(ctx context.Context, shortCode string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.links[shortCode]
	return ok, nil
}

func (r *memoryRepository) RecordClick(ctx context.Context, shortCode string, click models.Click) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	link, ok := r.links[shortCode]
	if !ok {
		return ErrNotFound
	}
	if click.At.IsZero() {
		click.At = time.Now().UTC()
	}
	link.Clicks = append(link.Clicks, click)

	r.logger.Debug().Str("short_code", shortCode).Int("clicks", len(link.Clicks)).Msg("Click recorded")
	return nil
}
