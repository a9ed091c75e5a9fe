// Package service implements the core pathways of the shortener: creating
// hash-addressed links, resolving them back to their URLs, and listing them
// for administrative display.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/shortly-app/shortly/internal/cache"
	"github.com/shortly-app/shortly/internal/database"
	"github.com/shortly-app/shortly/internal/models"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// hashAlphabet is the base62 alphabet used for generated hashes.
const hashAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

const (
	defaultHashLength     = 7
	defaultPageSize       = 10
	defaultResolveTimeout = 2 * time.Second
	defaultClickTimeout   = 5 * time.Second
)

// LinkRepository defines the interface for the durable link store.
type LinkRepository interface {
	// Create inserts a new link record with a zero click count.
	// Returns database.ErrHashExists when the hash is already assigned.
	Create(ctx context.Context, hash, originalURL string) (*models.ShortLink, error)

	// GetByHash retrieves a link by its hash.
	// Returns database.ErrLinkNotFound when the hash is unknown.
	GetByHash(ctx context.Context, hash string) (*models.ShortLink, error)

	// GetByURL retrieves the live link for an exact original URL string.
	// Returns database.ErrLinkNotFound when no record matches.
	GetByURL(ctx context.Context, originalURL string) (*models.ShortLink, error)

	// IncrementClicks atomically adds one click to the record's counter
	// and refreshes its updated_at timestamp.
	IncrementClicks(ctx context.Context, hash string) error

	// List returns a window of link records plus the total record count.
	List(ctx context.Context, limit, offset int, orderBy models.SortField, order models.SortOrder) ([]models.ShortLink, int64, error)
}

// LinkCache defines the interface for the volatile resolution cache.
type LinkCache interface {
	// Get retrieves a cached link by hash. Returns cache.ErrCacheMiss when
	// the hash is not cached.
	Get(ctx context.Context, hash string) (*models.ShortLink, error)

	// Set stores a link under its hash.
	Set(ctx context.Context, link *models.ShortLink) error

	// Invalidate drops the entry for a hash.
	Invalidate(ctx context.Context, hash string) error
}

type LinkOption func(*LinkService)

// WithCache attaches a resolution cache. Without one, every resolve reads
// the store directly.
func WithCache(c LinkCache) LinkOption {
	return func(s *LinkService) {
		s.cache = c
	}
}

func WithHashLength(n int) LinkOption {
	return func(s *LinkService) {
		s.hashLength = n
	}
}

func WithPageSize(n int) LinkOption {
	return func(s *LinkService) {
		s.pageSize = n
	}
}

func WithResolveTimeout(d time.Duration) LinkOption {
	return func(s *LinkService) {
		s.resolveTimeout = d
	}
}

func WithClickTimeout(d time.Duration) LinkOption {
	return func(s *LinkService) {
		s.clickTimeout = d
	}
}

// LinkService orchestrates the create, redirect and listing pathways on top
// of the durable store and the optional resolution cache.
type LinkService struct {
	repo           LinkRepository
	cache          LinkCache
	logger         *slog.Logger
	hashLength     int
	pageSize       int
	resolveTimeout time.Duration
	clickTimeout   time.Duration

	clicks sync.WaitGroup
}

func NewLinkService(logger *slog.Logger, repo LinkRepository, opts ...LinkOption) *LinkService {
	s := &LinkService{
		repo:           repo,
		logger:         logger,
		hashLength:     defaultHashLength,
		pageSize:       defaultPageSize,
		resolveTimeout: defaultResolveTimeout,
		clickTimeout:   defaultClickTimeout,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Shorten turns an absolute URL into a persisted, hash-addressed record.
// Submitting a URL that is already shortened returns the existing record
// unchanged; the match is on the exact URL string, no normalization.
func (s *LinkService) Shorten(ctx context.Context, originalURL string) (*models.ShortLink, error) {
	const op = "service.LinkService.Shorten"
	const maxRetries = 5

	if !isAbsoluteURL(originalURL) {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidURL)
	}

	existing, err := s.repo.GetByURL(ctx, originalURL)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, database.ErrLinkNotFound) {
		return nil, fmt.Errorf("%s: failed to check for existing url: %w", op, err)
	}

	for i := 0; i < maxRetries; i++ {
		hash, err := gonanoid.Generate(hashAlphabet, s.hashLength)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to generate hash: %w", op, err)
		}

		link, err := s.repo.Create(ctx, hash, originalURL)
		if err != nil {
			if errors.Is(err, database.ErrHashExists) {
				continue
			}

			return nil, fmt.Errorf("%s: failed to shorten url: %w", op, err)
		}

		return link, nil
	}

	s.logger.Error(
		"hash generation retries exhausted",
		slog.String("op", op),
		slog.Int("retries", maxRetries),
		slog.Int("hash_length", s.hashLength),
	)

	return nil, fmt.Errorf("%s: %w", op, ErrHashSpaceExhausted)
}

// Resolve maps a hash back to its link, consulting the cache before the
// store, and records the access without delaying the response. An unknown
// hash yields database.ErrLinkNotFound, which is a designed outcome rather
// than a fault.
func (s *LinkService) Resolve(ctx context.Context, hash string) (*models.ShortLink, error) {
	const op = "service.LinkService.Resolve"

	ctx, cancel := context.WithTimeout(ctx, s.resolveTimeout)
	defer cancel()

	link, err := s.lookup(ctx, hash)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%s: %w", op, ErrResolutionTimeout)
		}

		return nil, fmt.Errorf("%s: failed to resolve hash: %w", op, err)
	}

	s.recordClick(hash)

	return link, nil
}

// lookup is the cache-then-store read path. Cache faults other than budget
// overruns degrade to a direct store read.
func (s *LinkService) lookup(ctx context.Context, hash string) (*models.ShortLink, error) {
	if s.cache != nil {
		link, err := s.cache.Get(ctx, hash)
		if err == nil {
			return link, nil
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("resolution cache degraded", slog.Any("err", err))
		}
	}

	link, err := s.repo.GetByHash(ctx, hash)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, link); err != nil {
			s.logger.Warn("failed to populate resolution cache", slog.Any("err", err))
		}
	}

	return link, nil
}

// recordClick applies the click increment asynchronously. The increment
// itself is atomic at the store, so concurrent redirects to one hash all
// land; Close drains whatever is still in flight.
func (s *LinkService) recordClick(hash string) {
	s.clicks.Add(1)

	go func() {
		defer s.clicks.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.clickTimeout)
		defer cancel()

		if err := s.repo.IncrementClicks(ctx, hash); err != nil {
			if errors.Is(err, database.ErrLinkNotFound) && s.cache != nil {
				// The record vanished under us; drop the stale cache entry.
				if err := s.cache.Invalidate(ctx, hash); err != nil {
					s.logger.Warn("failed to invalidate cached link", slog.Any("err", err))
				}
			}

			s.logger.Error(
				"failed to record click",
				slog.String("hash", hash),
				slog.Any("err", err),
			)
		}
	}()
}

// List enumerates link records for administrative display, reading the store
// directly. The page size is fixed by configuration, never caller-supplied.
func (s *LinkService) List(ctx context.Context, page int, orderBy models.SortField, order models.SortOrder) (*models.Page[models.ShortLink], error) {
	const op = "service.LinkService.List"

	if page < 1 {
		page = 1
	}
	if orderBy == "" {
		orderBy = models.SortByCreatedAt
	}
	if order == "" {
		order = models.SortDesc
	}

	offset := (page - 1) * s.pageSize

	links, total, err := s.repo.List(ctx, s.pageSize, offset, orderBy, order)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list links: %w", op, err)
	}

	totalPages := int((total + int64(s.pageSize) - 1) / int64(s.pageSize))

	return &models.Page[models.ShortLink]{
		Data:        links,
		CurrentPage: page,
		TotalPages:  totalPages,
	}, nil
}

// Close waits for in-flight click increments, so every successfully resolved
// redirect has been durably counted before shutdown proceeds.
func (s *LinkService) Close() {
	s.clicks.Wait()
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}
