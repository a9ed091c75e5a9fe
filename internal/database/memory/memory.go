// Package memory provides an in-memory link store with the same contract as
// the Postgres repository. It backs tests and serves as the reference
// semantics for the store interface.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shortly-app/shortly/internal/database"
	"github.com/shortly-app/shortly/internal/models"
)

type Option func(*LinkStore)

// WithClock overrides the time source, which tests use to create records at
// known timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *LinkStore) {
		s.now = now
	}
}

type LinkStore struct {
	mu     sync.Mutex
	seq    int64
	byHash map[string]*models.ShortLink
	now    func() time.Time
}

func NewLinkStore(opts ...Option) *LinkStore {
	s := &LinkStore{
		byHash: make(map[string]*models.ShortLink),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *LinkStore) Create(_ context.Context, hash, originalURL string) (*models.ShortLink, error) {
	const op = "database.memory.LinkStore.Create"

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byHash[hash]; ok {
		return nil, fmt.Errorf("%s: %w", op, database.ErrHashExists)
	}

	s.seq++
	now := s.now()
	link := &models.ShortLink{
		ID:          s.seq,
		Hash:        hash,
		OriginalURL: originalURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.byHash[hash] = link

	cp := *link
	return &cp, nil
}

func (s *LinkStore) GetByHash(_ context.Context, hash string) (*models.ShortLink, error) {
	const op = "database.memory.LinkStore.GetByHash"

	s.mu.Lock()
	defer s.mu.Unlock()

	link, ok := s.byHash[hash]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, database.ErrLinkNotFound)
	}

	cp := *link
	return &cp, nil
}

func (s *LinkStore) GetByURL(_ context.Context, originalURL string) (*models.ShortLink, error) {
	const op = "database.memory.LinkStore.GetByURL"

	s.mu.Lock()
	defer s.mu.Unlock()

	var found *models.ShortLink
	for _, link := range s.byHash {
		if link.OriginalURL != originalURL {
			continue
		}
		if found == nil || link.ID < found.ID {
			found = link
		}
	}

	if found == nil {
		return nil, fmt.Errorf("%s: %w", op, database.ErrLinkNotFound)
	}

	cp := *found
	return &cp, nil
}

// IncrementClicks mutates the counter under the store lock, matching the
// atomic single-row update of the Postgres backend.
func (s *LinkStore) IncrementClicks(_ context.Context, hash string) error {
	const op = "database.memory.LinkStore.IncrementClicks"

	s.mu.Lock()
	defer s.mu.Unlock()

	link, ok := s.byHash[hash]
	if !ok {
		return fmt.Errorf("%s: %w", op, database.ErrLinkNotFound)
	}

	link.ClickCount++
	link.UpdatedAt = s.now()

	return nil
}

func (s *LinkStore) List(_ context.Context, limit, offset int, orderBy models.SortField, order models.SortOrder) ([]models.ShortLink, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]models.ShortLink, 0, len(s.byHash))
	for _, link := range s.byHash {
		all = append(all, *link)
	}

	sort.Slice(all, func(i, j int) bool {
		ti, tj := all[i].CreatedAt, all[j].CreatedAt
		if orderBy == models.SortByUpdatedAt {
			ti, tj = all[i].UpdatedAt, all[j].UpdatedAt
		}
		// Equal timestamps fall back to the id so the ordering is strict
		// and deterministic.
		if ti.Equal(tj) {
			if order == models.SortAsc {
				return all[i].ID < all[j].ID
			}
			return all[i].ID > all[j].ID
		}
		if order == models.SortAsc {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	total := int64(len(all))

	if offset >= len(all) {
		return []models.ShortLink{}, total, nil
	}

	end := offset + limit
	if end > len(all) {
		end = len(all)
	}

	return all[offset:end], total, nil
}
