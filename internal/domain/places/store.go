// Package places holds the immutable place dataset and its filtering.
package places

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/placemap/internal/domain/model"
	"github.com/okian/placemap/pkg/logger"
)

// Store is the read-only, ordered set of places loaded at boot.
type Store struct {
	places []model.Place
	byID   map[string]int
	logger logger.Logger
}

// New copies places into an immutable store. Ids must be non-empty and
// unique for the lifetime of the store.
func New(ctx context.Context, places []model.Place, opts ...Option) (*Store, error) {
	s := &Store{
		places: make([]model.Place, len(places)),
		byID:   make(map[string]int, len(places)),
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}

	copy(s.places, places)
	for i, p := range s.places {
		if strings.TrimSpace(p.ID) == "" {
			return nil, fmt.Errorf("%w: record %d (%q)", ErrEmptyID, i, p.Title)
		}
		if prev, ok := s.byID[p.ID]; ok {
			return nil, fmt.Errorf("%w: %q at records %d and %d", ErrDuplicateID, p.ID, prev, i)
		}
		s.byID[p.ID] = i
	}

	s.logger.Debug(ctx, "place store ready", logger.Int("places", len(s.places)))
	return s, nil
}

// Len returns the number of places.
func (s *Store) Len() int { return len(s.places) }

// All returns every place in dataset order. The slice is a copy.
func (s *Store) All() []model.Place {
	out := make([]model.Place, len(s.places))
	copy(out, s.places)
	return out
}

// Get returns the place with id.
func (s *Store) Get(id string) (model.Place, bool) {
	i, ok := s.byID[id]
	if !ok {
		return model.Place{}, false
	}
	return s.places[i], true
}

// Filter returns, in dataset order, the places whose title, text or tag
// contains query (trimmed, case-insensitive). An empty query matches all.
func (s *Store) Filter(query string) []model.Place {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return s.All()
	}
	out := make([]model.Place, 0, len(s.places))
	for _, p := range s.places {
		if strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.Text), q) ||
			strings.Contains(strings.ToLower(p.Tag), q) {
			out = append(out, p)
		}
	}
	return out
}

// Images returns the photo URLs in dataset order, skipping absent ones.
func (s *Store) Images() []string {
	out := make([]string, 0, len(s.places))
	for _, p := range s.places {
		if p.Photo != "" {
			out = append(out, p.Photo)
		}
	}
	return out
}

// Videos returns the mp4 URLs in dataset order, skipping absent ones.
func (s *Store) Videos() []string {
	out := make([]string, 0, len(s.places))
	for _, p := range s.places {
		if p.VideoMP4 != "" {
			out = append(out, p.VideoMP4)
		}
	}
	return out
}
