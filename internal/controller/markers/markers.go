// Package markers keeps one map marker per place, keyed by place id.
package markers

import (
	"context"

	"github.com/google/uuid"
	"github.com/okian/placemap/internal/domain/geo"
	"github.com/okian/placemap/internal/domain/model"
	"github.com/okian/placemap/internal/domain/popup"
	"github.com/okian/placemap/pkg/logger"
)

// MapEngine is the part of the map the registry needs.
type MapEngine interface {
	AddMarker(key string, at model.LatLng, content popup.Content) uuid.UUID
	OnMarkerClick(fn func(key string))
}

// Places lists the places to mark, in dataset order.
type Places interface {
	All() []model.Place
}

// Marker is a placed marker.
type Marker struct {
	ID     string
	Handle uuid.UUID
	LatLng model.LatLng
}

// Registry owns the markers. It is built once and never shrinks.
type Registry struct {
	byID    map[string]Marker
	order   []string
	bounds  geo.Bounds
	onClick func(id string)

	dateLayout string
	logger     logger.Logger
}

// New adds a marker with its popup for every place.
func New(ctx context.Context, places Places, engine MapEngine, opts ...Option) *Registry {
	r := &Registry{
		byID:       make(map[string]Marker),
		dateLayout: popup.DefaultDateLayout,
		logger:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}

	for _, p := range places.All() {
		ll := p.LatLng()
		h := engine.AddMarker(p.ID, ll, popup.BuildWithLayout(p, r.dateLayout))
		r.byID[p.ID] = Marker{ID: p.ID, Handle: h, LatLng: ll}
		r.order = append(r.order, p.ID)
		r.bounds.Extend(ll)
	}
	engine.OnMarkerClick(r.dispatch)

	r.logger.Debug(ctx, "markers placed", logger.Int("markers", len(r.order)))
	return r
}

// Get returns the marker for a place id.
func (r *Registry) Get(id string) (Marker, bool) {
	m, ok := r.byID[id]
	return m, ok
}

// Has reports whether id has a marker.
func (r *Registry) Has(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// Len returns the number of markers.
func (r *Registry) Len() int { return len(r.order) }

// Bounds covers every marker.
func (r *Registry) Bounds() geo.Bounds { return r.bounds }

// OnClick sets the handler for marker clicks.
func (r *Registry) OnClick(fn func(id string)) {
	r.onClick = fn
}

func (r *Registry) dispatch(key string) {
	if _, ok := r.byID[key]; !ok || r.onClick == nil {
		return
	}
	r.onClick(key)
}
