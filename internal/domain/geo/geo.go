// Package geo provides the bounds and projection math behind the map view.
package geo

import (
	"math"

	"github.com/okian/placemap/internal/domain/model"
	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"
)

// Web Mercator constants.
const (
	tileSize    = 256.0
	earthRadius = 6378137.0
	maxLatitude = 85.0511287798
	MaxZoom     = 19
)

// originShift is half the Web Mercator world width in meters.
var originShift = math.Pi * earthRadius

// toMercator converts EPSG:4326 lon/lat to EPSG:3857 meters.
var toMercator = wgs84.EPSG().Transform(4326, 3857)

// toLonLat converts EPSG:3857 meters back to EPSG:4326.
var toLonLat = wgs84.EPSG().Transform(3857, 4326)

// Bounds is a lat/lng bounding box. The zero value is empty.
type Bounds struct {
	env geom.Envelope
}

// Extend grows the bounds to include ll. Non-finite coordinates are ignored.
func (b *Bounds) Extend(ll model.LatLng) {
	if env, err := b.env.ExtendToIncludeXY(geom.XY{X: ll.Lng, Y: ll.Lat}); err == nil {
		b.env = env
	}
}

// Valid reports whether at least one point was added.
func (b Bounds) Valid() bool {
	return !b.env.IsEmpty()
}

// SouthWest and NorthEast return the corners; both are zero when empty.
func (b Bounds) SouthWest() model.LatLng {
	lo, _, ok := b.env.MinMaxXYs()
	if !ok {
		return model.LatLng{}
	}
	return model.LatLng{Lat: lo.Y, Lng: lo.X}
}

// NorthEast returns the upper right corner.
func (b Bounds) NorthEast() model.LatLng {
	_, hi, ok := b.env.MinMaxXYs()
	if !ok {
		return model.LatLng{}
	}
	return model.LatLng{Lat: hi.Y, Lng: hi.X}
}

// Center returns the midpoint of the box.
func (b Bounds) Center() model.LatLng {
	sw, ne := b.SouthWest(), b.NorthEast()
	return model.LatLng{Lat: (sw.Lat + ne.Lat) / 2, Lng: (sw.Lng + ne.Lng) / 2}
}

// Pad returns bounds grown by ratio of their size on every side.
func (b Bounds) Pad(ratio float64) Bounds {
	if !b.Valid() {
		return b
	}
	sw, ne := b.SouthWest(), b.NorthEast()
	dLat := (ne.Lat - sw.Lat) * ratio
	dLng := (ne.Lng - sw.Lng) * ratio
	var out Bounds
	out.Extend(model.LatLng{Lat: sw.Lat - dLat, Lng: sw.Lng - dLng})
	out.Extend(model.LatLng{Lat: ne.Lat + dLat, Lng: ne.Lng + dLng})
	return out
}

// Contains reports whether ll lies within the bounds.
func (b Bounds) Contains(ll model.LatLng) bool {
	if !b.Valid() {
		return false
	}
	sw, ne := b.SouthWest(), b.NorthEast()
	return ll.Lat >= sw.Lat && ll.Lat <= ne.Lat && ll.Lng >= sw.Lng && ll.Lng <= ne.Lng
}

// FitZoom returns the largest integer zoom at which the bounds fit into a
// viewport of width x height pixels, capped at maxZoom.
func (b Bounds) FitZoom(width, height float64, maxZoom int) int {
	if !b.Valid() || width <= 0 || height <= 0 {
		return 0
	}
	sw := Project(b.SouthWest(), 0)
	ne := Project(b.NorthEast(), 0)
	spanX := math.Abs(ne.X - sw.X)
	spanY := math.Abs(sw.Y - ne.Y)
	zoom := maxZoom
	for zoom > 0 {
		scale := math.Exp2(float64(zoom))
		if spanX*scale <= width && spanY*scale <= height {
			break
		}
		zoom--
	}
	return zoom
}

// Point is a position in world pixels at some zoom; Y grows southwards.
type Point struct {
	X float64
	Y float64
}

// Project converts ll to Web Mercator world pixels at zoom.
func Project(ll model.LatLng, zoom float64) Point {
	lat := math.Max(-maxLatitude, math.Min(maxLatitude, ll.Lat))
	mx, my, _ := toMercator(ll.Lng, lat, 0)
	size := tileSize * math.Exp2(zoom)
	return Point{
		X: (mx + originShift) / (2 * originShift) * size,
		Y: (originShift - my) / (2 * originShift) * size,
	}
}

// Unproject converts world pixels at zoom back to lat/lng.
func Unproject(p Point, zoom float64) model.LatLng {
	size := tileSize * math.Exp2(zoom)
	mx := p.X/size*(2*originShift) - originShift
	my := originShift - p.Y/size*(2*originShift)
	lng, lat, _ := toLonLat(mx, my, 0)
	return model.LatLng{Lat: lat, Lng: lng}
}

// Lerp interpolates between a and b at t in [0,1].
func Lerp(a, b model.LatLng, t float64) model.LatLng {
	return model.LatLng{
		Lat: a.Lat + (b.Lat-a.Lat)*t,
		Lng: a.Lng + (b.Lng-a.Lng)*t,
	}
}
