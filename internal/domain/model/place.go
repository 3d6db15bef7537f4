// Package model contains domain models passed between layers.
package model

// Place is a single map-pinned point of interest. Records are read-only once
// loaded; absent optional fields are empty strings.
type Place struct {
	ID       string  `json:"id"` // unique, stable key
	Title    string  `json:"title"`
	Text     string  `json:"text"`
	Tag      string  `json:"tag"`
	Date     string  `json:"date"` // ISO calendar date, e.g. 2024-03-09
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Photo    string  `json:"photo"`
	VideoMP4 string  `json:"videoMp4"`
	YouTube  string  `json:"youtube"`
	Link     string  `json:"link"`
}

// LatLng returns the place coordinates.
func (p Place) LatLng() LatLng {
	return LatLng{Lat: p.Lat, Lng: p.Lng}
}

// LatLng is a WGS 84 coordinate.
type LatLng struct {
	Lat float64
	Lng float64
}

// MediaKind distinguishes the preload lanes.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// MediaTask is one URL waiting to be warmed.
type MediaTask struct {
	URL  string
	Kind MediaKind
}
