// Package repository loads the place dataset from disk.
package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/okian/placemap/internal/domain/model"
	"gopkg.in/yaml.v3"
)

// Source provides the ordered place records available at boot.
type Source interface {
	Load(ctx context.Context) ([]model.Place, error)
}

// dataset accepts either a bare list of places or a {places: [...]} document.
type dataset struct {
	Places []record `yaml:"places"`
}

// record is the lenient on-disk shape: coordinates may be numbers or strings,
// and anything unparseable degrades to zero instead of failing the load.
type record struct {
	ID       string `yaml:"id"`
	Title    string `yaml:"title"`
	Text     string `yaml:"text"`
	Tag      string `yaml:"tag"`
	Date     string `yaml:"date"`
	Lat      any    `yaml:"lat"`
	Lng      any    `yaml:"lng"`
	Photo    string `yaml:"photo"`
	VideoMP4 string `yaml:"videoMp4"`
	YouTube  string `yaml:"youtube"`
	Link     string `yaml:"link"`
}

func (r record) place() model.Place {
	return model.Place{
		ID:       r.ID,
		Title:    r.Title,
		Text:     r.Text,
		Tag:      r.Tag,
		Date:     r.Date,
		Lat:      toFloat(r.Lat),
		Lng:      toFloat(r.Lng),
		Photo:    r.Photo,
		VideoMP4: r.VideoMP4,
		YouTube:  r.YouTube,
		Link:     r.Link,
	}
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func toPlaces(records []record) []model.Place {
	out := make([]model.Place, len(records))
	for i, r := range records {
		out[i] = r.place()
	}
	return out
}

// FileSource reads places from a YAML or JSON file.
type FileSource struct {
	path string
}

// NewFileSource creates a source reading path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Load reads and decodes the file.
func (s *FileSource) Load(ctx context.Context) ([]model.Place, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, s.path)
		}
		return nil, err
	}
	return Decode(bytes.NewReader(data))
}

// Decode parses a YAML or JSON place list. JSON is accepted because it is
// valid YAML.
func Decode(r io.Reader) ([]model.Place, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	root := node.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var records []record
		if err := root.Decode(&records); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecode, err)
		}
		return toPlaces(records), nil
	case yaml.MappingNode:
		var doc dataset
		if err := root.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecode, err)
		}
		return toPlaces(doc.Places), nil
	default:
		return nil, fmt.Errorf("%w: expected a list of places", ErrDecode)
	}
}

// StaticSource serves an in-memory dataset.
type StaticSource []model.Place

// Load returns the records.
func (s StaticSource) Load(context.Context) ([]model.Place, error) {
	return []model.Place(s), nil
}
