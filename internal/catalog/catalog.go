// Package catalog reads poster lists exported by the catalog app (JSON) or
// written by hand (YAML) and turns them into fogwall posters.
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"github.com/phanxgames/fogwall"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrMissingImage is returned for records without any image source.
var ErrMissingImage = errors.New("catalog: record has no image source")

// Format selects the poster list encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatFor picks the format from a file extension. Anything that is not
// .yaml or .yml is treated as JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Record is one catalog entry. The image may be given as posterUrl, url or
// imageSource, in that order of preference.
type Record struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Year        int      `json:"year,omitempty" yaml:"year,omitempty"`
	Genres      []string `json:"genres,omitempty" yaml:"genres,omitempty"`
	Rating      float64  `json:"rating,omitempty" yaml:"rating,omitempty"`
	PosterURL   string   `json:"posterUrl,omitempty" yaml:"posterUrl,omitempty"`
	URL         string   `json:"url,omitempty" yaml:"url,omitempty"`
	ImageSource string   `json:"imageSource,omitempty" yaml:"imageSource,omitempty"`
	Review      string   `json:"review,omitempty" yaml:"review,omitempty"`
}

// Image returns the record's image source.
func (r Record) Image() string {
	for _, s := range []string{r.PosterURL, r.URL, r.ImageSource} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

// Poster converts r. Relative file sources are resolved against baseDir.
func (r Record) Poster(baseDir string) fogwall.Poster {
	src := r.Image()
	if baseDir != "" && !strings.Contains(src, ":") && !filepath.IsAbs(src) {
		src = filepath.Join(baseDir, src)
	}
	return fogwall.Poster{
		ID:          r.ID,
		Title:       strings.TrimSpace(r.Title),
		ImageSource: src,
		Review:      strings.TrimSpace(r.Review),
	}
}

// list accepts either a bare array of records or {"posters": [...]}.
type list struct {
	Posters []Record `json:"posters" yaml:"posters"`
}

// ParseRecords decodes data and assigns a random ID to records without one.
func ParseRecords(data []byte, f Format) ([]Record, error) {
	var records []Record
	trimmed := bytes.TrimSpace(data)
	switch f {
	case FormatYAML:
		if err := yaml.Unmarshal(trimmed, &records); err != nil {
			var l list
			if err2 := yaml.Unmarshal(trimmed, &l); err2 != nil {
				return nil, fmt.Errorf("parse yaml poster list: %w", err)
			}
			records = l.Posters
		}
	default:
		if len(trimmed) > 0 && trimmed[0] == '{' {
			var l list
			if err := json.Unmarshal(trimmed, &l); err != nil {
				return nil, fmt.Errorf("parse json poster list: %w", err)
			}
			records = l.Posters
		} else if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("parse json poster list: %w", err)
		}
	}

	for i := range records {
		if records[i].Image() == "" {
			return nil, fmt.Errorf("record %d (%q): %w", i, records[i].Title, ErrMissingImage)
		}
		if records[i].ID == "" {
			records[i].ID = uuid.NewString()
		}
	}
	return records, nil
}

// Parse decodes a poster list. Relative image paths are resolved against baseDir.
func Parse(data []byte, f Format, baseDir string) ([]fogwall.Poster, error) {
	records, err := ParseRecords(data, f)
	if err != nil {
		return nil, err
	}
	posters := make([]fogwall.Poster, len(records))
	for i, r := range records {
		posters[i] = r.Poster(baseDir)
	}
	return posters, nil
}

// LoadFile reads a poster list, choosing the format from the extension.
func LoadFile(path string) ([]fogwall.Poster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read poster list: %w", err)
	}
	posters, err := Parse(data, FormatFor(path), filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return posters, nil
}

// LoadFiles reads every list and merges them in order.
func LoadFiles(paths ...string) ([]fogwall.Poster, error) {
	var all []fogwall.Poster
	for _, p := range paths {
		posters, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		all = Merge(all, posters)
	}
	if len(all) == 0 {
		return nil, fogwall.ErrNoPosters
	}
	return all, nil
}

// Merge appends b to a. A poster whose ID is already present replaces the
// earlier one in place.
func Merge(a, b []fogwall.Poster) []fogwall.Poster {
	out := make([]fogwall.Poster, 0, len(a)+len(b))
	pos := make(map[string]int, len(a)+len(b))
	for _, p := range append(append([]fogwall.Poster(nil), a...), b...) {
		if i, ok := pos[p.ID]; ok {
			out[i] = p
			continue
		}
		pos[p.ID] = len(out)
		out = append(out, p)
	}
	return out
}

// Export encodes posters in the catalog's JSON format.
func Export(posters []fogwall.Poster) ([]byte, error) {
	records := make([]Record, len(posters))
	for i, p := range posters {
		records[i] = Record{ID: p.ID, Title: p.Title, PosterURL: p.ImageSource, Review: p.Review}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export poster list: %w", err)
	}
	return data, nil
}
