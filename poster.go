package fogwall

import "errors"

// ErrNoPosters is returned by operations that need at least one poster.
var ErrNoPosters = errors.New("fogwall: no posters")

// Poster is one gallery record handed to the engine by the catalog.
type Poster struct {
	ID          string
	Title       string
	ImageSource string // file path, http(s) URL or data URL
	Review      string
}

// DisplayTitle returns the title, or "Untitled" when it is empty.
func (p Poster) DisplayTitle() string {
	if p.Title == "" {
		return "Untitled"
	}
	return p.Title
}
