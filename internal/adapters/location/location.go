// Package location holds the page location and its query state. Writes
// replace the current entry; there is no history to navigate.
package location

import (
	"fmt"
	"net/url"
	"strings"
)

// URL is the mutable current location.
type URL struct {
	u        *url.URL
	replaces int
}

// Parse reads raw, which may be a full URL or just a query such as "?p=a".
func Parse(raw string) (*URL, error) {
	raw = strings.TrimSpace(raw)
	if raw != "" && !strings.Contains(raw, "?") && !strings.Contains(raw, "://") && strings.Contains(raw, "=") {
		raw = "?" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLocation, err)
	}
	return &URL{u: u}, nil
}

// MustParse is Parse that falls back to an empty location.
func MustParse(raw string) *URL {
	l, err := Parse(raw)
	if err != nil {
		return &URL{u: &url.URL{}}
	}
	return l
}

// Param returns the first value of key, or "".
func (l *URL) Param(key string) string {
	return l.u.Query().Get(key)
}

// Replace sets key to value in place. The first occurrence keeps its
// position, later ones are dropped and a missing key is appended.
func (l *URL) Replace(key, value string) {
	l.rewrite(key, &value)
	l.replaces++
}

// Delete removes key in place, keeping the order of the other parameters.
func (l *URL) Delete(key string) {
	l.rewrite(key, nil)
	l.replaces++
}

// rewrite edits the raw query pair by pair so untouched parameters keep
// their order and encoding. A nil value deletes key.
func (l *URL) rewrite(key string, value *string) {
	pairs := make([]string, 0, 4)
	set := false
	for _, kv := range strings.Split(l.u.RawQuery, "&") {
		if kv == "" {
			continue
		}
		k, _, _ := strings.Cut(kv, "=")
		if uk, err := url.QueryUnescape(k); err == nil {
			k = uk
		}
		if k != key {
			pairs = append(pairs, kv)
			continue
		}
		if value != nil && !set {
			pairs = append(pairs, url.QueryEscape(key)+"="+url.QueryEscape(*value))
			set = true
		}
	}
	if value != nil && !set {
		pairs = append(pairs, url.QueryEscape(key)+"="+url.QueryEscape(*value))
	}
	l.u.RawQuery = strings.Join(pairs, "&")
}

// Replaces counts in-place rewrites so far.
func (l *URL) Replaces() int { return l.replaces }

// String renders the location.
func (l *URL) String() string {
	s := l.u.String()
	if s == "" {
		return "?"
	}
	return s
}
