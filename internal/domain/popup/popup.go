// Package popup builds the content shown in a marker popup.
package popup

import (
	"html"
	"net/url"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/okian/placemap/internal/domain/model"
)

// DefaultDateLayout renders dates day-first, as pt-BR locales do.
const DefaultDateLayout = "02/01/2006"

// Content is the renderable popup for one place. Empty fields mean the
// corresponding block is omitted.
type Content struct {
	Title        string
	Date         string
	Text         string
	Photo        string
	VideoMP4     string
	YouTubeEmbed string
	Link         string
}

// Build derives popup content from p using DefaultDateLayout.
func Build(p model.Place) Content {
	return BuildWithLayout(p, DefaultDateLayout)
}

// BuildWithLayout derives popup content from p, formatting the date with layout.
func BuildWithLayout(p model.Place, layout string) Content {
	c := Content{
		Title:    Plain(p.Title),
		Date:     FormatDate(p.Date, layout),
		Text:     Plain(p.Text),
		Photo:    p.Photo,
		VideoMP4: p.VideoMP4,
		Link:     p.Link,
	}
	if p.YouTube != "" {
		c.YouTubeEmbed = YouTubeEmbed(p.YouTube)
	}
	return c
}

// strict strips every tag; dataset text may carry inline markup.
var strict = bluemonday.StrictPolicy()

// Plain reduces an HTML fragment to its text.
func Plain(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// FormatDate renders an ISO calendar date with layout. Absent or invalid
// dates yield "".
func FormatDate(iso, layout string) string {
	if iso == "" {
		return ""
	}
	d, err := time.Parse(time.DateOnly, strings.TrimSpace(iso))
	if err != nil {
		return ""
	}
	if layout == "" {
		layout = DefaultDateLayout
	}
	return d.Format(layout)
}

// YouTubeEmbed turns a watch or youtu.be share URL into an embed URL.
// Anything it cannot parse yields "" so the video block is dropped.
func YouTubeEmbed(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return ""
	}
	id := u.Query().Get("v")
	if id == "" && strings.Contains(u.Hostname(), "youtu.be") {
		id = strings.TrimPrefix(u.Path, "/")
	}
	if id == "" {
		return ""
	}
	return "https://www.youtube.com/embed/" + url.PathEscape(id)
}

// Lines renders c as plain text lines for character-cell surfaces.
func (c Content) Lines() []string {
	head := c.Title
	if c.Date != "" {
		head += " · " + c.Date
	}
	lines := []string{head}
	if c.Text != "" {
		lines = append(lines, c.Text)
	}
	if c.Photo != "" {
		lines = append(lines, "foto: "+c.Photo)
	}
	if c.VideoMP4 != "" {
		lines = append(lines, "vídeo: "+c.VideoMP4)
	}
	if c.YouTubeEmbed != "" {
		lines = append(lines, "youtube: "+c.YouTubeEmbed)
	}
	if c.Link != "" {
		lines = append(lines, "link: "+c.Link)
	}
	return lines
}
