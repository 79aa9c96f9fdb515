package certificate

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	lineBreakTags = regexp.MustCompile(`(?i)<\s*br\s*/?\s*>|<\s*/\s*(p|div|h[1-6]|li|tr|blockquote)\s*>`)
	spaceRun      = regexp.MustCompile(`[ \t\r\f\v]+`)

	stripPolicy = bluemonday.StrictPolicy()
	ugcPolicy   = bluemonday.UGCPolicy()
)

// TextLines reduces presentational markup to the lines drawn on the raster.
// Block and break tags end a line; every other tag is dropped.
func TextLines(markup string) []string {
	s := lineBreakTags.ReplaceAllString(markup, "\n")
	s = html.UnescapeString(stripPolicy.Sanitize(s))

	var lines []string
	blank := false
	for _, raw := range strings.Split(s, "\n") {
		line := strings.TrimSpace(spaceRun.ReplaceAllString(raw, " "))
		if line == "" {
			blank = len(lines) > 0
			continue
		}
		if blank {
			lines = append(lines, "")
			blank = false
		}
		lines = append(lines, line)
	}
	return lines
}

// SanitizeMarkup applies the user-generated-content policy. Template bodies are
// written by administrators and shown verbatim unless sanitizing is enabled.
func SanitizeMarkup(markup string) string {
	return ugcPolicy.Sanitize(markup)
}
