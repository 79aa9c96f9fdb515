// Package certificate turns a participant, an event and a template into a
// rendered certificate: placeholder substitution, template resolution,
// raster composition and PDF export.
package certificate

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/farellandr/certportal/internal/domain"
)

const (
	PlaceholderParticipantName = "{{PARTICIPANT_NAME}}"
	PlaceholderEventName       = "{{EVENT_NAME}}"
	PlaceholderDate            = "{{DATE}}"
	PlaceholderVar1            = "{{VAR1}}"
	PlaceholderVar2            = "{{VAR2}}"
	PlaceholderVar3            = "{{VAR3}}"
)

// Placeholders lists every token Substitute recognizes.
func Placeholders() []string {
	return []string{
		PlaceholderParticipantName,
		PlaceholderEventName,
		PlaceholderDate,
		PlaceholderVar1,
		PlaceholderVar2,
		PlaceholderVar3,
	}
}

// Substitute replaces every recognized placeholder in text with the matching
// participant or event field. Unset fields become empty strings and all other
// bytes, markup included, are copied through. Replacement is a single pass, so
// values are never rescanned for placeholders.
func Substitute(text string, p domain.Participant, e domain.Event, locale language.Tag) string {
	var date string
	if !e.Date.IsZero() {
		date = FormatDate(e.Date, locale)
	}

	r := strings.NewReplacer(
		PlaceholderParticipantName, p.Name,
		PlaceholderEventName, e.Name,
		PlaceholderDate, date,
		PlaceholderVar1, p.Var1,
		PlaceholderVar2, p.Var2,
		PlaceholderVar3, p.Var3,
	)
	return r.Replace(text)
}
