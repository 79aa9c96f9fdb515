package certificate

import (
	"time"

	"golang.org/x/text/language"
)

type localeLayout struct {
	tag    language.Tag
	layout string
}

// The first entry is the fallback when nothing matches.
var localeLayouts = []localeLayout{
	{language.BrazilianPortuguese, "02/01/2006"},
	{language.AmericanEnglish, "1/2/2006"},
	{language.BritishEnglish, "02/01/2006"},
	{language.German, "02.01.2006"},
	{language.French, "02/01/2006"},
	{language.Spanish, "02/01/2006"},
	{language.Italian, "02/01/2006"},
	{language.Japanese, "2006/01/02"},
	{language.Chinese, "2006/01/02"},
}

var localeMatcher = func() language.Matcher {
	tags := make([]language.Tag, len(localeLayouts))
	for i, l := range localeLayouts {
		tags[i] = l.tag
	}
	return language.NewMatcher(tags)
}()

// DefaultLocale is used when the configured locale cannot be parsed.
var DefaultLocale = language.BrazilianPortuguese

// ParseLocale maps a BCP 47 string onto the closest supported locale.
func ParseLocale(s string) language.Tag {
	tag, err := language.Parse(s)
	if err != nil {
		return DefaultLocale
	}
	_, idx, conf := localeMatcher.Match(tag)
	if conf == language.No {
		return DefaultLocale
	}
	return localeLayouts[idx].tag
}

// FormatDate renders t as a short calendar date for locale. Event dates are
// calendar days, so the UTC date is used as-is.
func FormatDate(t time.Time, locale language.Tag) string {
	_, idx, _ := localeMatcher.Match(locale)
	return t.UTC().Format(localeLayouts[idx].layout)
}
