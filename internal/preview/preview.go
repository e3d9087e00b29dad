// Package preview turns memo markdown into the short plain-text excerpts and
// relative timestamps shown in memo lists.
package preview

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/go-ports/memoapp/internal/i18n"
)

// CharLimit is the maximum excerpt length in characters, ellipsis excluded.
const CharLimit = 220

// Ellipsis is appended to truncated excerpts.
const Ellipsis = "…"

// markupPatterns are applied in order; each match is replaced by a space.
var markupPatterns = []*regexp.Regexp{
	regexp.MustCompile("(?s)```.*?```"),      // fenced code blocks
	regexp.MustCompile(`!\[[^\]]*]\([^)]*\)`), // images
	regexp.MustCompile(`\[[^\]]*]\([^)]*\)`),  // links, text included
	regexp.MustCompile("[#>*_`~-]+"),          // inline markup characters
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// Text strips markdown from content, collapses whitespace and truncates the
// result to CharLimit characters.
func Text(content string) string {
	for _, re := range markupPatterns {
		content = re.ReplaceAllString(content, " ")
	}
	content = strings.TrimSpace(whitespaceRe.ReplaceAllString(content, " "))

	runes := []rune(content)
	if len(runes) > CharLimit {
		return string(runes[:CharLimit]) + Ellipsis
	}
	return content
}

// TextOrPlaceholder returns Text(content), or the localized "no content"
// placeholder when nothing is left.
func TextOrPlaceholder(l i18n.Locale, content string) string {
	if s := Text(content); s != "" {
		return s
	}
	return i18n.T(l, i18n.PreviewEmpty)
}

// RelativeTime describes how long ago t was, relative to now, in locale l.
// Units step from minutes to hours at 60, to days at 24, to months at 30
// days and to years at 12 months. Future times read as "just now".
func RelativeTime(l i18n.Locale, t, now time.Time) string {
	elapsed := max(now.Sub(t), 0)

	minutes := round(elapsed.Minutes())
	if minutes < 60 {
		if minutes == 0 {
			return i18n.T(l, i18n.RelativeNow)
		}
		return i18n.T(l, i18n.RelativeMinutesAgo, minutes)
	}
	hours := round(elapsed.Hours())
	if hours < 24 {
		return i18n.T(l, i18n.RelativeHoursAgo, hours)
	}
	days := round(elapsed.Hours() / 24)
	if days < 30 {
		return i18n.T(l, i18n.RelativeDaysAgo, days)
	}
	months := round(float64(days) / 30)
	if months < 12 {
		return i18n.T(l, i18n.RelativeMonthsAgo, months)
	}
	return i18n.T(l, i18n.RelativeYearsAgo, round(float64(months)/12))
}

func round(f float64) int {
	return int(math.Round(f))
}
