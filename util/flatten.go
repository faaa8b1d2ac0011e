package util

import (
	"regexp"
	"strings"
)

// Regex patterns for the markdown constructs folio posts may contain.
var (
	headerRe   = regexp.MustCompile(`#{1,6}[ \t]*`)
	boldRe     = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicRe   = regexp.MustCompile(`_([^_]+)_`)
	wikilinkRe = regexp.MustCompile(`\[\[([^\]]+)\]\]`)
	mdLinkRe   = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	spaceRe    = regexp.MustCompile(`\s+`)
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// Flatten reduces a post body written in markdown to escaped plain text for
// federation output. The transform is lossy and one-way; the platform's own
// UI renders markdown elsewhere. Rule order matters: escaping runs last, on
// text the earlier rules have already resolved.
func Flatten(markdown string) string {
	text := headerRe.ReplaceAllString(markdown, "")
	text = boldRe.ReplaceAllString(text, "$1")
	text = italicRe.ReplaceAllString(text, "$1")

	// Wikilinks [[target]] or [[target|alias]] resolve to the alias when
	// present, the raw target otherwise.
	text = wikilinkRe.ReplaceAllStringFunc(text, func(match string) string {
		inner := wikilinkRe.FindStringSubmatch(match)[1]
		if _, alias, ok := strings.Cut(inner, "|"); ok {
			return alias
		}
		return inner
	})

	text = mdLinkRe.ReplaceAllString(text, "$1")

	text = strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))

	return htmlEscaper.Replace(text)
}
