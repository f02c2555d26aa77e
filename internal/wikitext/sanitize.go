// Package wikitext reduces MediaWiki markup to plain text and pulls the
// representative field out of company infoboxes.
//
// Nothing in this package returns an error or panics: malformed or unbalanced
// markup degrades to whatever plain text can be recovered.
package wikitext

import (
	"regexp"
	"strings"
)

var (
	selfClosingRefPattern = regexp.MustCompile(`(?i)<ref[^>]*/>`)
	refPattern            = regexp.MustCompile(`(?is)<ref[^>]*>.*?</ref>`)
	brTagPattern          = regexp.MustCompile(`(?i)<br\s*/?\s*>`)
	brTemplatePattern     = regexp.MustCompile(`(?i)\{\{br\}\}`)

	plainListStartPattern  = regexp.MustCompile(`(?i)\{\{\s*plain\s*list`)
	plainListHeadPattern   = regexp.MustCompile(`(?i)^\{\{\s*plain\s*list`)
	plainListTailPattern   = regexp.MustCompile(`\}\}\s*$`)
	plainListIndexPattern  = regexp.MustCompile(`(?i)^\s*1\s*=\s*`)
	plainListBulletPattern = regexp.MustCompile(`^\s*[*•\-]\s*`)
	plainListParamPattern  = regexp.MustCompile(`^[a-z0-9_-]+\s*=`)

	langTemplatePattern   = regexp.MustCompile(`(?i)\{\{lang\|[^|]+\|([^}]+)\}\}`)
	nowrapTemplatePattern = regexp.MustCompile(`(?i)\{\{nowrap\|([^}]+)\}\}`)
	rubyTemplatePattern   = regexp.MustCompile(`(?i)\{\{ruby\|([^|]+)\|[^}]+\}\}`)
	innermostTemplate     = regexp.MustCompile(`\{\{[^{}]*\}\}`)

	wikiLinkPattern      = regexp.MustCompile(`\[\[(?:[^|\]]+\|)?([^\]]+)\]\]`)
	emphasisPattern      = regexp.MustCompile(`''+`)
	tabPattern           = regexp.MustCompile(`\t+`)
	trailingSpacePattern = regexp.MustCompile(`[\s\p{Zs}]+\n`)
	newlineRunPattern    = regexp.MustCompile(`\n+`)

	lineBulletPattern = regexp.MustCompile(`(?m)^[\s\p{Zs}]*[*•\-][\s\p{Zs}]*`)
	whitespacePattern = regexp.MustCompile(`[\s\p{Zs}]+`)
)

// StripMarkup removes references, templates, links and emphasis from s.
// Plain-list templates become newline-separated items. Nested templates are
// removed inside-out until none remain.
func StripMarkup(s string) string {
	result := selfClosingRefPattern.ReplaceAllString(s, "")
	result = refPattern.ReplaceAllString(result, "")
	result = brTagPattern.ReplaceAllString(result, "\n")
	result = brTemplatePattern.ReplaceAllString(result, "\n")

	result = expandPlainLists(result)

	result = langTemplatePattern.ReplaceAllString(result, "${1}")
	result = nowrapTemplatePattern.ReplaceAllString(result, "${1}")
	result = rubyTemplatePattern.ReplaceAllString(result, "${1}")

	for {
		next := innermostTemplate.ReplaceAllString(result, "")
		if next == result {
			break
		}
		result = next
	}

	result = wikiLinkPattern.ReplaceAllString(result, "${1}")
	result = emphasisPattern.ReplaceAllString(result, "")
	result = strings.ReplaceAll(result, "&nbsp;", " ")
	result = tabPattern.ReplaceAllString(result, " ")
	result = trailingSpacePattern.ReplaceAllString(result, "\n")
	result = newlineRunPattern.ReplaceAllString(result, "\n")
	return strings.TrimSpace(result)
}

// SanitizeValue strips markup and bullets and collapses all whitespace to
// single spaces. ok is false when nothing is left.
func SanitizeValue(s string) (string, bool) {
	cleaned := StripMarkup(s)
	cleaned = lineBulletPattern.ReplaceAllString(cleaned, "")
	cleaned = whitespacePattern.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)
	return cleaned, cleaned != ""
}

// Sanitize is SanitizeValue without the ok flag.
func Sanitize(s string) string {
	v, _ := SanitizeValue(s)
	return v
}

// expandPlainLists replaces every {{Plain list|...}} with its items joined by
// newlines. Bodies may contain nested templates, so the closing braces are
// found by counting depth rather than by regex. An unterminated template stops
// expansion and the remainder is kept verbatim.
func expandPlainLists(value string) string {
	var b strings.Builder
	last := 0
	for {
		loc := plainListStartPattern.FindStringIndex(value[last:])
		if loc == nil {
			break
		}
		start := last + loc[0]
		end := matchTemplateEnd(value, start)
		if end < 0 {
			break
		}
		b.WriteString(value[last:start])
		b.WriteString(normalizePlainList(value[start:end]))
		last = end
	}
	b.WriteString(value[last:])
	return b.String()
}

// matchTemplateEnd returns the index just past the "}}" that closes the
// template opened at start, or -1 when it is never closed.
func matchTemplateEnd(value string, start int) int {
	depth := 0
	for i := start; i < len(value)-1; {
		switch {
		case value[i] == '{' && value[i+1] == '{':
			depth++
			i += 2
		case value[i] == '}' && value[i+1] == '}':
			depth--
			i += 2
			if depth == 0 {
				return i
			}
		default:
			i++
		}
	}
	return -1
}

func normalizePlainList(template string) string {
	content := plainListHeadPattern.ReplaceAllString(template, "")
	content = plainListTailPattern.ReplaceAllString(content, "")
	content = strings.TrimPrefix(content, "|")
	content = plainListIndexPattern.ReplaceAllString(content, "")

	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	items := make([]string, 0, len(lines))
	for _, line := range lines {
		item := strings.TrimSpace(plainListBulletPattern.ReplaceAllString(line, ""))
		if item == "" || plainListParamPattern.MatchString(item) {
			continue
		}
		items = append(items, item)
	}
	return strings.Join(items, "\n")
}
