package wikitext

import (
	"regexp"
	"strings"

	"github.com/bobmcallan/aide-portal/internal/models"
)

// representativeKeys are the infobox parameter fragments that hold the
// company representative. A parameter matches when its name contains any of them.
var representativeKeys = []string{
	"代表者",
	"代表者1",
	"代表者名",
	"代表",
	"代表取締役",
	"CEO",
	"代表取締役社長",
}

var (
	infoboxLinePattern  = regexp.MustCompile(`^\|\s*([^=]+?)\s*=\s*(.+)$`)
	lineSplitPattern    = regexp.MustCompile(`\r?\n`)
	segmentSplitPattern = regexp.MustCompile(`\n|、|，|；|;`)
	parenRolePattern    = regexp.MustCompile(`^(.+?)（(.+?)）$`)
	spacedRolePattern   = regexp.MustCompile(`^(.+)[\s　]+([^\s　]+)$`)
	roleWordPattern     = regexp.MustCompile(`代表|CEO|社長|会長`)
)

// ExtractRepresentative scans raw infobox wikitext for the first
// representative parameter and splits its value into name and title.
// Recognized value shapes are "name（title）", "title name" and a bare name.
// ok is false when no parameter matches or every candidate sanitizes to empty.
func ExtractRepresentative(wikitext string) (models.Officer, bool) {
	var candidates []models.Officer

	for _, rawLine := range lineSplitPattern.Split(wikitext, -1) {
		line := strings.TrimSpace(rawLine)
		if !strings.HasPrefix(line, "|") {
			continue
		}
		m := infoboxLinePattern.FindStringSubmatch(line)
		if m == nil || !isRepresentativeKey(strings.TrimSpace(m[1])) {
			continue
		}
		value := StripMarkup(m[2])
		if value == "" {
			continue
		}

		for _, part := range segmentSplitPattern.Split(value, -1) {
			segment := strings.TrimSpace(part)
			if segment == "" {
				continue
			}
			candidates = append(candidates, splitSegment(segment))
		}
		if len(candidates) > 0 {
			break
		}
	}

	var titled models.Officer
	for _, c := range candidates {
		name, _ := SanitizeValue(c.Name)
		title, _ := SanitizeValue(c.Title)
		if name != "" {
			return models.Officer{Name: name, Title: title}, true
		}
		if title != "" && titled.Title == "" {
			titled = models.Officer{Title: title}
		}
	}
	if titled.Title != "" {
		return titled, true
	}
	return models.Officer{}, false
}

// ComposeRepresentative formats a name and title as "name（title）".
// A missing half yields the other alone; both missing yields "".
func ComposeRepresentative(name, title string) string {
	name, _ = SanitizeValue(name)
	title, _ = SanitizeValue(title)
	switch {
	case name != "" && title != "":
		return name + "（" + title + "）"
	case name != "":
		return name
	default:
		return title
	}
}

func isRepresentativeKey(key string) bool {
	for _, k := range representativeKeys {
		if strings.Contains(key, k) {
			return true
		}
	}
	return false
}

func splitSegment(segment string) models.Officer {
	if m := parenRolePattern.FindStringSubmatch(segment); m != nil {
		return models.Officer{Name: strings.TrimSpace(m[1]), Title: strings.TrimSpace(m[2])}
	}
	// "Name Title": the last token carries the role keyword.
	if m := spacedRolePattern.FindStringSubmatch(segment); m != nil && roleWordPattern.MatchString(m[2]) {
		return models.Officer{Name: strings.TrimSpace(m[1]), Title: strings.TrimSpace(m[2])}
	}
	return models.Officer{Name: segment}
}
