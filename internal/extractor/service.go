package extractor

import (
	"regexp"
	"strings"

	"talentscout-bot/internal/candidate"
)

var (
	emailPattern    = regexp.MustCompile(`[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+(?:\.[a-zA-Z0-9-]+)+`)
	phonePattern    = regexp.MustCompile(`\+?\d{7,15}`)
	yearsPattern    = regexp.MustCompile(`(?i)(\d+)\s*(?:years?|yrs?)\b(?:\s*of\s*experience)?`)
	namePattern     = regexp.MustCompile(`(?i)full\s*name\s*[:\-]\s*(.+)`)
	positionPattern = regexp.MustCompile(`(?i)(?:position|role)\s*[:\-]\s*(.+)`)
	locationPattern = regexp.MustCompile(`(?i)(?:location|city)\s*[:\-]\s*(.+)`)
	techPattern     = regexp.MustCompile(`(?i)tech\s*stack\s*[:\-]\s*(.+)`)
)

// Extract pulls whatever candidate fields it can recognize out of free text.
// Fields it cannot find are left empty; it never fails. Consent is never inferred.
func Extract(text string) candidate.Draft {
	var out candidate.Draft

	if m := emailPattern.FindString(text); m != "" {
		out.Email = m
	}
	if m := phonePattern.FindString(text); m != "" {
		out.Phone = m
	}
	if m := yearsPattern.FindStringSubmatch(text); m != nil {
		out.YearsExperience = m[1]
	}
	out.FullName = labelValue(namePattern, text)
	out.DesiredPosition = labelValue(positionPattern, text)
	out.CurrentLocation = labelValue(locationPattern, text)
	if v := labelValue(techPattern, text); v != "" {
		out.TechStack = NormalizeTechStack(v)
	}

	return out
}

// labelValue returns the rest of the line after a label, trimmed.
func labelValue(pattern *regexp.Regexp, text string) string {
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
