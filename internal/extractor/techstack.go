package extractor

import (
	"regexp"
	"strings"
)

var techSeparator = regexp.MustCompile(`(?i)[,\n/|]+|\sand\s`)

// NormalizeTechStack splits a tech stack line on commas, slashes, pipes,
// newlines and the word "and", keeping order and dropping blank entries.
// Duplicates are kept.
func NormalizeTechStack(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var out []string
	for _, part := range techSeparator.Split(text, -1) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
