package candidate

import "strings"

// Missing returns the required fields that are empty, in RequiredFields order.
// A whitespace-only value counts as empty; so does a tech stack without a
// single non-blank entry.
func Missing(d Draft) []string {
	missing := []string{}
	for _, field := range RequiredFields {
		if field == FieldTechStack {
			if !hasEntry(d.TechStack) {
				missing = append(missing, field)
			}
			continue
		}
		if strings.TrimSpace(d.Value(field)) == "" {
			missing = append(missing, field)
		}
	}
	return missing
}

func hasEntry(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}
