package domain

import "strings"

// NormalizeHumanName trims leading/trailing whitespace and collapses internal whitespace runs.
// It is used for group and member name normalization.
func NormalizeHumanName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizePhone strips whitespace and common separators so that "+254 712-345 678" and
// "+254712345678" compare equal. The result is the natural key for external members in a group.
func NormalizePhone(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.TrimSpace(s) {
		switch r {
		case ' ', '\t', '-', '.', '(', ')':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeTitles lower-cases and trims role titles, dropping empties and repeats.
// Order of first occurrence is preserved; nil in, nil out.
func NormalizeTitles(titles []string) []string {
	if titles == nil {
		return nil
	}
	out := make([]string, 0, len(titles))
	seen := make(map[string]struct{}, len(titles))
	for _, t := range titles {
		t = strings.ToLower(NormalizeHumanName(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
