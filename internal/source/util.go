package source

import "github.com/priyamv/jobhub/internal/model"

// orPlaceholder substitutes the "N/A" placeholder for empty vendor fields.
func orPlaceholder(s string) string {
	if s == "" {
		return model.Placeholder
	}
	return s
}

// firstNonEmpty returns the first non-empty string, or "".
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
