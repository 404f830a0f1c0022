package internal

import "time"

// DefaultDateFormats is the ordered list of accepted date layouts: ISO 8601
// with time first, plain date second. Configurable via DateFormats.
var DefaultDateFormats = []string{
	"2006-01-02T15:04:05Z",
	"2006-01-02",
}

// ParseDate parses a raw date value against the ordered layouts, returning
// the first successful parse. No timezone conversion is performed; values are
// treated as naive dates. label identifies the field in error messages.
func ParseDate(raw any, label string, layouts []string) (time.Time, error) {
	s, ok := raw.(string)
	if !ok {
		return time.Time{}, &InvalidDateError{Label: label, Raw: raw}
	}
	if len(layouts) == 0 {
		layouts = DefaultDateFormats
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &InvalidDateError{Label: label, Raw: raw, Unrecognized: true}
}
