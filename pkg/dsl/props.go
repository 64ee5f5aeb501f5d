package dsl

import "strings"

// Props holds the recognised entries of a bracketed property list. A nil
// field means the key was absent; a non-nil empty string means it was
// given with an empty value.
type Props struct {
	Icon  *string
	Label *string
}

// ParseProps parses the inside of a property list such as
// `icon: "db", label: "Orders, EU"`.
//
// The list is split on commas outside double quotes; a quote preceded by a
// backslash does not open or close a quoted segment. Each part is split on
// its first colon, the key and value are trimmed, and surrounding double
// quotes are stripped from the value. Parts without a colon and keys other
// than icon and label are ignored. Later duplicates override earlier ones.
func ParseProps(inside string) Props {
	var p Props
	for _, part := range splitTopLevel(inside) {
		key, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		value = strings.Trim(strings.TrimSpace(value), `"`)
		switch strings.TrimSpace(key) {
		case "icon":
			p.Icon = &value
		case "label":
			p.Label = &value
		}
	}
	return p
}

// splitTopLevel splits s on commas that are not inside a double-quoted
// segment. Empty parts are dropped.
func splitTopLevel(s string) []string {
	var (
		parts   []string
		buf     []rune
		inQuote bool
	)
	emit := func() {
		if part := strings.TrimSpace(string(buf)); part != "" {
			parts = append(parts, part)
		}
		buf = buf[:0]
	}

	for _, r := range s {
		switch {
		case r == '"' && (len(buf) == 0 || buf[len(buf)-1] != '\\'):
			inQuote = !inQuote
		case r == ',' && !inQuote:
			emit()
			continue
		}
		buf = append(buf, r)
	}
	emit()

	return parts
}

func (p Props) icon() string {
	if p.Icon == nil {
		return ""
	}
	return *p.Icon
}

// label returns the label property, or fallback when the key was absent.
func (p Props) label(fallback string) string {
	if p.Label == nil {
		return fallback
	}
	return *p.Label
}
