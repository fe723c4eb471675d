package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// StringList is an ordered list of strings persisted in a single TEXT column.
// The canonical on-disk form is a JSON array; legacy rows may hold a plain
// comma-separated string instead. Scan accepts both: a value that fails to
// parse as JSON is split on commas. This is the single parse point for
// image lists, tag lists and zone city lists.
type StringList []string

func (l *StringList) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("stringlist: cannot scan %T", src)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		*l = nil
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err == nil {
		*l = out
		return nil
	}
	// Legacy delimited form, or malformed JSON: degrade to splitting.
	parts := strings.Split(raw, ",")
	out = out[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	*l = out
	return nil
}

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// ContainsFold reports whether s matches any element, case-insensitively,
// by exact membership or substring in either direction. Zone city lists use
// this so that "Thành phố Huế" still matches a zone listing "Huế".
func (l StringList) ContainsFold(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return false
	}
	for _, e := range l {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if e == s || strings.Contains(s, e) || strings.Contains(e, s) {
			return true
		}
	}
	return false
}
