package validation

import (
	"strconv"
	"strings"
)

// Sanitize returns a cleaned copy of p: undeclared keys are dropped, strings
// are trimmed, emails lower-cased, enums upper-cased and numeric strings
// coerced to float64. It never fails; bad values are left for Validate.
func Sanitize(e Entity, p Payload) Payload {
	out := make(Payload, len(p))
	for _, f := range fields[e] {
		v, ok := p[f.name]
		if !ok {
			continue
		}
		out[f.name] = sanitizeValue(f, v)
	}
	return out
}

// ApplyDefaults fills optional fields that have an initial value, such as a
// property's AVAILABLE status. Present fields are never overwritten.
func ApplyDefaults(e Entity, p Payload) Payload {
	out := p.Clone()
	for _, f := range fields[e] {
		if f.fallback == nil {
			continue
		}
		if v, ok := out[f.name]; ok && v != nil {
			continue
		}
		out[f.name] = f.fallback
	}
	return out
}

func sanitizeValue(f field, v any) any {
	s, isString := v.(string)
	switch f.kind {
	case kindPassword:
		return v
	case kindEmail:
		if isString {
			return strings.ToLower(strings.TrimSpace(s))
		}
	case kindEnum:
		if isString {
			return strings.ToUpper(strings.TrimSpace(s))
		}
	case kindMoney, kindAmount, kindCount, kindDecimal, kindYear:
		if isString {
			trimmed := strings.TrimSpace(s)
			if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
				return n
			}
			return trimmed
		}
		if n, ok := toFloat(v); ok {
			return n
		}
	case kindStringList:
		if list, ok := v.([]string); ok {
			items := make([]any, 0, len(list))
			for _, item := range list {
				items = append(items, strings.TrimSpace(item))
			}
			return items
		}
		if list, ok := v.([]any); ok {
			items := make([]any, 0, len(list))
			for _, item := range list {
				if is, ok := item.(string); ok {
					items = append(items, strings.TrimSpace(is))
					continue
				}
				items = append(items, item)
			}
			return items
		}
	default:
		if isString {
			return strings.TrimSpace(s)
		}
	}
	return v
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
