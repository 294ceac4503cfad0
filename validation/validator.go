package validation

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/egor/backoffice/models"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	minYearBuilt = 1800
	maxYearBuilt = 2100
)

// ValidateCreate checks a sanitized create payload. Every missing required
// field and every malformed value is reported in one *models.ValidationError.
func ValidateCreate(e Entity, p Payload) error {
	var violations []models.Violation
	for _, f := range fields[e] {
		v, ok := p[f.name]
		if f.required && (!ok || isBlank(v)) {
			violations = append(violations, models.Violation{Field: f.name, Message: "is required"})
			continue
		}
		if !ok || v == nil {
			continue
		}
		if msg := check(f, v); msg != "" {
			violations = append(violations, models.Violation{Field: f.name, Message: msg})
		}
	}
	return result(violations)
}

// ValidateUpdate checks only the fields present in a sanitized patch.
// Required fields may not be blanked; optional free text may be set to ""
// which callers treat as an explicit null.
func ValidateUpdate(e Entity, p Payload) error {
	var violations []models.Violation
	for _, f := range fields[e] {
		v, ok := p[f.name]
		if !ok {
			continue
		}
		if isBlank(v) {
			if f.required || f.kind == kindEnum {
				violations = append(violations, models.Violation{Field: f.name, Message: "cannot be empty"})
			}
			continue
		}
		if msg := check(f, v); msg != "" {
			violations = append(violations, models.Violation{Field: f.name, Message: msg})
		}
	}
	return result(violations)
}

func result(violations []models.Violation) error {
	if len(violations) == 0 {
		return nil
	}
	return &models.ValidationError{Violations: violations}
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

func check(f field, v any) string {
	switch f.kind {
	case kindText, kindOptionalText:
		if _, ok := v.(string); !ok {
			return "must be a string"
		}
	case kindEmail:
		s, ok := v.(string)
		if !ok || !emailPattern.MatchString(s) {
			return "must be a valid email address"
		}
	case kindPassword:
		s, ok := v.(string)
		if !ok || len(s) < minPasswordLength {
			return "must be at least 6 characters"
		}
	case kindMoney, kindDecimal:
		n, ok := toFloat(v)
		if !ok || !finite(n) || n < 0 {
			return "must be a non-negative number"
		}
		return overMax(f, n)
	case kindAmount:
		n, ok := toFloat(v)
		if !ok || !finite(n) || n <= 0 {
			return "must be a positive number"
		}
		if n > models.MaxTransactionAmount {
			return "must not exceed 999999999.99"
		}
	case kindCount:
		n, ok := toFloat(v)
		if !ok || !finite(n) || n < 0 || n != math.Trunc(n) {
			return "must be a non-negative integer"
		}
		return overMax(f, n)
	case kindYear:
		n, ok := toFloat(v)
		if !ok || n != math.Trunc(n) || n < minYearBuilt || n > maxYearBuilt {
			return "must be a year between 1800 and 2100"
		}
	case kindEnum:
		s, ok := v.(string)
		if !ok || !contains(f.values, s) {
			return "must be one of " + strings.Join(f.values, ", ")
		}
	case kindStringList:
		list, ok := v.([]any)
		if !ok {
			return "must be a list of strings"
		}
		for _, item := range list {
			if _, ok := item.(string); !ok {
				return "must be a list of strings"
			}
		}
	case kindUUID:
		s, ok := v.(string)
		if !ok {
			return "must be a valid id"
		}
		if _, err := uuid.Parse(s); err != nil {
			return "must be a valid id"
		}
	case kindJSON:
		switch v.(type) {
		case map[string]any, []any:
		default:
			return "must be an object or a list"
		}
	}
	return ""
}

func finite(n float64) bool {
	return !math.IsNaN(n) && !math.IsInf(n, 0)
}

func overMax(f field, n float64) string {
	if f.max > 0 && n > f.max {
		return "must not exceed " + strconv.FormatFloat(f.max, 'f', -1, 64)
	}
	return ""
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
