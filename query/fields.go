package query

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Field builds one predicate from a non-empty filter value. bind registers an
// argument and returns its placeholder. ok=false drops the filter.
type Field func(value string, bind func(any) string) (pred string, ok bool)

// Search matches value as a case-insensitive substring of any column.
func Search(columns ...string) Field {
	return func(value string, bind func(any) string) (string, bool) {
		ph := bind("%" + escapeLike(value) + "%")
		parts := make([]string, 0, len(columns))
		for _, c := range columns {
			parts = append(parts, c+" ILIKE "+ph)
		}
		return "(" + strings.Join(parts, " OR ") + ")", true
	}
}

// Exact compares column for equality.
func Exact(column string) Field {
	return func(value string, bind func(any) string) (string, bool) {
		return column + " = " + bind(value), true
	}
}

// Enum is Exact on an upper-case vocabulary column.
func Enum(column string) Field {
	return func(value string, bind func(any) string) (string, bool) {
		return column + " = " + bind(strings.ToUpper(value)), true
	}
}

// UUID compares an id column. A malformed id can match nothing.
func UUID(column string) Field {
	return func(value string, bind func(any) string) (string, bool) {
		id, err := uuid.Parse(value)
		if err != nil {
			return "FALSE", true
		}
		return column + " = " + bind(id), true
	}
}

// Min is an inclusive lower bound. Non-numeric values are dropped.
func Min(column string) Field {
	return bound(column, ">=")
}

// Max is an inclusive upper bound. Non-numeric values are dropped.
func Max(column string) Field {
	return bound(column, "<=")
}

func bound(column, op string) Field {
	return func(value string, bind func(any) string) (string, bool) {
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return "", false
		}
		return column + " " + op + " " + bind(n), true
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
