// Package query turns caller filters, a visibility scope and pagination input
// into a parameterized data query and a matching count query.
package query

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/egor/backoffice/models"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Filters are raw caller-supplied filter values, typically the URL query.
type Filters map[string]string

// Query is SQL text plus its positional ($n) arguments.
type Query struct {
	SQL  string
	Args []any
}

// Pagination is the resolved page window and, once counted, the totals.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

func (p Pagination) Offset() int { return (p.Page - 1) * p.Limit }

// WithTotal fills Total and Pages = ceil(total/limit).
func (p Pagination) WithTotal(total int) Pagination {
	p.Total = total
	p.Pages = 0
	if p.Limit > 0 {
		p.Pages = int(math.Ceil(float64(total) / float64(p.Limit)))
	}
	return p
}

// Spec declares how one entity is queried.
type Spec struct {
	// Alias of the main table, used to qualify the owner, created_at and id columns.
	Alias string
	// From is the FROM clause body including joins, shared by data and count queries.
	From string
	// Select is the column list of the data query.
	Select string
	// OwnerColumn holds the owning user id of a row.
	OwnerColumn string
	// Fields maps accepted filter keys to predicate builders.
	Fields map[string]Field
}

type builder struct {
	where []string
	args  []any
}

func (b *builder) bind(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

// Build produces the data query, the count query and the resolved pagination.
// Unknown filter keys and blank values are ignored. When scope is restricted
// the ownership predicate always comes first.
func Build(spec Spec, scope models.Scope, filters Filters) (Query, Query, Pagination) {
	page := ParsePagination(filters)

	b := &builder{}
	if owner, restricted := scope.Owner(); restricted {
		b.where = append(b.where, fmt.Sprintf("%s = %s", spec.OwnerColumn, b.bind(owner)))
	}

	keys := make([]string, 0, len(filters))
	for k := range filters {
		if _, ok := spec.Fields[k]; ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		value := strings.TrimSpace(filters[k])
		if value == "" {
			continue
		}
		if pred, ok := spec.Fields[k](value, b.bind); ok {
			b.where = append(b.where, pred)
		}
	}

	where := ""
	if len(b.where) > 0 {
		where = " WHERE " + strings.Join(b.where, " AND ")
	}

	countArgs := append([]any(nil), b.args...)
	count := Query{
		SQL:  "SELECT COUNT(*) FROM " + spec.From + where,
		Args: countArgs,
	}

	order := fmt.Sprintf(" ORDER BY %[1]s.created_at DESC, %[1]s.id ASC", spec.Alias)
	limit := b.bind(page.Limit)
	offset := b.bind(page.Offset())
	data := Query{
		SQL:  "SELECT " + spec.Select + " FROM " + spec.From + where + order + " LIMIT " + limit + " OFFSET " + offset,
		Args: b.args,
	}
	return data, count, page
}

// ParsePagination reads page and limit, falling back to page 1 and
// DefaultLimit on missing or invalid input. Limit is capped at MaxLimit.
func ParsePagination(filters Filters) Pagination {
	page, err := strconv.Atoi(strings.TrimSpace(filters["page"]))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(strings.TrimSpace(filters["limit"]))
	if err != nil || limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Pagination{Page: page, Limit: limit}
}

// ByID selects a single row by id, still behind the scope predicate, so an
// out-of-scope row looks exactly like a missing one.
func ByID(spec Spec, scope models.Scope, id any) Query {
	b := &builder{}
	if owner, restricted := scope.Owner(); restricted {
		b.where = append(b.where, fmt.Sprintf("%s = %s", spec.OwnerColumn, b.bind(owner)))
	}
	b.where = append(b.where, fmt.Sprintf("%s.id = %s", spec.Alias, b.bind(id)))
	return Query{
		SQL:  "SELECT " + spec.Select + " FROM " + spec.From + " WHERE " + strings.Join(b.where, " AND "),
		Args: b.args,
	}
}

// ScopeWhere renders the ownership predicate alone, for aggregate queries.
// It returns an empty clause for unrestricted scopes.
func ScopeWhere(column string, scope models.Scope) (string, []any) {
	owner, restricted := scope.Owner()
	if !restricted {
		return "", nil
	}
	return " WHERE " + column + " = $1", []any{owner}
}
