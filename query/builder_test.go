package query

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egor/backoffice/models"
)

var testSpec = Spec{
	Alias:       "x",
	From:        "things x",
	Select:      "x.id",
	OwnerColumn: "x.owner_id",
	Fields: map[string]Field{
		"search":   Search("x.name", "x.email"),
		"status":   Enum("x.status"),
		"minPrice": Min("x.price"),
		"maxPrice": Max("x.price"),
		"ownerId":  UUID("x.owner_id"),
	},
}

func TestBuildUnrestrictedNoFilters(t *testing.T) {
	data, count, page := Build(testSpec, models.Unrestricted(), nil)

	assert.Equal(t, "SELECT x.id FROM things x ORDER BY x.created_at DESC, x.id ASC LIMIT $1 OFFSET $2", data.SQL)
	assert.Equal(t, []any{10, 0}, data.Args)
	assert.Equal(t, "SELECT COUNT(*) FROM things x", count.SQL)
	assert.Empty(t, count.Args)
	assert.Equal(t, Pagination{Page: 1, Limit: 10}, page)
}

func TestBuildScopeLeadsAndFiltersAreSorted(t *testing.T) {
	owner := uuid.New()
	filters := Filters{
		"status":   "available",
		"search":   "50%",
		"minPrice": "100",
		"maxPrice": "not-a-number",
		"bogus":    "dropped",
		"page":     "3",
		"limit":    "5",
	}
	data, count, page := Build(testSpec, models.OwnedBy(owner), filters)

	wantWhere := " WHERE x.owner_id = $1 AND x.price >= $2 AND (x.name ILIKE $3 OR x.email ILIKE $3) AND x.status = $4"
	assert.Equal(t, "SELECT COUNT(*) FROM things x"+wantWhere, count.SQL)
	assert.Equal(t, []any{owner, 100.0, `%50\%%`, "AVAILABLE"}, count.Args)

	assert.True(t, strings.HasPrefix(data.SQL, "SELECT x.id FROM things x"+wantWhere))
	assert.True(t, strings.HasSuffix(data.SQL, "LIMIT $5 OFFSET $6"))
	assert.Equal(t, []any{owner, 100.0, `%50\%%`, "AVAILABLE", 5, 10}, data.Args)
	assert.Equal(t, Pagination{Page: 3, Limit: 5}, page)
}

func TestBuildScopeCannotBeWidenedByFilters(t *testing.T) {
	owner, other := uuid.New(), uuid.New()
	_, count, _ := Build(testSpec, models.OwnedBy(owner), Filters{"ownerId": other.String()})

	assert.Equal(t, "SELECT COUNT(*) FROM things x WHERE x.owner_id = $1 AND x.owner_id = $2", count.SQL)
	assert.Equal(t, []any{owner, other}, count.Args)
}

func TestBuildMalformedIDMatchesNothing(t *testing.T) {
	_, count, _ := Build(testSpec, models.Unrestricted(), Filters{"ownerId": "123"})
	assert.Equal(t, "SELECT COUNT(*) FROM things x WHERE FALSE", count.SQL)
}

func TestBuildIsDeterministic(t *testing.T) {
	filters := Filters{"status": "SOLD", "search": "a", "minPrice": "1", "maxPrice": "9"}
	first, firstCount, _ := Build(testSpec, models.Unrestricted(), filters)
	for i := 0; i < 20; i++ {
		data, count, _ := Build(testSpec, models.Unrestricted(), filters)
		require.Equal(t, first, data)
		require.Equal(t, firstCount, count)
	}
}

func TestParsePagination(t *testing.T) {
	cases := []struct {
		in   Filters
		want Pagination
	}{
		{Filters{}, Pagination{Page: 1, Limit: 10}},
		{Filters{"page": "0", "limit": "-1"}, Pagination{Page: 1, Limit: 10}},
		{Filters{"page": "x", "limit": "y"}, Pagination{Page: 1, Limit: 10}},
		{Filters{"page": "2", "limit": "25"}, Pagination{Page: 2, Limit: 25}},
		{Filters{"limit": "5000"}, Pagination{Page: 1, Limit: 100}},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ParsePagination(c.in))
	}
}

func TestWithTotal(t *testing.T) {
	p := Pagination{Page: 1, Limit: 10}
	assert.Equal(t, 0, p.WithTotal(0).Pages)
	assert.Equal(t, 1, p.WithTotal(10).Pages)
	assert.Equal(t, 3, p.WithTotal(21).Pages)
	assert.Equal(t, 20, Pagination{Page: 3, Limit: 10}.Offset())
}

func TestEntitySpecsShareWhereBetweenDataAndCount(t *testing.T) {
	for name, spec := range map[string]Spec{
		"clients": Clients, "properties": Properties, "transactions": Transactions, "users": Users,
	} {
		data, count, _ := Build(spec, models.OwnedBy(uuid.New()), Filters{"search": "a"})
		where := count.SQL[strings.Index(count.SQL, " WHERE "):]
		assert.Contains(t, data.SQL, where, name)
		assert.Equal(t, count.Args, data.Args[:len(count.Args)], name)
	}
}

func TestByID(t *testing.T) {
	owner, id := uuid.New(), uuid.New()

	scoped := ByID(testSpec, models.OwnedBy(owner), id)
	assert.Equal(t, "SELECT x.id FROM things x WHERE x.owner_id = $1 AND x.id = $2", scoped.SQL)
	assert.Equal(t, []any{owner, id}, scoped.Args)

	open := ByID(testSpec, models.Unrestricted(), id)
	assert.Equal(t, "SELECT x.id FROM things x WHERE x.id = $1", open.SQL)
	assert.Equal(t, []any{id}, open.Args)
}

func TestScopeWhere(t *testing.T) {
	owner := uuid.New()
	where, args := ScopeWhere("p.owner_id", models.OwnedBy(owner))
	assert.Equal(t, " WHERE p.owner_id = $1", where)
	assert.Equal(t, []any{owner}, args)

	where, args = ScopeWhere("p.owner_id", models.Unrestricted())
	assert.Empty(t, where)
	assert.Nil(t, args)
}
