package store

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"databazar/internal/dataset"
)

func TestBuildPageQuery_NoFilters(t *testing.T) {
	query, args := buildPageQuery(dataset.Filter{}, 0, 1000)

	assert.NotContains(t, query, "WHERE")
	assert.Contains(t, query, "INNER JOIN dsex_mapper AS m ON m.trading_code = p.trading_code")
	assert.Contains(t, query, "ORDER BY p.date DESC, p.trading_code ASC")
	assert.Contains(t, query, "LIMIT $1")
	assert.Contains(t, query, "OFFSET $2")
	assert.Equal(t, []interface{}{uint(1000), uint(0)}, args)
}

func TestBuildPageQuery_AllFilters(t *testing.T) {
	f := dataset.Filter{
		Sector:      "Pharmaceuticals",
		TradingCode: "SQURPHARMA",
		StartDate:   "2023-01-01",
		EndDate:     "2023-01-31",
	}
	query, args := buildPageQuery(f, 2000, 1000)

	assert.Contains(t, query, "m.sector = $1")
	assert.Contains(t, query, "m.trading_code = $2")
	assert.Contains(t, query, "p.date >= $3")
	assert.Contains(t, query, "p.date <= $4")
	assert.Contains(t, query, "LIMIT $5")
	assert.Contains(t, query, "OFFSET $6")
	assert.Equal(t, []interface{}{
		"Pharmaceuticals", "SQURPHARMA", "2023-01-01", "2023-01-31", uint(1000), uint(2000),
	}, args)
}

func TestBuildPageQuery_PartialFilters(t *testing.T) {
	f := dataset.Filter{StartDate: "2023-01-01"}
	query, args := buildPageQuery(f, 0, 3)

	assert.Contains(t, query, "WHERE p.date >= $1")
	assert.NotContains(t, query, "m.sector =")
	assert.Equal(t, []interface{}{"2023-01-01", uint(3), uint(0)}, args)
}

func TestBuildPageQuery_FieldsDoNotAffectQuery(t *testing.T) {
	// Projection is applied after the fetch; the adapter always selects the
	// full joined column set.
	plain, _ := buildPageQuery(dataset.Filter{}, 0, 1000)
	projected, _ := buildPageQuery(dataset.Filter{Fields: []string{"date", "closep"}}, 0, 1000)
	assert.Equal(t, plain, projected)
}

func TestNullConversions(t *testing.T) {
	assert.Nil(t, nullFloat(sql.NullFloat64{}))
	assert.Nil(t, nullInt(sql.NullInt64{}))
	assert.Nil(t, nullString(sql.NullString{}))

	f := nullFloat(sql.NullFloat64{Float64: 12.5, Valid: true})
	require.NotNil(t, f)
	assert.Equal(t, 12.5, *f)

	i := nullInt(sql.NullInt64{Int64: 42, Valid: true})
	require.NotNil(t, i)
	assert.Equal(t, int64(42), *i)

	s := nullString(sql.NullString{String: "Bank", Valid: true})
	require.NotNil(t, s)
	assert.Equal(t, "Bank", *s)
}
