package services

import (
	"math"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProductQueryDefaults(t *testing.T) {
	q := ParseProductQuery(url.Values{})

	assert.Equal(t, DefaultPage, q.Page)
	assert.Equal(t, DefaultLimit, q.Limit)
	assert.Equal(t, SortNewest, q.Sort)
	assert.Nil(t, q.Filter.CategoryID)
	assert.Empty(t, q.Filter.CategorySlug)
	assert.Nil(t, q.Filter.MinPrice)
	assert.Nil(t, q.Filter.MaxPrice)
	assert.Empty(t, q.Filter.Search)
	assert.Equal(t, 0, q.Offset())
}

func TestParseProductQueryMalformedFallsBack(t *testing.T) {
	q := ParseProductQuery(url.Values{
		"page":     {"abc"},
		"limit":    {"-4"},
		"minPrice": {"cheap"},
		"maxPrice": {"-10"},
		"sort":     {"random"},
	})

	assert.Equal(t, DefaultPage, q.Page)
	assert.Equal(t, DefaultLimit, q.Limit)
	assert.Nil(t, q.Filter.MinPrice)
	assert.Nil(t, q.Filter.MaxPrice)
	assert.Equal(t, SortNewest, q.Sort)
}

func TestParseProductQueryValues(t *testing.T) {
	q := ParseProductQuery(url.Values{
		"page":     {"3"},
		"limit":    {"500"},
		"minPrice": {"10.5"},
		"maxPrice": {"99"},
		"search":   {"  phone "},
		"sort":     {"price-desc"},
		"category": {"42"},
	})

	assert.Equal(t, 3, q.Page)
	assert.Equal(t, MaxLimit, q.Limit)
	assert.Equal(t, 200, q.Offset())
	require.NotNil(t, q.Filter.MinPrice)
	require.NotNil(t, q.Filter.MaxPrice)
	assert.Equal(t, 10.5, *q.Filter.MinPrice)
	assert.Equal(t, 99.0, *q.Filter.MaxPrice)
	assert.Equal(t, "phone", q.Filter.Search)
	assert.Equal(t, SortPriceDesc, q.Sort)
	require.NotNil(t, q.Filter.CategoryID)
	assert.Equal(t, uint(42), *q.Filter.CategoryID)

	q = ParseProductQuery(url.Values{"category": {"smart-watches"}})
	assert.Nil(t, q.Filter.CategoryID)
	assert.Equal(t, "smart-watches", q.Filter.CategorySlug)
}

func TestSortOrderByHasTiebreak(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "created_at DESC, id DESC"},
		{"newest", "created_at DESC, id DESC"},
		{"price-asc", "price ASC, id ASC"},
		{"price-desc", "price DESC, id DESC"},
		{"name", "name ASC, id ASC"},
		{"popular", "sold DESC, id DESC"},
		{"rating", "rating DESC, id DESC"},
		{"bogus", "created_at DESC, id DESC"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSort(tt.in).OrderBy())
		})
	}
}

func TestProductFilterPredicate(t *testing.T) {
	t.Run("active only by default", func(t *testing.T) {
		sql, args, err := ProductFilter{}.Predicate().ToSql()
		require.NoError(t, err)
		assert.Equal(t, "(is_active = ?)", sql)
		assert.Equal(t, []any{true}, args)
	})

	t.Run("all conditions", func(t *testing.T) {
		minPrice, maxPrice := 10.0, 20.0
		sql, args, err := ProductFilter{
			CategorySlug: "phones",
			MinPrice:     &minPrice,
			MaxPrice:     &maxPrice,
			FeaturedOnly: true,
			Search:       "50% Off",
		}.Predicate().ToSql()
		require.NoError(t, err)

		assert.Contains(t, sql, "is_active = ?")
		assert.Contains(t, sql, "category_id IN (SELECT id FROM categories WHERE slug = ?)")
		assert.Contains(t, sql, "price >= ?")
		assert.Contains(t, sql, "price <= ?")
		assert.Contains(t, sql, "featured = ?")
		assert.Contains(t, sql, "LOWER(name) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!'")
		assert.Equal(t, []any{true, "phones", 10.0, 20.0, true, "%50!% off%", "%50!% off%"}, args)
	})

	t.Run("category id wins over slug", func(t *testing.T) {
		id := uint(3)
		sql, args, err := ProductFilter{CategoryID: &id, CategorySlug: "ignored"}.Predicate().ToSql()
		require.NoError(t, err)
		assert.Contains(t, sql, "category_id = ?")
		assert.NotContains(t, sql, "slug")
		assert.Equal(t, []any{true, uint(3)}, args)
	})
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name        string
		page, limit int
		total       int64
		wantPages   int
		wantHasMore bool
	}{
		{"first of three", 1, 12, 25, 3, true},
		{"last partial page", 3, 12, 25, 3, false},
		{"exact fit", 2, 10, 20, 2, false},
		{"empty", 1, 12, 0, 0, false},
		{"past the end", 5, 12, 25, 3, false},
		{"page times limit overflows", 768614336404564651, 12, 25, 3, false},
		{"max page", math.MaxInt, 12, 25, 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.page, tt.limit, tt.total)
			assert.Equal(t, tt.wantPages, p.Pages)
			assert.Equal(t, tt.wantHasMore, p.HasMore)
			assert.Equal(t, tt.total, p.Total)
		})
	}
}

func TestProductQueryOffsetSaturates(t *testing.T) {
	assert.Equal(t, 0, ProductQuery{Page: 1, Limit: 12}.Offset())
	assert.Equal(t, 24, ProductQuery{Page: 3, Limit: 12}.Offset())
	assert.Equal(t, math.MaxInt, ProductQuery{Page: math.MaxInt, Limit: 12}.Offset())

	assert.False(t, ProductQuery{Page: 3, Limit: 12}.PastEnd(25))
	assert.True(t, ProductQuery{Page: 4, Limit: 12}.PastEnd(25))
	assert.True(t, ProductQuery{Page: math.MaxInt, Limit: 12}.PastEnd(25))
}
