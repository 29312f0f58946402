package services

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"
)

const (
	DefaultPage          = 1
	DefaultLimit         = 12
	MaxLimit             = 100
	DefaultFeaturedLimit = 8
)

type SortOption string

const (
	SortNewest    SortOption = "newest"
	SortPriceAsc  SortOption = "price-asc"
	SortPriceDesc SortOption = "price-desc"
	SortName      SortOption = "name"
	SortPopular   SortOption = "popular"
	SortRating    SortOption = "rating"
)

// ParseSort maps a request value to a sort option, defaulting to newest.
func ParseSort(s string) SortOption {
	switch opt := SortOption(strings.TrimSpace(s)); opt {
	case SortPriceAsc, SortPriceDesc, SortName, SortPopular, SortRating:
		return opt
	default:
		return SortNewest
	}
}

// OrderBy returns the ORDER BY clause. The id tiebreak keeps pages stable
// when the primary key has duplicates.
func (s SortOption) OrderBy() string {
	switch s {
	case SortPriceAsc:
		return "price ASC, id ASC"
	case SortPriceDesc:
		return "price DESC, id DESC"
	case SortName:
		return "name ASC, id ASC"
	case SortPopular:
		return "sold DESC, id DESC"
	case SortRating:
		return "rating DESC, id DESC"
	default:
		return "created_at DESC, id DESC"
	}
}

// ProductFilter is the set of conditions a listed product must satisfy.
// Nil or empty fields are not applied. Only active products ever match.
type ProductFilter struct {
	CategoryID   *uint
	CategorySlug string
	MinPrice     *float64
	MaxPrice     *float64
	Search       string
	FeaturedOnly bool
}

// Predicate translates the filter into a SQL condition.
func (f ProductFilter) Predicate() sq.Sqlizer {
	cond := sq.And{sq.Eq{"is_active": true}}

	switch {
	case f.CategoryID != nil:
		cond = append(cond, sq.Eq{"category_id": *f.CategoryID})
	case f.CategorySlug != "":
		cond = append(cond, sq.Expr("category_id IN (SELECT id FROM categories WHERE slug = ?)", f.CategorySlug))
	}
	if f.MinPrice != nil {
		cond = append(cond, sq.GtOrEq{"price": *f.MinPrice})
	}
	if f.MaxPrice != nil {
		cond = append(cond, sq.LtOrEq{"price": *f.MaxPrice})
	}
	if f.FeaturedOnly {
		cond = append(cond, sq.Eq{"featured": true})
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		cond = append(cond, sq.Or{
			sq.Expr("LOWER(name) LIKE ? ESCAPE '!'", pattern),
			sq.Expr("LOWER(description) LIKE ? ESCAPE '!'", pattern),
		})
	}
	return cond
}

// Apply adds the filter's WHERE clause to db.
func (f ProductFilter) Apply(db *gorm.DB) (*gorm.DB, error) {
	query, args, err := f.Predicate().ToSql()
	if err != nil {
		return nil, err
	}
	return db.Where(query, args...), nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

type ProductQuery struct {
	Filter ProductFilter
	Sort   SortOption
	Page   int
	Limit  int
}

// Offset is the number of rows before the page. It saturates at math.MaxInt
// instead of overflowing.
func (q ProductQuery) Offset() int {
	if q.Page <= 1 || q.Limit <= 0 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		return math.MaxInt
	}
	return (q.Page - 1) * q.Limit
}

// PastEnd reports whether the page lies beyond the last of total rows.
func (q ProductQuery) PastEnd(total int64) bool {
	return int64(q.Page) > pageCount(total, q.Limit)
}

// ParseProductQuery reads listing parameters from a query string. Malformed
// numbers fall back to their defaults instead of failing the request.
func ParseProductQuery(values url.Values) ProductQuery {
	q := ProductQuery{
		Sort:  ParseSort(values.Get("sort")),
		Page:  positiveInt(values.Get("page"), DefaultPage),
		Limit: positiveInt(values.Get("limit"), DefaultLimit),
		Filter: ProductFilter{
			MinPrice: nonNegativeFloat(values.Get("minPrice")),
			MaxPrice: nonNegativeFloat(values.Get("maxPrice")),
			Search:   strings.TrimSpace(values.Get("search")),
		},
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}

	if category := strings.TrimSpace(values.Get("category")); category != "" {
		if id, err := strconv.ParseUint(category, 10, 64); err == nil {
			cid := uint(id)
			q.Filter.CategoryID = &cid
		} else {
			q.Filter.CategorySlug = category
		}
	}
	return q
}

func positiveInt(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return def
	}
	return n
}

func nonNegativeFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

type Pagination struct {
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
	HasMore bool  `json:"hasMore"`
}

func NewPagination(page, limit int, total int64) Pagination {
	pages := pageCount(total, limit)
	return Pagination{
		Page:    page,
		Limit:   limit,
		Total:   total,
		Pages:   int(pages),
		HasMore: int64(page) < pages,
	}
}

func pageCount(total int64, limit int) int64 {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}
