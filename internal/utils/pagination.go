package utils

import (
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPage      = 1
	DefaultLimit     = 10
	MaxLimit         = 100
	DefaultSortBy    = "createdAt"
	DefaultSortOrder = "desc"
)

type PaginationQuery struct {
	Page      string
	Limit     string
	SortBy    string
	SortOrder string
}

type Pagination struct {
	Page      int
	Limit     int
	Skip      int
	SortBy    string
	SortOrder string
}

// Paginate normalises raw query values. Missing or malformed numbers fall
// back to the defaults, limit is capped at MaxLimit, page is capped so skip
// never overflows and the order is always either "asc" or "desc".
func Paginate(q PaginationQuery) Pagination {
	page := positiveInt(q.Page, DefaultPage)
	limit := positiveInt(q.Limit, DefaultLimit)
	if limit > MaxLimit {
		limit = MaxLimit
	}
	// keeps skip = (page-1)*limit within int
	if maxPage := math.MaxInt / limit; page > maxPage {
		page = maxPage
	}

	sortBy := strings.TrimSpace(q.SortBy)
	if sortBy == "" {
		sortBy = DefaultSortBy
	}

	order := strings.ToLower(strings.TrimSpace(q.SortOrder))
	if order != "asc" && order != "desc" {
		order = DefaultSortOrder
	}

	return Pagination{
		Page:      page,
		Limit:     limit,
		Skip:      (page - 1) * limit,
		SortBy:    sortBy,
		SortOrder: order,
	}
}

func TotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}

func positiveInt(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return def
	}
	return n
}
