package aggregate

import (
	"strconv"
	"strings"

	"VidTube.com/pkg/constants"
)

// Page is the only shape handed back to request handlers. Empty is set when
// the filtered set itself is empty; a page past the end has no items but
// Empty stays false.
type Page struct {
	Items       []any `json:"items"`
	TotalCount  int64 `json:"totalCount"`
	TotalPages  int64 `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	PageSize    int   `json:"pageSize"`
	HasNextPage bool  `json:"hasNextPage"`
	Empty       bool  `json:"empty"`
	Root        any   `json:"root,omitempty"`
}

// Paginate windows an already ordered slice. page and pageSize must be
// normalized.
func Paginate(items []any, page, pageSize int) *Page {
	total := int64(len(items))
	p := &Page{
		Items:       []any{},
		TotalCount:  total,
		TotalPages:  (total + int64(pageSize) - 1) / int64(pageSize),
		CurrentPage: page,
		PageSize:    pageSize,
		Empty:       total == 0,
	}
	start := int64(page-1) * int64(pageSize)
	if start >= total {
		return p
	}
	end := start + int64(pageSize)
	if end > total {
		end = total
	}
	p.Items = items[start:end]
	p.HasNextPage = end < total
	return p
}

// NormalizePage coerces non-positive input to the defaults and caps the page
// size at maxSize when maxSize is positive.
func NormalizePage(page, pageSize, defaultSize, maxSize int) (int, int) {
	if defaultSize <= 0 {
		defaultSize = constants.DefaultLimit
	}
	if page < 1 {
		page = constants.DefaultPage
	}
	if pageSize < 1 {
		pageSize = defaultSize
	}
	if maxSize > 0 && pageSize > maxSize {
		pageSize = maxSize
	}
	return page, pageSize
}

// ParsePageParams accepts raw query-string values. Anything that is not a
// positive integer comes back as 0, which NormalizePage replaces with the
// engine's configured default.
func ParsePageParams(page, pageSize string) (int, int) {
	return parsePositive(page), parsePositive(pageSize)
}

func parsePositive(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0
	}
	return n
}
