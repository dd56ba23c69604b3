package forum

import (
	"fmt"
	"strings"
)

// PaginationResult is the listing envelope. NextPage and PrevPage are only set
// when the matching Has flag is true.
type PaginationResult struct {
	Limit    int           `json:"limit"`
	Page     int           `json:"page"`
	Pages    int           `json:"pages"`
	Total    int64         `json:"total"`
	HasPrev  bool          `json:"has_prev"`
	HasNext  bool          `json:"has_next"`
	Items    []SummaryPost `json:"items"`
	NextPage *string       `json:"next_page,omitempty"`
	PrevPage *string       `json:"prev_page,omitempty"`
}

// PageCount is the number of pages needed for total items at size per page.
func PageCount(total int64, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

// Paginate wraps one page of summaries and computes the navigation cursors.
// Cursors always point inside [1, pages]; a page past the end links back to the last page.
func Paginate(page, size int, total int64, items []SummaryPost, basePath string) PaginationResult {
	if items == nil {
		items = []SummaryPost{}
	}
	pages := PageCount(total, size)

	res := PaginationResult{
		Limit:   size,
		Page:    page,
		Pages:   pages,
		Total:   total,
		HasPrev: page > 1 && pages > 0,
		HasNext: page < pages,
		Items:   items,
	}
	if res.HasNext {
		next := pageURL(basePath, page+1, size)
		res.NextPage = &next
	}
	if res.HasPrev {
		prev := pageURL(basePath, min(page-1, pages), size)
		res.PrevPage = &prev
	}
	return res
}

func pageURL(basePath string, page, size int) string {
	sep := "?"
	if strings.Contains(basePath, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%sstart=%d&limit=%d", basePath, sep, page, size)
}
