package collection

// PageInfo carries pagination metadata for one computed view.
type PageInfo struct {
	Page          int // current page, 1-indexed and clamped
	PageSize      int // rows per page
	TotalFiltered int // rows matching the query
	TotalPages    int // ceil(TotalFiltered / PageSize), 0 when nothing matches
}

// NewPageInfo computes pagination metadata, clamping page to [1, max(1, TotalPages)].
// pageSize must be positive.
func NewPageInfo(page, pageSize, total int) PageInfo {
	totalPages := (total + pageSize - 1) / pageSize
	return PageInfo{
		Page:          clampPage(page, totalPages),
		PageSize:      pageSize,
		TotalFiltered: total,
		TotalPages:    totalPages,
	}
}

// Offset is the index of the first row of the page.
func (p PageInfo) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// StartRow returns the 1-indexed first row number, or 0 when nothing matches.
func (p PageInfo) StartRow() int {
	if p.TotalFiltered == 0 {
		return 0
	}
	return p.Offset() + 1
}

// EndRow returns the 1-indexed last row number of the page.
func (p PageInfo) EndRow() int {
	return min(p.Offset()+p.PageSize, p.TotalFiltered)
}

// HasPrev and HasNext drive the pager's step buttons.
func (p PageInfo) HasPrev() bool { return p.Page > 1 }
func (p PageInfo) HasNext() bool { return p.Page < p.TotalPages }

// ShowPagination reports whether more than one page exists.
func (p PageInfo) ShowPagination() bool {
	return p.TotalFiltered > p.PageSize
}

// Ellipsis marks a gap in the output of PagerItems.
const Ellipsis = 0

// maxPlainPages is the largest page count listed without gaps.
const maxPlainPages = 7

// PagerItems returns the page buttons to render. All pages are listed when
// there are at most seven; otherwise the first, the last and the neighbours
// of the current page, with Ellipsis standing for the skipped runs.
func PagerItems(page, totalPages int) []int {
	if totalPages <= 0 {
		return nil
	}
	page = clampPage(page, totalPages)

	if totalPages <= maxPlainPages {
		items := make([]int, 0, totalPages)
		for i := 1; i <= totalPages; i++ {
			items = append(items, i)
		}
		return items
	}

	items := []int{1}
	if page > 3 {
		items = append(items, Ellipsis)
	}
	for i := max(2, page-1); i <= min(totalPages-1, page+1); i++ {
		items = append(items, i)
	}
	if page < totalPages-2 {
		items = append(items, Ellipsis)
	}
	return append(items, totalPages)
}

func clampPage(page, totalPages int) int {
	return max(1, min(page, max(1, totalPages)))
}
