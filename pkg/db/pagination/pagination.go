package pagination

// Pagination is a 1-based page request bound from query parameters.
type Pagination struct {
	Page     int `form:"page,default=1"`
	PageSize int `form:"page_size"`
}

// Normalize clamps page to at least 1 and pageSize into [1, maxSize], using def
// when no size was requested.
func (p Pagination) Normalize(def, maxSize int) Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = def
	}
	if maxSize > 0 && p.PageSize > maxSize {
		p.PageSize = maxSize
	}
	if p.PageSize < 1 {
		p.PageSize = 1
	}
	return p
}

// Offset is the number of rows skipped before this page.
func (p Pagination) Offset() int {
	if p.Page < 1 || p.PageSize < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// Window returns the [start, end) slice bounds of this page over total rows.
func (p Pagination) Window(total int) (int, int) {
	start := min(p.Offset(), total)
	end := min(start+p.PageSize, total)
	return start, end
}

// TotalPages is ceil(total / pageSize), 0 when there are no rows.
func TotalPages(total int64, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
