package catalog

// PageSize is the fixed number of rows per listing page.
const PageSize = 10

// PageMeta describes one page of a listing result.
type PageMeta struct {
	Offset       int    `json:"offset"`
	PageSize     int    `json:"page_size"`
	TotalRecords int64  `json:"total_records"`
	TotalPages   int    `json:"total_pages"`
	Order        string `json:"order"`
}

// TotalPages derives the page count from the number of matching records.
// There is always at least one page, possibly empty.
func TotalPages(totalRecords int64, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	pages := int((totalRecords + int64(pageSize) - 1) / int64(pageSize))
	if pages < 1 {
		return 1
	}
	return pages
}

// PageMeta builds the page metadata for a result counted against this state.
func (s *State) PageMeta(totalRecords int64) PageMeta {
	size := s.PageSize
	if size <= 0 {
		size = PageSize
	}
	return PageMeta{
		Offset:       s.Offset,
		PageSize:     size,
		TotalRecords: totalRecords,
		TotalPages:   TotalPages(totalRecords, size),
		Order:        s.Order,
	}
}
