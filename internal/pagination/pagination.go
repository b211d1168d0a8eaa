// Package pagination holds the presentation math the dashboard mirrors:
// a bounded window of page numbers and the "Showing X-Y of Z" item range.
// Pure functions of the pagination metadata, nothing else.
package pagination

const maxVisiblePages = 5

// Window returns at most maxVisiblePages consecutive page numbers centered
// on currentPage and clamped to [1, totalPages]. Empty when there are no
// pages at all.
func Window(currentPage, totalPages int) []int {
	if totalPages < 1 {
		return []int{}
	}
	start, end := 1, totalPages
	if totalPages > maxVisiblePages {
		start = currentPage - maxVisiblePages/2
		if start < 1 {
			start = 1
		}
		end = start + maxVisiblePages - 1
		if end > totalPages {
			end = totalPages
			start = end - maxVisiblePages + 1
		}
	}
	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}

// ItemRange returns the 1-based positions of the first and last item shown
// on currentPage. endItem never exceeds totalCount.
func ItemRange(currentPage, pageSize, totalCount int) (startItem, endItem int) {
	startItem = (currentPage-1)*pageSize + 1
	endItem = currentPage * pageSize
	if endItem > totalCount {
		endItem = totalCount
	}
	return startItem, endItem
}

// ShouldRender reports whether pagination controls are worth drawing at
// all: a single empty page renders nothing.
func ShouldRender(totalPages, totalCount int) bool {
	return !(totalPages <= 1 && totalCount == 0)
}
