// Package paginate windows an already-loaded collection client-side. The
// entire collection is fetched once per load; no server-side paging exists.
package paginate

// ItemsPerPage is the fixed page size used by every list view.
const ItemsPerPage = 10

// Window describes one page of a collection.
type Window struct {
	CurrentPage int // 1-based, clamped to [1, max(TotalPages, 1)]
	TotalPages  int
	StartIndex  int // inclusive
	EndIndex    int // exclusive, capped at totalItems
	TotalItems  int
}

// New computes the window for a requested page. currentPage is clamped so a
// stale page number can never address an out-of-range slice.
func New(currentPage, itemsPerPage, totalItems int) Window {
	if itemsPerPage < 1 {
		itemsPerPage = 1
	}
	totalPages := (totalItems + itemsPerPage - 1) / itemsPerPage

	page := Clamp(currentPage, totalPages)

	start := (page - 1) * itemsPerPage
	end := start + itemsPerPage
	if start > totalItems {
		start = totalItems
	}
	if end > totalItems {
		end = totalItems
	}

	return Window{
		CurrentPage: page,
		TotalPages:  totalPages,
		StartIndex:  start,
		EndIndex:    end,
		TotalItems:  totalItems,
	}
}

// Clamp forces page into [1, max(totalPages, 1)].
func Clamp(page, totalPages int) int {
	if totalPages < 1 {
		return 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Slice returns the visible page of items.
func Slice[T any](items []T, w Window) []T {
	if w.StartIndex >= len(items) {
		return nil
	}
	end := w.EndIndex
	if end > len(items) {
		end = len(items)
	}
	return items[w.StartIndex:end]
}
