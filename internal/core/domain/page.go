package domain

// Page is one page of a server-paginated result set. CurrentPage is 1-based
// and at most TotalPages (TotalPages is 0 only when the set is empty).
type Page[T any] struct {
	Items       []T
	TotalItems  int
	TotalPages  int
	CurrentPage int
}

// Empty reports whether the page carries no items.
func (p Page[T]) Empty() bool { return len(p.Items) == 0 }

// PageSizeOptions are the selectable row counts for the inventory and
// history tables.
var PageSizeOptions = []int{10, 20, 30, 40, 50}

// PageWindow is the sliding window of page buttons shown by the pager:
// at most five numbers centred on the current page, clamped at both
// boundaries, with first/last shortcuts and ellipses when the window does
// not touch an edge.
type PageWindow struct {
	Pages []int
	// ShowFirst / ShowLast request the shortcut buttons for page 1 and the
	// final page when the window excludes them.
	ShowFirst bool
	ShowLast  bool
	// LeadingGap / TrailingGap request an ellipsis between a shortcut and
	// the window.
	LeadingGap  bool
	TrailingGap bool
}

const pagerWidth = 5

// WindowFor computes the pager window for current within [1, totalPages].
//
//	start = max(1, current-2)
//	end   = min(totalPages, start+4)
//	start = max(1, end-4)   (re-clamp near the end)
func WindowFor(current, totalPages int) PageWindow {
	if totalPages < 1 {
		return PageWindow{}
	}
	if current < 1 {
		current = 1
	}
	if current > totalPages {
		current = totalPages
	}

	start := current - pagerWidth/2
	if start < 1 {
		start = 1
	}
	end := start + pagerWidth - 1
	if end > totalPages {
		end = totalPages
	}
	if s := end - pagerWidth + 1; s > 1 {
		start = s
	} else {
		start = 1
	}

	w := PageWindow{
		ShowFirst:   start > 1,
		LeadingGap:  start > 2,
		ShowLast:    end < totalPages,
		TrailingGap: end < totalPages-1,
	}
	for p := start; p <= end; p++ {
		w.Pages = append(w.Pages, p)
	}
	return w
}
