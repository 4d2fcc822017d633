// Package pagination derives the page controls shown under a user listing.
package pagination

const (
	// maxUncollapsed is the largest page count rendered without ellipses.
	maxUncollapsed = 7
	// delta is how many neighbours of the current page stay visible.
	delta = 2
)

// Item is one entry of a page window: a page number or an ellipsis marker.
type Item struct {
	Page     int64
	Ellipsis bool
}

// Window returns the page controls for current out of totalPages.
func Window(current, totalPages int64) []Item {
	if totalPages <= 0 {
		return nil
	}

	if totalPages <= maxUncollapsed {
		items := make([]Item, 0, totalPages)
		for p := int64(1); p <= totalPages; p++ {
			items = append(items, Item{Page: p})
		}
		return items
	}

	items := make([]Item, 0, 2*delta+5)
	items = append(items, Item{Page: 1})
	if current-delta > 2 {
		items = append(items, Item{Ellipsis: true})
	}

	for p := max(2, current-delta); p <= min(totalPages-1, current+delta); p++ {
		items = append(items, Item{Page: p})
	}

	if current+delta < totalPages-1 {
		items = append(items, Item{Ellipsis: true})
	}
	return append(items, Item{Page: totalPages})
}

// PrevEnabled reports whether a "previous page" control does anything.
func PrevEnabled(current int64) bool {
	return current > 1
}

// NextEnabled reports whether a "next page" control does anything.
func NextEnabled(current, totalPages int64) bool {
	return current < totalPages
}

// TotalPages is ceil(total/perPage), or 0 for an empty listing.
func TotalPages(total, perPage int64) int64 {
	if total <= 0 || perPage <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}
