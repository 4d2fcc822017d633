package user

import (
	"strings"

	"golang.org/x/text/cases"
)

const (
	// PerPage is the fixed page size of every listing.
	PerPage = 10
	// MaxPage is the highest page number a query may ask for.
	MaxPage = 1000
	// MaxSearchLength is the maximum search term length in characters.
	MaxSearchLength = 100
)

// PageResult is one page of filtered users with its pagination metadata.
type PageResult struct {
	Users      []User
	Pagination *Pagination
}

// Fold returns the caseless form of s used for name matching.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// Filter returns the users whose name contains search, ignoring case.
// An empty search matches every user. Source order is preserved.
func Filter(users []User, search string) []User {
	if search == "" {
		return users
	}

	folder := cases.Fold()
	needle := folder.String(search)

	matched := make([]User, 0, len(users))
	for _, u := range users {
		if u.Name == "" {
			continue
		}
		if strings.Contains(folder.String(u.Name), needle) {
			matched = append(matched, u)
		}
	}
	return matched
}

// Paginate cuts the requested page out of users. A page past the end yields
// an empty slice with the pagination totals still filled in.
func Paginate(users []User, page int64) *PageResult {
	if page < 1 {
		page = 1
	}

	pagination := NewPagination(int64(len(users)), page, PerPage)

	items := []User{}
	offset := pagination.Offset()
	if offset < pagination.Total {
		end := min(offset+PerPage, pagination.Total)
		items = make([]User, end-offset)
		copy(items, users[offset:end])
	}

	return &PageResult{
		Users:      items,
		Pagination: pagination,
	}
}

// Search filters users by name and returns the requested page.
func Search(users []User, search string, page int64) *PageResult {
	return Paginate(Filter(users, search), page)
}
