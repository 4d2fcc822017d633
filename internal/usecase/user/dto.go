package user

// SearchUsersRequest represents the request payload for searching users.
// Page values below 1 are clamped to 1 before validation.
type SearchUsersRequest struct {
	Search string `validate:"max=100"`
	Page   int64  `validate:"min=1,max=1000"`
}

// SearchUsersResponse represents one page of matching users.
type SearchUsersResponse struct {
	Users      []User
	Pagination *Pagination
	Search     string // normalized search term the page was computed for
}

// Pagination represents pagination information for list responses.
type Pagination struct {
	Total      int64
	Page       int64
	PerPage    int64
	TotalPages int64
	HasNext    bool
	HasPrev    bool
}

// User represents a user DTO (Data Transfer Object) for API responses.
type User struct {
	ID    int64
	Name  string
	Email string
}
