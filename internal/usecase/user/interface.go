package user

import "context"

// Usecase defines the interface for user search business logic operations.
type Usecase interface {
	SearchUsers(ctx context.Context, in SearchUsersRequest) (*SearchUsersResponse, error)
	Ping(ctx context.Context) error
}
