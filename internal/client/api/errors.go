package api

import (
	"fmt"
)

// NetworkError reports that the query endpoint could not be reached or did
// not answer in time.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ServiceError reports a non-2xx status or an explicit success:false payload.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return e.Message
}
