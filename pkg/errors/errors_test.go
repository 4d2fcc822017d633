package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestPublicMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "validation error",
			err:      NewValidationError("search", "Search term too long"),
			expected: "Search term too long",
		},
		{
			name:     "wrapped data source error",
			err:      fmt.Errorf("load: %w", NewDataSourceError("file", "Users data file not found", nil)),
			expected: "Users data file not found",
		},
		{
			name:     "internal error",
			err:      NewInternalError("failed to encode response", errors.New("boom")),
			expected: "failed to encode response",
		},
		{
			name:     "unknown error",
			err:      errors.New("connection reset by peer"),
			expected: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PublicMessage(tt.err))
		})
	}
}

func TestGRPCStatusCodes(t *testing.T) {
	st, ok := status.FromError(NewValidationError("page", "Invalid page number"))
	assert.True(t, ok)
	assert.Equal(t, codes.InvalidArgument, st.Code())
	assert.Equal(t, "Invalid page number", st.Message())

	st, ok = status.FromError(NewDataSourceError("file", "Invalid users data format", nil))
	assert.True(t, ok)
	assert.Equal(t, codes.Unavailable, st.Code())

	st, ok = status.FromError(NewInternalError("internal server error", nil))
	assert.True(t, ok)
	assert.Equal(t, codes.Internal, st.Code())
}

func TestDataSourceError_Unwrap(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := NewDataSourceError("file:users.json", "Invalid JSON data", cause)

	assert.ErrorIs(t, err, cause)
	assert.True(t, IsDataSource(err))
	assert.False(t, IsValidation(err))
	assert.Contains(t, err.Error(), "file:users.json")
}
