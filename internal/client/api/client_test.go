package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"user-search-service/internal/domain/user"
)

func newServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestNew_InvalidURL(t *testing.T) {
	_, err := New("localhost:8080")
	assert.Error(t, err)

	_, err = New("ftp://example.com")
	assert.Error(t, err)
}

func TestFetchUsers_Success(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users", r.URL.Path)
		assert.Equal(t, "alice", r.URL.Query().Get("search"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"success": true,
			"data": [{"id": 11, "name": "Alice10", "email": "alice10@example.com"}],
			"pagination": {"total": 11, "page": 2, "per_page": 10, "total_pages": 2, "has_next": false, "has_prev": true},
			"search": "alice",
			"timestamp": "2024-05-01T10:00:00Z",
			"total": 11,
			"per_page": 10
		}`))
	})

	c, err := New(srv.URL + "/")
	require.NoError(t, err)

	page, err := c.FetchUsers(context.Background(), "alice", 2)
	require.NoError(t, err)

	assert.Equal(t, []user.User{{ID: 11, Name: "Alice10", Email: "alice10@example.com"}}, page.Users)
	assert.Equal(t, user.Pagination{Total: 11, Page: 2, PerPage: 10, TotalPages: 2, HasPrev: true}, page.Pagination)
	assert.Equal(t, "alice", page.Search)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), page.Timestamp.UTC())
}

func TestFetchUsers_OmitsEmptySearch(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/index.php", r.URL.Path)
		_, ok := r.URL.Query()["search"]
		assert.False(t, ok)
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		_, _ = w.Write([]byte(`{"success": true, "data": [], "total": 0, "per_page": 10}`))
	})

	c, err := New(srv.URL, WithPath("/index.php"))
	require.NoError(t, err)

	page, err := c.FetchUsers(context.Background(), "", 1)
	require.NoError(t, err)
	assert.Empty(t, page.Users)
	assert.Equal(t, int64(0), page.Pagination.TotalPages)
}

func TestFetchUsers_ServiceErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"error body", http.StatusBadRequest, `{"success": false, "error": "Search term too long"}`, "Search term too long"},
		{"non json body", http.StatusBadGateway, `<html>bad gateway</html>`, "Failed to fetch users"},
		{"success false with 200", http.StatusOK, `{"success": false, "error": "Invalid users data format"}`, "Invalid users data format"},
		{"success false without message", http.StatusOK, `{"success": false}`, "Failed to fetch users"},
		{"garbage with 200", http.StatusOK, `not json`, "Invalid response from server"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			c, err := New(srv.URL)
			require.NoError(t, err)

			_, err = c.FetchUsers(context.Background(), "x", 1)
			var svcErr *ServiceError
			require.ErrorAs(t, err, &svcErr)
			assert.Equal(t, tt.status, svcErr.StatusCode)
			assert.Equal(t, tt.message, svcErr.Error())
		})
	}
}

func TestFetchUsers_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(url)
	require.NoError(t, err)

	_, err = c.FetchUsers(context.Background(), "", 1)
	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Contains(t, err.Error(), "network error")
}

func TestFetchUsers_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	c, err := New(srv.URL, WithTimeout(20*time.Millisecond))
	require.NoError(t, err)

	_, err = c.FetchUsers(context.Background(), "", 1)
	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestFetchUsers_Canceled(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	c, err := New(srv.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = c.FetchUsers(ctx, "", 1)
	assert.ErrorIs(t, err, context.Canceled)
}
