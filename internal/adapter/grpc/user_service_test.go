package grpc

import (
	"context"
	"errors"
	"math"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"user-search-service/internal/adapter/dataset"
	"user-search-service/internal/usecase/user"
	pkgerrors "user-search-service/pkg/errors"
)

// MockUsecase is a mock implementation of user.Usecase
type MockUsecase struct {
	mock.Mock
}

func (m *MockUsecase) SearchUsers(ctx context.Context, in user.SearchUsersRequest) (*user.SearchUsersResponse, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.SearchUsersResponse), args.Error(1)
}

func (m *MockUsecase) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// startServer serves the user search service over an in-memory listener
func startServer(t testing.TB, uc user.Usecase) UserSearchClient {
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	svc := NewUserServiceServer(uc, zaptest.NewLogger(t))
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }
	RegisterUserSearchServer(srv, svc)

	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return NewUserSearchClient(conn)
}

func TestSearchUsers_Success(t *testing.T) {
	uc := new(MockUsecase)
	uc.On("SearchUsers", mock.Anything, user.SearchUsersRequest{Search: "john", Page: 2}).Return(&user.SearchUsersResponse{
		Users: []user.User{{ID: 11, Name: "John Doe", Email: "john@example.com"}},
		Pagination: &user.Pagination{
			Total: 11, Page: 2, PerPage: 10, TotalPages: 2, HasNext: false, HasPrev: true,
		},
		Search: "john",
	}, nil)

	client := startServer(t, uc)
	req, err := structpb.NewStruct(map[string]any{"search": "john", "page": 2})
	require.NoError(t, err)

	resp, err := client.SearchUsers(context.Background(), req)
	require.NoError(t, err)

	got := resp.AsMap()
	assert.Equal(t, true, got["success"])
	assert.Equal(t, "john", got["search"])
	assert.Equal(t, "2024-05-01T10:00:00Z", got["timestamp"])
	assert.Equal(t, float64(11), got["total"])
	assert.Equal(t, float64(10), got["per_page"])

	data := got["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, map[string]any{"id": float64(11), "name": "John Doe", "email": "john@example.com"}, data[0])

	pagination := got["pagination"].(map[string]any)
	assert.Equal(t, float64(2), pagination["total_pages"])
	assert.Equal(t, true, pagination["has_prev"])
	assert.Equal(t, false, pagination["has_next"])
	uc.AssertExpectations(t)
}

func TestSearchUsers_DefaultsAndStringPage(t *testing.T) {
	uc := new(MockUsecase)
	empty := &user.SearchUsersResponse{Users: []user.User{}, Pagination: &user.Pagination{Page: 1, PerPage: 10}}
	uc.On("SearchUsers", mock.Anything, user.SearchUsersRequest{Page: 1}).Return(empty, nil).Once()
	uc.On("SearchUsers", mock.Anything, user.SearchUsersRequest{Page: 3}).Return(empty, nil).Once()

	client := startServer(t, uc)

	_, err := client.SearchUsers(context.Background(), &structpb.Struct{})
	require.NoError(t, err)

	req, err := structpb.NewStruct(map[string]any{"page": "3abc"})
	require.NoError(t, err)
	_, err = client.SearchUsers(context.Background(), req)
	require.NoError(t, err)

	uc.AssertExpectations(t)
}

func TestSearchUsers_NumericPage(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		page  int64
	}{
		{"fraction truncates", 2.7, 2},
		{"beyond int64", 1e30, math.MaxInt64},
		{"just beyond int64", 9.3e18, math.MaxInt64},
		{"positive infinity", math.Inf(1), math.MaxInt64},
		{"below int64", -1e30, math.MinInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(MockUsecase)
			empty := &user.SearchUsersResponse{Users: []user.User{}, Pagination: &user.Pagination{Page: 1, PerPage: 10}}
			uc.On("SearchUsers", mock.Anything, user.SearchUsersRequest{Page: tt.page}).Return(empty, nil).Once()
			client := startServer(t, uc)

			req, err := structpb.NewStruct(map[string]any{"page": tt.value})
			require.NoError(t, err)
			_, err = client.SearchUsers(context.Background(), req)
			require.NoError(t, err)
			uc.AssertExpectations(t)
		})
	}
}

func TestSearchUsers_OversizedPageIsRejected(t *testing.T) {
	log := zaptest.NewLogger(t)
	client := startServer(t, user.New(dataset.NewEmbeddedStore(log), nil, log))

	for _, page := range []float64{1001, 9.3e18, 1e30, math.Inf(1)} {
		req, err := structpb.NewStruct(map[string]any{"page": page})
		require.NoError(t, err)

		_, err = client.SearchUsers(context.Background(), req)
		st, ok := status.FromError(err)
		require.True(t, ok)
		assert.Equal(t, codes.InvalidArgument, st.Code(), "page %g", page)
		assert.Equal(t, "Invalid page number", st.Message())
	}

	req, err := structpb.NewStruct(map[string]any{"page": math.NaN()})
	require.NoError(t, err)
	_, err = client.SearchUsers(context.Background(), req)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestSearchUsers_InvalidFieldTypes(t *testing.T) {
	client := startServer(t, new(MockUsecase))

	req, err := structpb.NewStruct(map[string]any{"search": 12})
	require.NoError(t, err)
	_, err = client.SearchUsers(context.Background(), req)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	req, err = structpb.NewStruct(map[string]any{"page": true})
	require.NoError(t, err)
	_, err = client.SearchUsers(context.Background(), req)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestSearchUsers_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    codes.Code
		message string
	}{
		{
			name:    "validation",
			err:     pkgerrors.NewValidationError("page", "Invalid page number"),
			code:    codes.InvalidArgument,
			message: "Invalid page number",
		},
		{
			name:    "data source",
			err:     pkgerrors.NewDataSourceError("file:users.json", "Users data file not found", nil),
			code:    codes.Unavailable,
			message: "Users data file not found",
		},
		{
			name:    "untyped",
			err:     errors.New("secret detail"),
			code:    codes.Internal,
			message: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(MockUsecase)
			uc.On("SearchUsers", mock.Anything, mock.Anything).Return(nil, tt.err)
			client := startServer(t, uc)

			_, err := client.SearchUsers(context.Background(), &structpb.Struct{})
			st, ok := status.FromError(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, st.Code())
			assert.Equal(t, tt.message, st.Message())
		})
	}
}
