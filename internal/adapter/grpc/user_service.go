package grpc

import (
	"context"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	domain "user-search-service/internal/domain/user"
	"user-search-service/internal/usecase/user"
	pkgerrors "user-search-service/pkg/errors"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "usersearch.v1.UserSearchService"
	// SearchUsersMethod is the full method name of SearchUsers.
	SearchUsersMethod = "/" + ServiceName + "/SearchUsers"
)

// UserSearchServer is the server API for the user search service.
// Requests and responses are google.protobuf.Struct documents shaped like
// the HTTP query parameters and JSON body.
type UserSearchServer interface {
	SearchUsers(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// ServiceDesc describes the user search service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*UserSearchServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "SearchUsers",
			Handler:    searchUsersHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "usersearch/v1/user_search.proto",
}

// RegisterUserSearchServer registers srv on s.
func RegisterUserSearchServer(s grpc.ServiceRegistrar, srv UserSearchServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func searchUsersHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(UserSearchServer).SearchUsers(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: SearchUsersMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(UserSearchServer).SearchUsers(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// UserServiceServer implements the gRPC user search service
type UserServiceServer struct {
	uc  user.Usecase
	log *zap.Logger
	now func() time.Time
}

// NewUserServiceServer creates a new gRPC user search service server
func NewUserServiceServer(uc user.Usecase, log *zap.Logger) *UserServiceServer {
	return &UserServiceServer{uc: uc, log: log, now: time.Now}
}

// SearchUsers handles gRPC SearchUsers request
func (s *UserServiceServer) SearchUsers(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in := user.SearchUsersRequest{Page: 1}
	fields := req.GetFields()

	if v, ok := fields["search"]; ok {
		sv, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, status.Error(codes.InvalidArgument, "search must be a string")
		}
		in.Search = sv.StringValue
	}

	if v, ok := fields["page"]; ok {
		switch k := v.GetKind().(type) {
		case *structpb.Value_NumberValue:
			page, err := pageFromNumber(k.NumberValue)
			if err != nil {
				return nil, status.Error(codes.InvalidArgument, err.Error())
			}
			in.Page = page
		case *structpb.Value_StringValue:
			in.Page = domain.ParsePage(k.StringValue)
		case *structpb.Value_NullValue:
		default:
			return nil, status.Error(codes.InvalidArgument, "page must be a number")
		}
	}

	resp, err := s.uc.SearchUsers(ctx, in)
	if err != nil {
		return nil, toStatus(err)
	}

	out, err := structpb.NewStruct(responseFields(resp, s.now()))
	if err != nil {
		s.log.Error("failed to encode search response", zap.Error(err))
		return nil, status.Error(codes.Internal, pkgerrors.ErrInternal.Message)
	}
	return out, nil
}

// pageFromNumber truncates a JSON number to a page. Values outside the
// int64 range saturate like ParsePage does, so oversized pages still fail
// range validation instead of wrapping.
func pageFromNumber(f float64) (int64, error) {
	switch {
	case math.IsNaN(f):
		return 0, errors.New("page must be a number")
	case f >= float64(1<<63):
		return math.MaxInt64, nil
	case f <= -float64(1<<63):
		return math.MinInt64, nil
	}
	return int64(math.Trunc(f)), nil
}

func responseFields(resp *user.SearchUsersResponse, now time.Time) map[string]any {
	data := make([]any, len(resp.Users))
	for i, u := range resp.Users {
		data[i] = map[string]any{
			"id":    u.ID,
			"name":  u.Name,
			"email": u.Email,
		}
	}

	p := resp.Pagination
	return map[string]any{
		"success": true,
		"data":    data,
		"pagination": map[string]any{
			"total":       p.Total,
			"page":        p.Page,
			"per_page":    p.PerPage,
			"total_pages": p.TotalPages,
			"has_next":    p.HasNext,
			"has_prev":    p.HasPrev,
		},
		"search":    resp.Search,
		"timestamp": now.Format(time.RFC3339),
		"total":     p.Total,
		"per_page":  p.PerPage,
	}
}

// toStatus keeps the status of typed application errors and hides
// anything else behind a generic internal error.
func toStatus(err error) error {
	var gs pkgerrors.GRPCStatuser
	if errors.As(err, &gs) {
		return gs.GRPCStatus().Err()
	}
	if errors.Is(err, context.Canceled) {
		return status.Error(codes.Canceled, err.Error())
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	return status.Error(codes.Internal, pkgerrors.PublicMessage(err))
}

// UserSearchClient is the client API for the user search service.
type UserSearchClient interface {
	SearchUsers(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type userSearchClient struct {
	cc grpc.ClientConnInterface
}

// NewUserSearchClient creates a client bound to cc.
func NewUserSearchClient(cc grpc.ClientConnInterface) UserSearchClient {
	return &userSearchClient{cc: cc}
}

func (c *userSearchClient) SearchUsers(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, SearchUsersMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
