package crush

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	MatchService_SubmitPreferences_FullMethodName = "/crush.MatchService/SubmitPreferences"
	MatchService_GetStatus_FullMethodName         = "/crush.MatchService/GetStatus"
	MatchService_GetResults_FullMethodName        = "/crush.MatchService/GetResults"
	MatchService_SearchUsers_FullMethodName       = "/crush.MatchService/SearchUsers"
)

// MatchServiceServer is the server API for crush.MatchService.
type MatchServiceServer interface {
	SubmitPreferences(context.Context, *SubmitPreferencesRequest) (*SubmitPreferencesResponse, error)
	GetStatus(context.Context, *GetStatusRequest) (*GetStatusResponse, error)
	GetResults(context.Context, *GetResultsRequest) (*GetResultsResponse, error)
	SearchUsers(context.Context, *SearchUsersRequest) (*SearchUsersResponse, error)
}

// UnimplementedMatchServiceServer can be embedded for forward compatibility.
type UnimplementedMatchServiceServer struct{}

func (UnimplementedMatchServiceServer) SubmitPreferences(context.Context, *SubmitPreferencesRequest) (*SubmitPreferencesResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SubmitPreferences not implemented")
}
func (UnimplementedMatchServiceServer) GetStatus(context.Context, *GetStatusRequest) (*GetStatusResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetStatus not implemented")
}
func (UnimplementedMatchServiceServer) GetResults(context.Context, *GetResultsRequest) (*GetResultsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetResults not implemented")
}
func (UnimplementedMatchServiceServer) SearchUsers(context.Context, *SearchUsersRequest) (*SearchUsersResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SearchUsers not implemented")
}

var MatchService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "crush.MatchService",
	HandlerType: (*MatchServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "SubmitPreferences",
			Handler:    unaryHandler(MatchService_SubmitPreferences_FullMethodName, MatchServiceServer.SubmitPreferences),
		},
		{
			MethodName: "GetStatus",
			Handler:    unaryHandler(MatchService_GetStatus_FullMethodName, MatchServiceServer.GetStatus),
		},
		{
			MethodName: "GetResults",
			Handler:    unaryHandler(MatchService_GetResults_FullMethodName, MatchServiceServer.GetResults),
		},
		{
			MethodName: "SearchUsers",
			Handler:    unaryHandler(MatchService_SearchUsers_FullMethodName, MatchServiceServer.SearchUsers),
		},
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterMatchServiceServer(s grpc.ServiceRegistrar, srv MatchServiceServer) {
	s.RegisterService(&MatchService_ServiceDesc, srv)
}

// MatchServiceClient is the client API for crush.MatchService.
type MatchServiceClient interface {
	SubmitPreferences(ctx context.Context, in *SubmitPreferencesRequest, opts ...grpc.CallOption) (*SubmitPreferencesResponse, error)
	GetStatus(ctx context.Context, in *GetStatusRequest, opts ...grpc.CallOption) (*GetStatusResponse, error)
	GetResults(ctx context.Context, in *GetResultsRequest, opts ...grpc.CallOption) (*GetResultsResponse, error)
	SearchUsers(ctx context.Context, in *SearchUsersRequest, opts ...grpc.CallOption) (*SearchUsersResponse, error)
}

type matchServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewMatchServiceClient(cc grpc.ClientConnInterface) MatchServiceClient {
	return &matchServiceClient{cc: cc}
}

func (c *matchServiceClient) SubmitPreferences(ctx context.Context, in *SubmitPreferencesRequest, opts ...grpc.CallOption) (*SubmitPreferencesResponse, error) {
	return invoke[SubmitPreferencesResponse](ctx, c.cc, MatchService_SubmitPreferences_FullMethodName, in, opts...)
}

func (c *matchServiceClient) GetStatus(ctx context.Context, in *GetStatusRequest, opts ...grpc.CallOption) (*GetStatusResponse, error) {
	return invoke[GetStatusResponse](ctx, c.cc, MatchService_GetStatus_FullMethodName, in, opts...)
}

func (c *matchServiceClient) GetResults(ctx context.Context, in *GetResultsRequest, opts ...grpc.CallOption) (*GetResultsResponse, error) {
	return invoke[GetResultsResponse](ctx, c.cc, MatchService_GetResults_FullMethodName, in, opts...)
}

func (c *matchServiceClient) SearchUsers(ctx context.Context, in *SearchUsersRequest, opts ...grpc.CallOption) (*SearchUsersResponse, error) {
	return invoke[SearchUsersResponse](ctx, c.cc, MatchService_SearchUsers_FullMethodName, in, opts...)
}
