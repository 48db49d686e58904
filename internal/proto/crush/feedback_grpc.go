package crush

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const FeedbackService_SubmitFeedback_FullMethodName = "/crush.FeedbackService/SubmitFeedback"

// FeedbackServiceServer is the server API for crush.FeedbackService.
type FeedbackServiceServer interface {
	SubmitFeedback(context.Context, *SubmitFeedbackRequest) (*SubmitFeedbackResponse, error)
}

type UnimplementedFeedbackServiceServer struct{}

func (UnimplementedFeedbackServiceServer) SubmitFeedback(context.Context, *SubmitFeedbackRequest) (*SubmitFeedbackResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SubmitFeedback not implemented")
}

var FeedbackService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "crush.FeedbackService",
	HandlerType: (*FeedbackServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "SubmitFeedback",
			Handler:    unaryHandler(FeedbackService_SubmitFeedback_FullMethodName, FeedbackServiceServer.SubmitFeedback),
		},
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterFeedbackServiceServer(s grpc.ServiceRegistrar, srv FeedbackServiceServer) {
	s.RegisterService(&FeedbackService_ServiceDesc, srv)
}

type FeedbackServiceClient interface {
	SubmitFeedback(ctx context.Context, in *SubmitFeedbackRequest, opts ...grpc.CallOption) (*SubmitFeedbackResponse, error)
}

type feedbackServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewFeedbackServiceClient(cc grpc.ClientConnInterface) FeedbackServiceClient {
	return &feedbackServiceClient{cc: cc}
}

func (c *feedbackServiceClient) SubmitFeedback(ctx context.Context, in *SubmitFeedbackRequest, opts ...grpc.CallOption) (*SubmitFeedbackResponse, error) {
	return invoke[SubmitFeedbackResponse](ctx, c.cc, FeedbackService_SubmitFeedback_FullMethodName, in, opts...)
}
