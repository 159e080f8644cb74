// Package lunch describes the lunch.v1.LunchService gRPC API. Messages are
// plain Go structs carried by the JSON codec; empty requests and replies use
// google.protobuf.Empty.
package lunch

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

const ServiceName = "lunch.v1.LunchService"

// LunchServiceServer is the server API for LunchService.
type LunchServiceServer interface {
	DiscoverReset(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	DiscoverNext(context.Context, *emptypb.Empty) (*DiscoverNextResponse, error)
	Like(context.Context, *TargetRequest) (*LikeResponse, error)
	Block(context.Context, *TargetRequest) (*emptypb.Empty, error)
	Unmatch(context.Context, *TargetRequest) (*emptypb.Empty, error)
	ListLiked(context.Context, *emptypb.Empty) (*ListLikedResponse, error)
	ListMatched(context.Context, *emptypb.Empty) (*ListMatchedResponse, error)
	CommonAvailability(context.Context, *TargetRequest) (*CommonAvailabilityResponse, error)
	RecommendedRestaurants(context.Context, *TargetRequest) (*RecommendedRestaurantsResponse, error)
	ConversationStarters(context.Context, *TargetRequest) (*ConversationStartersResponse, error)
	SendMessage(context.Context, *SendMessageRequest) (*SendMessageResponse, error)
	PollMessages(context.Context, *PollMessagesRequest) (*PollMessagesResponse, error)
	ListNotifications(context.Context, *emptypb.Empty) (*ListNotificationsResponse, error)
	MarkNotificationRead(context.Context, *MarkNotificationReadRequest) (*emptypb.Empty, error)
	UnreadNotificationCount(context.Context, *emptypb.Empty) (*UnreadNotificationCountResponse, error)
}

// UnimplementedLunchServiceServer can be embedded to get Unimplemented
// answers for methods a server does not provide.
type UnimplementedLunchServiceServer struct{}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func (UnimplementedLunchServiceServer) DiscoverReset(context.Context, *emptypb.Empty) (*emptypb.Empty, error) {
	return nil, unimplemented("DiscoverReset")
}
func (UnimplementedLunchServiceServer) DiscoverNext(context.Context, *emptypb.Empty) (*DiscoverNextResponse, error) {
	return nil, unimplemented("DiscoverNext")
}
func (UnimplementedLunchServiceServer) Like(context.Context, *TargetRequest) (*LikeResponse, error) {
	return nil, unimplemented("Like")
}
func (UnimplementedLunchServiceServer) Block(context.Context, *TargetRequest) (*emptypb.Empty, error) {
	return nil, unimplemented("Block")
}
func (UnimplementedLunchServiceServer) Unmatch(context.Context, *TargetRequest) (*emptypb.Empty, error) {
	return nil, unimplemented("Unmatch")
}
func (UnimplementedLunchServiceServer) ListLiked(context.Context, *emptypb.Empty) (*ListLikedResponse, error) {
	return nil, unimplemented("ListLiked")
}
func (UnimplementedLunchServiceServer) ListMatched(context.Context, *emptypb.Empty) (*ListMatchedResponse, error) {
	return nil, unimplemented("ListMatched")
}
func (UnimplementedLunchServiceServer) CommonAvailability(context.Context, *TargetRequest) (*CommonAvailabilityResponse, error) {
	return nil, unimplemented("CommonAvailability")
}
func (UnimplementedLunchServiceServer) RecommendedRestaurants(context.Context, *TargetRequest) (*RecommendedRestaurantsResponse, error) {
	return nil, unimplemented("RecommendedRestaurants")
}
func (UnimplementedLunchServiceServer) ConversationStarters(context.Context, *TargetRequest) (*ConversationStartersResponse, error) {
	return nil, unimplemented("ConversationStarters")
}
func (UnimplementedLunchServiceServer) SendMessage(context.Context, *SendMessageRequest) (*SendMessageResponse, error) {
	return nil, unimplemented("SendMessage")
}
func (UnimplementedLunchServiceServer) PollMessages(context.Context, *PollMessagesRequest) (*PollMessagesResponse, error) {
	return nil, unimplemented("PollMessages")
}
func (UnimplementedLunchServiceServer) ListNotifications(context.Context, *emptypb.Empty) (*ListNotificationsResponse, error) {
	return nil, unimplemented("ListNotifications")
}
func (UnimplementedLunchServiceServer) MarkNotificationRead(context.Context, *MarkNotificationReadRequest) (*emptypb.Empty, error) {
	return nil, unimplemented("MarkNotificationRead")
}
func (UnimplementedLunchServiceServer) UnreadNotificationCount(context.Context, *emptypb.Empty) (*UnreadNotificationCountResponse, error) {
	return nil, unimplemented("UnreadNotificationCount")
}

// FullMethod returns the "/service/method" path of a LunchService method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// unary adapts a typed server method into a grpc.MethodDesc.
func unary[Req, Resp any](name string, call func(LunchServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(LunchServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(LunchServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc is the grpc.ServiceDesc for LunchService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LunchServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("DiscoverReset", LunchServiceServer.DiscoverReset),
		unary("DiscoverNext", LunchServiceServer.DiscoverNext),
		unary("Like", LunchServiceServer.Like),
		unary("Block", LunchServiceServer.Block),
		unary("Unmatch", LunchServiceServer.Unmatch),
		unary("ListLiked", LunchServiceServer.ListLiked),
		unary("ListMatched", LunchServiceServer.ListMatched),
		unary("CommonAvailability", LunchServiceServer.CommonAvailability),
		unary("RecommendedRestaurants", LunchServiceServer.RecommendedRestaurants),
		unary("ConversationStarters", LunchServiceServer.ConversationStarters),
		unary("SendMessage", LunchServiceServer.SendMessage),
		unary("PollMessages", LunchServiceServer.PollMessages),
		unary("ListNotifications", LunchServiceServer.ListNotifications),
		unary("MarkNotificationRead", LunchServiceServer.MarkNotificationRead),
		unary("UnreadNotificationCount", LunchServiceServer.UnreadNotificationCount),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "lunch/v1/lunch.proto",
}

// RegisterLunchServiceServer attaches srv to s.
func RegisterLunchServiceServer(s grpc.ServiceRegistrar, srv LunchServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// LunchServiceClient is the client API for LunchService.
type LunchServiceClient interface {
	DiscoverReset(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error)
	DiscoverNext(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*DiscoverNextResponse, error)
	Like(ctx context.Context, in *TargetRequest, opts ...grpc.CallOption) (*LikeResponse, error)
	Block(ctx context.Context, in *TargetRequest, opts ...grpc.CallOption) (*emptypb.Empty, error)
	Unmatch(ctx context.Context, in *TargetRequest, opts ...grpc.CallOption) (*emptypb.Empty, error)
	ListLiked(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*ListLikedResponse, error)
	ListMatched(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*ListMatchedResponse, error)
	CommonAvailability(ctx context.Context, in *TargetRequest, opts ...grpc.CallOption) (*CommonAvailabilityResponse, error)
	RecommendedRestaurants(ctx context.Context, in *TargetRequest, opts ...grpc.CallOption) (*RecommendedRestaurantsResponse, error)
	ConversationStarters(ctx context.Context, in *TargetRequest, opts ...grpc.CallOption) (*ConversationStartersResponse, error)
	SendMessage(ctx context.Context, in *SendMessageRequest, opts ...grpc.CallOption) (*SendMessageResponse, error)
	PollMessages(ctx context.Context, in *PollMessagesRequest, opts ...grpc.CallOption) (*PollMessagesResponse, error)
	ListNotifications(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*ListNotificationsResponse, error)
	MarkNotificationRead(ctx context.Context, in *MarkNotificationReadRequest, opts ...grpc.CallOption) (*emptypb.Empty, error)
	UnreadNotificationCount(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*UnreadNotificationCountResponse, error)
}

type lunchServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewLunchServiceClient returns a client that always selects the JSON codec.
func NewLunchServiceClient(cc grpc.ClientConnInterface) LunchServiceClient {
	return &lunchServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *lunchServiceClient) DiscoverReset(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, "DiscoverReset", in, opts)
}
func (c *lunchServiceClient) DiscoverNext(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*DiscoverNextResponse, error) {
	return invoke[DiscoverNextResponse](ctx, c.cc, "DiscoverNext", in, opts)
}
func (c *lunchServiceClient) Like(ctx context.Context, in *TargetRequest, opts ...grpc.CallOption) (*LikeResponse, error) {
	return invoke[LikeResponse](ctx, c.cc, "Like", in, opts)
}
func (c *lunchServiceClient) Block(ctx context.Context, in *TargetRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, "Block", in, opts)
}
func (c *lunchServiceClient) Unmatch(ctx context.Context, in *TargetRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, "Unmatch", in, opts)
}
func (c *lunchServiceClient) ListLiked(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*ListLikedResponse, error) {
	return invoke[ListLikedResponse](ctx, c.cc, "ListLiked", in, opts)
}
func (c *lunchServiceClient) ListMatched(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*ListMatchedResponse, error) {
	return invoke[ListMatchedResponse](ctx, c.cc, "ListMatched", in, opts)
}
func (c *lunchServiceClient) CommonAvailability(ctx context.Context, in *TargetRequest, opts ...grpc.CallOption) (*CommonAvailabilityResponse, error) {
	return invoke[CommonAvailabilityResponse](ctx, c.cc, "CommonAvailability", in, opts)
}
func (c *lunchServiceClient) RecommendedRestaurants(ctx context.Context, in *TargetRequest, opts ...grpc.CallOption) (*RecommendedRestaurantsResponse, error) {
	return invoke[RecommendedRestaurantsResponse](ctx, c.cc, "RecommendedRestaurants", in, opts)
}
func (c *lunchServiceClient) ConversationStarters(ctx context.Context, in *TargetRequest, opts ...grpc.CallOption) (*ConversationStartersResponse, error) {
	return invoke[ConversationStartersResponse](ctx, c.cc, "ConversationStarters", in, opts)
}
func (c *lunchServiceClient) SendMessage(ctx context.Context, in *SendMessageRequest, opts ...grpc.CallOption) (*SendMessageResponse, error) {
	return invoke[SendMessageResponse](ctx, c.cc, "SendMessage", in, opts)
}
func (c *lunchServiceClient) PollMessages(ctx context.Context, in *PollMessagesRequest, opts ...grpc.CallOption) (*PollMessagesResponse, error) {
	return invoke[PollMessagesResponse](ctx, c.cc, "PollMessages", in, opts)
}
func (c *lunchServiceClient) ListNotifications(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*ListNotificationsResponse, error) {
	return invoke[ListNotificationsResponse](ctx, c.cc, "ListNotifications", in, opts)
}
func (c *lunchServiceClient) MarkNotificationRead(ctx context.Context, in *MarkNotificationReadRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, "MarkNotificationRead", in, opts)
}
func (c *lunchServiceClient) UnreadNotificationCount(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*UnreadNotificationCountResponse, error) {
	return invoke[UnreadNotificationCountResponse](ctx, c.cc, "UnreadNotificationCount", in, opts)
}
