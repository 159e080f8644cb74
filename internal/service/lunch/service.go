package lunch

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/oggyb/lunchmatch/internal/app"
	"github.com/oggyb/lunchmatch/internal/auth"
	svcErr "github.com/oggyb/lunchmatch/internal/errors"
	pb "github.com/oggyb/lunchmatch/internal/proto/lunch"
	"github.com/oggyb/lunchmatch/internal/service/conversation"
	"github.com/oggyb/lunchmatch/internal/service/discovery"
	"github.com/oggyb/lunchmatch/internal/service/matchstate"
	"github.com/oggyb/lunchmatch/internal/service/notification"
)

// Service implements the LunchService gRPC API on top of the core services.
// The caller identity always comes from the auth interceptor, never from
// the request body.
type Service struct {
	appCtx        *app.AppContext
	discovery     *discovery.Engine
	matches       *matchstate.Machine
	conversations *conversation.Service
	notifications *notification.Service

	pb.UnimplementedLunchServiceServer
}

// NewLunchService wires the core services from appCtx.
func NewLunchService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:        appCtx,
		discovery:     discovery.NewEngine(appCtx),
		matches:       matchstate.NewMachine(appCtx),
		conversations: conversation.NewService(appCtx),
		notifications: notification.NewService(appCtx),
	}
}

func caller(ctx context.Context) (auth.Identity, error) {
	id, ok := auth.FromContext(ctx)
	if !ok {
		return auth.Identity{}, status.Error(codes.Unauthenticated, "missing identity")
	}
	return id, nil
}

func (s *Service) DiscoverReset(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	me, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.discovery.Reset(ctx, me); err != nil {
		return nil, svcErr.Map(err)
	}
	return &emptypb.Empty{}, nil
}

// DiscoverNext returns the next card of the session. Found is false when
// nobody is left; that is not an error.
func (s *Service) DiscoverNext(ctx context.Context, _ *emptypb.Empty) (*pb.DiscoverNextResponse, error) {
	me, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	card, ok := s.discovery.NextCard(ctx, me)
	return &pb.DiscoverNextResponse{Found: ok, Candidate: card}, nil
}

// Like records interest and drops the target from the current batch.
func (s *Service) Like(ctx context.Context, req *pb.TargetRequest) (*pb.LikeResponse, error) {
	me, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	res, err := s.matches.Like(ctx, me, req.TargetUserID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	s.discard(ctx, me, req.TargetUserID)
	return &pb.LikeResponse{Matched: res.Matched}, nil
}

func (s *Service) Block(ctx context.Context, req *pb.TargetRequest) (*emptypb.Empty, error) {
	me, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.matches.Block(ctx, me, req.TargetUserID); err != nil {
		return nil, svcErr.Map(err)
	}
	s.discard(ctx, me, req.TargetUserID)
	return &emptypb.Empty{}, nil
}

func (s *Service) discard(ctx context.Context, me auth.Identity, targetID uint64) {
	if err := s.discovery.Discard(ctx, me, targetID); err != nil {
		s.appCtx.Logger.Warn("discovery discard failed", "viewer", me.UserID, "target", targetID, "err", err)
	}
}

func (s *Service) Unmatch(ctx context.Context, req *pb.TargetRequest) (*emptypb.Empty, error) {
	me, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.matches.Unmatch(ctx, me, req.TargetUserID); err != nil {
		return nil, svcErr.Map(err)
	}
	return &emptypb.Empty{}, nil
}

func (s *Service) ListLiked(ctx context.Context, _ *emptypb.Empty) (*pb.ListLikedResponse, error) {
	me, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.matches.ListLiked(ctx, me)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &pb.ListLikedResponse{Users: users}, nil
}

func (s *Service) ListMatched(ctx context.Context, _ *emptypb.Empty) (*pb.ListMatchedResponse, error) {
	me, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.matches.ListMatched(ctx, me)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &pb.ListMatchedResponse{Users: users}, nil
}

func (s *Service) CommonAvailability(ctx context.Context, req *pb.TargetRequest) (*pb.CommonAvailabilityResponse, error) {
	me, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	days, err := s.conversations.CommonAvailability(ctx, me, req.TargetUserID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &pb.CommonAvailabilityResponse{Days: days}, nil
}

func (s *Service) RecommendedRestaurants(ctx context.Context, req *pb.TargetRequest) (*pb.RecommendedRestaurantsResponse, error) {
	me, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	recs, err := s.conversations.RecommendedRestaurants(ctx, me, req.TargetUserID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &pb.RecommendedRestaurantsResponse{Restaurants: recs}, nil
}

func (s *Service) ConversationStarters(ctx context.Context, req *pb.TargetRequest) (*pb.ConversationStartersResponse, error) {
	me, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	starters, err := s.conversations.Starters(ctx, me, req.TargetUserID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &pb.ConversationStartersResponse{Starters: starters}, nil
}

func (s *Service) SendMessage(ctx context.Context, req *pb.SendMessageRequest) (*pb.SendMessageResponse, error) {
	me, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	msg, err := s.conversations.Send(ctx, me, req.TargetUserID, req.Content)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &pb.SendMessageResponse{Message: msg}, nil
}

func (s *Service) PollMessages(ctx context.Context, req *pb.PollMessagesRequest) (*pb.PollMessagesResponse, error) {
	me, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	msgs, err := s.conversations.Poll(ctx, me, req.TargetUserID, req.AfterID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &pb.PollMessagesResponse{Messages: msgs}, nil
}

func (s *Service) ListNotifications(ctx context.Context, _ *emptypb.Empty) (*pb.ListNotificationsResponse, error) {
	me, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	l, err := s.notifications.List(ctx, me)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &pb.ListNotificationsResponse{Unread: l.Unread, Read: l.Read}, nil
}

func (s *Service) MarkNotificationRead(ctx context.Context, req *pb.MarkNotificationReadRequest) (*emptypb.Empty, error) {
	me, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.notifications.MarkRead(ctx, me, req.NotificationID); err != nil {
		return nil, svcErr.Map(err)
	}
	return &emptypb.Empty{}, nil
}

func (s *Service) UnreadNotificationCount(ctx context.Context, _ *emptypb.Empty) (*pb.UnreadNotificationCountResponse, error) {
	me, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	n, err := s.notifications.UnreadCount(ctx, me)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &pb.UnreadNotificationCountResponse{Count: n}, nil
}
