package lunch

import (
	"github.com/oggyb/lunchmatch/internal/matching"
	"github.com/oggyb/lunchmatch/internal/service/conversation"
	"github.com/oggyb/lunchmatch/internal/service/matchstate"
	"github.com/oggyb/lunchmatch/internal/service/notification"
)

// TargetRequest names the other user of a pair operation.
type TargetRequest struct {
	TargetUserID uint64 `json:"target_user_id"`
}

type DiscoverNextResponse struct {
	Found     bool                       `json:"found"`
	Candidate *matching.CandidateSummary `json:"candidate,omitempty"`
}

type LikeResponse struct {
	Matched bool `json:"matched"`
}

type ListLikedResponse struct {
	Users []matchstate.LikedCard `json:"users"`
}

type ListMatchedResponse struct {
	Users []matchstate.MatchedCard `json:"users"`
}

type CommonAvailabilityResponse struct {
	Days []matching.DayWindows `json:"days"`
}

type RecommendedRestaurantsResponse struct {
	Restaurants []matching.RestaurantSummary `json:"restaurants"`
}

type ConversationStartersResponse struct {
	Starters []conversation.Starter `json:"starters"`
}

type SendMessageRequest struct {
	TargetUserID uint64 `json:"target_user_id"`
	Content      string `json:"content"`
}

type SendMessageResponse struct {
	Message conversation.MessageView `json:"message"`
}

type PollMessagesRequest struct {
	TargetUserID uint64 `json:"target_user_id"`
	AfterID      uint64 `json:"after_id"`
}

type PollMessagesResponse struct {
	Messages []conversation.MessageView `json:"messages"`
}

type ListNotificationsResponse struct {
	Unread []notification.View `json:"unread"`
	Read   []notification.View `json:"read"`
}

type MarkNotificationReadRequest struct {
	NotificationID uint64 `json:"notification_id"`
}

type UnreadNotificationCountResponse struct {
	Count int64 `json:"count"`
}
