package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Gajendra1092/VideoTube-sub001/internal/models"
	"github.com/Gajendra1092/VideoTube-sub001/internal/repositories"
	"github.com/Gajendra1092/VideoTube-sub001/pkg/logger"
	"go.uber.org/zap"
)

// ErrValidation marks inputs rejected before anything is persisted
var ErrValidation = errors.New("validation error")

// How long quoted content (comment bodies, tweets) may be inside a message
const excerptMaxLen = 100

// Deletion notices are transient; the TTL index reaps them after this window
const deletionNoticeTTL = 30 * 24 * time.Hour

// UnreadBadgeCache caches best-effort unread counts. A nil implementation is
// provided by the cache package; all methods must tolerate absence.
type UnreadBadgeCache interface {
	GetUnreadCount(ctx context.Context, userID uint) (int64, bool)
	SetUnreadCount(ctx context.Context, userID uint, count int64)
	InvalidateUnreadCount(ctx context.Context, userID uint)
}

// NotificationService builds and persists notifications from domain events
// and serves the recipient-scoped read/delete operations.
type NotificationService struct {
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
	videos        repositories.VideoRepository
	comments      repositories.CommentRepository
	tweets        repositories.TweetRepository
	badge         UnreadBadgeCache
}

// NewNotificationService creates a new NotificationService. badge may be nil.
func NewNotificationService(
	notifications repositories.NotificationRepository,
	users repositories.UserRepository,
	videos repositories.VideoRepository,
	comments repositories.CommentRepository,
	tweets repositories.TweetRepository,
	badge UnreadBadgeCache,
) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		users:         users,
		videos:        videos,
		comments:      comments,
		tweets:        tweets,
		badge:         badge,
	}
}

// CreateNotificationInput carries everything needed to persist one notification
type CreateNotificationInput struct {
	Recipient uint
	Sender    *uint
	Type      models.NotificationType
	Title     string
	Message   string
	Related   *models.RelatedEntity
	ActionURL string
	Context   map[string]string
	ExpiresAt *time.Time
}

// CreateNotification validates and persists a single notification.
// A (nil, nil) return means the notification was deliberately not created:
// users are never notified of their own actions, except by system notices.
func (s *NotificationService) CreateNotification(ctx context.Context, in CreateNotificationInput) (*models.Notification, error) {
	if s.suppressed(in.Sender, in.Recipient, in.Type) {
		return nil, nil
	}

	n := &models.Notification{
		Recipient: in.Recipient,
		Sender:    in.Sender,
		Type:      in.Type,
		Title:     in.Title,
		Message:   in.Message,
		Metadata: models.NotificationMetadata{
			ActionURL: in.ActionURL,
			Context:   in.Context,
		},
		ExpiresAt: in.ExpiresAt,
	}
	if err := n.SetRelated(in.Related); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := n.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if err := s.notifications.CreateNotification(ctx, n); err != nil {
		return nil, err
	}
	s.badgeInvalidate(ctx, in.Recipient)
	return n, nil
}

func (s *NotificationService) suppressed(sender *uint, recipient uint, typ models.NotificationType) bool {
	return sender != nil && *sender == recipient && typ != models.NotificationSystem
}

// NotifyVideoUploadSuccess tells the uploader their video is live.
// A missing video means the event is stale and is dropped silently.
func (s *NotificationService) NotifyVideoUploadSuccess(ctx context.Context, videoID string) (*models.Notification, error) {
	video, err := s.videos.GetVideoByID(ctx, videoID)
	if err != nil {
		return s.dropIfMissing(err, "video", videoID)
	}

	return s.CreateNotification(ctx, CreateNotificationInput{
		Recipient: video.OwnerID,
		Type:      models.NotificationVideoUploadSuccess,
		Title:     "Video Published",
		Message:   fmt.Sprintf("Your video %q is now live.", video.Title),
		Related:   &models.RelatedEntity{Kind: models.RelatedVideo, ID: videoID},
		ActionURL: "/watch/" + videoID,
		Context: map[string]string{
			"videoTitle": video.Title,
			"thumbnail":  video.ThumbnailURL,
		},
	})
}

// NotifyVideoComment tells a video's owner about a new top-level comment
func (s *NotificationService) NotifyVideoComment(ctx context.Context, commentID string) (*models.Notification, error) {
	comment, err := s.comments.GetCommentByID(ctx, commentID)
	if err != nil {
		return s.dropIfMissing(err, "comment", commentID)
	}
	video, err := s.videos.GetVideoByID(ctx, comment.VideoID)
	if err != nil {
		return s.dropIfMissing(err, "video", comment.VideoID)
	}
	commenter, err := s.users.GetUserByID(comment.OwnerID)
	if err != nil {
		return s.dropIfMissing(err, "user", strconv.FormatUint(uint64(comment.OwnerID), 10))
	}

	return s.CreateNotification(ctx, CreateNotificationInput{
		Recipient: video.OwnerID,
		Sender:    &comment.OwnerID,
		Type:      models.NotificationVideoComment,
		Title:     "New Comment",
		Message:   fmt.Sprintf("%s commented on your video %q: %q", displayName(commenter), video.Title, excerpt(comment.Content)),
		Related:   &models.RelatedEntity{Kind: models.RelatedComment, ID: commentID},
		ActionURL: "/watch/" + comment.VideoID,
		Context: map[string]string{
			"senderName":   displayName(commenter),
			"senderAvatar": commenter.Avatar,
			"videoTitle":   video.Title,
			"excerpt":      excerpt(comment.Content),
		},
	})
}

// NotifyCommentReply tells a comment's author about a reply
func (s *NotificationService) NotifyCommentReply(ctx context.Context, replyID string) (*models.Notification, error) {
	reply, err := s.comments.GetCommentByID(ctx, replyID)
	if err != nil {
		return s.dropIfMissing(err, "comment", replyID)
	}
	if reply.ParentID == nil {
		return nil, nil
	}
	parent, err := s.comments.GetCommentByID(ctx, *reply.ParentID)
	if err != nil {
		return s.dropIfMissing(err, "comment", *reply.ParentID)
	}
	replier, err := s.users.GetUserByID(reply.OwnerID)
	if err != nil {
		return s.dropIfMissing(err, "user", strconv.FormatUint(uint64(reply.OwnerID), 10))
	}

	return s.CreateNotification(ctx, CreateNotificationInput{
		Recipient: parent.OwnerID,
		Sender:    &reply.OwnerID,
		Type:      models.NotificationCommentReply,
		Title:     "New Reply",
		Message:   fmt.Sprintf("%s replied to your comment: %q", displayName(replier), excerpt(reply.Content)),
		Related:   &models.RelatedEntity{Kind: models.RelatedComment, ID: replyID},
		ActionURL: "/watch/" + reply.VideoID,
		Context: map[string]string{
			"senderName":   displayName(replier),
			"senderAvatar": replier.Avatar,
			"excerpt":      excerpt(reply.Content),
		},
	})
}

// NotifyCommentLike tells a comment's author someone liked it
func (s *NotificationService) NotifyCommentLike(ctx context.Context, commentID string, likerID uint) (*models.Notification, error) {
	comment, err := s.comments.GetCommentByID(ctx, commentID)
	if err != nil {
		return s.dropIfMissing(err, "comment", commentID)
	}
	liker, err := s.users.GetUserByID(likerID)
	if err != nil {
		return s.dropIfMissing(err, "user", strconv.FormatUint(uint64(likerID), 10))
	}

	return s.CreateNotification(ctx, CreateNotificationInput{
		Recipient: comment.OwnerID,
		Sender:    &likerID,
		Type:      models.NotificationCommentLike,
		Title:     "Comment Liked",
		Message:   fmt.Sprintf("%s liked your comment: %q", displayName(liker), excerpt(comment.Content)),
		Related:   &models.RelatedEntity{Kind: models.RelatedComment, ID: commentID},
		ActionURL: "/watch/" + comment.VideoID,
		Context: map[string]string{
			"senderName":   displayName(liker),
			"senderAvatar": liker.Avatar,
			"excerpt":      excerpt(comment.Content),
		},
	})
}

// NotifyTweetLike tells a tweet's author someone liked it
func (s *NotificationService) NotifyTweetLike(ctx context.Context, tweetID string, likerID uint) (*models.Notification, error) {
	tweet, err := s.tweets.GetTweetByID(ctx, tweetID)
	if err != nil {
		return s.dropIfMissing(err, "tweet", tweetID)
	}
	liker, err := s.users.GetUserByID(likerID)
	if err != nil {
		return s.dropIfMissing(err, "user", strconv.FormatUint(uint64(likerID), 10))
	}

	return s.CreateNotification(ctx, CreateNotificationInput{
		Recipient: tweet.OwnerID,
		Sender:    &likerID,
		Type:      models.NotificationTweetLike,
		Title:     "Tweet Liked",
		Message:   fmt.Sprintf("%s liked your tweet: %q", displayName(liker), excerpt(tweet.Content)),
		Related:   &models.RelatedEntity{Kind: models.RelatedTweet, ID: tweetID},
		ActionURL: "/tweets/" + tweetID,
		Context: map[string]string{
			"senderName":   displayName(liker),
			"senderAvatar": liker.Avatar,
			"excerpt":      excerpt(tweet.Content),
		},
	})
}

// NotifyNewSubscription tells a channel owner about a new subscriber
func (s *NotificationService) NotifyNewSubscription(ctx context.Context, channelID, subscriberID uint) (*models.Notification, error) {
	subscriber, err := s.users.GetUserByID(subscriberID)
	if err != nil {
		return s.dropIfMissing(err, "user", strconv.FormatUint(uint64(subscriberID), 10))
	}

	return s.CreateNotification(ctx, CreateNotificationInput{
		Recipient: channelID,
		Sender:    &subscriberID,
		Type:      models.NotificationNewSubscription,
		Title:     "New Subscriber",
		Message:   fmt.Sprintf("%s subscribed to your channel.", displayName(subscriber)),
		Related:   &models.RelatedEntity{Kind: models.RelatedChannel, ID: strconv.FormatUint(uint64(subscriberID), 10)},
		ActionURL: "/channel/" + subscriber.Username,
		Context: map[string]string{
			"senderName":   displayName(subscriber),
			"senderAvatar": subscriber.Avatar,
		},
	})
}

// NotifyContentDeletion sends a system notice that a piece of the owner's
// content was removed. The kind must be a known content kind.
func (s *NotificationService) NotifyContentDeletion(ctx context.Context, ownerID uint, kind models.ContentKind, title string) (*models.Notification, error) {
	label, ok := kind.DisplayName()
	if !ok {
		return nil, fmt.Errorf("%w: unknown content kind %q", ErrValidation, kind)
	}

	expiresAt := time.Now().Add(deletionNoticeTTL)
	return s.CreateNotification(ctx, CreateNotificationInput{
		Recipient: ownerID,
		Type:      models.NotificationContentDeletion,
		Title:     "Content Removed",
		Message:   fmt.Sprintf("Your %s %q has been deleted.", label, excerpt(title)),
		ExpiresAt: &expiresAt,
		Context: map[string]string{
			"contentKind":  string(kind),
			"contentTitle": excerpt(title),
		},
	})
}

// EnrichedNotification is a notification annotated with the sender's public
// profile. The projection is denormalized for rendering; the stored record
// keeps only the sender id.
type EnrichedNotification struct {
	models.Notification
	SenderProfile *models.UserCompact `json:"sender_profile,omitempty"`
}

// NotificationPage is the pagination contract for notification listings
type NotificationPage struct {
	Items       []EnrichedNotification `json:"items"`
	Page        int                    `json:"page"`
	TotalPages  int                    `json:"total_pages"`
	TotalItems  int64                  `json:"total_items"`
	HasNextPage bool                   `json:"has_next_page"`
}

// GetUserNotifications returns one page of a user's notifications, newest
// first. Pages are 1-based; an out-of-range page yields an empty item list.
func (s *NotificationService) GetUserNotifications(ctx context.Context, userID uint, page, pageSize int, unreadOnly bool) (*NotificationPage, error) {
	page, pageSize = normalizePage(page, pageSize)
	skip := int64(page-1) * int64(pageSize)

	notifications, total, err := s.notifications.GetByRecipient(ctx, userID, skip, int64(pageSize), unreadOnly)
	if err != nil {
		return nil, err
	}

	meta := buildPageMeta(page, pageSize, total)
	return &NotificationPage{
		Items:       s.enrich(notifications),
		Page:        meta.Page,
		TotalPages:  meta.TotalPages,
		TotalItems:  meta.TotalItems,
		HasNextPage: meta.HasNextPage,
	}, nil
}

// enrich attaches sender projections, deduplicating lookups per call
func (s *NotificationService) enrich(notifications []models.Notification) []EnrichedNotification {
	enriched := make([]EnrichedNotification, len(notifications))
	userCache := make(map[uint]*models.UserCompact)

	for i, n := range notifications {
		enriched[i] = EnrichedNotification{Notification: n}
		if n.Sender == nil {
			continue
		}
		if compact, ok := userCache[*n.Sender]; ok {
			enriched[i].SenderProfile = compact
			continue
		}
		user, err := s.users.GetUserByID(*n.Sender)
		if err != nil {
			// Sender may have deleted their account; the notification
			// still renders from the context bag.
			userCache[*n.Sender] = nil
			continue
		}
		compact := user.ToCompact()
		userCache[*n.Sender] = &compact
		enriched[i].SenderProfile = &compact
	}
	return enriched
}

// GetUnreadCount returns the user's unread badge value. It never fails:
// a store error is logged and reported as zero, since a broken badge is
// worse than a stale one.
func (s *NotificationService) GetUnreadCount(ctx context.Context, userID uint) int64 {
	if s.badge != nil {
		if count, ok := s.badge.GetUnreadCount(ctx, userID); ok {
			return count
		}
	}

	count, err := s.notifications.CountUnread(ctx, userID)
	if err != nil {
		logger.Log.Warn("unread count query failed", zap.Uint("user", userID), zap.Error(err))
		return 0
	}
	if s.badge != nil {
		s.badge.SetUnreadCount(ctx, userID, count)
	}
	return count
}

// MarkNotificationsRead marks the given notifications read. Ids not owned by
// userID are skipped silently; the affected count is returned.
func (s *NotificationService) MarkNotificationsRead(ctx context.Context, ids []string, userID uint) (int64, error) {
	affected, err := s.notifications.MarkRead(ctx, ids, userID)
	if err != nil {
		return 0, err
	}
	s.badgeInvalidate(ctx, userID)
	return affected, nil
}

// MarkAllRead marks every unread notification of a user as read
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	affected, err := s.notifications.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.badgeInvalidate(ctx, userID)
	return affected, nil
}

// DeleteNotifications deletes the given notifications owned by userID
func (s *NotificationService) DeleteNotifications(ctx context.Context, ids []string, userID uint) (int64, error) {
	deleted, err := s.notifications.DeleteNotifications(ctx, ids, userID)
	if err != nil {
		return 0, err
	}
	s.badgeInvalidate(ctx, userID)
	return deleted, nil
}

// DeleteAllForUser removes every notification owned by userID
func (s *NotificationService) DeleteAllForUser(ctx context.Context, userID uint) error {
	if err := s.notifications.DeleteAllForRecipient(ctx, userID); err != nil {
		return err
	}
	s.badgeInvalidate(ctx, userID)
	return nil
}

func (s *NotificationService) badgeInvalidate(ctx context.Context, userID uint) {
	if s.badge != nil {
		s.badge.InvalidateUnreadCount(ctx, userID)
	}
}

// dropIfMissing converts a missing-reference error into a silent no-op.
// Events about entities that no longer exist are dropped, not surfaced.
func (s *NotificationService) dropIfMissing(err error, entity, id string) (*models.Notification, error) {
	if errors.Is(err, repositories.ErrNotFound) {
		logger.Log.Debug("notification dropped, referenced entity missing",
			zap.String("entity", entity), zap.String("id", id))
		return nil, nil
	}
	return nil, err
}

// displayName prefers the full name, falling back to the username
func displayName(user *models.User) string {
	if user.FullName != "" {
		return user.FullName
	}
	return user.Username
}

// excerpt truncates quoted content for message composition
func excerpt(s string) string {
	runes := []rune(s)
	if len(runes) <= excerptMaxLen {
		return s
	}
	return string(runes[:excerptMaxLen]) + "..."
}
