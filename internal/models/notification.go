package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationType is the closed set of event kinds a notification can carry
type NotificationType string

const (
	NotificationVideoUploadSuccess NotificationType = "video_upload_success"
	NotificationCommentLike        NotificationType = "comment_like"
	NotificationTweetLike          NotificationType = "tweet_like"
	NotificationCommentReply       NotificationType = "comment_reply"
	NotificationContentDeletion    NotificationType = "content_deletion"
	NotificationNewSubscription    NotificationType = "new_subscription"
	NotificationVideoComment       NotificationType = "video_comment"
	NotificationSystem             NotificationType = "system"
)

// Valid reports whether t is one of the known notification types
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationVideoUploadSuccess, NotificationCommentLike, NotificationTweetLike,
		NotificationCommentReply, NotificationContentDeletion, NotificationNewSubscription,
		NotificationVideoComment, NotificationSystem:
		return true
	}
	return false
}

// RelatedKind identifies which entity a notification points at
type RelatedKind string

const (
	RelatedVideo   RelatedKind = "video"
	RelatedComment RelatedKind = "comment"
	RelatedTweet   RelatedKind = "tweet"
	RelatedChannel RelatedKind = "channel"
)

// RelatedEntity is a tagged reference to the single entity a notification links
// to. Using a union here makes the at-most-one constraint structural instead of
// a runtime field count.
type RelatedEntity struct {
	Kind RelatedKind `json:"kind"`
	ID   string      `json:"id"`
}

// ContentKind enumerates the kinds of content a deletion notice can name.
// The set is closed: unknown kinds are rejected instead of rendering an
// undefined label.
type ContentKind string

const (
	ContentVideo    ContentKind = "video"
	ContentComment  ContentKind = "comment"
	ContentTweet    ContentKind = "tweet"
	ContentPlaylist ContentKind = "playlist"
)

// DisplayName returns the human-readable label for the kind
func (k ContentKind) DisplayName() (string, bool) {
	switch k {
	case ContentVideo:
		return "video", true
	case ContentComment:
		return "comment", true
	case ContentTweet:
		return "tweet", true
	case ContentPlaylist:
		return "playlist", true
	}
	return "", false
}

// NotificationMetadata carries display-only denormalized data. The context bag
// is never authoritative; it can be re-derived by re-joining the referenced
// entity.
type NotificationMetadata struct {
	ActionURL string            `json:"action_url,omitempty" bson:"action_url,omitempty"`
	Context   map[string]string `json:"context,omitempty" bson:"context,omitempty"`
}

const (
	NotificationTitleMaxLen   = 200
	NotificationMessageMaxLen = 500
)

// Notification represents a single in-app notification stored in MongoDB.
// It is owned by Recipient: only the recipient may read, mutate or delete it.
type Notification struct {
	ID             primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Recipient      uint                 `json:"recipient" bson:"recipient"`
	Sender         *uint                `json:"sender,omitempty" bson:"sender,omitempty"` // nil for system notifications
	Type           NotificationType     `json:"type" bson:"type"`
	Title          string               `json:"title" bson:"title"`
	Message        string               `json:"message" bson:"message"`
	IsRead         bool                 `json:"is_read" bson:"is_read"`
	RelatedVideo   *string              `json:"related_video,omitempty" bson:"related_video,omitempty"`
	RelatedComment *string              `json:"related_comment,omitempty" bson:"related_comment,omitempty"`
	RelatedTweet   *string              `json:"related_tweet,omitempty" bson:"related_tweet,omitempty"`
	RelatedChannel *string              `json:"related_channel,omitempty" bson:"related_channel,omitempty"`
	Metadata       NotificationMetadata `json:"metadata,omitempty" bson:"metadata,omitempty"`
	ExpiresAt      *time.Time           `json:"expires_at,omitempty" bson:"expires_at,omitempty"` // TTL index target
	CreatedAt      time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at" bson:"updated_at"`
}

// SetRelated maps the tagged reference onto the matching document field
func (n *Notification) SetRelated(related *RelatedEntity) error {
	if related == nil {
		return nil
	}
	switch related.Kind {
	case RelatedVideo:
		n.RelatedVideo = &related.ID
	case RelatedComment:
		n.RelatedComment = &related.ID
	case RelatedTweet:
		n.RelatedTweet = &related.ID
	case RelatedChannel:
		n.RelatedChannel = &related.ID
	default:
		return fmt.Errorf("unknown related entity kind: %q", related.Kind)
	}
	return nil
}

// Validate checks the document-level invariants before persistence
func (n *Notification) Validate() error {
	if !n.Type.Valid() {
		return fmt.Errorf("unknown notification type: %q", n.Type)
	}
	if len(n.Title) > NotificationTitleMaxLen {
		return fmt.Errorf("title exceeds %d characters", NotificationTitleMaxLen)
	}
	if len(n.Message) > NotificationMessageMaxLen {
		return fmt.Errorf("message exceeds %d characters", NotificationMessageMaxLen)
	}
	related := 0
	for _, ref := range []*string{n.RelatedVideo, n.RelatedComment, n.RelatedTweet, n.RelatedChannel} {
		if ref != nil {
			related++
		}
	}
	if related > 1 {
		return fmt.Errorf("notification may reference at most one related entity, got %d", related)
	}
	return nil
}
