package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Gajendra1092/VideoTube-sub001/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type notificationFixture struct {
	users         *fakeUserRepo
	videos        *fakeVideoRepo
	comments      *fakeCommentRepo
	tweets        *fakeTweetRepo
	notifications *fakeNotificationRepo
	badge         *fakeBadgeCache
	service       *NotificationService
}

func newNotificationFixture() *notificationFixture {
	f := &notificationFixture{
		users:         newFakeUserRepo(),
		videos:        newFakeVideoRepo(),
		comments:      newFakeCommentRepo(),
		tweets:        newFakeTweetRepo(),
		notifications: newFakeNotificationRepo(),
		badge:         newFakeBadgeCache(),
	}
	f.service = NewNotificationService(f.notifications, f.users, f.videos, f.comments, f.tweets, f.badge)
	return f
}

func (f *notificationFixture) addUser(t *testing.T, username, fullName string) *models.User {
	t.Helper()
	user := &models.User{Username: username, FullName: fullName, Email: username + "@example.com"}
	require.NoError(t, f.users.CreateUser(user))
	return user
}

func (f *notificationFixture) addVideo(t *testing.T, ownerID uint, title string, duration float64) *models.Video {
	t.Helper()
	video := &models.Video{OwnerID: ownerID, Title: title, Duration: duration, IsPublished: true}
	require.NoError(t, f.videos.CreateVideo(context.Background(), video))
	return video
}

func TestCreateNotificationSuppressesSelfNotification(t *testing.T) {
	f := newNotificationFixture()
	user := f.addUser(t, "alice", "Alice")

	n, err := f.service.CreateNotification(context.Background(), CreateNotificationInput{
		Recipient: user.ID,
		Sender:    &user.ID,
		Type:      models.NotificationCommentLike,
		Title:     "Comment Liked",
		Message:   "you liked your own comment",
	})
	require.NoError(t, err)
	assert.Nil(t, n, "self-notifications must be silently dropped")
	assert.Empty(t, f.notifications.notifications)
}

func TestCreateNotificationAllowsSelfSystemNotice(t *testing.T) {
	f := newNotificationFixture()
	user := f.addUser(t, "alice", "Alice")

	n, err := f.service.CreateNotification(context.Background(), CreateNotificationInput{
		Recipient: user.ID,
		Sender:    &user.ID,
		Type:      models.NotificationSystem,
		Title:     "Maintenance",
		Message:   "scheduled downtime tonight",
	})
	require.NoError(t, err)
	require.NotNil(t, n, "system notices are exempt from self-suppression")
	assert.Len(t, f.notifications.notifications, 1)
}

func TestCreateNotificationRejectsUnknownType(t *testing.T) {
	f := newNotificationFixture()
	user := f.addUser(t, "alice", "Alice")

	_, err := f.service.CreateNotification(context.Background(), CreateNotificationInput{
		Recipient: user.ID,
		Type:      models.NotificationType("carrier_pigeon"),
		Title:     "Hello",
		Message:   "?",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateNotificationRejectsOversizedFields(t *testing.T) {
	f := newNotificationFixture()
	user := f.addUser(t, "alice", "Alice")

	_, err := f.service.CreateNotification(context.Background(), CreateNotificationInput{
		Recipient: user.ID,
		Type:      models.NotificationSystem,
		Title:     strings.Repeat("t", models.NotificationTitleMaxLen+1),
		Message:   "ok",
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.service.CreateNotification(context.Background(), CreateNotificationInput{
		Recipient: user.ID,
		Type:      models.NotificationSystem,
		Title:     "ok",
		Message:   strings.Repeat("m", models.NotificationMessageMaxLen+1),
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateNotificationInvalidatesBadge(t *testing.T) {
	f := newNotificationFixture()
	user := f.addUser(t, "alice", "Alice")
	f.badge.counts[user.ID] = 7

	_, err := f.service.CreateNotification(context.Background(), CreateNotificationInput{
		Recipient: user.ID,
		Type:      models.NotificationSystem,
		Title:     "Hi",
		Message:   "welcome",
	})
	require.NoError(t, err)
	assert.Contains(t, f.badge.invalidations, user.ID)
}

func TestNotifyVideoCommentBuildsNotification(t *testing.T) {
	f := newNotificationFixture()
	owner := f.addUser(t, "owner", "Channel Owner")
	commenter := f.addUser(t, "bob", "Bob Smith")
	video := f.addVideo(t, owner.ID, "Gophers in the Wild", 120)

	comment := &models.Comment{VideoID: video.ID.Hex(), OwnerID: commenter.ID, Content: "great video!"}
	require.NoError(t, f.comments.CreateComment(context.Background(), comment))

	n, err := f.service.NotifyVideoComment(context.Background(), comment.ID.Hex())
	require.NoError(t, err)
	require.NotNil(t, n)

	assert.Equal(t, owner.ID, n.Recipient)
	require.NotNil(t, n.Sender)
	assert.Equal(t, commenter.ID, *n.Sender)
	assert.Equal(t, models.NotificationVideoComment, n.Type)
	assert.Contains(t, n.Message, "Bob Smith")
	assert.Contains(t, n.Message, "great video!")
	require.NotNil(t, n.RelatedComment)
	assert.Equal(t, comment.ID.Hex(), *n.RelatedComment)
	assert.Nil(t, n.RelatedVideo)
}

func TestNotifyVideoCommentDropsWhenVideoMissing(t *testing.T) {
	f := newNotificationFixture()
	commenter := f.addUser(t, "bob", "Bob")

	comment := &models.Comment{VideoID: primitive.NewObjectID().Hex(), OwnerID: commenter.ID, Content: "hello"}
	require.NoError(t, f.comments.CreateComment(context.Background(), comment))

	n, err := f.service.NotifyVideoComment(context.Background(), comment.ID.Hex())
	require.NoError(t, err, "a missing referenced entity is a silent no-op")
	assert.Nil(t, n)
	assert.Empty(t, f.notifications.notifications)
}

func TestNotifyCommentLikeSuppressedForOwnComment(t *testing.T) {
	f := newNotificationFixture()
	owner := f.addUser(t, "owner", "Owner")
	video := f.addVideo(t, owner.ID, "Video", 60)

	comment := &models.Comment{VideoID: video.ID.Hex(), OwnerID: owner.ID, Content: "first!"}
	require.NoError(t, f.comments.CreateComment(context.Background(), comment))

	n, err := f.service.NotifyCommentLike(context.Background(), comment.ID.Hex(), owner.ID)
	require.NoError(t, err)
	assert.Nil(t, n, "liking your own comment must not notify")
}

func TestNotifyTweetLikeTruncatesLongContent(t *testing.T) {
	f := newNotificationFixture()
	author := f.addUser(t, "author", "Author")
	liker := f.addUser(t, "liker", "Liker")

	long := strings.Repeat("x", excerptMaxLen+50)
	tweet := &models.Tweet{OwnerID: author.ID, Content: long}
	require.NoError(t, f.tweets.CreateTweet(context.Background(), tweet))

	n, err := f.service.NotifyTweetLike(context.Background(), tweet.ID.Hex(), liker.ID)
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Contains(t, n.Message, strings.Repeat("x", excerptMaxLen)+"...")
	assert.NotContains(t, n.Message, long)
	assert.LessOrEqual(t, len(n.Message), models.NotificationMessageMaxLen)
}

func TestNotifyCommentReplyTargetsParentAuthor(t *testing.T) {
	f := newNotificationFixture()
	owner := f.addUser(t, "owner", "Owner")
	parentAuthor := f.addUser(t, "parent", "Parent Author")
	replier := f.addUser(t, "replier", "Replier")
	video := f.addVideo(t, owner.ID, "Video", 60)

	parent := &models.Comment{VideoID: video.ID.Hex(), OwnerID: parentAuthor.ID, Content: "question?"}
	require.NoError(t, f.comments.CreateComment(context.Background(), parent))
	parentID := parent.ID.Hex()
	reply := &models.Comment{VideoID: video.ID.Hex(), ParentID: &parentID, OwnerID: replier.ID, Content: "answer."}
	require.NoError(t, f.comments.CreateComment(context.Background(), reply))

	n, err := f.service.NotifyCommentReply(context.Background(), reply.ID.Hex())
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, parentAuthor.ID, n.Recipient, "the reply notifies the parent comment's author, not the video owner")
	assert.Equal(t, models.NotificationCommentReply, n.Type)
}

func TestNotifyNewSubscriptionReferencesSubscriberChannel(t *testing.T) {
	f := newNotificationFixture()
	channel := f.addUser(t, "channel", "The Channel")
	subscriber := f.addUser(t, "fan", "Big Fan")

	n, err := f.service.NotifyNewSubscription(context.Background(), channel.ID, subscriber.ID)
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, channel.ID, n.Recipient)
	require.NotNil(t, n.RelatedChannel)
	assert.Equal(t, "2", *n.RelatedChannel)
}

func TestNotifyContentDeletionSetsExpiry(t *testing.T) {
	f := newNotificationFixture()
	owner := f.addUser(t, "owner", "Owner")

	n, err := f.service.NotifyContentDeletion(context.Background(), owner.ID, models.ContentVideo, "Old Video")
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, models.NotificationContentDeletion, n.Type)
	assert.Nil(t, n.Sender, "deletion notices are system-sent")
	require.NotNil(t, n.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(deletionNoticeTTL), *n.ExpiresAt, time.Minute)
}

func TestNotifyContentDeletionRejectsUnknownKind(t *testing.T) {
	f := newNotificationFixture()
	owner := f.addUser(t, "owner", "Owner")

	_, err := f.service.NotifyContentDeletion(context.Background(), owner.ID, models.ContentKind("hologram"), "x")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetUserNotificationsPagination(t *testing.T) {
	f := newNotificationFixture()
	user := f.addUser(t, "alice", "Alice")
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := f.service.CreateNotification(ctx, CreateNotificationInput{
			Recipient: user.ID,
			Type:      models.NotificationSystem,
			Title:     "Notice",
			Message:   "msg",
		})
		require.NoError(t, err)
	}

	page, err := f.service.GetUserNotifications(ctx, user.ID, 1, 2, false)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, int64(5), page.TotalItems)
	assert.True(t, page.HasNextPage)

	last, err := f.service.GetUserNotifications(ctx, user.ID, 3, 2, false)
	require.NoError(t, err)
	assert.Len(t, last.Items, 1)
	assert.False(t, last.HasNextPage)

	beyond, err := f.service.GetUserNotifications(ctx, user.ID, 99, 2, false)
	require.NoError(t, err, "an out-of-range page is not an error")
	assert.Empty(t, beyond.Items)
	assert.False(t, beyond.HasNextPage)
}

func TestGetUserNotificationsNormalizesBadPageParams(t *testing.T) {
	f := newNotificationFixture()
	user := f.addUser(t, "alice", "Alice")

	page, err := f.service.GetUserNotifications(context.Background(), user.ID, -3, 0, false)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
}

func TestGetUserNotificationsEnrichesSenderProfile(t *testing.T) {
	f := newNotificationFixture()
	owner := f.addUser(t, "owner", "Owner")
	liker := f.addUser(t, "liker", "Liker Person")
	liker.Avatar = "https://cdn.example.com/liker.png"
	require.NoError(t, f.users.UpdateUser(liker))
	video := f.addVideo(t, owner.ID, "Video", 60)

	comment := &models.Comment{VideoID: video.ID.Hex(), OwnerID: owner.ID, Content: "self comment"}
	require.NoError(t, f.comments.CreateComment(context.Background(), comment))
	_, err := f.service.NotifyCommentLike(context.Background(), comment.ID.Hex(), liker.ID)
	require.NoError(t, err)

	page, err := f.service.GetUserNotifications(context.Background(), owner.ID, 1, 10, false)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.NotNil(t, page.Items[0].SenderProfile)
	assert.Equal(t, "liker", page.Items[0].SenderProfile.Username)
	assert.Equal(t, "https://cdn.example.com/liker.png", page.Items[0].SenderProfile.Avatar)
}

// failingNotificationRepo forces CountUnread to fail
type failingNotificationRepo struct {
	*fakeNotificationRepo
}

func (f *failingNotificationRepo) CountUnread(context.Context, uint) (int64, error) {
	return 0, errors.New("store down")
}

func TestGetUnreadCountNeverFails(t *testing.T) {
	f := newNotificationFixture()
	user := f.addUser(t, "alice", "Alice")

	broken := NewNotificationService(
		&failingNotificationRepo{f.notifications}, f.users, f.videos, f.comments, f.tweets, nil)
	count := broken.GetUnreadCount(context.Background(), user.ID)
	assert.Equal(t, int64(0), count, "a store failure degrades to zero, not an error")
}

func TestGetUnreadCountUsesAndFillsCache(t *testing.T) {
	f := newNotificationFixture()
	user := f.addUser(t, "alice", "Alice")
	ctx := context.Background()

	_, err := f.service.CreateNotification(ctx, CreateNotificationInput{
		Recipient: user.ID,
		Type:      models.NotificationSystem,
		Title:     "Hi",
		Message:   "hello",
	})
	require.NoError(t, err)

	// First call misses the cache and fills it
	assert.Equal(t, int64(1), f.service.GetUnreadCount(ctx, user.ID))
	assert.Equal(t, int64(1), f.badge.counts[user.ID])

	// A stale cached value is served as-is
	f.badge.counts[user.ID] = 42
	assert.Equal(t, int64(42), f.service.GetUnreadCount(ctx, user.ID))
}

func TestMarkReadScopedToRecipient(t *testing.T) {
	f := newNotificationFixture()
	alice := f.addUser(t, "alice", "Alice")
	mallory := f.addUser(t, "mallory", "Mallory")
	ctx := context.Background()

	n, err := f.service.CreateNotification(ctx, CreateNotificationInput{
		Recipient: alice.ID,
		Type:      models.NotificationSystem,
		Title:     "Hi",
		Message:   "hello",
	})
	require.NoError(t, err)

	// Mallory tries to mark Alice's notification read
	affected, err := f.service.MarkNotificationsRead(ctx, []string{n.ID.Hex()}, mallory.ID)
	require.NoError(t, err, "unowned ids are skipped, not an error")
	assert.Equal(t, int64(0), affected)
	assert.Equal(t, int64(1), f.service.GetUnreadCount(ctx, alice.ID))

	affected, err = f.service.MarkNotificationsRead(ctx, []string{n.ID.Hex()}, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.Equal(t, int64(0), f.service.GetUnreadCount(ctx, alice.ID))
}

func TestMarkAllReadReturnsAffectedCount(t *testing.T) {
	f := newNotificationFixture()
	user := f.addUser(t, "alice", "Alice")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.service.CreateNotification(ctx, CreateNotificationInput{
			Recipient: user.ID,
			Type:      models.NotificationSystem,
			Title:     "Notice",
			Message:   "msg",
		})
		require.NoError(t, err)
	}

	affected, err := f.service.MarkAllRead(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), affected)

	// Already read; nothing left to affect
	affected, err = f.service.MarkAllRead(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}

func TestDeleteNotificationsScopedToRecipient(t *testing.T) {
	f := newNotificationFixture()
	alice := f.addUser(t, "alice", "Alice")
	mallory := f.addUser(t, "mallory", "Mallory")
	ctx := context.Background()

	n, err := f.service.CreateNotification(ctx, CreateNotificationInput{
		Recipient: alice.ID,
		Type:      models.NotificationSystem,
		Title:     "Hi",
		Message:   "hello",
	})
	require.NoError(t, err)

	deleted, err := f.service.DeleteNotifications(ctx, []string{n.ID.Hex()}, mallory.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)
	assert.Len(t, f.notifications.notifications, 1)

	deleted, err = f.service.DeleteNotifications(ctx, []string{n.ID.Hex()}, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	assert.Empty(t, f.notifications.notifications)
}

func TestDeleteAllForUserLeavesOthersAlone(t *testing.T) {
	f := newNotificationFixture()
	alice := f.addUser(t, "alice", "Alice")
	bob := f.addUser(t, "bob", "Bob")
	ctx := context.Background()

	for _, recipient := range []uint{alice.ID, bob.ID} {
		_, err := f.service.CreateNotification(ctx, CreateNotificationInput{
			Recipient: recipient,
			Type:      models.NotificationSystem,
			Title:     "Hi",
			Message:   "hello",
		})
		require.NoError(t, err)
	}

	require.NoError(t, f.service.DeleteAllForUser(ctx, alice.ID))
	require.Len(t, f.notifications.notifications, 1)
	assert.Equal(t, bob.ID, f.notifications.notifications[0].Recipient)
}
