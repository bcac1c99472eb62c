package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/Gajendra1092/VideoTube-sub001/internal/models"
	"github.com/Gajendra1092/VideoTube-sub001/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory fakes for the repository interfaces. They preserve insertion
// order and enforce the same ErrNotFound semantics as the real stores.

type fakeUserRepo struct {
	users  map[uint]*models.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*models.User), nextID: 1}
}

func (f *fakeUserRepo) CreateUser(user *models.User) error {
	user.ID = f.nextID
	f.nextID++
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetUserByID(id uint) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetUserByEmail(email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserRepo) GetUserByUsername(username string) (*models.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserRepo) GetUserByFirebaseUID(firebaseUID string) (*models.User, error) {
	for _, user := range f.users {
		if user.FirebaseUID == firebaseUID {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserRepo) UpdateUser(user *models.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) DeleteUser(id uint) error {
	if _, ok := f.users[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) SearchUsers(query string) ([]models.User, error) {
	var results []models.User
	for _, user := range f.users {
		if strings.Contains(user.Username, query) || strings.Contains(user.FullName, query) {
			results = append(results, *user)
		}
	}
	return results, nil
}

func (f *fakeUserRepo) SetWatchHistoryPaused(id uint, paused bool) error {
	user, ok := f.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	user.WatchHistoryPaused = paused
	return nil
}

type fakeVideoRepo struct {
	videos map[string]*models.Video
}

func newFakeVideoRepo() *fakeVideoRepo {
	return &fakeVideoRepo{videos: make(map[string]*models.Video)}
}

func (f *fakeVideoRepo) CreateVideo(_ context.Context, video *models.Video) error {
	if video.ID.IsZero() {
		video.ID = primitive.NewObjectID()
	}
	video.CreatedAt = time.Now()
	video.UpdatedAt = video.CreatedAt
	f.videos[video.ID.Hex()] = video
	return nil
}

func (f *fakeVideoRepo) GetVideoByID(_ context.Context, id string) (*models.Video, error) {
	video, ok := f.videos[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *video
	return &copied, nil
}

func (f *fakeVideoRepo) GetVideosByOwner(_ context.Context, ownerID uint, _, _ int64) ([]models.Video, error) {
	var videos []models.Video
	for _, v := range f.videos {
		if v.OwnerID == ownerID {
			videos = append(videos, *v)
		}
	}
	return videos, nil
}

func (f *fakeVideoRepo) ListVideos(_ context.Context, _ string, _, _ int64) ([]models.Video, int64, error) {
	var videos []models.Video
	for _, v := range f.videos {
		if v.IsPublished {
			videos = append(videos, *v)
		}
	}
	return videos, int64(len(videos)), nil
}

func (f *fakeVideoRepo) UpdateVideo(_ context.Context, id string, video *models.Video) error {
	if _, ok := f.videos[id]; !ok {
		return repositories.ErrNotFound
	}
	f.videos[id] = video
	return nil
}

func (f *fakeVideoRepo) SetPublished(_ context.Context, id string, published bool) error {
	video, ok := f.videos[id]
	if !ok {
		return repositories.ErrNotFound
	}
	video.IsPublished = published
	return nil
}

func (f *fakeVideoRepo) DeleteVideo(_ context.Context, id string) error {
	if _, ok := f.videos[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.videos, id)
	return nil
}

func (f *fakeVideoRepo) IncrementViews(_ context.Context, id string) error {
	video, ok := f.videos[id]
	if !ok {
		return repositories.ErrNotFound
	}
	video.Views++
	return nil
}

type fakeCommentRepo struct {
	comments map[string]*models.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[string]*models.Comment)}
}

func (f *fakeCommentRepo) CreateComment(_ context.Context, comment *models.Comment) error {
	if comment.ID.IsZero() {
		comment.ID = primitive.NewObjectID()
	}
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt
	f.comments[comment.ID.Hex()] = comment
	return nil
}

func (f *fakeCommentRepo) GetCommentByID(_ context.Context, id string) (*models.Comment, error) {
	comment, ok := f.comments[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *comment
	return &copied, nil
}

func (f *fakeCommentRepo) GetCommentsByVideoID(_ context.Context, videoID string, _, _ int64) ([]models.Comment, int64, error) {
	var comments []models.Comment
	for _, c := range f.comments {
		if c.VideoID == videoID && c.ParentID == nil {
			comments = append(comments, *c)
		}
	}
	return comments, int64(len(comments)), nil
}

func (f *fakeCommentRepo) UpdateComment(_ context.Context, id string, content string) error {
	comment, ok := f.comments[id]
	if !ok {
		return repositories.ErrNotFound
	}
	comment.Content = content
	return nil
}

func (f *fakeCommentRepo) DeleteComment(_ context.Context, id string) error {
	if _, ok := f.comments[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.comments, id)
	return nil
}

func (f *fakeCommentRepo) DeleteCommentsByVideoID(_ context.Context, videoID string) error {
	for id, c := range f.comments {
		if c.VideoID == videoID {
			delete(f.comments, id)
		}
	}
	return nil
}

type fakeTweetRepo struct {
	tweets map[string]*models.Tweet
}

func newFakeTweetRepo() *fakeTweetRepo {
	return &fakeTweetRepo{tweets: make(map[string]*models.Tweet)}
}

func (f *fakeTweetRepo) CreateTweet(_ context.Context, tweet *models.Tweet) error {
	if tweet.ID.IsZero() {
		tweet.ID = primitive.NewObjectID()
	}
	tweet.CreatedAt = time.Now()
	tweet.UpdatedAt = tweet.CreatedAt
	f.tweets[tweet.ID.Hex()] = tweet
	return nil
}

func (f *fakeTweetRepo) GetTweetByID(_ context.Context, id string) (*models.Tweet, error) {
	tweet, ok := f.tweets[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *tweet
	return &copied, nil
}

func (f *fakeTweetRepo) GetTweetsByOwner(_ context.Context, ownerID uint, _, _ int64) ([]models.Tweet, error) {
	var tweets []models.Tweet
	for _, t := range f.tweets {
		if t.OwnerID == ownerID {
			tweets = append(tweets, *t)
		}
	}
	return tweets, nil
}

func (f *fakeTweetRepo) UpdateTweet(_ context.Context, id string, content string) error {
	tweet, ok := f.tweets[id]
	if !ok {
		return repositories.ErrNotFound
	}
	tweet.Content = content
	return nil
}

func (f *fakeTweetRepo) DeleteTweet(_ context.Context, id string) error {
	if _, ok := f.tweets[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.tweets, id)
	return nil
}

type fakeNotificationRepo struct {
	notifications []*models.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (f *fakeNotificationRepo) CreateNotification(_ context.Context, n *models.Notification) error {
	n.ID = primitive.NewObjectID()
	n.CreatedAt = time.Now()
	n.UpdatedAt = n.CreatedAt
	f.notifications = append(f.notifications, n)
	return nil
}

func (f *fakeNotificationRepo) GetByRecipient(_ context.Context, recipient uint, skip, limit int64, unreadOnly bool) ([]models.Notification, int64, error) {
	var owned []models.Notification
	for _, n := range f.notifications {
		if n.Recipient != recipient {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		owned = append(owned, *n)
	}
	// Newest first, matching the store's sort
	sort.SliceStable(owned, func(i, j int) bool {
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})

	total := int64(len(owned))
	if skip >= total {
		return []models.Notification{}, total, nil
	}
	end := skip + limit
	if end > total {
		end = total
	}
	return owned[skip:end], total, nil
}

func (f *fakeNotificationRepo) CountUnread(_ context.Context, recipient uint) (int64, error) {
	var count int64
	for _, n := range f.notifications {
		if n.Recipient == recipient && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, ids []string, recipient uint) (int64, error) {
	idSet := make(map[string]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}
	var affected int64
	for _, n := range f.notifications {
		if idSet[n.ID.Hex()] && n.Recipient == recipient && !n.IsRead {
			n.IsRead = true
			affected++
		}
	}
	return affected, nil
}

func (f *fakeNotificationRepo) MarkAllRead(_ context.Context, recipient uint) (int64, error) {
	var affected int64
	for _, n := range f.notifications {
		if n.Recipient == recipient && !n.IsRead {
			n.IsRead = true
			affected++
		}
	}
	return affected, nil
}

func (f *fakeNotificationRepo) DeleteNotifications(_ context.Context, ids []string, recipient uint) (int64, error) {
	idSet := make(map[string]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}
	var kept []*models.Notification
	var deleted int64
	for _, n := range f.notifications {
		if idSet[n.ID.Hex()] && n.Recipient == recipient {
			deleted++
			continue
		}
		kept = append(kept, n)
	}
	f.notifications = kept
	return deleted, nil
}

func (f *fakeNotificationRepo) DeleteAllForRecipient(_ context.Context, recipient uint) error {
	var kept []*models.Notification
	for _, n := range f.notifications {
		if n.Recipient != recipient {
			kept = append(kept, n)
		}
	}
	f.notifications = kept
	return nil
}

func (f *fakeNotificationRepo) DeleteExpired(_ context.Context) (int64, error) {
	now := time.Now()
	var kept []*models.Notification
	var deleted int64
	for _, n := range f.notifications {
		if n.ExpiresAt != nil && n.ExpiresAt.Before(now) {
			deleted++
			continue
		}
		kept = append(kept, n)
	}
	f.notifications = kept
	return deleted, nil
}

type historyKey struct {
	userID  uint
	videoID string
}

type fakeWatchHistoryRepo struct {
	records map[historyKey]*models.WatchHistory
}

func newFakeWatchHistoryRepo() *fakeWatchHistoryRepo {
	return &fakeWatchHistoryRepo{records: make(map[historyKey]*models.WatchHistory)}
}

func (f *fakeWatchHistoryRepo) GetByUserAndVideo(_ context.Context, userID uint, videoID string) (*models.WatchHistory, error) {
	record, ok := f.records[historyKey{userID, videoID}]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *record
	return &copied, nil
}

func (f *fakeWatchHistoryRepo) Upsert(_ context.Context, record *models.WatchHistory) error {
	copied := *record
	copied.UpdatedAt = time.Now()
	f.records[historyKey{record.UserID, record.VideoID}] = &copied
	return nil
}

func (f *fakeWatchHistoryRepo) ListByUser(_ context.Context, userID uint, skip, limit int64) ([]models.WatchHistoryWithVideo, int64, error) {
	var owned []models.WatchHistoryWithVideo
	for _, r := range f.records {
		if r.UserID == userID {
			owned = append(owned, models.WatchHistoryWithVideo{WatchHistory: *r})
		}
	}
	sort.SliceStable(owned, func(i, j int) bool {
		return owned[i].LastWatchedAt.After(owned[j].LastWatchedAt)
	})

	total := int64(len(owned))
	if skip >= total {
		return []models.WatchHistoryWithVideo{}, total, nil
	}
	end := skip + limit
	if end > total {
		end = total
	}
	return owned[skip:end], total, nil
}

func (f *fakeWatchHistoryRepo) GetUserStats(_ context.Context, userID uint) (*models.WatchStatsAggregate, error) {
	var agg models.WatchStatsAggregate
	for _, r := range f.records {
		if r.UserID != userID {
			continue
		}
		agg.TotalVideos++
		agg.TotalWatchSeconds += r.WatchProgress
		agg.AveragePercentage += r.WatchPercentage
		agg.TotalSessions += r.WatchSessions
		if r.IsCompleted {
			agg.CompletedVideos++
		}
		if agg.FirstWatchedAt.IsZero() || r.LastWatchedAt.Before(agg.FirstWatchedAt) {
			agg.FirstWatchedAt = r.LastWatchedAt
		}
		if r.LastWatchedAt.After(agg.LastWatchedAt) {
			agg.LastWatchedAt = r.LastWatchedAt
		}
	}
	if agg.TotalVideos == 0 {
		return nil, nil
	}
	agg.AveragePercentage /= float64(agg.TotalVideos)
	return &agg, nil
}

func (f *fakeWatchHistoryRepo) DeleteByUserAndVideo(_ context.Context, userID uint, videoID string) error {
	key := historyKey{userID, videoID}
	if _, ok := f.records[key]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.records, key)
	return nil
}

func (f *fakeWatchHistoryRepo) DeleteAllForUser(_ context.Context, userID uint) error {
	for key := range f.records {
		if key.userID == userID {
			delete(f.records, key)
		}
	}
	return nil
}

// fakeBadgeCache records invalidations so tests can assert on cache hygiene
type fakeBadgeCache struct {
	counts        map[uint]int64
	invalidations []uint
}

func newFakeBadgeCache() *fakeBadgeCache {
	return &fakeBadgeCache{counts: make(map[uint]int64)}
}

func (f *fakeBadgeCache) GetUnreadCount(_ context.Context, userID uint) (int64, bool) {
	count, ok := f.counts[userID]
	return count, ok
}

func (f *fakeBadgeCache) SetUnreadCount(_ context.Context, userID uint, count int64) {
	f.counts[userID] = count
}

func (f *fakeBadgeCache) InvalidateUnreadCount(_ context.Context, userID uint) {
	delete(f.counts, userID)
	f.invalidations = append(f.invalidations, userID)
}
