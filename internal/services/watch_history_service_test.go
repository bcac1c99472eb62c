package services

import (
	"context"
	"testing"

	"github.com/Gajendra1092/VideoTube-sub001/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type historyFixture struct {
	users   *fakeUserRepo
	videos  *fakeVideoRepo
	history *fakeWatchHistoryRepo
	service *WatchHistoryService
}

func newHistoryFixture() *historyFixture {
	f := &historyFixture{
		users:   newFakeUserRepo(),
		videos:  newFakeVideoRepo(),
		history: newFakeWatchHistoryRepo(),
	}
	f.service = NewWatchHistoryService(f.history, f.videos, f.users)
	return f
}

func (f *historyFixture) addUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com"}
	require.NoError(t, f.users.CreateUser(user))
	return user
}

func (f *historyFixture) addVideo(t *testing.T, duration float64) *models.Video {
	t.Helper()
	video := &models.Video{OwnerID: 99, Title: "Video", Duration: duration, IsPublished: true}
	require.NoError(t, f.videos.CreateVideo(context.Background(), video))
	return video
}

func TestRecordProgressRejectsNegative(t *testing.T) {
	f := newHistoryFixture()
	user := f.addUser(t, "alice")
	video := f.addVideo(t, 100)

	_, err := f.service.RecordProgress(context.Background(), user.ID, video.ID.Hex(), -1, nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRecordProgressCreatesRecordOnFirstReport(t *testing.T) {
	f := newHistoryFixture()
	user := f.addUser(t, "alice")
	video := f.addVideo(t, 100)

	record, err := f.service.RecordProgress(context.Background(), user.ID, video.ID.Hex(), 30, nil)
	require.NoError(t, err)
	require.NotNil(t, record)

	assert.Equal(t, 30.0, record.WatchProgress)
	assert.Equal(t, 30.0, record.WatchPercentage)
	assert.Equal(t, int64(1), record.WatchSessions)
	assert.False(t, record.IsCompleted)
	assert.False(t, record.LastWatchedAt.IsZero())
}

func TestRecordProgressNeverRegresses(t *testing.T) {
	f := newHistoryFixture()
	user := f.addUser(t, "alice")
	video := f.addVideo(t, 100)
	ctx := context.Background()

	_, err := f.service.RecordProgress(ctx, user.ID, video.ID.Hex(), 50, nil)
	require.NoError(t, err)

	// An out-of-order or duplicated lower report keeps the stored max
	record, err := f.service.RecordProgress(ctx, user.ID, video.ID.Hex(), 20, nil)
	require.NoError(t, err)
	assert.Equal(t, 50.0, record.WatchProgress)
	assert.Equal(t, 50.0, record.WatchPercentage)
	assert.Equal(t, int64(2), record.WatchSessions, "every report counts a session, even a non-advancing one")
}

func TestRecordProgressCapsPercentageAt100(t *testing.T) {
	f := newHistoryFixture()
	user := f.addUser(t, "alice")
	video := f.addVideo(t, 100)

	record, err := f.service.RecordProgress(context.Background(), user.ID, video.ID.Hex(), 150, nil)
	require.NoError(t, err)
	assert.Equal(t, 150.0, record.WatchProgress, "raw progress is stored as reported")
	assert.Equal(t, 100.0, record.WatchPercentage)
}

func TestRecordProgressCompletionIsOneWay(t *testing.T) {
	f := newHistoryFixture()
	user := f.addUser(t, "alice")
	video := f.addVideo(t, 100)
	ctx := context.Background()

	record, err := f.service.RecordProgress(ctx, user.ID, video.ID.Hex(), 95, nil)
	require.NoError(t, err)
	require.True(t, record.IsCompleted)
	require.NotNil(t, record.CompletedAt)
	completedAt := *record.CompletedAt

	// Later lower reports keep the completion and its original timestamp
	record, err = f.service.RecordProgress(ctx, user.ID, video.ID.Hex(), 10, nil)
	require.NoError(t, err)
	assert.True(t, record.IsCompleted)
	require.NotNil(t, record.CompletedAt)
	assert.Equal(t, completedAt, *record.CompletedAt)
}

func TestRecordProgressBelowThresholdNotCompleted(t *testing.T) {
	f := newHistoryFixture()
	user := f.addUser(t, "alice")
	video := f.addVideo(t, 100)

	record, err := f.service.RecordProgress(context.Background(), user.ID, video.ID.Hex(), 89.9, nil)
	require.NoError(t, err)
	assert.False(t, record.IsCompleted)
	assert.Nil(t, record.CompletedAt)
}

func TestRecordProgressSkipsPercentageWithoutDuration(t *testing.T) {
	f := newHistoryFixture()
	user := f.addUser(t, "alice")
	video := f.addVideo(t, 0)

	record, err := f.service.RecordProgress(context.Background(), user.ID, video.ID.Hex(), 500, nil)
	require.NoError(t, err)
	assert.Equal(t, 500.0, record.WatchProgress)
	assert.Equal(t, 0.0, record.WatchPercentage, "percentage is undefined without a duration")
	assert.False(t, record.IsCompleted)
}

func TestRecordProgressToleratesDeletedVideo(t *testing.T) {
	f := newHistoryFixture()
	user := f.addUser(t, "alice")

	// Video was deleted but the player still reports; progress is kept
	record, err := f.service.RecordProgress(context.Background(), user.ID, primitive.NewObjectID().Hex(), 42, nil)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, 42.0, record.WatchProgress)
	assert.Equal(t, 0.0, record.WatchPercentage)
}

func TestRecordProgressMergesDeviceInfo(t *testing.T) {
	f := newHistoryFixture()
	user := f.addUser(t, "alice")
	video := f.addVideo(t, 100)
	ctx := context.Background()

	_, err := f.service.RecordProgress(ctx, user.ID, video.ID.Hex(), 10, &models.DeviceInfo{
		UserAgent: "Mozilla/5.0",
		Platform:  "macOS",
		Browser:   "Firefox",
	})
	require.NoError(t, err)

	// A partial report only overwrites the fields it carries
	record, err := f.service.RecordProgress(ctx, user.ID, video.ID.Hex(), 20, &models.DeviceInfo{
		Browser: "Chrome",
	})
	require.NoError(t, err)
	assert.Equal(t, "Mozilla/5.0", record.DeviceInfo.UserAgent)
	assert.Equal(t, "macOS", record.DeviceInfo.Platform)
	assert.Equal(t, "Chrome", record.DeviceInfo.Browser)
}

func TestRecordProgressDroppedWhilePaused(t *testing.T) {
	f := newHistoryFixture()
	user := f.addUser(t, "alice")
	video := f.addVideo(t, 100)
	ctx := context.Background()

	require.NoError(t, f.service.SetPaused(ctx, user.ID, true))

	record, err := f.service.RecordProgress(ctx, user.ID, video.ID.Hex(), 30, nil)
	require.NoError(t, err)
	assert.Nil(t, record, "reports while paused are dropped, not an error")
	assert.Empty(t, f.history.records)

	require.NoError(t, f.service.SetPaused(ctx, user.ID, false))
	record, err = f.service.RecordProgress(ctx, user.ID, video.ID.Hex(), 30, nil)
	require.NoError(t, err)
	assert.NotNil(t, record)
}

func TestGetUserHistoryPagination(t *testing.T) {
	f := newHistoryFixture()
	user := f.addUser(t, "alice")
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		video := f.addVideo(t, 100)
		_, err := f.service.RecordProgress(ctx, user.ID, video.ID.Hex(), float64(10*i+1), nil)
		require.NoError(t, err)
	}

	page, err := f.service.GetUserHistory(ctx, user.ID, 1, 2)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, int64(5), page.TotalItems)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.HasNextPage)

	beyond, err := f.service.GetUserHistory(ctx, user.ID, 10, 2)
	require.NoError(t, err)
	assert.Empty(t, beyond.Items)
	assert.False(t, beyond.HasNextPage)
}

func TestGetUserStatsAggregates(t *testing.T) {
	f := newHistoryFixture()
	user := f.addUser(t, "alice")
	ctx := context.Background()

	first := f.addVideo(t, 100)
	second := f.addVideo(t, 200)
	_, err := f.service.RecordProgress(ctx, user.ID, first.ID.Hex(), 95, nil) // completed
	require.NoError(t, err)
	_, err = f.service.RecordProgress(ctx, user.ID, second.ID.Hex(), 100, nil) // 50%
	require.NoError(t, err)

	stats, err := f.service.GetUserStats(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalVideos)
	assert.Equal(t, 195.0, stats.TotalWatchSeconds)
	assert.Equal(t, int64(1), stats.CompletedVideos)
	assert.InDelta(t, 72.5, stats.AverageWatchPercentage, 0.01)
	assert.Equal(t, int64(2), stats.TotalSessions)
	assert.Equal(t, "0h 3m", stats.TotalWatchTime)
	assert.NotNil(t, stats.FirstWatchedAt)
	assert.NotNil(t, stats.LastWatchedAt)
}

func TestGetUserStatsEmptyHistory(t *testing.T) {
	f := newHistoryFixture()
	user := f.addUser(t, "alice")

	stats, err := f.service.GetUserStats(context.Background(), user.ID)
	require.NoError(t, err, "no history yields zeroed stats, not an error")
	assert.Equal(t, int64(0), stats.TotalVideos)
	assert.Equal(t, "0h 0m", stats.TotalWatchTime)
	assert.Nil(t, stats.FirstWatchedAt)
	assert.Nil(t, stats.LastWatchedAt)
}

func TestFormatWatchTime(t *testing.T) {
	assert.Equal(t, "0h 0m", formatWatchTime(0))
	assert.Equal(t, "0h 1m", formatWatchTime(61))
	assert.Equal(t, "2h 5m", formatWatchTime(2*3600+5*60+59))
}

func TestClearHistoryRemovesOnlyOwnRecords(t *testing.T) {
	f := newHistoryFixture()
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")
	video := f.addVideo(t, 100)
	ctx := context.Background()

	_, err := f.service.RecordProgress(ctx, alice.ID, video.ID.Hex(), 10, nil)
	require.NoError(t, err)
	_, err = f.service.RecordProgress(ctx, bob.ID, video.ID.Hex(), 20, nil)
	require.NoError(t, err)

	require.NoError(t, f.service.ClearHistory(ctx, alice.ID))

	_, err = f.history.GetByUserAndVideo(ctx, bob.ID, video.ID.Hex())
	assert.NoError(t, err, "other users' records survive a clear")
	assert.Len(t, f.history.records, 1)
}

func TestRemoveVideoFromHistory(t *testing.T) {
	f := newHistoryFixture()
	user := f.addUser(t, "alice")
	video := f.addVideo(t, 100)
	ctx := context.Background()

	_, err := f.service.RecordProgress(ctx, user.ID, video.ID.Hex(), 10, nil)
	require.NoError(t, err)

	require.NoError(t, f.service.RemoveVideo(ctx, user.ID, video.ID.Hex()))
	assert.Empty(t, f.history.records)
}
