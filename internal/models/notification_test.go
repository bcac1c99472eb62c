package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetRelatedMapsKindToField(t *testing.T) {
	cases := []struct {
		kind  RelatedKind
		check func(n *Notification) *string
	}{
		{RelatedVideo, func(n *Notification) *string { return n.RelatedVideo }},
		{RelatedComment, func(n *Notification) *string { return n.RelatedComment }},
		{RelatedTweet, func(n *Notification) *string { return n.RelatedTweet }},
		{RelatedChannel, func(n *Notification) *string { return n.RelatedChannel }},
	}

	for _, tc := range cases {
		n := &Notification{}
		require.NoError(t, n.SetRelated(&RelatedEntity{Kind: tc.kind, ID: "abc123"}))
		field := tc.check(n)
		require.NotNil(t, field, "kind %s", tc.kind)
		assert.Equal(t, "abc123", *field)
		assert.NoError(t, n.Validate())
	}
}

func TestSetRelatedRejectsUnknownKind(t *testing.T) {
	n := &Notification{}
	err := n.SetRelated(&RelatedEntity{Kind: RelatedKind("galaxy"), ID: "x"})
	assert.Error(t, err)
}

func TestSetRelatedNilIsNoop(t *testing.T) {
	n := &Notification{}
	require.NoError(t, n.SetRelated(nil))
	assert.Nil(t, n.RelatedVideo)
	assert.Nil(t, n.RelatedComment)
	assert.Nil(t, n.RelatedTweet)
	assert.Nil(t, n.RelatedChannel)
}

func TestValidateRejectsMultipleRelatedEntities(t *testing.T) {
	videoID := "v1"
	commentID := "c1"
	n := &Notification{
		Type:           NotificationVideoComment,
		Title:          "t",
		Message:        "m",
		RelatedVideo:   &videoID,
		RelatedComment: &commentID,
	}
	err := n.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most one")
}

func TestValidateLengthCaps(t *testing.T) {
	n := &Notification{
		Type:    NotificationSystem,
		Title:   strings.Repeat("a", NotificationTitleMaxLen),
		Message: strings.Repeat("b", NotificationMessageMaxLen),
	}
	assert.NoError(t, n.Validate(), "values at the cap are allowed")

	n.Title += "a"
	assert.Error(t, n.Validate())
}

func TestNotificationTypeValid(t *testing.T) {
	assert.True(t, NotificationVideoUploadSuccess.Valid())
	assert.True(t, NotificationSystem.Valid())
	assert.False(t, NotificationType("smoke_signal").Valid())
	assert.False(t, NotificationType("").Valid())
}

func TestContentKindDisplayName(t *testing.T) {
	for _, kind := range []ContentKind{ContentVideo, ContentComment, ContentTweet, ContentPlaylist} {
		label, ok := kind.DisplayName()
		assert.True(t, ok)
		assert.NotEmpty(t, label)
	}
	_, ok := ContentKind("sculpture").DisplayName()
	assert.False(t, ok)
}
