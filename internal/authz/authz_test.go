package authz

import (
	"testing"

	"instaclone/backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestIsRequestRecipient(t *testing.T) {
	req := models.FriendRequest{FromUserID: 1, ToUserID: 2}

	assert.True(t, IsRequestRecipient(2, req))
	assert.False(t, IsRequestRecipient(1, req), "sender must not accept their own request")
	assert.False(t, IsRequestRecipient(3, req))
	assert.False(t, IsRequestRecipient(0, models.FriendRequest{}))
}

func TestOwnsFriendship(t *testing.T) {
	edge := models.Friend{UserID: 1, FriendID: 2}

	assert.True(t, OwnsFriendship(1, edge))
	assert.False(t, OwnsFriendship(2, edge))
	assert.False(t, OwnsFriendship(0, models.Friend{}))
}

func TestEngagementEdge(t *testing.T) {
	friendsPost := models.Post{UserID: 10, Audience: models.AudienceFriends}
	closePost := models.Post{UserID: 10, Audience: models.AudienceCloseFriends}

	assert.Equal(t, Edge{UserID: 5, FriendID: 10}, EngagementEdge(friendsPost, 5))
	assert.Equal(t, Edge{UserID: 10, FriendID: 5, RequireClose: true}, EngagementEdge(closePost, 5))
}

func TestCanEngage(t *testing.T) {
	tests := []struct {
		name       string
		post       models.Post
		friendship *models.Friend
		want       bool
	}{
		{
			name: "friends post without edge",
			post: models.Post{UserID: 10, Audience: models.AudienceFriends},
			want: false,
		},
		{
			name:       "friends post with viewer to owner edge",
			post:       models.Post{UserID: 10, Audience: models.AudienceFriends},
			friendship: &models.Friend{UserID: 5, FriendID: 10},
			want:       true,
		},
		{
			name:       "friends post with reverse edge only",
			post:       models.Post{UserID: 10, Audience: models.AudienceFriends},
			friendship: &models.Friend{UserID: 10, FriendID: 5},
			want:       false,
		},
		{
			name:       "close friends post with plain edge",
			post:       models.Post{UserID: 10, Audience: models.AudienceCloseFriends},
			friendship: &models.Friend{UserID: 10, FriendID: 5},
			want:       false,
		},
		{
			name:       "close friends post with flagged edge",
			post:       models.Post{UserID: 10, Audience: models.AudienceCloseFriends},
			friendship: &models.Friend{UserID: 10, FriendID: 5, IsCloseFriend: true},
			want:       true,
		},
		{
			name:       "close friends post with viewer to owner edge",
			post:       models.Post{UserID: 10, Audience: models.AudienceCloseFriends},
			friendship: &models.Friend{UserID: 5, FriendID: 10, IsCloseFriend: true},
			want:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edge := EngagementEdge(tt.post, 5)
			assert.Equal(t, tt.want, CanEngage(edge, tt.friendship))
		})
	}
}
