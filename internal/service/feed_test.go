package service

import (
	"encoding/json"
	"testing"

	"instaclone/backend/internal/models"
	apperrors "instaclone/backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeFeed(t *testing.T, body []byte) PaginatedResponse[PostDetailView] {
	t.Helper()
	var page PaginatedResponse[PostDetailView]
	require.NoError(t, json.Unmarshal(body, &page))
	return page
}

func TestFeedService_FriendsScenario(t *testing.T) {
	env := newTestEnv(t)
	user1 := env.createUser(t, "user1")
	user2 := env.createUser(t, "user2")
	user3 := env.createUser(t, "user3")
	env.befriend(t, user1, user2)

	post := env.createPost(t, user2, models.AudienceFriends)

	body, err := env.feed.Page(env.ctx, user1.ID, 1)
	require.NoError(t, err)
	page := decodeFeed(t, body)
	require.Len(t, page.Data, 1)
	assert.Equal(t, post.ID, page.Data[0].ID)
	assert.Equal(t, int64(1), page.Meta.TotalItems)

	body, err = env.feed.Page(env.ctx, user3.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, decodeFeed(t, body).Data)

	body, err = env.feed.Page(env.ctx, user2.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, decodeFeed(t, body).Data, "edges are one-directional")
}

func TestFeedService_CloseFriendsVisibility(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	closeFriend := env.createUser(t, "close")
	plain := env.createUser(t, "plain")

	edge := env.befriend(t, owner, closeFriend)
	require.NoError(t, env.store.SetCloseFriend(env.ctx, edge.ID, true))
	env.befriend(t, owner, plain)
	env.befriend(t, plain, owner)

	closePost := env.createPost(t, owner, models.AudienceCloseFriends)

	body, err := env.feed.Page(env.ctx, closeFriend.ID, 1)
	require.NoError(t, err)
	page := decodeFeed(t, body)
	require.Len(t, page.Data, 1)
	assert.Equal(t, closePost.ID, page.Data[0].ID)

	body, err = env.feed.Page(env.ctx, plain.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, decodeFeed(t, body).Data, "following the owner is not enough for close friends posts")
}

func TestFeedService_WithholdsCountsByFlag(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	viewer := env.createUser(t, "viewer")
	env.befriend(t, viewer, owner)

	post := env.createPost(t, owner, models.AudienceFriends)
	post.HideLikeAndViewCounts = true
	post.TurnOffComments = true
	require.NoError(t, env.store.UpdatePost(env.ctx, &post))
	_, err := env.posts.Comment(env.ctx, viewer.ID, CommentInput{Post: post.ID, Comment: "still allowed"})
	require.NoError(t, err)

	body, err := env.feed.Page(env.ctx, viewer.ID, 1)
	require.NoError(t, err)
	page := decodeFeed(t, body)
	require.Len(t, page.Data, 1)
	assert.Nil(t, page.Data[0].LikesCount)
	assert.Nil(t, page.Data[0].CommentsCount)
	assert.Len(t, page.Data[0].Comments, 1)

	detail, err := env.posts.Detail(env.ctx, owner.ID, post.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.LikesCount, "detail always shows counts")
	require.NotNil(t, detail.CommentsCount)
	assert.Equal(t, int64(1), *detail.CommentsCount)
}

func TestFeedService_OrderAndPagination(t *testing.T) {
	env := newTestEnv(t)
	env.feed.pageSize = 2
	owner := env.createUser(t, "owner")
	viewer := env.createUser(t, "viewer")
	env.befriend(t, viewer, owner)

	first := env.createPost(t, owner, models.AudienceFriends)
	second := env.createPost(t, owner, models.AudienceFriends)
	third := env.createPost(t, owner, models.AudienceFriends)

	// Updating a post moves it to the front.
	require.NoError(t, env.store.UpdatePost(env.ctx, &first))

	body, err := env.feed.Page(env.ctx, viewer.ID, 1)
	require.NoError(t, err)
	page := decodeFeed(t, body)
	require.Len(t, page.Data, 2)
	assert.Equal(t, first.ID, page.Data[0].ID)
	assert.Equal(t, third.ID, page.Data[1].ID)
	assert.Equal(t, 2, page.Meta.TotalPages)

	body, err = env.feed.Page(env.ctx, viewer.ID, 2)
	require.NoError(t, err)
	page = decodeFeed(t, body)
	require.Len(t, page.Data, 1)
	assert.Equal(t, second.ID, page.Data[0].ID)

	_, err = env.feed.Page(env.ctx, viewer.ID, 3)
	requireCode(t, err, apperrors.ErrCodeNotFound)

	_, err = env.feed.Page(env.ctx, viewer.ID, 0)
	requireCode(t, err, apperrors.ErrCodeNotFound)
}

func TestFeedService_CachesRenderedPage(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	viewer := env.createUser(t, "viewer")
	env.befriend(t, viewer, owner)
	env.createPost(t, owner, models.AudienceFriends)

	first, err := env.feed.Page(env.ctx, viewer.ID, 1)
	require.NoError(t, err)

	env.createPost(t, owner, models.AudienceFriends)

	cached, err := env.feed.Page(env.ctx, viewer.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, first, cached, "the page is served from cache until the TTL expires")
	assert.Len(t, decodeFeed(t, cached).Data, 1)

	stored, err := env.cache.Get(env.ctx, feedCacheKey(viewer.ID, 1))
	require.NoError(t, err)
	assert.Equal(t, first, stored)
}
