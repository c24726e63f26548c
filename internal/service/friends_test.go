package service

import (
	"testing"

	"instaclone/backend/internal/hub"
	"instaclone/backend/internal/models"
	apperrors "instaclone/backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFriendService_SendRequest(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	view, err := env.friends.SendRequest(env.ctx, alice.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", view.ToUser)

	requests := env.store.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, alice.ID, requests[0].FromUserID)
	assert.Equal(t, bob.ID, requests[0].ToUserID)
	assert.False(t, requests[0].Accepted)

	events := env.notifier.For(bob.ID)
	require.Len(t, events, 1)
	assert.Equal(t, hub.EventFriendRequestReceived, events[0].Type)

	_, err = env.friends.SendRequest(env.ctx, alice.ID, "bob")
	appErr := requireCode(t, err, apperrors.ErrCodeValidation)
	assert.Equal(t, []string{msgDuplicatePair}, appErr.Fields["non_field_errors"])
	assert.Len(t, env.store.Requests(), 1)

	// The reverse direction is a distinct pair.
	_, err = env.friends.SendRequest(env.ctx, bob.ID, "alice")
	require.NoError(t, err)
	assert.Len(t, env.store.Requests(), 2)
}

func TestFriendService_SendRequestValidation(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")

	_, err := env.friends.SendRequest(env.ctx, alice.ID, "alice")
	appErr := requireCode(t, err, apperrors.ErrCodeValidation)
	assert.Equal(t, msgSelfFriend, appErr.Message)

	_, err = env.friends.SendRequest(env.ctx, alice.ID, "nobody")
	appErr = requireCode(t, err, apperrors.ErrCodeValidation)
	assert.Contains(t, appErr.Fields, "to_user")

	_, err = env.friends.SendRequest(env.ctx, alice.ID, " ")
	appErr = requireCode(t, err, apperrors.ErrCodeValidation)
	assert.Equal(t, []string{msgRequired}, appErr.Fields["to_user"])

	assert.Empty(t, env.store.Requests())
}

func pendingRequest(t *testing.T, env *testEnv, from, to models.User) models.FriendRequest {
	t.Helper()
	req := models.FriendRequest{FromUserID: from.ID, ToUserID: to.ID}
	require.NoError(t, env.store.CreateFriendRequest(env.ctx, &req))
	return req
}

func TestFriendService_ListRequests(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")

	fromAlice := pendingRequest(t, env, alice, bob)
	fromCarol := pendingRequest(t, env, carol, bob)
	pendingRequest(t, env, bob, alice)
	require.NoError(t, env.friends.Accept(env.ctx, bob.ID, fromCarol.ID))

	views, err := env.friends.ListRequests(env.ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, views, 1, "accepted and outgoing requests are not listed")
	assert.Equal(t, fromAlice.ID, views[0].RequestID)
	assert.Equal(t, alice.ID, views[0].ID)
	assert.Equal(t, "alice", views[0].Username)
}

func TestFriendService_Accept(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	req := pendingRequest(t, env, alice, bob)

	err := env.friends.Accept(env.ctx, alice.ID, req.ID)
	requireCode(t, err, apperrors.ErrCodeForbidden)
	assert.Empty(t, env.store.Friends(), "forbidden accept changes nothing")
	assert.False(t, env.store.Requests()[0].Accepted)

	require.NoError(t, env.friends.Accept(env.ctx, bob.ID, req.ID))
	require.NoError(t, env.friends.Accept(env.ctx, bob.ID, req.ID), "accepting twice is a no-op")

	assert.True(t, env.store.Requests()[0].Accepted)
	friends := env.store.Friends()
	require.Len(t, friends, 1, "acceptance creates exactly one directed edge")
	assert.Equal(t, alice.ID, friends[0].UserID)
	assert.Equal(t, bob.ID, friends[0].FriendID)
	assert.False(t, friends[0].IsCloseFriend)

	events := env.notifier.For(alice.ID)
	require.Len(t, events, 1)
	assert.Equal(t, hub.EventFriendRequestAccepted, events[0].Type)

	requireCode(t, env.friends.Accept(env.ctx, bob.ID, 9999), apperrors.ErrCodeNotFound)
}

func TestFriendService_Reject(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	req := pendingRequest(t, env, alice, bob)

	requireCode(t, env.friends.Reject(env.ctx, alice.ID, req.ID), apperrors.ErrCodeForbidden)
	assert.Len(t, env.store.Requests(), 1)

	require.NoError(t, env.friends.Reject(env.ctx, bob.ID, req.ID))
	assert.Empty(t, env.store.Requests())
	assert.Empty(t, env.store.Friends())
}

func TestFriendService_RejectAfterAcceptConflicts(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	req := pendingRequest(t, env, alice, bob)
	require.NoError(t, env.friends.Accept(env.ctx, bob.ID, req.ID))

	requireCode(t, env.friends.Reject(env.ctx, bob.ID, req.ID), apperrors.ErrCodeConflict)
	assert.Len(t, env.store.Requests(), 1)
}

func TestFriendService_ListAndGetFriends(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")

	first := env.befriend(t, alice, bob)
	second := env.befriend(t, alice, carol)

	views, err := env.friends.ListFriends(env.ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, first.ID, views[0].FriendID)
	assert.Equal(t, "bob", views[0].Username)
	assert.Equal(t, second.ID, views[1].FriendID)

	bobsFriends, err := env.friends.ListFriends(env.ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, bobsFriends, "edges are one-directional")

	view, err := env.friends.GetFriend(env.ctx, alice.ID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, view.ID)

	_, err = env.friends.GetFriend(env.ctx, bob.ID, first.ID)
	requireCode(t, err, apperrors.ErrCodeNotFound)
}

func TestFriendService_SetCloseFriend(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	edge := env.befriend(t, alice, bob)

	requireCode(t, env.friends.SetCloseFriend(env.ctx, bob.ID, edge.ID, true), apperrors.ErrCodeForbidden)
	assert.False(t, env.store.Friends()[0].IsCloseFriend)

	require.NoError(t, env.friends.SetCloseFriend(env.ctx, alice.ID, edge.ID, true))
	require.NoError(t, env.friends.SetCloseFriend(env.ctx, alice.ID, edge.ID, true))
	assert.True(t, env.store.Friends()[0].IsCloseFriend)

	require.NoError(t, env.friends.SetCloseFriend(env.ctx, alice.ID, edge.ID, false))
	require.NoError(t, env.friends.SetCloseFriend(env.ctx, alice.ID, edge.ID, false))
	assert.False(t, env.store.Friends()[0].IsCloseFriend)

	requireCode(t, env.friends.SetCloseFriend(env.ctx, alice.ID, 9999, true), apperrors.ErrCodeNotFound)
}

func TestFriendService_RemoveFriend(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")

	edge := env.befriend(t, alice, bob)
	pendingRequest(t, env, bob, alice)
	other := pendingRequest(t, env, carol, alice)

	requireCode(t, env.friends.RemoveFriend(env.ctx, bob.ID, edge.ID), apperrors.ErrCodeForbidden)
	assert.Len(t, env.store.Friends(), 1)

	require.NoError(t, env.friends.RemoveFriend(env.ctx, alice.ID, edge.ID))
	assert.Empty(t, env.store.Friends())

	requests := env.store.Requests()
	require.Len(t, requests, 1, "requests between the pair are removed in both directions")
	assert.Equal(t, other.ID, requests[0].ID)

	// The pair can become friends again afterwards.
	_, err := env.friends.SendRequest(env.ctx, alice.ID, "bob")
	require.NoError(t, err)
}
