package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"instaclone/backend/internal/cache"
	"instaclone/backend/internal/hub"
	"instaclone/backend/internal/media"
	"instaclone/backend/internal/models"
	"instaclone/backend/internal/store/memory"
	apperrors "instaclone/backend/pkg/errors"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test-secret-0123456789"

type recordingNotifier struct {
	mu     sync.Mutex
	events map[uint][]hub.Event
}

func (n *recordingNotifier) Publish(userID uint, event hub.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.events == nil {
		n.events = make(map[uint][]hub.Event)
	}
	n.events[userID] = append(n.events[userID], event)
}

func (n *recordingNotifier) For(userID uint) []hub.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.events[userID]
}

type testEnv struct {
	ctx      context.Context
	store    *memory.Store
	storage  *media.LocalStorage
	cache    *cache.MemoryCache
	notifier *recordingNotifier

	users   *UserService
	friends *FriendService
	posts   *PostService
	feed    *FeedService
	tokens  *TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st := memory.New()
	storage, err := media.NewLocalStorage(t.TempDir(), "/media")
	require.NoError(t, err)
	c := cache.NewMemoryCache()
	notifier := &recordingNotifier{}

	posts := NewPostService(st, st, storage)
	return &testEnv{
		ctx:      context.Background(),
		store:    st,
		storage:  storage,
		cache:    c,
		notifier: notifier,
		users:    NewUserService(st, storage, UserOptions{BcryptCost: bcrypt.MinCost, ProfileImageMaxDim: 64}),
		friends:  NewFriendService(st, st, storage, notifier),
		posts:    posts,
		feed:     NewFeedService(posts, c, 10, 3*time.Minute),
		tokens:   NewTokenService(st, st, testJWTSecret, 24*time.Hour, bcrypt.MinCost),
	}
}

func (e *testEnv) createUser(t *testing.T, username string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{Username: username, Email: username + "@example.com", PasswordHash: string(hash)}
	require.NoError(t, e.store.CreateUser(e.ctx, &user))
	return user
}

// befriend creates and accepts a request from -> to, producing the edge from -> to.
func (e *testEnv) befriend(t *testing.T, from, to models.User) models.Friend {
	t.Helper()
	req := models.FriendRequest{FromUserID: from.ID, ToUserID: to.ID}
	require.NoError(t, e.store.CreateFriendRequest(e.ctx, &req))
	friend, err := e.store.AcceptFriendRequest(e.ctx, &req)
	require.NoError(t, err)
	return *friend
}

func (e *testEnv) createPost(t *testing.T, owner models.User, audience models.Audience) models.Post {
	t.Helper()
	post := models.Post{UserID: owner.ID, File: "posts/" + owner.Username + ".jpg", Audience: audience}
	require.NoError(t, e.store.CreatePost(e.ctx, &post))
	return post
}

func requireCode(t *testing.T, err error, code string) *apperrors.AppError {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok, "expected AppError, got %v", err)
	require.Equal(t, code, appErr.Code, "unexpected error: %v", err)
	return appErr
}
