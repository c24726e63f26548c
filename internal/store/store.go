// Package store defines persistence for users, friendships, posts and OAuth tokens.
package store

import (
	"context"
	"errors"

	"instaclone/backend/internal/models"
)

var (
	// ErrNotFound is returned when a lookup by key matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a uniqueness constraint.
	ErrDuplicate = errors.New("duplicate record")
)

// UserStore persists users, profiles and profile links.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	ListUsers(ctx context.Context, page, limit int) ([]models.User, int64, error)

	GetProfile(ctx context.Context, userID uint) (*models.UserProfile, error)
	SaveProfile(ctx context.Context, profile *models.UserProfile) error

	ListLinks(ctx context.Context, userID uint) ([]models.UserLink, error)
	CreateLink(ctx context.Context, link *models.UserLink) error
	DeleteLink(ctx context.Context, userID, linkID uint) error
}

// FriendStore persists friend requests and friend edges.
type FriendStore interface {
	CreateFriendRequest(ctx context.Context, req *models.FriendRequest) error
	GetFriendRequest(ctx context.Context, id uint) (*models.FriendRequest, error)
	// ListPendingRequests returns unaccepted requests addressed to userID with FromUser loaded.
	ListPendingRequests(ctx context.Context, toUserID uint) ([]models.FriendRequest, error)
	// AcceptFriendRequest marks req accepted and creates Friend{UserID: req.FromUserID, FriendID: req.ToUserID}
	// in a single transaction.
	AcceptFriendRequest(ctx context.Context, req *models.FriendRequest) (*models.Friend, error)
	DeleteFriendRequest(ctx context.Context, id uint) error

	GetFriendship(ctx context.Context, id uint) (*models.Friend, error)
	// FindFriend looks up the edge userID -> friendID.
	FindFriend(ctx context.Context, userID, friendID uint) (*models.Friend, error)
	// ListFriends returns the edges owned by userID in insertion order with FriendUser loaded.
	ListFriends(ctx context.Context, userID uint) ([]models.Friend, error)
	SetCloseFriend(ctx context.Context, id uint, isCloseFriend bool) error
	// RemoveFriendship deletes the edge and every friend request between the pair, in one transaction.
	RemoveFriendship(ctx context.Context, friendship *models.Friend) error
}

// PostStore persists posts, likes and comments.
type PostStore interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, id uint) (*models.Post, error)
	// GetUserPost returns the post only when it is owned by userID.
	GetUserPost(ctx context.Context, userID, id uint) (*models.Post, error)
	ListUserPosts(ctx context.Context, userID uint) ([]models.Post, error)
	UpdatePost(ctx context.Context, post *models.Post) error
	DeletePost(ctx context.Context, post *models.Post) error

	CountLikes(ctx context.Context, postID uint) (int64, error)
	CountComments(ctx context.Context, postID uint) (int64, error)
	// ListLikes returns active likes, most recently updated first, with LikedBy loaded.
	ListLikes(ctx context.Context, postID uint) ([]models.PostLike, error)
	// ListComments returns comments, most recently updated first, with CommentedBy loaded.
	ListComments(ctx context.Context, postID uint) ([]models.PostComment, error)
	// SetLike creates or updates the (post, user) like record.
	SetLike(ctx context.Context, postID, userID uint, liked bool) (*models.PostLike, error)
	CreateComment(ctx context.Context, comment *models.PostComment) error

	// ListFeed returns one page of posts visible to viewerID and the total number of visible posts.
	ListFeed(ctx context.Context, viewerID uint, page, limit int) ([]models.Post, int64, error)
}

// OAuthStore persists client applications and issued access tokens.
type OAuthStore interface {
	CreateApplication(ctx context.Context, app *models.Application) error
	GetApplicationByClientID(ctx context.Context, clientID string) (*models.Application, error)
	CreateAccessToken(ctx context.Context, token *models.AccessToken) error
	GetAccessToken(ctx context.Context, token string) (*models.AccessToken, error)
}

// Store is the full persistence surface used by the services.
type Store interface {
	UserStore
	FriendStore
	PostStore
	OAuthStore
}

// Offset converts a 1-based page into a row offset.
func Offset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}
