package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"instaclone/backend/internal/authz"
	"instaclone/backend/internal/hub"
	"instaclone/backend/internal/media"
	"instaclone/backend/internal/models"
	"instaclone/backend/internal/store"
	apperrors "instaclone/backend/pkg/errors"
	"instaclone/backend/pkg/logger"
)

const (
	msgSelfFriend      = "You cannot add yourself as friend"
	msgDuplicatePair   = "The fields from_user, to_user must make a unique set."
	msgAlreadyFriends  = "Friend request was already accepted"
	msgRequestNotFound = "Friend request not found"
	msgFriendNotFound  = "Friend not found"
)

// Notifier delivers real-time events to a user. Delivery is best effort.
type Notifier interface {
	Publish(userID uint, event hub.Event)
}

type nopNotifier struct{}

func (nopNotifier) Publish(uint, hub.Event) {}

// FriendService implements friend requests and friend edges.
type FriendService struct {
	users    store.UserStore
	friends  store.FriendStore
	storage  media.Storage
	notifier Notifier
}

func NewFriendService(users store.UserStore, friends store.FriendStore, storage media.Storage, notifier Notifier) *FriendService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &FriendService{users: users, friends: friends, storage: storage, notifier: notifier}
}

// SendRequest creates a pending request from actor to the user named toUsername.
func (s *FriendService) SendRequest(ctx context.Context, actorID uint, toUsername string) (*FriendRequestSentView, error) {
	toUsername = strings.TrimSpace(toUsername)
	if toUsername == "" {
		return nil, apperrors.FieldError("to_user", msgRequired)
	}

	to, err := s.users.GetUserByUsername(ctx, toUsername)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.FieldError("to_user", fmt.Sprintf("Object with username=%s does not exist.", toUsername))
	}
	if err != nil {
		return nil, dbError(err)
	}

	if to.ID == actorID {
		appErr := apperrors.FieldError("detail", msgSelfFriend)
		appErr.Message = msgSelfFriend
		return nil, appErr
	}

	req := models.FriendRequest{FromUserID: actorID, ToUserID: to.ID}
	if err := s.friends.CreateFriendRequest(ctx, &req); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperrors.FieldError("non_field_errors", msgDuplicatePair)
		}
		return nil, dbError(err)
	}

	s.notifier.Publish(to.ID, hub.Event{
		Type: hub.EventFriendRequestReceived,
		Payload: map[string]any{
			"request_id":   req.ID,
			"from_user_id": actorID,
		},
	})
	logger.Debug("Friend request sent", "request_id", req.ID, "from", actorID, "to", to.ID)

	return &FriendRequestSentView{ToUser: to.Username}, nil
}

// ListRequests returns the pending requests addressed to actor.
func (s *FriendService) ListRequests(ctx context.Context, actorID uint) ([]FriendRequestView, error) {
	requests, err := s.friends.ListPendingRequests(ctx, actorID)
	if err != nil {
		return nil, dbError(err)
	}
	views := make([]FriendRequestView, 0, len(requests))
	for _, req := range requests {
		views = append(views, FriendRequestView{
			UserView:  newUserView(s.storage, req.FromUser),
			RequestID: req.ID,
		})
	}
	return views, nil
}

func (s *FriendService) recipientRequest(ctx context.Context, actorID, requestID uint) (*models.FriendRequest, error) {
	req, err := s.friends.GetFriendRequest(ctx, requestID)
	if err != nil {
		return nil, lookupError(err, msgRequestNotFound)
	}
	if !authz.IsRequestRecipient(actorID, *req) {
		return nil, apperrors.Forbidden(msgNoPermission)
	}
	return req, nil
}

// Accept marks the request accepted and creates the requester -> recipient edge.
// Accepting twice is a no-op.
func (s *FriendService) Accept(ctx context.Context, actorID, requestID uint) error {
	req, err := s.recipientRequest(ctx, actorID, requestID)
	if err != nil {
		return err
	}
	if req.Accepted {
		return nil
	}

	friend, err := s.friends.AcceptFriendRequest(ctx, req)
	if err != nil {
		return lookupError(err, msgRequestNotFound)
	}

	s.notifier.Publish(req.FromUserID, hub.Event{
		Type: hub.EventFriendRequestAccepted,
		Payload: map[string]any{
			"request_id": req.ID,
			"friend_id":  friend.ID,
			"user_id":    actorID,
		},
	})
	logger.Debug("Friend request accepted", "request_id", req.ID, "friend_id", friend.ID)
	return nil
}

// Reject deletes a pending request. A request whose edge already exists cannot be rejected.
func (s *FriendService) Reject(ctx context.Context, actorID, requestID uint) error {
	req, err := s.recipientRequest(ctx, actorID, requestID)
	if err != nil {
		return err
	}

	_, err = s.friends.FindFriend(ctx, req.FromUserID, req.ToUserID)
	if err == nil {
		return apperrors.Conflict(msgAlreadyFriends)
	}
	if !errors.Is(err, store.ErrNotFound) {
		return dbError(err)
	}

	if err := s.friends.DeleteFriendRequest(ctx, req.ID); err != nil {
		return lookupError(err, msgRequestNotFound)
	}
	return nil
}

// ListFriends returns the edges owned by actor in creation order.
func (s *FriendService) ListFriends(ctx context.Context, actorID uint) ([]FriendView, error) {
	friends, err := s.friends.ListFriends(ctx, actorID)
	if err != nil {
		return nil, dbError(err)
	}
	views := make([]FriendView, 0, len(friends))
	for _, f := range friends {
		views = append(views, s.friendView(f))
	}
	return views, nil
}

// GetFriend returns one of actor's edges. Edges owned by others are reported as missing.
func (s *FriendService) GetFriend(ctx context.Context, actorID, friendshipID uint) (*FriendView, error) {
	friendship, err := s.friends.GetFriendship(ctx, friendshipID)
	if err != nil {
		return nil, lookupError(err, msgFriendNotFound)
	}
	if !authz.OwnsFriendship(actorID, *friendship) {
		return nil, apperrors.NotFound(msgFriendNotFound)
	}
	view := s.friendView(*friendship)
	return &view, nil
}

func (s *FriendService) ownedFriendship(ctx context.Context, actorID, friendshipID uint) (*models.Friend, error) {
	friendship, err := s.friends.GetFriendship(ctx, friendshipID)
	if err != nil {
		return nil, lookupError(err, msgFriendNotFound)
	}
	if !authz.OwnsFriendship(actorID, *friendship) {
		return nil, apperrors.Forbidden(msgNoPermission)
	}
	return friendship, nil
}

// SetCloseFriend sets the close-friend flag of an edge. Setting the current value is a no-op.
func (s *FriendService) SetCloseFriend(ctx context.Context, actorID, friendshipID uint, closeFriend bool) error {
	friendship, err := s.ownedFriendship(ctx, actorID, friendshipID)
	if err != nil {
		return err
	}
	if friendship.IsCloseFriend == closeFriend {
		return nil
	}
	if err := s.friends.SetCloseFriend(ctx, friendship.ID, closeFriend); err != nil {
		return lookupError(err, msgFriendNotFound)
	}
	return nil
}

// RemoveFriend deletes the edge together with every request between the pair.
func (s *FriendService) RemoveFriend(ctx context.Context, actorID, friendshipID uint) error {
	friendship, err := s.ownedFriendship(ctx, actorID, friendshipID)
	if err != nil {
		return err
	}
	if err := s.friends.RemoveFriendship(ctx, friendship); err != nil {
		return lookupError(err, msgFriendNotFound)
	}
	logger.Debug("Friend removed", "friend_id", friendship.ID, "user", friendship.UserID, "friend", friendship.FriendID)
	return nil
}

func (s *FriendService) friendView(f models.Friend) FriendView {
	return FriendView{
		UserView:      newUserView(s.storage, f.FriendUser),
		FriendID:      f.ID,
		IsCloseFriend: f.IsCloseFriend,
	}
}
