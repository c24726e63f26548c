package memory

import (
	"context"

	"instaclone/backend/internal/models"
	"instaclone/backend/internal/store"
)

func (s *Store) CreateFriendRequest(_ context.Context, req *models.FriendRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.requests {
		if existing.FromUserID == req.FromUserID && existing.ToUserID == req.ToUserID {
			return store.ErrDuplicate
		}
	}

	now := s.nowLocked()
	req.ID = s.nextIDLocked()
	req.CreatedAt = now
	req.UpdatedAt = now
	s.requests[req.ID] = stripRequest(*req)
	return nil
}

func (s *Store) GetFriendRequest(_ context.Context, id uint) (*models.FriendRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	req, ok := s.requests[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &req, nil
}

func (s *Store) ListPendingRequests(_ context.Context, toUserID uint) ([]models.FriendRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	requests := []models.FriendRequest{}
	for _, id := range sortedIDs(s.requests) {
		req := s.requests[id]
		if req.ToUserID != toUserID || req.Accepted {
			continue
		}
		req.FromUser = s.userLocked(req.FromUserID)
		requests = append(requests, req)
	}
	return requests, nil
}

func (s *Store) AcceptFriendRequest(_ context.Context, req *models.FriendRequest) (*models.Friend, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.requests[req.ID]
	if !ok {
		return nil, store.ErrNotFound
	}

	now := s.nowLocked()
	stored.Accepted = true
	stored.UpdatedAt = now
	s.requests[stored.ID] = stored

	if existing, ok := s.findFriendLocked(stored.FromUserID, stored.ToUserID); ok {
		req.Accepted = true
		return &existing, nil
	}

	friend := models.Friend{
		ID:        s.nextIDLocked(),
		UserID:    stored.FromUserID,
		FriendID:  stored.ToUserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.friends[friend.ID] = friend
	req.Accepted = true
	return &friend, nil
}

func (s *Store) DeleteFriendRequest(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.requests[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.requests, id)
	return nil
}

func (s *Store) GetFriendship(_ context.Context, id uint) (*models.Friend, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	friend, ok := s.friends[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	friend.FriendUser = s.userLocked(friend.FriendID)
	return &friend, nil
}

func (s *Store) FindFriend(_ context.Context, userID, friendID uint) (*models.Friend, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	friend, ok := s.findFriendLocked(userID, friendID)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &friend, nil
}

func (s *Store) findFriendLocked(userID, friendID uint) (models.Friend, bool) {
	for _, friend := range s.friends {
		if friend.UserID == userID && friend.FriendID == friendID {
			return friend, true
		}
	}
	return models.Friend{}, false
}

func (s *Store) ListFriends(_ context.Context, userID uint) ([]models.Friend, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	friends := []models.Friend{}
	for _, id := range sortedIDs(s.friends) {
		friend := s.friends[id]
		if friend.UserID != userID {
			continue
		}
		friend.FriendUser = s.userLocked(friend.FriendID)
		friends = append(friends, friend)
	}
	return friends, nil
}

func (s *Store) SetCloseFriend(_ context.Context, id uint, isCloseFriend bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	friend, ok := s.friends[id]
	if !ok {
		return store.ErrNotFound
	}
	friend.IsCloseFriend = isCloseFriend
	friend.UpdatedAt = s.nowLocked()
	s.friends[id] = friend
	return nil
}

func (s *Store) RemoveFriendship(_ context.Context, friendship *models.Friend) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.friends[friendship.ID]; !ok {
		return store.ErrNotFound
	}
	for id, req := range s.requests {
		forward := req.FromUserID == friendship.UserID && req.ToUserID == friendship.FriendID
		reverse := req.FromUserID == friendship.FriendID && req.ToUserID == friendship.UserID
		if forward || reverse {
			delete(s.requests, id)
		}
	}
	delete(s.friends, friendship.ID)
	return nil
}

// Requests returns a snapshot of every stored friend request. Used by tests.
func (s *Store) Requests() []models.FriendRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	requests := make([]models.FriendRequest, 0, len(s.requests))
	for _, id := range sortedIDs(s.requests) {
		requests = append(requests, s.requests[id])
	}
	return requests
}

// Friends returns a snapshot of every stored friend edge. Used by tests.
func (s *Store) Friends() []models.Friend {
	s.mu.RLock()
	defer s.mu.RUnlock()

	friends := make([]models.Friend, 0, len(s.friends))
	for _, id := range sortedIDs(s.friends) {
		friends = append(friends, s.friends[id])
	}
	return friends
}

func stripRequest(req models.FriendRequest) models.FriendRequest {
	req.FromUser = models.User{}
	req.ToUser = models.User{}
	return req
}
