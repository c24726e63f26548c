package memory

import (
	"context"
	"sort"

	"instaclone/backend/internal/models"
	"instaclone/backend/internal/store"
)

func (s *Store) CreatePost(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[post.UserID]; !ok {
		return store.ErrNotFound
	}
	if post.Audience == "" {
		post.Audience = models.AudienceFriends
	}

	now := s.nowLocked()
	post.ID = s.nextIDLocked()
	post.CreatedAt = now
	post.UpdatedAt = now

	stored := *post
	stored.User = models.User{}
	s.posts[post.ID] = stored
	return nil
}

func (s *Store) GetPost(_ context.Context, id uint) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	post.User = s.userLocked(post.UserID)
	return &post, nil
}

func (s *Store) GetUserPost(ctx context.Context, userID, id uint) (*models.Post, error) {
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, store.ErrNotFound
	}
	return post, nil
}

func (s *Store) ListUserPosts(_ context.Context, userID uint) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := []models.Post{}
	for _, post := range s.posts {
		if post.UserID == userID {
			posts = append(posts, post)
		}
	}
	sort.Slice(posts, func(i, j int) bool {
		return newestFirst(posts[i].CreatedAt, posts[j].CreatedAt, posts[i].ID, posts[j].ID)
	})
	return posts, nil
}

func (s *Store) UpdatePost(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[post.ID]; !ok {
		return store.ErrNotFound
	}
	post.UpdatedAt = s.nowLocked()
	stored := *post
	stored.User = models.User{}
	s.posts[post.ID] = stored
	return nil
}

func (s *Store) DeletePost(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[post.ID]; !ok {
		return store.ErrNotFound
	}
	delete(s.posts, post.ID)
	for id, like := range s.likes {
		if like.PostID == post.ID {
			delete(s.likes, id)
		}
	}
	for id, comment := range s.comments {
		if comment.PostID == post.ID {
			delete(s.comments, id)
		}
	}
	return nil
}

func (s *Store) CountLikes(_ context.Context, postID uint) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, like := range s.likes {
		if like.PostID == postID && like.IsLiked {
			count++
		}
	}
	return count, nil
}

func (s *Store) CountComments(_ context.Context, postID uint) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, comment := range s.comments {
		if comment.PostID == postID {
			count++
		}
	}
	return count, nil
}

func (s *Store) ListLikes(_ context.Context, postID uint) ([]models.PostLike, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	likes := []models.PostLike{}
	for _, like := range s.likes {
		if like.PostID == postID && like.IsLiked {
			like.LikedBy = s.userLocked(like.LikedByID)
			likes = append(likes, like)
		}
	}
	sort.Slice(likes, func(i, j int) bool {
		return newestFirst(likes[i].UpdatedAt, likes[j].UpdatedAt, likes[i].ID, likes[j].ID)
	})
	return likes, nil
}

func (s *Store) ListComments(_ context.Context, postID uint) ([]models.PostComment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	comments := []models.PostComment{}
	for _, comment := range s.comments {
		if comment.PostID == postID {
			comment.CommentedBy = s.userLocked(comment.CommentedByID)
			comments = append(comments, comment)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		return newestFirst(comments[i].UpdatedAt, comments[j].UpdatedAt, comments[i].ID, comments[j].ID)
	})
	return comments, nil
}

func (s *Store) SetLike(_ context.Context, postID, userID uint, liked bool) (*models.PostLike, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[postID]; !ok {
		return nil, store.ErrNotFound
	}

	now := s.nowLocked()
	for id, like := range s.likes {
		if like.PostID == postID && like.LikedByID == userID {
			like.IsLiked = liked
			like.UpdatedAt = now
			s.likes[id] = like
			return &like, nil
		}
	}

	like := models.PostLike{
		ID:        s.nextIDLocked(),
		PostID:    postID,
		LikedByID: userID,
		IsLiked:   liked,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.likes[like.ID] = like
	return &like, nil
}

func (s *Store) CreateComment(_ context.Context, comment *models.PostComment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[comment.PostID]; !ok {
		return store.ErrNotFound
	}

	now := s.nowLocked()
	comment.ID = s.nextIDLocked()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	stored := *comment
	stored.Post = models.Post{}
	stored.CommentedBy = models.User{}
	s.comments[comment.ID] = stored
	return nil
}

func (s *Store) ListFeed(_ context.Context, viewerID uint, page, limit int) ([]models.Post, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	following := make(map[uint]bool)
	closeTo := make(map[uint]bool)
	for _, friend := range s.friends {
		if friend.UserID == viewerID {
			following[friend.FriendID] = true
		}
		if friend.FriendID == viewerID && friend.IsCloseFriend {
			closeTo[friend.UserID] = true
		}
	}

	visible := []models.Post{}
	for _, post := range s.posts {
		switch {
		case post.Audience == models.AudienceFriends && following[post.UserID],
			post.Audience == models.AudienceCloseFriends && closeTo[post.UserID]:
			post.User = s.userLocked(post.UserID)
			visible = append(visible, post)
		}
	}
	sort.Slice(visible, func(i, j int) bool {
		return newestFirst(visible[i].UpdatedAt, visible[j].UpdatedAt, visible[i].ID, visible[j].ID)
	})
	return pageOf(visible, page, limit), int64(len(visible)), nil
}

// Likes returns a snapshot of every like record. Used by tests.
func (s *Store) Likes() []models.PostLike {
	s.mu.RLock()
	defer s.mu.RUnlock()

	likes := make([]models.PostLike, 0, len(s.likes))
	for _, id := range sortedIDs(s.likes) {
		likes = append(likes, s.likes[id])
	}
	return likes
}

// Comments returns a snapshot of every comment. Used by tests.
func (s *Store) Comments() []models.PostComment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	comments := make([]models.PostComment, 0, len(s.comments))
	for _, id := range sortedIDs(s.comments) {
		comments = append(comments, s.comments[id])
	}
	return comments
}
