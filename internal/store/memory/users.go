package memory

import (
	"context"

	"instaclone/backend/internal/models"
	"instaclone/backend/internal/store"
)

func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return store.ErrDuplicate
		}
	}

	now := s.nowLocked()
	user.ID = s.nextIDLocked()
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	stored.Profile = nil
	stored.Links = nil
	s.users[user.ID] = stored
	return nil
}

func (s *Store) GetUser(_ context.Context, id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.users[id]; !ok {
		return nil, store.ErrNotFound
	}
	user := s.userLocked(id)
	return &user, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for id, user := range s.users {
		if user.Username == username {
			found := s.userLocked(id)
			return &found, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) UsernameExists(_ context.Context, username string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) EmailExists(_ context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) ListUsers(_ context.Context, page, limit int) ([]models.User, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := sortedIDs(s.users)
	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		users = append(users, s.userLocked(id))
	}
	return pageOf(users, page, limit), int64(len(users)), nil
}

func (s *Store) GetProfile(_ context.Context, userID uint) (*models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile := s.profileLocked(userID)
	if profile == nil {
		return nil, store.ErrNotFound
	}
	return profile, nil
}

func (s *Store) SaveProfile(_ context.Context, profile *models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[profile.UserID]; !ok {
		return store.ErrNotFound
	}
	for id, existing := range s.profiles {
		if existing.UserID == profile.UserID && id != profile.ID {
			return store.ErrDuplicate
		}
	}

	now := s.nowLocked()
	if profile.ID == 0 {
		profile.ID = s.nextIDLocked()
		profile.CreatedAt = now
	}
	if profile.AccountType == "" {
		profile.AccountType = models.AccountTypePublic
	}
	profile.UpdatedAt = now
	s.profiles[profile.ID] = *profile
	return nil
}

func (s *Store) ListLinks(_ context.Context, userID uint) ([]models.UserLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	links := []models.UserLink{}
	for _, id := range sortedIDs(s.links) {
		if link := s.links[id]; link.UserID == userID {
			links = append(links, link)
		}
	}
	return links, nil
}

func (s *Store) CreateLink(_ context.Context, link *models.UserLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowLocked()
	link.ID = s.nextIDLocked()
	link.CreatedAt = now
	link.UpdatedAt = now
	s.links[link.ID] = *link
	return nil
}

func (s *Store) DeleteLink(_ context.Context, userID, linkID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	link, ok := s.links[linkID]
	if !ok || link.UserID != userID {
		return store.ErrNotFound
	}
	delete(s.links, linkID)
	return nil
}
