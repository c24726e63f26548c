package memory

import (
	"context"

	"instaclone/backend/internal/models"
	"instaclone/backend/internal/store"
)

func (s *Store) CreateApplication(_ context.Context, app *models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.apps {
		if existing.ClientID == app.ClientID {
			return store.ErrDuplicate
		}
	}

	now := s.nowLocked()
	app.ID = s.nextIDLocked()
	app.CreatedAt = now
	app.UpdatedAt = now
	s.apps[app.ID] = *app
	return nil
}

func (s *Store) GetApplicationByClientID(_ context.Context, clientID string) (*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, app := range s.apps {
		if app.ClientID == clientID {
			found := app
			return &found, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) CreateAccessToken(_ context.Context, token *models.AccessToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.tokens {
		if existing.Token == token.Token {
			return store.ErrDuplicate
		}
	}

	token.ID = s.nextIDLocked()
	token.CreatedAt = s.nowLocked()
	stored := *token
	stored.User = models.User{}
	stored.Application = models.Application{}
	s.tokens[token.ID] = stored
	return nil
}

func (s *Store) GetAccessToken(_ context.Context, token string) (*models.AccessToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, existing := range s.tokens {
		if existing.Token == token {
			found := existing
			return &found, nil
		}
	}
	return nil, store.ErrNotFound
}
