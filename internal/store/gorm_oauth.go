package store

import (
	"context"

	"instaclone/backend/internal/models"
)

func (s *GormStore) CreateApplication(ctx context.Context, app *models.Application) error {
	return translate(s.db.WithContext(ctx).Create(app).Error)
}

func (s *GormStore) GetApplicationByClientID(ctx context.Context, clientID string) (*models.Application, error) {
	var app models.Application
	if err := s.db.WithContext(ctx).Where("client_id = ?", clientID).First(&app).Error; err != nil {
		return nil, translate(err)
	}
	return &app, nil
}

func (s *GormStore) CreateAccessToken(ctx context.Context, token *models.AccessToken) error {
	return translate(s.db.WithContext(ctx).Omit("User", "Application").Create(token).Error)
}

func (s *GormStore) GetAccessToken(ctx context.Context, token string) (*models.AccessToken, error) {
	var accessToken models.AccessToken
	if err := s.db.WithContext(ctx).Where("token = ?", token).First(&accessToken).Error; err != nil {
		return nil, translate(err)
	}
	return &accessToken, nil
}
