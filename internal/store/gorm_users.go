package store

import (
	"context"

	"instaclone/backend/internal/models"

	"gorm.io/gorm/clause"
)

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error)
}

func (s *GormStore) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Preload("Profile").First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Preload("Profile").Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, translate(err)
}

func (s *GormStore) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, translate(err)
}

func (s *GormStore) ListUsers(ctx context.Context, page, limit int) ([]models.User, int64, error) {
	users, total, err := paginate[models.User](s.db.WithContext(ctx), "id ASC", page, limit, "Profile")
	return users, total, translate(err)
}

func (s *GormStore) GetProfile(ctx context.Context, userID uint) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

func (s *GormStore) SaveProfile(ctx context.Context, profile *models.UserProfile) error {
	return translate(s.db.WithContext(ctx).Save(profile).Error)
}

func (s *GormStore) ListLinks(ctx context.Context, userID uint) ([]models.UserLink, error) {
	var links []models.UserLink
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&links).Error
	return links, translate(err)
}

func (s *GormStore) CreateLink(ctx context.Context, link *models.UserLink) error {
	return translate(s.db.WithContext(ctx).Create(link).Error)
}

func (s *GormStore) DeleteLink(ctx context.Context, userID, linkID uint) error {
	result := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", linkID, userID).Delete(&models.UserLink{})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
