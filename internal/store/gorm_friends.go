package store

import (
	"context"

	"instaclone/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *GormStore) CreateFriendRequest(ctx context.Context, req *models.FriendRequest) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(req).Error)
}

func (s *GormStore) GetFriendRequest(ctx context.Context, id uint) (*models.FriendRequest, error) {
	var req models.FriendRequest
	if err := s.db.WithContext(ctx).First(&req, id).Error; err != nil {
		return nil, translate(err)
	}
	return &req, nil
}

func (s *GormStore) ListPendingRequests(ctx context.Context, toUserID uint) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	err := s.db.WithContext(ctx).
		Preload("FromUser.Profile").
		Where("to_user_id = ? AND accepted = ?", toUserID, false).
		Order("id ASC").
		Find(&requests).Error
	return requests, translate(err)
}

func (s *GormStore) AcceptFriendRequest(ctx context.Context, req *models.FriendRequest) (*models.Friend, error) {
	var friend models.Friend
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.FriendRequest{}).Where("id = ?", req.ID).Update("accepted", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}

		// An edge in the same direction may survive a previous removal of the reverse edge.
		friend = models.Friend{UserID: req.FromUserID, FriendID: req.ToUserID}
		if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(&friend).Error; err != nil {
			return err
		}
		if friend.ID == 0 {
			return tx.Where("user_id = ? AND friend_id = ?", req.FromUserID, req.ToUserID).First(&friend).Error
		}
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	req.Accepted = true
	return &friend, nil
}

func (s *GormStore) DeleteFriendRequest(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.FriendRequest{}, id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) GetFriendship(ctx context.Context, id uint) (*models.Friend, error) {
	var friend models.Friend
	if err := s.db.WithContext(ctx).Preload("FriendUser.Profile").First(&friend, id).Error; err != nil {
		return nil, translate(err)
	}
	return &friend, nil
}

func (s *GormStore) FindFriend(ctx context.Context, userID, friendID uint) (*models.Friend, error) {
	var friend models.Friend
	err := s.db.WithContext(ctx).Where("user_id = ? AND friend_id = ?", userID, friendID).First(&friend).Error
	if err != nil {
		return nil, translate(err)
	}
	return &friend, nil
}

func (s *GormStore) ListFriends(ctx context.Context, userID uint) ([]models.Friend, error) {
	var friends []models.Friend
	err := s.db.WithContext(ctx).
		Preload("FriendUser.Profile").
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&friends).Error
	return friends, translate(err)
}

func (s *GormStore) SetCloseFriend(ctx context.Context, id uint, isCloseFriend bool) error {
	result := s.db.WithContext(ctx).Model(&models.Friend{}).Where("id = ?", id).Update("is_close_friend", isCloseFriend)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) RemoveFriendship(ctx context.Context, friendship *models.Friend) error {
	return translate(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where(
			"(from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)",
			friendship.UserID, friendship.FriendID, friendship.FriendID, friendship.UserID,
		).Delete(&models.FriendRequest{}).Error
		if err != nil {
			return err
		}

		result := tx.Delete(&models.Friend{}, friendship.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	}))
}
