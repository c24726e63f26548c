package store

import (
	"context"

	"instaclone/backend/internal/models"

	"gorm.io/gorm/clause"
)

func (s *GormStore) CreatePost(ctx context.Context, post *models.Post) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error)
}

func (s *GormStore) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).Preload("User.Profile").First(&post, id).Error; err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

func (s *GormStore) GetUserPost(ctx context.Context, userID, id uint) (*models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).Preload("User.Profile").Where("user_id = ?", userID).First(&post, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

func (s *GormStore) ListUserPosts(ctx context.Context, userID uint) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&posts).Error
	return posts, translate(err)
}

func (s *GormStore) UpdatePost(ctx context.Context, post *models.Post) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Save(post).Error)
}

func (s *GormStore) DeletePost(ctx context.Context, post *models.Post) error {
	result := s.db.WithContext(ctx).Unscoped().Delete(&models.Post{}, post.ID)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) CountLikes(ctx context.Context, postID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.PostLike{}).Where("post_id = ? AND is_liked = ?", postID, true).Count(&count).Error
	return count, translate(err)
}

func (s *GormStore) CountComments(ctx context.Context, postID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.PostComment{}).Where("post_id = ?", postID).Count(&count).Error
	return count, translate(err)
}

func (s *GormStore) ListLikes(ctx context.Context, postID uint) ([]models.PostLike, error) {
	var likes []models.PostLike
	err := s.db.WithContext(ctx).
		Preload("LikedBy.Profile").
		Where("post_id = ? AND is_liked = ?", postID, true).
		Order("updated_at DESC, id DESC").
		Find(&likes).Error
	return likes, translate(err)
}

func (s *GormStore) ListComments(ctx context.Context, postID uint) ([]models.PostComment, error) {
	var comments []models.PostComment
	err := s.db.WithContext(ctx).
		Preload("CommentedBy.Profile").
		Where("post_id = ?", postID).
		Order("updated_at DESC, id DESC").
		Find(&comments).Error
	return comments, translate(err)
}

func (s *GormStore) SetLike(ctx context.Context, postID, userID uint, liked bool) (*models.PostLike, error) {
	like := models.PostLike{PostID: postID, LikedByID: userID, IsLiked: liked}
	err := s.db.WithContext(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "post_id"}, {Name: "liked_by_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_liked", "updated_at"}),
	}).Create(&like).Error
	if err != nil {
		return nil, translate(err)
	}
	return &like, nil
}

func (s *GormStore) CreateComment(ctx context.Context, comment *models.PostComment) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error)
}

func (s *GormStore) ListFeed(ctx context.Context, viewerID uint, page, limit int) ([]models.Post, int64, error) {
	db := s.db.WithContext(ctx)

	// Friends-audience posts of users the viewer follows, and close-friends posts
	// of users who flagged the viewer as a close friend.
	following := db.Model(&models.Friend{}).Select("friend_id").Where("user_id = ?", viewerID)
	closeTo := db.Model(&models.Friend{}).Select("user_id").Where("friend_id = ? AND is_close_friend = ?", viewerID, true)

	visible := db.Where(
		db.Where("audience = ? AND user_id IN (?)", models.AudienceFriends, following).
			Or("audience = ? AND user_id IN (?)", models.AudienceCloseFriends, closeTo),
	)

	posts, total, err := paginate[models.Post](visible, "updated_at DESC, id DESC", page, limit, "User.Profile")
	return posts, total, translate(err)
}
