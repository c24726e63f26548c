package models

import (
	"time"

	"gorm.io/gorm"
)

// Audience controls who can see and engage with a post.
type Audience string

const (
	AudienceFriends      Audience = "friends"
	AudienceCloseFriends Audience = "close_friends"
)

func (a Audience) Valid() bool {
	return a == AudienceFriends || a == AudienceCloseFriends
}

// Post is a media upload owned by a user. Like and comment counts are computed on read.
type Post struct {
	gorm.Model
	UserID                uint     `gorm:"not null;index"`
	File                  string   `gorm:"size:512;not null"`
	Caption               *string  `gorm:"size:300"`
	Location              *string  `gorm:"size:100"`
	Music                 *string  `gorm:"size:50"`
	HideLikeAndViewCounts bool     `gorm:"not null;default:false"`
	TurnOffComments       bool     `gorm:"not null;default:false"`
	Audience              Audience `gorm:"size:20;not null;default:'friends';index"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
}

// PostLike is a toggle record: unliking sets IsLiked to false rather than deleting the row.
type PostLike struct {
	ID        uint `gorm:"primaryKey"`
	PostID    uint `gorm:"not null;uniqueIndex:idx_post_like_pair"`
	LikedByID uint `gorm:"not null;uniqueIndex:idx_post_like_pair"`
	IsLiked   bool `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Post    Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE;"`
	LikedBy User `gorm:"foreignKey:LikedByID;constraint:OnDelete:CASCADE;"`
}

// PostComment is an append-only comment on a post.
type PostComment struct {
	ID            uint   `gorm:"primaryKey"`
	PostID        uint   `gorm:"not null;index"`
	CommentedByID uint   `gorm:"not null;index"`
	Comment       string `gorm:"type:text;not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Post        Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE;"`
	CommentedBy User `gorm:"foreignKey:CommentedByID;constraint:OnDelete:CASCADE;"`
}
