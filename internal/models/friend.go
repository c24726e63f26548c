package models

import "time"

// FriendRequest is a directional proposal from one user to another.
// The (FromUserID, ToUserID) pair is unique.
type FriendRequest struct {
	ID         uint `gorm:"primaryKey"`
	FromUserID uint `gorm:"not null;uniqueIndex:idx_friend_request_pair"`
	ToUserID   uint `gorm:"not null;uniqueIndex:idx_friend_request_pair;index"`
	Accepted   bool `gorm:"not null;default:false"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	FromUser User `gorm:"foreignKey:FromUserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ToUser   User `gorm:"foreignKey:ToUserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// Friend is a one-directional "friend of" edge: UserID counts FriendID as a friend.
// Accepting a request from A to B creates only Friend{UserID: A, FriendID: B}.
type Friend struct {
	ID            uint `gorm:"primaryKey"`
	UserID        uint `gorm:"not null;uniqueIndex:idx_friend_pair"`
	FriendID      uint `gorm:"not null;uniqueIndex:idx_friend_pair;index"`
	IsCloseFriend bool `gorm:"not null;default:false"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	User       User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	FriendUser User `gorm:"foreignKey:FriendID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
