package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a user in the system.
type User struct {
	gorm.Model
	Username     string `gorm:"size:150;unique;not null"`
	Email        string `gorm:"size:255;unique;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	IsStaff      bool   `gorm:"not null;default:false"`

	Profile *UserProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Links   []UserLink   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
}

// AccountType is the visibility class of a profile.
type AccountType string

const (
	AccountTypePrivate      AccountType = "private"
	AccountTypePublic       AccountType = "public"
	AccountTypeProfessional AccountType = "professional"
)

func (a AccountType) Valid() bool {
	switch a {
	case AccountTypePrivate, AccountTypePublic, AccountTypeProfessional:
		return true
	}
	return false
}

// UserProfile holds the optional profile of a user. At most one per user.
type UserProfile struct {
	gorm.Model
	UserID       uint        `gorm:"not null;uniqueIndex"`
	Name         string      `gorm:"size:100;not null;index"`
	MobileNumber string      `gorm:"size:10;not null;index"`
	ProfileImage string      `gorm:"size:512"`
	Bio          string      `gorm:"type:text"`
	DateOfBirth  time.Time   `gorm:"type:date;not null"`
	AccountType  AccountType `gorm:"size:50;not null;default:'public'"`
}

// UserLink is an external link shown on a user's profile.
type UserLink struct {
	gorm.Model
	UserID uint   `gorm:"not null;index"`
	Link   string `gorm:"size:512;not null"`
	Title  string `gorm:"size:50;not null;index"`
}
