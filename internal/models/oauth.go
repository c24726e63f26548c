package models

import "time"

// Application is an OAuth client allowed to exchange user credentials for tokens.
type Application struct {
	ID               uint   `gorm:"primaryKey"`
	Name             string `gorm:"size:255;not null"`
	ClientID         string `gorm:"size:100;unique;not null"`
	ClientSecretHash string `gorm:"size:255;not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// AccessToken records an issued bearer token. Token holds the JWT id (jti).
type AccessToken struct {
	ID            uint      `gorm:"primaryKey"`
	Token         string    `gorm:"size:64;unique;not null"`
	UserID        uint      `gorm:"not null;index"`
	ApplicationID uint      `gorm:"not null;index"`
	Expires       time.Time `gorm:"not null"`
	CreatedAt     time.Time

	User        User        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Application Application `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE;"`
}

func (t AccessToken) Expired(now time.Time) bool {
	return !now.Before(t.Expires)
}
