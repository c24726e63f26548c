package service

import (
	"instaclone/backend/internal/media"
	"instaclone/backend/internal/models"
)

const dateLayout = "2006-01-02"

// ProfileView is the public representation of a user profile.
type ProfileView struct {
	Name         string             `json:"name" example:"Jane Doe"`
	MobileNumber string             `json:"mobile_number" example:"9876543210"`
	Bio          string             `json:"bio"`
	DateOfBirth  string             `json:"date_of_birth" example:"1995-04-12"`
	AccountType  models.AccountType `json:"account_type" example:"public"`
	ProfileImage *string            `json:"profile_image"`
}

// UserView is the public representation of a user.
type UserView struct {
	ID       uint         `json:"id" example:"1"`
	Email    string       `json:"email" example:"jane@example.com"`
	Username string       `json:"username" example:"jane"`
	Profile  *ProfileView `json:"profile"`
}

// FriendRequestView is an incoming request flattened onto its sender.
type FriendRequestView struct {
	UserView
	RequestID uint `json:"request_id" example:"7"`
}

// FriendView is a friend edge flattened onto the befriended user. FriendID is the edge id.
type FriendView struct {
	UserView
	FriendID      uint `json:"friend_id" example:"3"`
	IsCloseFriend bool `json:"is_close_friend"`
}

type FriendRequestSentView struct {
	ToUser string `json:"to_user" example:"john"`
}

type LinkView struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
	Link  string `json:"link"`
}

type PostCreatedView struct {
	ID uint `json:"id" example:"12"`
}

type PostView struct {
	ID   uint   `json:"id" example:"12"`
	File string `json:"file" example:"/media/posts/8b1f.jpg"`
}

// PostSettingsView holds the editable fields of a post.
type PostSettingsView struct {
	Caption               *string         `json:"caption"`
	Location              *string         `json:"location"`
	Music                 *string         `json:"music"`
	HideLikeAndViewCounts bool            `json:"hide_like_and_view_counts"`
	TurnOffComments       bool            `json:"turn_off_comments"`
	Audience              models.Audience `json:"audience" example:"friends"`
}

// ActorView identifies who liked or commented.
type ActorView struct {
	Username       string  `json:"username"`
	UserID         uint    `json:"user_id"`
	ProfilePicture *string `json:"profile_picture"`
}

type LikeView struct {
	ActorView
}

type CommentView struct {
	ActorView
	Comment string `json:"comment"`
}

// PostDetailView is used by both post detail and the feed. The feed withholds
// counts according to the post flags, detail never does.
type PostDetailView struct {
	ID uint `json:"id"`
	PostSettingsView
	User          uint          `json:"user"`
	File          string        `json:"file"`
	LikesCount    *int64        `json:"likes_count"`
	CommentsCount *int64        `json:"comments_count"`
	Likes         []LikeView    `json:"likes"`
	Comments      []CommentView `json:"comments"`
}

type CommentCreatedView struct {
	ID          uint   `json:"id"`
	Post        uint   `json:"post"`
	CommentedBy uint   `json:"commented_by"`
	Comment     string `json:"comment"`
}

// TokenView is the body returned by the token endpoint.
type TokenView struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type" example:"Bearer"`
	ExpiresIn   int64  `json:"expires_in" example:"86400"`
}

func mediaURL(storage media.Storage, key string) *string {
	if key == "" {
		return nil
	}
	url := storage.URL(key)
	return &url
}

func newProfileView(storage media.Storage, p *models.UserProfile) *ProfileView {
	if p == nil {
		return nil
	}
	return &ProfileView{
		Name:         p.Name,
		MobileNumber: p.MobileNumber,
		Bio:          p.Bio,
		DateOfBirth:  p.DateOfBirth.Format(dateLayout),
		AccountType:  p.AccountType,
		ProfileImage: mediaURL(storage, p.ProfileImage),
	}
}

func newUserView(storage media.Storage, u models.User) UserView {
	return UserView{
		ID:       u.ID,
		Email:    u.Email,
		Username: u.Username,
		Profile:  newProfileView(storage, u.Profile),
	}
}

func newActorView(storage media.Storage, u models.User) ActorView {
	var picture *string
	if u.Profile != nil {
		picture = mediaURL(storage, u.Profile.ProfileImage)
	}
	return ActorView{
		Username:       u.Username,
		UserID:         u.ID,
		ProfilePicture: picture,
	}
}

func newPostSettingsView(p models.Post) PostSettingsView {
	return PostSettingsView{
		Caption:               p.Caption,
		Location:              p.Location,
		Music:                 p.Music,
		HideLikeAndViewCounts: p.HideLikeAndViewCounts,
		TurnOffComments:       p.TurnOffComments,
		Audience:              p.Audience,
	}
}

func newLinkView(l models.UserLink) LinkView {
	return LinkView{ID: l.ID, Title: l.Title, Link: l.Link}
}
