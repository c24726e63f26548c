package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"instaclone/backend/internal/authz"
	"instaclone/backend/internal/media"
	"instaclone/backend/internal/models"
	"instaclone/backend/internal/store"
	apperrors "instaclone/backend/pkg/errors"
	"instaclone/backend/pkg/logger"

	"golang.org/x/crypto/bcrypt"
)

const (
	msgUsernameTaken = "User with provided username already exists!"
	msgEmailTaken    = "User with provided email already exists!"
	msgMobileNumber  = "Please enter 10 digit mobile number!"
	msgBadUsername   = "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	msgBadEmail      = "Enter a valid email address."
	msgBadDate       = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
	msgBadImage      = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
	msgBadURL        = "Enter a valid URL."
	msgProfileExists = "Profile for this user already exists!"
)

var (
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
	mobilePattern   = regexp.MustCompile(`^[6-9][0-9]{9}$`)

	// ErrProfileNotCreated is returned when the profile image is set before the profile exists.
	ErrProfileNotCreated = apperrors.New(apperrors.ErrCodeValidation, "Profile is not created for this user")
)

type CreateUserInput struct {
	Username string
	Email    string
	Password string
}

type ProfileInput struct {
	Name         string
	MobileNumber string
	Bio          string
	DateOfBirth  string
	AccountType  string
}

type LinkInput struct {
	Title string
	Link  string
}

type UserOptions struct {
	BcryptCost         int
	ProfileImageMaxDim int
}

// UserService manages accounts, profiles and profile links.
type UserService struct {
	users   store.UserStore
	storage media.Storage
	opts    UserOptions
}

func NewUserService(users store.UserStore, storage media.Storage, opts UserOptions) *UserService {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	return &UserService{users: users, storage: storage, opts: opts}
}

// Create registers a new user. Username and email must be unused.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*UserView, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	fields := fieldErrors{}
	switch {
	case in.Username == "":
		fields.add("username", msgRequired)
	case tooLong(in.Username, 150):
		fields.add("username", fmt.Sprintf(msgMaxLengthFmt, 150))
	case !usernamePattern.MatchString(in.Username):
		fields.add("username", msgBadUsername)
	}
	switch {
	case in.Email == "":
		fields.add("email", msgRequired)
	case validate.Var(in.Email, "email,max=255") != nil:
		fields.add("email", msgBadEmail)
	}
	if in.Password == "" {
		fields.add("password", msgRequired)
	}

	if _, taken := fields["username"]; !taken {
		exists, err := s.users.UsernameExists(ctx, in.Username)
		if err != nil {
			return nil, dbError(err)
		}
		if exists {
			fields.add("username", msgUsernameTaken)
		}
	}
	if _, taken := fields["email"]; !taken {
		exists, err := s.users.EmailExists(ctx, in.Email)
		if err != nil {
			return nil, dbError(err)
		}
		if exists {
			fields.add("email", msgEmailTaken)
		}
	}
	if err := fields.err(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.opts.BcryptCost)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to hash password")
	}

	user := models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
	}
	if err := s.users.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperrors.Validation(map[string][]string{
				"non_field_errors": {"User with provided username or email already exists!"},
			})
		}
		return nil, dbError(err)
	}

	logger.Info("User created", "user_id", user.ID, "username", user.Username)
	view := newUserView(s.storage, user)
	return &view, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*UserView, error) {
	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		return nil, lookupError(err, "User not found")
	}
	view := newUserView(s.storage, *user)
	return &view, nil
}

func (s *UserService) List(ctx context.Context, page, limit int) (PaginatedResponse[UserView], error) {
	users, total, err := s.users.ListUsers(ctx, page, limit)
	if err != nil {
		return PaginatedResponse[UserView]{}, dbError(err)
	}
	views := make([]UserView, 0, len(users))
	for _, u := range users {
		views = append(views, newUserView(s.storage, u))
	}
	return NewPaginatedResponse(views, total, page, limit), nil
}

// IsStaff reports whether the user may use staff-only endpoints.
func (s *UserService) IsStaff(ctx context.Context, id uint) (bool, error) {
	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		return false, lookupError(err, "Authenticated user not found")
	}
	return user.IsStaff, nil
}

// SaveProfile creates the profile of userID on first call and replaces its fields afterwards.
func (s *UserService) SaveProfile(ctx context.Context, actorID, userID uint, in ProfileInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.MobileNumber = strings.TrimSpace(in.MobileNumber)
	in.DateOfBirth = strings.TrimSpace(in.DateOfBirth)

	fields := fieldErrors{}
	switch {
	case in.Name == "":
		fields.add("name", msgRequired)
	case tooLong(in.Name, 100):
		fields.add("name", fmt.Sprintf(msgMaxLengthFmt, 100))
	}
	switch {
	case in.MobileNumber == "":
		fields.add("mobile_number", msgRequired)
	case !mobilePattern.MatchString(in.MobileNumber):
		fields.add("mobile_number", msgMobileNumber)
	}

	var dob time.Time
	if in.DateOfBirth == "" {
		fields.add("date_of_birth", msgRequired)
	} else if parsed, err := time.Parse(dateLayout, in.DateOfBirth); err != nil {
		fields.add("date_of_birth", msgBadDate)
	} else {
		dob = parsed
	}

	accountType := models.AccountTypePublic
	if in.AccountType != "" {
		accountType = models.AccountType(in.AccountType)
		if !accountType.Valid() {
			fields.add("account_type", fmt.Sprintf(msgInvalidChoice, in.AccountType))
		}
	}
	if err := fields.err(); err != nil {
		return err
	}

	if !authz.IsSelf(actorID, userID) {
		return apperrors.Forbidden(msgNoPermission)
	}
	if _, err := s.users.GetUser(ctx, userID); err != nil {
		return lookupError(err, "User not found")
	}

	profile, err := s.users.GetProfile(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		profile = &models.UserProfile{UserID: userID}
	} else if err != nil {
		return dbError(err)
	}

	profile.Name = in.Name
	profile.MobileNumber = in.MobileNumber
	profile.Bio = sanitizeText(in.Bio)
	profile.DateOfBirth = dob
	profile.AccountType = accountType

	if err := s.users.SaveProfile(ctx, profile); err != nil {
		// A concurrent first save created the row between the lookup and the insert.
		if errors.Is(err, store.ErrDuplicate) {
			return apperrors.FieldError("non_field_errors", msgProfileExists)
		}
		return dbError(err)
	}
	return nil
}

// UpdateProfileImage replaces the profile image of userID. The previous object is deleted.
func (s *UserService) UpdateProfileImage(ctx context.Context, actorID, userID uint, r io.Reader) error {
	if r == nil {
		return apperrors.FieldError("file", "No file was submitted.")
	}
	if !authz.IsSelf(actorID, userID) {
		return apperrors.Forbidden(msgNoPermission)
	}

	profile, err := s.users.GetProfile(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrProfileNotCreated
	}
	if err != nil {
		return dbError(err)
	}

	data, err := media.FitImage(r, s.opts.ProfileImageMaxDim)
	if err != nil {
		return apperrors.FieldError("file", msgBadImage)
	}

	key := media.ObjectKey(media.ProfilePrefix, "image.jpg")
	if err := s.storage.Save(ctx, key, bytes.NewReader(data), int64(len(data)), "image/jpeg"); err != nil {
		return apperrors.Internal(err, "failed to store profile image")
	}

	previous := profile.ProfileImage
	profile.ProfileImage = key
	if err := s.users.SaveProfile(ctx, profile); err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			logger.Warn("Failed to delete orphaned profile image", "key", key, "error", delErr)
		}
		return dbError(err)
	}

	if previous != "" {
		if err := s.storage.Delete(ctx, previous); err != nil {
			logger.Warn("Failed to delete previous profile image", "key", previous, "error", err)
		}
	}
	return nil
}

func (s *UserService) ListLinks(ctx context.Context, userID uint) ([]LinkView, error) {
	links, err := s.users.ListLinks(ctx, userID)
	if err != nil {
		return nil, dbError(err)
	}
	views := make([]LinkView, 0, len(links))
	for _, l := range links {
		views = append(views, newLinkView(l))
	}
	return views, nil
}

func (s *UserService) CreateLink(ctx context.Context, userID uint, in LinkInput) (*LinkView, error) {
	in.Title = sanitizeText(in.Title)
	in.Link = strings.TrimSpace(in.Link)

	fields := fieldErrors{}
	switch {
	case in.Title == "":
		fields.add("title", msgRequired)
	case tooLong(in.Title, 50):
		fields.add("title", fmt.Sprintf(msgMaxLengthFmt, 50))
	}
	switch {
	case in.Link == "":
		fields.add("link", msgRequired)
	case tooLong(in.Link, 512):
		fields.add("link", fmt.Sprintf(msgMaxLengthFmt, 512))
	case validate.Var(in.Link, "http_url") != nil:
		fields.add("link", msgBadURL)
	}
	if err := fields.err(); err != nil {
		return nil, err
	}

	link := models.UserLink{UserID: userID, Title: in.Title, Link: in.Link}
	if err := s.users.CreateLink(ctx, &link); err != nil {
		return nil, dbError(err)
	}
	view := newLinkView(link)
	return &view, nil
}

func (s *UserService) DeleteLink(ctx context.Context, userID, linkID uint) error {
	if err := s.users.DeleteLink(ctx, userID, linkID); err != nil {
		return lookupError(err, "Link not found")
	}
	return nil
}
