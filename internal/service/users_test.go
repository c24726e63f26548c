package service

import (
	"bytes"
	"context"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"instaclone/backend/internal/models"
	"instaclone/backend/internal/store"
	"instaclone/backend/internal/store/memory"
	apperrors "instaclone/backend/pkg/errors"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService_Create(t *testing.T) {
	env := newTestEnv(t)

	view, err := env.users.Create(env.ctx, CreateUserInput{Username: "jane", Email: "jane@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "jane", view.Username)
	assert.Equal(t, "jane@example.com", view.Email)
	assert.Nil(t, view.Profile)

	stored, err := env.store.GetUser(env.ctx, view.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret-pass")))
}

func TestUserService_CreateDuplicates(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "jane")

	_, err := env.users.Create(env.ctx, CreateUserInput{Username: "jane", Email: "jane@example.com", Password: "x"})
	appErr := requireCode(t, err, apperrors.ErrCodeValidation)
	assert.Equal(t, []string{msgUsernameTaken}, appErr.Fields["username"])
	assert.Equal(t, []string{msgEmailTaken}, appErr.Fields["email"])
}

func TestUserService_CreateValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name  string
		input CreateUserInput
		field string
	}{
		{name: "missing username", input: CreateUserInput{Email: "a@example.com", Password: "x"}, field: "username"},
		{name: "bad username", input: CreateUserInput{Username: "has space", Email: "a@example.com", Password: "x"}, field: "username"},
		{name: "bad email", input: CreateUserInput{Username: "a", Email: "not-an-email", Password: "x"}, field: "email"},
		{name: "missing password", input: CreateUserInput{Username: "a", Email: "a@example.com"}, field: "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.users.Create(env.ctx, tt.input)
			appErr := requireCode(t, err, apperrors.ErrCodeValidation)
			assert.Contains(t, appErr.Fields, tt.field)
		})
	}
}

func validProfile() ProfileInput {
	return ProfileInput{
		Name:         "Jane Doe",
		MobileNumber: "9876543210",
		Bio:          "<b>hello</b> & welcome",
		DateOfBirth:  "1995-04-12",
		AccountType:  "private",
	}
}

func TestUserService_SaveProfileCreatesThenUpdates(t *testing.T) {
	env := newTestEnv(t)
	jane := env.createUser(t, "jane")

	require.NoError(t, env.users.SaveProfile(env.ctx, jane.ID, jane.ID, validProfile()))

	profile, err := env.store.GetProfile(env.ctx, jane.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", profile.Name)
	assert.Equal(t, "hello & welcome", profile.Bio)
	assert.Equal(t, models.AccountTypePrivate, profile.AccountType)
	assert.Equal(t, "1995-04-12", profile.DateOfBirth.Format(dateLayout))

	update := validProfile()
	update.Name = "Jane Roe"
	update.AccountType = ""
	require.NoError(t, env.users.SaveProfile(env.ctx, jane.ID, jane.ID, update))

	updated, err := env.store.GetProfile(env.ctx, jane.ID)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, updated.ID, "the existing profile is updated in place")
	assert.Equal(t, "Jane Roe", updated.Name)
	assert.Equal(t, models.AccountTypePublic, updated.AccountType)

	view, err := env.users.Get(env.ctx, jane.ID)
	require.NoError(t, err)
	require.NotNil(t, view.Profile)
	assert.Equal(t, "Jane Roe", view.Profile.Name)
	assert.Nil(t, view.Profile.ProfileImage)
}

// staleProfileStore never finds a profile, as if another request inserted it
// after this one looked it up.
type staleProfileStore struct {
	*memory.Store
}

func (s staleProfileStore) GetProfile(context.Context, uint) (*models.UserProfile, error) {
	return nil, store.ErrNotFound
}

func TestUserService_SaveProfileRacingCreate(t *testing.T) {
	env := newTestEnv(t)
	jane := env.createUser(t, "jane")
	users := NewUserService(staleProfileStore{env.store}, env.storage, UserOptions{BcryptCost: bcrypt.MinCost})

	require.NoError(t, users.SaveProfile(env.ctx, jane.ID, jane.ID, validProfile()))

	err := users.SaveProfile(env.ctx, jane.ID, jane.ID, validProfile())
	appErr := requireCode(t, err, apperrors.ErrCodeValidation)
	assert.Equal(t, []string{msgProfileExists}, appErr.Fields["non_field_errors"])
}

func TestUserService_SaveProfileValidation(t *testing.T) {
	env := newTestEnv(t)
	jane := env.createUser(t, "jane")

	tests := []struct {
		name   string
		mutate func(*ProfileInput)
		field  string
		msg    string
	}{
		{name: "mobile too short", mutate: func(p *ProfileInput) { p.MobileNumber = "98765" }, field: "mobile_number", msg: msgMobileNumber},
		{name: "mobile bad prefix", mutate: func(p *ProfileInput) { p.MobileNumber = "1234567890" }, field: "mobile_number", msg: msgMobileNumber},
		{name: "mobile too long", mutate: func(p *ProfileInput) { p.MobileNumber = "98765432101" }, field: "mobile_number", msg: msgMobileNumber},
		{name: "bad date", mutate: func(p *ProfileInput) { p.DateOfBirth = "12/04/1995" }, field: "date_of_birth", msg: msgBadDate},
		{name: "bad account type", mutate: func(p *ProfileInput) { p.AccountType = "business" }, field: "account_type"},
		{name: "missing name", mutate: func(p *ProfileInput) { p.Name = "" }, field: "name", msg: msgRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validProfile()
			tt.mutate(&input)
			err := env.users.SaveProfile(env.ctx, jane.ID, jane.ID, input)
			appErr := requireCode(t, err, apperrors.ErrCodeValidation)
			require.Contains(t, appErr.Fields, tt.field)
			if tt.msg != "" {
				assert.Equal(t, []string{tt.msg}, appErr.Fields[tt.field])
			}
		})
	}
}

func TestUserService_SaveProfileRequiresSelf(t *testing.T) {
	env := newTestEnv(t)
	jane := env.createUser(t, "jane")
	john := env.createUser(t, "john")

	err := env.users.SaveProfile(env.ctx, john.ID, jane.ID, validProfile())
	requireCode(t, err, apperrors.ErrCodeForbidden)

	_, err = env.store.GetProfile(env.ctx, jane.ID)
	assert.Error(t, err, "no profile is created")
}

func pngImage(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, imaging.New(w, h, color.NRGBA{B: 255, A: 255}), imaging.PNG))
	return buf.Bytes()
}

func TestUserService_UpdateProfileImage(t *testing.T) {
	env := newTestEnv(t)
	jane := env.createUser(t, "jane")

	err := env.users.UpdateProfileImage(env.ctx, jane.ID, jane.ID, bytes.NewReader(pngImage(t, 10, 10)))
	assert.ErrorIs(t, err, ErrProfileNotCreated)

	require.NoError(t, env.users.SaveProfile(env.ctx, jane.ID, jane.ID, validProfile()))
	require.NoError(t, env.users.UpdateProfileImage(env.ctx, jane.ID, jane.ID, bytes.NewReader(pngImage(t, 200, 100))))

	profile, err := env.store.GetProfile(env.ctx, jane.ID)
	require.NoError(t, err)
	first := profile.ProfileImage
	require.True(t, strings.HasPrefix(first, "profile_images/"))

	img, err := imaging.Open(filepath.Join(env.storage.Root, filepath.FromSlash(first)))
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx(), "image is fitted to the configured dimension")

	require.NoError(t, env.users.UpdateProfileImage(env.ctx, jane.ID, jane.ID, bytes.NewReader(pngImage(t, 20, 20))))
	_, err = os.Stat(filepath.Join(env.storage.Root, filepath.FromSlash(first)))
	assert.True(t, os.IsNotExist(err), "previous image is deleted")

	view, err := env.users.Get(env.ctx, jane.ID)
	require.NoError(t, err)
	require.NotNil(t, view.Profile.ProfileImage)
	assert.True(t, strings.HasPrefix(*view.Profile.ProfileImage, "/media/profile_images/"))
}

func TestUserService_UpdateProfileImageRejectsOthersAndGarbage(t *testing.T) {
	env := newTestEnv(t)
	jane := env.createUser(t, "jane")
	john := env.createUser(t, "john")
	require.NoError(t, env.users.SaveProfile(env.ctx, jane.ID, jane.ID, validProfile()))

	err := env.users.UpdateProfileImage(env.ctx, john.ID, jane.ID, bytes.NewReader(pngImage(t, 10, 10)))
	requireCode(t, err, apperrors.ErrCodeForbidden)

	err = env.users.UpdateProfileImage(env.ctx, jane.ID, jane.ID, strings.NewReader("not an image"))
	appErr := requireCode(t, err, apperrors.ErrCodeValidation)
	assert.Equal(t, []string{msgBadImage}, appErr.Fields["file"])
}

func TestUserService_List(t *testing.T) {
	env := newTestEnv(t)
	for _, name := range []string{"a", "b", "c"} {
		env.createUser(t, name)
	}

	page, err := env.users.List(env.ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Meta.TotalItems)
	assert.Equal(t, 2, page.Meta.TotalPages)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "c", page.Data[0].Username)
}

func TestUserService_Links(t *testing.T) {
	env := newTestEnv(t)
	jane := env.createUser(t, "jane")

	link, err := env.users.CreateLink(env.ctx, jane.ID, LinkInput{Title: "Blog", Link: "https://jane.example.com"})
	require.NoError(t, err)

	_, err = env.users.CreateLink(env.ctx, jane.ID, LinkInput{Title: "Bad", Link: "not a url"})
	appErr := requireCode(t, err, apperrors.ErrCodeValidation)
	assert.Contains(t, appErr.Fields, "link")

	links, err := env.users.ListLinks(env.ctx, jane.ID)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "Blog", links[0].Title)

	john := env.createUser(t, "john")
	requireCode(t, env.users.DeleteLink(env.ctx, john.ID, link.ID), apperrors.ErrCodeNotFound)
	require.NoError(t, env.users.DeleteLink(env.ctx, jane.ID, link.ID))

	links, err = env.users.ListLinks(env.ctx, jane.ID)
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestUserService_IsStaff(t *testing.T) {
	env := newTestEnv(t)
	admin := models.User{Username: "admin", Email: "admin@example.com", PasswordHash: "x", IsStaff: true}
	require.NoError(t, env.store.CreateUser(env.ctx, &admin))
	jane := env.createUser(t, "jane")

	staff, err := env.users.IsStaff(env.ctx, admin.ID)
	require.NoError(t, err)
	assert.True(t, staff)

	staff, err = env.users.IsStaff(env.ctx, jane.ID)
	require.NoError(t, err)
	assert.False(t, staff)
}
