package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"instaclone/backend/internal/models"
	"instaclone/backend/internal/store"
	apperrors "instaclone/backend/pkg/errors"
	"instaclone/backend/pkg/jwt"
	"instaclone/backend/pkg/logger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	msgInvalidClient = "Invalid client credentials"
	msgInvalidLogin  = "Invalid username or password"
	msgInvalidToken  = "Invalid or expired token"
)

type TokenRequest struct {
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
}

// RegisteredApplication holds the credentials of a new client. The secret is not recoverable later.
type RegisteredApplication struct {
	ID           uint
	Name         string
	ClientID     string
	ClientSecret string
}

// TokenService issues bearer tokens for registered client applications and
// resolves them back to users. Every token is a signed JWT whose id references
// a persisted access token row.
type TokenService struct {
	users      store.UserStore
	oauth      store.OAuthStore
	secret     string
	ttl        time.Duration
	bcryptCost int
	now        func() time.Time
}

func NewTokenService(users store.UserStore, oauth store.OAuthStore, secret string, ttl time.Duration, bcryptCost int) *TokenService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &TokenService{
		users:      users,
		oauth:      oauth,
		secret:     secret,
		ttl:        ttl,
		bcryptCost: bcryptCost,
		now:        time.Now,
	}
}

func hexID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// RegisterApplication creates a client application with fresh credentials.
func (s *TokenService) RegisterApplication(ctx context.Context, name string) (*RegisteredApplication, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.FieldError("name", msgRequired)
	}

	secret := hexID() + hexID()
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), s.bcryptCost)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to hash client secret")
	}

	app := models.Application{Name: name, ClientID: hexID(), ClientSecretHash: string(hash)}
	if err := s.oauth.CreateApplication(ctx, &app); err != nil {
		return nil, dbError(err)
	}
	return &RegisteredApplication{ID: app.ID, Name: app.Name, ClientID: app.ClientID, ClientSecret: secret}, nil
}

// Issue exchanges client and user credentials for a bearer token.
func (s *TokenService) Issue(ctx context.Context, req TokenRequest) (*TokenView, error) {
	app, err := s.oauth.GetApplicationByClientID(ctx, req.ClientID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, dbError(err)
	}
	if app == nil || bcrypt.CompareHashAndPassword([]byte(app.ClientSecretHash), []byte(req.ClientSecret)) != nil {
		return nil, apperrors.New(apperrors.ErrCodeValidation, msgInvalidClient)
	}

	user, err := s.users.GetUserByUsername(ctx, req.Username)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, dbError(err)
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, apperrors.New(apperrors.ErrCodeValidation, msgInvalidLogin)
	}

	now := s.now()
	record := models.AccessToken{
		Token:         hexID(),
		UserID:        user.ID,
		ApplicationID: app.ID,
		Expires:       now.Add(s.ttl),
	}
	if err := s.oauth.CreateAccessToken(ctx, &record); err != nil {
		return nil, dbError(err)
	}

	signed, err := jwt.GenerateToken(s.secret, user.ID, app.ClientID, record.Token, now, s.ttl)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to sign token")
	}

	logger.Info("Access token issued", "user_id", user.ID, "client_id", app.ClientID)
	return &TokenView{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.ttl / time.Second),
	}, nil
}

// Authenticate resolves a bearer token to its user id.
func (s *TokenService) Authenticate(ctx context.Context, raw string) (uint, error) {
	claims, err := jwt.ParseToken(s.secret, raw)
	if err != nil {
		return 0, apperrors.Unauthorized(msgInvalidToken)
	}
	userID, err := claims.UserID()
	if err != nil {
		return 0, apperrors.Unauthorized(msgInvalidToken)
	}

	record, err := s.oauth.GetAccessToken(ctx, claims.ID)
	if errors.Is(err, store.ErrNotFound) {
		return 0, apperrors.Unauthorized(msgInvalidToken)
	}
	if err != nil {
		return 0, dbError(err)
	}
	if record.UserID != userID || record.Expired(s.now()) {
		return 0, apperrors.Unauthorized(msgInvalidToken)
	}
	return userID, nil
}
