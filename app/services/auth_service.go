package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/shashiranjanraj/foodhub/app/models"
	"github.com/shashiranjanraj/foodhub/app/repositories"
	"github.com/shashiranjanraj/foodhub/config"
	"github.com/shashiranjanraj/foodhub/pkg/auth"
	"github.com/shashiranjanraj/foodhub/pkg/crypt"
	"github.com/shashiranjanraj/foodhub/pkg/logger"
	"github.com/shashiranjanraj/foodhub/pkg/orm"
)

// TokenIssuer is the part of *auth.TokenService the auth flows need.
type TokenIssuer interface {
	Issue(ctx context.Context, subject, role string) (auth.TokenPair, error)
	VerifyRefresh(ctx context.Context, token string) (*auth.Claims, error)
	Revoke(ctx context.Context, subject string) error
}

type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=50,alpha_dash"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthService registers users and manages their token sessions.
type AuthService struct {
	users  *repositories.UserRepository
	tokens TokenIssuer
	notify Notifier

	registrationKey string
}

func NewAuthService(users *repositories.UserRepository, tokens TokenIssuer, notify Notifier) *AuthService {
	return &AuthService{
		users:           users,
		tokens:          tokens,
		notify:          notify,
		registrationKey: config.AdminRegistrationKey(),
	}
}

// RegisterCustomer creates a CUSTOMER and tells the admin console about it.
func (s *AuthService) RegisterCustomer(ctx context.Context, in RegisterInput) (UserProfile, error) {
	u, err := s.register(ctx, in, models.RoleCustomer)
	if err != nil {
		return UserProfile{}, err
	}

	s.notify.Notify(ctx, Notice{
		RelatedUserID: &u.ID,
		Type:          models.NotificationNewUser,
		Title:         "New User Registration",
		Message:       fmt.Sprintf("New customer registered: %s (%s)", u.Username, u.Email),
	})
	return newUserProfile(u), nil
}

// RegisterAdmin creates an ADMIN. When ADMIN_REGISTRATION_KEY is set, key
// must match it.
func (s *AuthService) RegisterAdmin(ctx context.Context, key string, in RegisterInput) (UserProfile, error) {
	if s.registrationKey != "" && subtle.ConstantTimeCompare([]byte(key), []byte(s.registrationKey)) != 1 {
		return UserProfile{}, ErrInvalidRegistrationKey
	}
	u, err := s.register(ctx, in, models.RoleAdmin)
	if err != nil {
		return UserProfile{}, err
	}
	return newUserProfile(u), nil
}

// RegisterDeliveryPartner creates a DELIVERY_PARTNER. Only admins reach it.
func (s *AuthService) RegisterDeliveryPartner(ctx context.Context, in RegisterInput) (UserProfile, error) {
	u, err := s.register(ctx, in, models.RoleDeliveryPartner)
	if err != nil {
		return UserProfile{}, err
	}
	return newUserProfile(u), nil
}

func (s *AuthService) register(ctx context.Context, in RegisterInput, role string) (models.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	taken, err := s.users.UsernameTaken(ctx, username, 0)
	if err != nil {
		return models.User{}, fmt.Errorf("auth: check username: %w", err)
	}
	if taken {
		return models.User{}, ErrUsernameExists
	}
	taken, err = s.users.EmailTaken(ctx, email, 0)
	if err != nil {
		return models.User{}, fmt.Errorf("auth: check email: %w", err)
	}
	if taken {
		return models.User{}, ErrEmailExists
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("auth: hash password: %w", err)
	}

	u := models.User{
		Username: username,
		Email:    crypt.String(email),
		Password: hash,
		Role:     role,
		IsActive: true,
	}
	if err := s.users.Create(ctx, &u); err != nil {
		// Lost a race with a concurrent registration.
		if orm.IsDuplicate(err) {
			return models.User{}, ErrUsernameExists
		}
		return models.User{}, err
	}

	logger.WithCtx(ctx).Info("user registered", "user", u.UUID, "role", role)
	return u, nil
}

// Login checks the password and that the account holds role. A wrong role
// looks exactly like a wrong password.
func (s *AuthService) Login(ctx context.Context, in LoginInput, role string) (auth.TokenPair, error) {
	u, err := s.users.FindByUsername(ctx, strings.TrimSpace(in.Username))
	if orm.IsNotFound(err) {
		// Burn the same time as a real comparison.
		auth.CheckPassword(dummyHash, in.Password)
		return auth.TokenPair{}, ErrInvalidCredentials
	}
	if err != nil {
		return auth.TokenPair{}, fmt.Errorf("auth: find user: %w", err)
	}
	if !auth.CheckPassword(u.Password, in.Password) || u.Role != role {
		return auth.TokenPair{}, ErrInvalidCredentials
	}
	if !u.IsActive {
		return auth.TokenPair{}, auth.ErrInactive
	}
	return s.tokens.Issue(ctx, u.UUID, u.Role)
}

// dummyHash is a well-formed bcrypt hash at the default cost.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Refresh rotates both tokens given a live refresh token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error) {
	claims, err := s.tokens.VerifyRefresh(ctx, refreshToken)
	if err != nil {
		logger.WithCtx(ctx).Debug("refresh token rejected", "error", err)
		return auth.TokenPair{}, ErrInvalidToken
	}
	p, err := s.Principal(ctx, claims.UUID)
	if errors.Is(err, auth.ErrUnknownSubject) {
		return auth.TokenPair{}, ErrInvalidToken
	}
	if err != nil {
		return auth.TokenPair{}, err
	}
	return s.tokens.Issue(ctx, p.UUID, p.Role)
}

// Logout ends both sessions of the user.
func (s *AuthService) Logout(ctx context.Context, userUUID string) error {
	return s.tokens.Revoke(ctx, userUUID)
}

// Principal resolves a token subject for the auth middleware.
func (s *AuthService) Principal(ctx context.Context, userUUID string) (auth.Principal, error) {
	u, err := s.users.FindByUUID(ctx, userUUID)
	if orm.IsNotFound(err) {
		return auth.Principal{}, auth.ErrUnknownSubject
	}
	if err != nil {
		return auth.Principal{}, fmt.Errorf("auth: load principal: %w", err)
	}
	if !u.IsActive {
		return auth.Principal{}, auth.ErrInactive
	}
	return auth.Principal{ID: u.ID, UUID: u.UUID, Username: u.Username, Role: u.Role}, nil
}

// Profile returns the caller's own profile.
func (s *AuthService) Profile(ctx context.Context, userUUID string) (UserProfile, error) {
	u, err := s.users.FindByUUID(ctx, userUUID)
	if orm.IsNotFound(err) {
		return UserProfile{}, ErrUserNotFound
	}
	if err != nil {
		return UserProfile{}, fmt.Errorf("auth: profile: %w", err)
	}
	return newUserProfile(u), nil
}
