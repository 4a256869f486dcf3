package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/keygen"
	"backend/pkg/mailer"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	sessionTokenLength     = 32
	generatedPasswordBytes = 16
)

// DTOs for request validation

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type SessionResponse struct {
	Token     string    `json:"-"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthService owns the admin-side account lifecycle: registration, cookie
// sessions and password resets.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) error
	// Login verifies credentials and installs a fresh session, overwriting any
	// session the user already had.
	Login(ctx context.Context, req LoginRequest) (*SessionResponse, error)
	Logout(ctx context.Context, token string) error
	// ForgotPassword replaces the user's password with a generated one and
	// mails it to them.
	ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error
}

type authService struct {
	users      repository.UserRepository
	sessions   repository.SessionRepository
	mail       mailer.Mailer
	sessionTTL time.Duration
}

func NewAuthService(users repository.UserRepository, sessions repository.SessionRepository, mail mailer.Mailer, sessionTTL time.Duration) AuthService {
	return &authService{
		users:      users,
		sessions:   sessions,
		mail:       mail,
		sessionTTL: sessionTTL,
	}
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) error {
	if _, err := s.users.FindByUsername(ctx, req.Username); err == nil {
		return ErrUsernameTaken
	}
	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hash),
	}
	return s.users.Create(ctx, user)
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*SessionResponse, error) {
	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	session := &model.Session{
		Token:     keygen.Generate(sessionTokenLength),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}
	if err := s.sessions.Upsert(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	return &SessionResponse{
		Token:     session.Token,
		UserID:    user.ID.String(),
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	return s.sessions.DeleteByToken(ctx, token)
}

func (s *authService) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	newPassword := keygen.Generate(generatedPasswordBytes)
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	// The old password is already gone at this point. The previous session, if
	// any, stays valid until it expires or the user logs in again.
	body := fmt.Sprintf("Hello!\n\nYour new password is: %s\n", newPassword)
	if err := s.mail.Send(ctx, user.Email, "Forgot Password", body); err != nil {
		logrus.WithError(err).WithField("email", user.Email).Error("failed to send reset email")
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}
