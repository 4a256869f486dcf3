package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type capturingMailer struct {
	to      string
	subject string
	body    string
}

func (m *capturingMailer) Send(_ context.Context, to, subject, body string) error {
	m.to = to
	m.subject = subject
	m.body = body
	return nil
}

func newAuthFixture(db *gorm.DB) (AuthService, repository.SessionRepository, *capturingMailer) {
	mail := &capturingMailer{}
	sessions := repository.NewSessionRepository(db)
	auth := NewAuthService(repository.NewUserRepository(db), sessions, mail, time.Hour)
	return auth, sessions, mail
}

func register(t *testing.T, auth AuthService) {
	t.Helper()
	require.NoError(t, auth.Register(context.Background(), RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "s3cret-pass",
	}))
}

func TestRegisterAndLogin(t *testing.T) {
	db := setupTestDB(t)
	auth, sessions, _ := newAuthFixture(db)
	register(t, auth)

	session, err := auth.Login(context.Background(), LoginRequest{Username: "alice", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Len(t, session.Token, 32)
	assert.True(t, session.ExpiresAt.After(time.Now()))

	stored, err := sessions.FindByToken(context.Background(), session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.UserID, stored.UserID.String())
}

func TestRegisterDuplicates(t *testing.T) {
	db := setupTestDB(t)
	auth, _, _ := newAuthFixture(db)
	register(t, auth)

	err := auth.Register(context.Background(), RegisterRequest{
		Username: "alice",
		Email:    "other@example.com",
		Password: "whatever1",
	})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	err = auth.Register(context.Background(), RegisterRequest{
		Username: "alice2",
		Email:    "alice@example.com",
		Password: "whatever1",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginFailures(t *testing.T) {
	db := setupTestDB(t)
	auth, _, _ := newAuthFixture(db)
	register(t, auth)

	_, err := auth.Login(context.Background(), LoginRequest{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login(context.Background(), LoginRequest{Username: "nobody", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginInvalidatesPreviousSession(t *testing.T) {
	db := setupTestDB(t)
	auth, sessions, _ := newAuthFixture(db)
	register(t, auth)

	first, err := auth.Login(context.Background(), LoginRequest{Username: "alice", Password: "s3cret-pass"})
	require.NoError(t, err)
	second, err := auth.Login(context.Background(), LoginRequest{Username: "alice", Password: "s3cret-pass"})
	require.NoError(t, err)
	require.NotEqual(t, first.Token, second.Token)

	_, err = sessions.FindByToken(context.Background(), first.Token)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = sessions.FindByToken(context.Background(), second.Token)
	assert.NoError(t, err)
}

func TestLogout(t *testing.T) {
	db := setupTestDB(t)
	auth, sessions, _ := newAuthFixture(db)
	register(t, auth)

	session, err := auth.Login(context.Background(), LoginRequest{Username: "alice", Password: "s3cret-pass"})
	require.NoError(t, err)

	require.NoError(t, auth.Logout(context.Background(), session.Token))

	_, err = sessions.FindByToken(context.Background(), session.Token)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

var mailedPassword = regexp.MustCompile(`Your new password is: ([A-Za-z0-9]+)`)

func TestForgotPassword(t *testing.T) {
	db := setupTestDB(t)
	auth, _, mail := newAuthFixture(db)
	register(t, auth)

	require.NoError(t, auth.ForgotPassword(context.Background(), ForgotPasswordRequest{Email: "alice@example.com"}))
	assert.Equal(t, "alice@example.com", mail.to)
	assert.Equal(t, "Forgot Password", mail.subject)

	match := mailedPassword.FindStringSubmatch(mail.body)
	require.Len(t, match, 2, "mail body should contain the generated password")
	newPassword := match[1]
	assert.Len(t, newPassword, 16)

	// The old password no longer works; the mailed one does.
	_, err := auth.Login(context.Background(), LoginRequest{Username: "alice", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login(context.Background(), LoginRequest{Username: "alice", Password: newPassword})
	assert.NoError(t, err)
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	db := setupTestDB(t)
	auth, _, _ := newAuthFixture(db)

	err := auth.ForgotPassword(context.Background(), ForgotPasswordRequest{Email: "ghost@example.com"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
