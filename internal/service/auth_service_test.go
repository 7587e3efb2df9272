package service

import (
	"context"
	"testing"
	"time"

	"learnpack_backend/internal/config"
	"learnpack_backend/internal/repository"
	"learnpack_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubIdentity struct {
	claims *IdentityClaims
	err    error
}

func (s *stubIdentity) Verify(ctx context.Context, token string) (*IdentityClaims, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.claims, nil
}

func authTestConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:     "unit-test-secret",
			ExpireTime: time.Hour,
		},
	}
}

func TestLogin_UpsertsUserAndIssuesToken(t *testing.T) {
	db := newTestDB(t)
	cfg := authTestConfig()
	svc := NewAuthService(repository.NewUserRepository(db), &stubIdentity{
		claims: &IdentityClaims{
			SubjectID: "sub-42",
			Email:     "lee@example.com",
			FirstName: "지훈",
		},
	}, cfg)

	token, user, err := svc.Login(context.Background(), "external-token")
	require.NoError(t, err)
	assert.Equal(t, "sub-42", user.ID)

	claims, err := util.ParseJWT(token, cfg.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, "sub-42", claims.UserID)
	assert.Equal(t, "lee@example.com", claims.Email)
}

func TestLogin_RepeatedLoginKeepsSingleUser(t *testing.T) {
	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)
	svc := NewAuthService(userRepo, &stubIdentity{
		claims: &IdentityClaims{SubjectID: "sub-42", Email: "lee@example.com", LastName: "이"},
	}, authTestConfig())

	_, first, err := svc.Login(context.Background(), "token")
	require.NoError(t, err)
	_, second, err := svc.Login(context.Background(), "token")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "이", second.LastName)
}

func TestLogin_InvalidIdentityToken(t *testing.T) {
	svc := NewAuthService(repository.NewUserRepository(newTestDB(t)), &stubIdentity{
		err: util.ErrInvalidIdentity,
	}, authTestConfig())

	_, _, err := svc.Login(context.Background(), "bad-token")
	assert.ErrorIs(t, err, util.ErrInvalidIdentity)
}

func TestGetCurrentUser_NotFound(t *testing.T) {
	svc := NewAuthService(repository.NewUserRepository(newTestDB(t)), &stubIdentity{}, authTestConfig())

	_, err := svc.GetCurrentUser("ghost")
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}
