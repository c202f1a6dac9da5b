package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pledgebase/pledgebase/internal/domain"
	"github.com/Pledgebase/pledgebase/internal/domain/mocks"
	"github.com/Pledgebase/pledgebase/pkg/logger"
)

var testSecret = []byte("test-secret-with-enough-entropy")

func setupAuthTest(t *testing.T) (*mocks.MockTeamRepository, *AuthService) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	teamRepo := mocks.NewMockTeamRepository(ctrl)
	svc, err := NewAuthService(AuthServiceConfig{
		TeamRepository: teamRepo,
		Secret:         testSecret,
		Logger:         logger.NewTestLogger(t),
	})
	require.NoError(t, err)
	return teamRepo, svc
}

func TestNewAuthService_RequiresSecret(t *testing.T) {
	_, err := NewAuthService(AuthServiceConfig{})
	assert.Error(t, err)
}

func TestAuthService_AuthenticateUserForTeam(t *testing.T) {
	t.Run("member", func(t *testing.T) {
		teamRepo, svc := setupAuthTest(t)
		ctx := domain.ContextWithActor(context.Background(), &domain.Actor{UserID: "u1"})

		teamRepo.EXPECT().IsMember(ctx, "team-1", "u1").Return(true, nil)

		actor, err := svc.AuthenticateUserForTeam(ctx, "team-1")
		require.NoError(t, err)
		assert.Equal(t, "u1", actor.UserID)
	})

	t.Run("non member", func(t *testing.T) {
		teamRepo, svc := setupAuthTest(t)
		ctx := domain.ContextWithActor(context.Background(), &domain.Actor{UserID: "u1"})

		teamRepo.EXPECT().IsMember(ctx, "team-2", "u1").Return(false, nil)

		_, err := svc.AuthenticateUserForTeam(ctx, "team-2")
		assert.True(t, domain.IsPermissionError(err))
	})

	t.Run("admin skips the membership lookup", func(t *testing.T) {
		_, svc := setupAuthTest(t)
		ctx := domain.ContextWithActor(context.Background(),
			&domain.Actor{UserID: "root", Roles: []domain.PlatformRole{domain.PlatformRoleAdmin}})

		actor, err := svc.AuthenticateUserForTeam(ctx, "team-1")
		require.NoError(t, err)
		assert.True(t, actor.IsAdmin())
	})

	t.Run("no actor", func(t *testing.T) {
		_, svc := setupAuthTest(t)
		_, err := svc.AuthenticateUserForTeam(context.Background(), "team-1")
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	})

	t.Run("lookup failure", func(t *testing.T) {
		teamRepo, svc := setupAuthTest(t)
		ctx := domain.ContextWithActor(context.Background(), &domain.Actor{UserID: "u1"})

		teamRepo.EXPECT().IsMember(gomock.Any(), "team-1", "u1").Return(false, errors.New("db down"))

		_, err := svc.AuthenticateUserForTeam(ctx, "team-1")
		require.Error(t, err)
		assert.False(t, domain.IsPermissionError(err))
	})
}

func TestAuthService_Tokens(t *testing.T) {
	_, svc := setupAuthTest(t)

	t.Run("round trip", func(t *testing.T) {
		token, err := svc.GenerateToken(&domain.Actor{
			UserID: "u1",
			Roles:  []domain.PlatformRole{domain.PlatformRoleAdmin},
		}, time.Hour)
		require.NoError(t, err)

		actor, err := svc.VerifyToken(token)
		require.NoError(t, err)
		assert.Equal(t, "u1", actor.UserID)
		assert.True(t, actor.IsAdmin())
	})

	t.Run("expired", func(t *testing.T) {
		token, err := svc.GenerateToken(&domain.Actor{UserID: "u1"}, -time.Minute)
		require.NoError(t, err)

		_, err = svc.VerifyToken(token)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewAuthService(AuthServiceConfig{Secret: []byte("another-secret"), Logger: logger.NewTestLogger(t)})
		require.NoError(t, err)
		token, err := other.GenerateToken(&domain.Actor{UserID: "u1"}, time.Hour)
		require.NoError(t, err)

		_, err = svc.VerifyToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unsigned tokens are rejected", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "u1"}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.VerifyToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("subject is required", func(t *testing.T) {
		token, err := svc.GenerateToken(&domain.Actor{}, time.Hour)
		require.NoError(t, err)

		_, err = svc.VerifyToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
