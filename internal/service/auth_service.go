package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Pledgebase/pledgebase/internal/domain"
	"github.com/Pledgebase/pledgebase/pkg/logger"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// AuthClaims is the payload of the bearer tokens issued by the identity provider
type AuthClaims struct {
	Roles []domain.PlatformRole `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

type AuthService struct {
	teamRepo domain.TeamRepository
	logger   logger.Logger
	secret   []byte
}

type AuthServiceConfig struct {
	TeamRepository domain.TeamRepository
	Secret         []byte
	Logger         logger.Logger
}

func NewAuthService(cfg AuthServiceConfig) (*AuthService, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("jwt secret is required")
	}
	return &AuthService{
		teamRepo: cfg.TeamRepository,
		logger:   cfg.Logger,
		secret:   cfg.Secret,
	}, nil
}

// AuthenticateUserForTeam returns the actor attached to ctx once it is known to
// be a member of the team. Platform admins skip the membership lookup.
func (s *AuthService) AuthenticateUserForTeam(ctx context.Context, teamID string) (*domain.Actor, error) {
	actor, ok := domain.ActorFromContext(ctx)
	if !ok || actor.UserID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if actor.IsAdmin() {
		return actor, nil
	}

	member, err := s.teamRepo.IsMember(ctx, teamID, actor.UserID)
	if err != nil {
		s.logger.WithField("team_id", teamID).WithField("user_id", actor.UserID).
			Error(fmt.Sprintf("Failed to check team membership: %v", err))
		return nil, fmt.Errorf("failed to check team membership: %w", err)
	}
	if !member {
		return nil, domain.NewPermissionError(teamID, "user is not a member of the team")
	}
	return actor, nil
}

// VerifyToken checks the signature and expiry of a bearer token and returns its actor
func (s *AuthService) VerifyToken(tokenString string) (*domain.Actor, error) {
	claims := &AuthClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &domain.Actor{UserID: claims.Subject, Roles: claims.Roles}, nil
}

// GenerateToken signs a token for the actor. Used by tooling and tests; users
// normally receive their tokens from the identity provider.
func (s *AuthService) GenerateToken(actor *domain.Actor, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := AuthClaims{
		Roles: actor.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
