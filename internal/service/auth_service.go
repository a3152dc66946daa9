package service

import (
	"context"
	"errors"
	"time"

	"mekarsari-pos/internal/model"
	"mekarsari-pos/internal/repository"
	"mekarsari-pos/internal/revocation"
	"mekarsari-pos/pkg/apperr"
	"mekarsari-pos/pkg/jwt"

	"gorm.io/gorm"
)

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

type AuthService interface {
	Login(req *LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, claims *jwt.Claims) error
}

type authService struct {
	userRepo  repository.UserRepository
	blocklist revocation.Checker
}

func NewAuthService(userRepo repository.UserRepository, blocklist revocation.Checker) AuthService {
	return &authService{userRepo: userRepo, blocklist: blocklist}
}

// Login checks credentials and issues a 12-hour token. Bad username and bad
// password return the same message on purpose.
func (s *authService) Login(req *LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.FindByUsername(req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthorizedf("invalid username or password")
		}
		return nil, apperr.Persistencef(err, "failed to load user")
	}

	if !user.IsActive {
		return nil, apperr.Forbiddenf("account is disabled")
	}
	if !user.CheckPassword(req.Password) {
		return nil, apperr.Unauthorizedf("invalid username or password")
	}

	token, err := jwt.GenerateToken(user.ID, user.Username, user.FullName, string(user.Role))
	if err != nil {
		return nil, apperr.Persistencef(err, "failed to sign token")
	}

	return &LoginResponse{Token: token, User: user.ToResponse()}, nil
}

// Logout blocks the token's jti until its natural expiry. The token itself
// stays cryptographically valid; the middleware consults the blocklist.
func (s *authService) Logout(ctx context.Context, claims *jwt.Claims) error {
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.blocklist.Revoke(ctx, claims.ID, ttl); err != nil {
		return apperr.Persistencef(err, "failed to revoke token")
	}
	return nil
}
