package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/supermercado/backend/internal/domain/identity"
	"github.com/supermercado/backend/internal/domain/shared"
	"github.com/supermercado/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

var errInvalidCredentials = shared.NewDomainError(shared.CodeInvalidCredentials, "Invalid email or password")

// AuthService handles authentication operations
type AuthService struct {
	userRepo   identity.UserRepository
	roleRepo   identity.RoleRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	roleRepo identity.RoleRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		userRepo:   userRepo,
		roleRepo:   roleRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// Login checks the credentials and issues an access token
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login for unknown email", zap.String("email", req.Email))
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if !user.VerifyPassword(req.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, errInvalidCredentials
	}
	if !user.IsActive() {
		s.logger.Warn("Login attempt for inactive account", zap.String("user_id", user.ID.String()))
		return nil, shared.NewDomainError(shared.CodeUnauthorized, "Account has been deactivated")
	}

	role, err := s.roleRepo.FindByID(ctx, user.RoleID)
	if err != nil {
		return nil, err
	}
	if !role.Active {
		return nil, shared.NewDomainError(shared.CodeUnauthorized, "Role "+role.Name+" is inactive")
	}

	token, err := s.jwtService.GenerateAccessToken(auth.GenerateTokenInput{
		UserID: user.ID,
		Email:  user.Email,
		Role:   role.Name,
	})
	if err != nil {
		s.logger.Error("Failed to generate access token", zap.Error(err))
		return nil, err
	}

	user.RecordLogin()
	if err := s.userRepo.Save(ctx, user); err != nil {
		// the token is valid either way
		s.logger.Error("Failed to record login", zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	s.logger.Info("User logged in", zap.String("user_id", user.ID.String()), zap.String("role", role.Name))
	return &LoginResponse{
		AccessToken: token.Token,
		ExpireIn:    int64(s.jwtService.GetAccessTokenExpiration() / time.Second),
		Email:       user.Email,
		Role:        role.Name,
	}, nil
}

// Logout revokes the presented token for the rest of its lifetime
func (s *AuthService) Logout(ctx context.Context, jti string, remaining time.Duration) error {
	if jti == "" {
		return shared.NewDomainError(shared.CodeUnauthorized, "Token has no identifier")
	}
	if err := s.blacklist.Revoke(ctx, jti, remaining); err != nil {
		s.logger.Error("Failed to revoke token", zap.String("jti", jti), zap.Error(err))
		return err
	}
	s.logger.Info("Token revoked", zap.String("jti", jti))
	return nil
}

// Me returns the authenticated user with its role name
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*CurrentUserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("User", userID)
		}
		return nil, err
	}
	role, err := s.roleRepo.FindByID(ctx, user.RoleID)
	if err != nil {
		return nil, err
	}
	return &CurrentUserResponse{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		RoleID:      role.ID,
		Role:        role.Name,
		LastLoginAt: user.LastLoginAt,
	}, nil
}
