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

// UserService handles user management operations
type UserService struct {
	userRepo  identity.UserRepository
	roleRepo  identity.RoleRepository
	blacklist auth.TokenBlacklist
	tokenTTL  func() time.Duration
	logger    *zap.Logger
}

// NewUserService creates a new user service. When a user is deactivated its
// outstanding tokens are revoked for jwtService's token lifetime.
func NewUserService(
	userRepo identity.UserRepository,
	roleRepo identity.RoleRepository,
	blacklist auth.TokenBlacklist,
	jwtService *auth.JWTService,
	logger *zap.Logger,
) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		userRepo:  userRepo,
		roleRepo:  roleRepo,
		blacklist: blacklist,
		tokenTTL:  jwtService.GetAccessTokenExpiration,
		logger:    logger,
	}
}

// List returns a page of users
func (s *UserService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[UserResponse], error) {
	filter = filter.Normalize()
	users, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[UserResponse]{}, err
	}
	total, err := s.userRepo.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[UserResponse]{}, err
	}
	items := make([]UserResponse, len(users))
	for i := range users {
		items[i] = ToUserResponse(&users[i])
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// GetByID returns one user
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// Create creates a user with a unique email and an existing role
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	if err := s.ensureRole(ctx, req.RoleID); err != nil {
		return nil, err
	}
	user, err := identity.NewUser(req.Name, req.Email, req.Password, req.RoleID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueEmail(ctx, user.Email, uuid.Nil); err != nil {
		return nil, err
	}
	if req.Active != nil {
		user.SetActive(*req.Active)
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User created", zap.String("user_id", user.ID.String()), zap.String("email", user.Email))
	response := ToUserResponse(user)
	return &response, nil
}

// Update changes profile, role, password and active flag
func (s *UserService) Update(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.RoleID != user.RoleID {
		if err := s.ensureRole(ctx, req.RoleID); err != nil {
			return nil, err
		}
	}
	if err := user.Update(req.Name, req.Email, req.RoleID); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueEmail(ctx, user.Email, id); err != nil {
		return nil, err
	}
	if req.Password != "" {
		if err := user.SetPassword(req.Password); err != nil {
			return nil, err
		}
	}

	wasActive := user.IsActive()
	if req.Active != nil {
		user.SetActive(*req.Active)
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	if wasActive && !user.IsActive() {
		s.revokeSessions(ctx, user.ID)
	}
	response := ToUserResponse(user)
	return &response, nil
}

// Delete removes a user and revokes its sessions
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewNotFoundError("User", id)
		}
		return err
	}
	s.revokeSessions(ctx, id)
	return nil
}

func (s *UserService) revokeSessions(ctx context.Context, userID uuid.UUID) {
	if err := s.blacklist.RevokeUser(ctx, userID.String(), s.tokenTTL()); err != nil {
		s.logger.Error("Failed to revoke user sessions", zap.String("user_id", userID.String()), zap.Error(err))
		return
	}
	s.logger.Info("User sessions revoked", zap.String("user_id", userID.String()))
}

func (s *UserService) findUser(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("User", id)
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) ensureRole(ctx context.Context, roleID uuid.UUID) error {
	role, err := s.roleRepo.FindByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewValidationError("Role %s does not exist", roleID)
		}
		return err
	}
	if !role.Active {
		return shared.NewInactiveError("Role", role.Name)
	}
	return nil
}

func (s *UserService) ensureUniqueEmail(ctx context.Context, email string, excludeID uuid.UUID) error {
	exists, err := s.userRepo.ExistsByEmail(ctx, email, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError(shared.CodeAlreadyExists, "A user with email "+email+" already exists")
	}
	return nil
}
