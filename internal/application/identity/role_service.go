package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/supermercado/backend/internal/domain/identity"
	"github.com/supermercado/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// RoleService handles role management operations
type RoleService struct {
	roleRepo identity.RoleRepository
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewRoleService creates a new role service
func NewRoleService(roleRepo identity.RoleRepository, userRepo identity.UserRepository, logger *zap.Logger) *RoleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoleService{roleRepo: roleRepo, userRepo: userRepo, logger: logger}
}

// List returns a page of roles
func (s *RoleService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[RoleResponse], error) {
	filter = filter.Normalize()
	roles, err := s.roleRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[RoleResponse]{}, err
	}
	total, err := s.roleRepo.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[RoleResponse]{}, err
	}
	items := make([]RoleResponse, len(roles))
	for i := range roles {
		items[i] = ToRoleResponse(&roles[i])
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// GetByID returns one role
func (s *RoleService) GetByID(ctx context.Context, id uuid.UUID) (*RoleResponse, error) {
	role, err := s.findRole(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToRoleResponse(role)
	return &response, nil
}

// Create creates a role with a unique name
func (s *RoleService) Create(ctx context.Context, req RoleRequest) (*RoleResponse, error) {
	role, err := identity.NewRole(req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, role.Name, uuid.Nil); err != nil {
		return nil, err
	}
	if req.Active != nil {
		role.SetActive(*req.Active)
	}
	if err := s.roleRepo.Save(ctx, role); err != nil {
		return nil, err
	}

	s.logger.Info("Role created", zap.String("role", role.Name))
	response := ToRoleResponse(role)
	return &response, nil
}

// Update renames, describes or toggles a role
func (s *RoleService) Update(ctx context.Context, id uuid.UUID, req RoleRequest) (*RoleResponse, error) {
	role, err := s.findRole(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := role.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, role.Name, id); err != nil {
		return nil, err
	}
	if req.Active != nil {
		role.SetActive(*req.Active)
	}
	if err := s.roleRepo.Save(ctx, role); err != nil {
		return nil, err
	}
	response := ToRoleResponse(role)
	return &response, nil
}

// Delete removes a role that no user is assigned to
func (s *RoleService) Delete(ctx context.Context, id uuid.UUID) error {
	role, err := s.findRole(ctx, id)
	if err != nil {
		return err
	}
	assigned, err := s.userRepo.CountByRole(ctx, id)
	if err != nil {
		return err
	}
	if assigned > 0 {
		return shared.NewBusinessRuleError("Role %s is assigned to %d users and cannot be deleted", role.Name, assigned)
	}
	return s.roleRepo.Delete(ctx, id)
}

func (s *RoleService) findRole(ctx context.Context, id uuid.UUID) (*identity.Role, error) {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Role", id)
		}
		return nil, err
	}
	return role, nil
}

func (s *RoleService) ensureUniqueName(ctx context.Context, name string, excludeID uuid.UUID) error {
	exists, err := s.roleRepo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError(shared.CodeAlreadyExists, "Role "+name+" already exists")
	}
	return nil
}
