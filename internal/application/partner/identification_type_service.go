package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/supermercado/backend/internal/domain/partner"
	"github.com/supermercado/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// IdentificationTypeService manages identification document types
type IdentificationTypeService struct {
	repo   partner.IdentificationTypeRepository
	logger *zap.Logger
}

// NewIdentificationTypeService creates a new IdentificationTypeService
func NewIdentificationTypeService(repo partner.IdentificationTypeRepository, logger *zap.Logger) *IdentificationTypeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdentificationTypeService{repo: repo, logger: logger}
}

// List returns a page of identification types
func (s *IdentificationTypeService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[IdentificationTypeResponse], error) {
	filter = filter.Normalize()
	types, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[IdentificationTypeResponse]{}, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[IdentificationTypeResponse]{}, err
	}
	items := make([]IdentificationTypeResponse, len(types))
	for i := range types {
		items[i] = ToIdentificationTypeResponse(&types[i])
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// GetByID returns one identification type
func (s *IdentificationTypeService) GetByID(ctx context.Context, id uuid.UUID) (*IdentificationTypeResponse, error) {
	idType, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Identification type", id)
	}
	response := ToIdentificationTypeResponse(idType)
	return &response, nil
}

// Create creates an identification type with a unique code
func (s *IdentificationTypeService) Create(ctx context.Context, req IdentificationTypeRequest) (*IdentificationTypeResponse, error) {
	idType, err := partner.NewIdentificationType(req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueCode(ctx, idType.Code, uuid.Nil); err != nil {
		return nil, err
	}
	if req.Active != nil {
		idType.SetActive(*req.Active)
	}
	if err := s.repo.Save(ctx, idType); err != nil {
		return nil, err
	}
	s.logger.Info("Identification type created", zap.String("code", idType.Code))
	response := ToIdentificationTypeResponse(idType)
	return &response, nil
}

// Update changes code, name and active flag
func (s *IdentificationTypeService) Update(ctx context.Context, id uuid.UUID, req IdentificationTypeRequest) (*IdentificationTypeResponse, error) {
	idType, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Identification type", id)
	}
	if err := idType.Update(req.Code, req.Name); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueCode(ctx, idType.Code, id); err != nil {
		return nil, err
	}
	if req.Active != nil {
		idType.SetActive(*req.Active)
	}
	if err := s.repo.Save(ctx, idType); err != nil {
		return nil, err
	}
	response := ToIdentificationTypeResponse(idType)
	return &response, nil
}

// Delete removes an identification type
func (s *IdentificationTypeService) Delete(ctx context.Context, id uuid.UUID) error {
	return notFoundAs(s.repo.Delete(ctx, id), "Identification type", id)
}

func (s *IdentificationTypeService) ensureUniqueCode(ctx context.Context, code string, excludeID uuid.UUID) error {
	exists, err := s.repo.ExistsByCode(ctx, code, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError(shared.CodeAlreadyExists, "Identification type with code "+code+" already exists")
	}
	return nil
}
