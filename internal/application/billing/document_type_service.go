package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/supermercado/backend/internal/domain/billing"
	"github.com/supermercado/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DocumentTypeService manages document types
type DocumentTypeService struct {
	repo   billing.DocumentTypeRepository
	logger *zap.Logger
}

// NewDocumentTypeService creates a new DocumentTypeService
func NewDocumentTypeService(repo billing.DocumentTypeRepository, logger *zap.Logger) *DocumentTypeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentTypeService{repo: repo, logger: logger}
}

// List returns a page of document types
func (s *DocumentTypeService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[DocumentTypeResponse], error) {
	filter = filter.Normalize()
	items, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[DocumentTypeResponse]{}, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[DocumentTypeResponse]{}, err
	}
	responses := make([]DocumentTypeResponse, len(items))
	for i := range items {
		responses[i] = ToDocumentTypeResponse(&items[i])
	}
	return shared.NewPaginated(responses, total, filter.Page, filter.PageSize), nil
}

// GetByID returns one document type
func (s *DocumentTypeService) GetByID(ctx context.Context, id uuid.UUID) (*DocumentTypeResponse, error) {
	docType, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Document type", id)
	}
	response := ToDocumentTypeResponse(docType)
	return &response, nil
}

// Create creates a document type with a unique code
func (s *DocumentTypeService) Create(ctx context.Context, req DocumentTypeRequest) (*DocumentTypeResponse, error) {
	docType, err := billing.NewDocumentType(req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueCode(ctx, docType.Code, uuid.Nil); err != nil {
		return nil, err
	}
	if req.Active != nil {
		docType.SetActive(*req.Active)
	}
	if err := s.repo.Save(ctx, docType); err != nil {
		return nil, err
	}

	s.logger.Info("Document type created", zap.String("code", docType.Code))
	response := ToDocumentTypeResponse(docType)
	return &response, nil
}

// Update changes code, name and active flag
func (s *DocumentTypeService) Update(ctx context.Context, id uuid.UUID, req DocumentTypeRequest) (*DocumentTypeResponse, error) {
	docType, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Document type", id)
	}
	if err := docType.Update(req.Code, req.Name); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueCode(ctx, docType.Code, id); err != nil {
		return nil, err
	}
	if req.Active != nil {
		docType.SetActive(*req.Active)
	}
	if err := s.repo.Save(ctx, docType); err != nil {
		return nil, err
	}
	response := ToDocumentTypeResponse(docType)
	return &response, nil
}

// Delete removes a document type
func (s *DocumentTypeService) Delete(ctx context.Context, id uuid.UUID) error {
	return notFoundAs(s.repo.Delete(ctx, id), "Document type", id)
}

func (s *DocumentTypeService) ensureUniqueCode(ctx context.Context, code string, excludeID uuid.UUID) error {
	exists, err := s.repo.ExistsByCode(ctx, code, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError(shared.CodeAlreadyExists, "Document type with code "+code+" already exists")
	}
	return nil
}
