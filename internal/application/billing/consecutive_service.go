package billing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/supermercado/backend/internal/domain/billing"
	"github.com/supermercado/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ConsecutiveService administers numbering counters. Updating a counter is
// the only path that may move current_number backwards.
type ConsecutiveService struct {
	repo        billing.ConsecutiveRepository
	docTypeRepo billing.DocumentTypeRepository
	logger      *zap.Logger
}

// NewConsecutiveService creates a new ConsecutiveService
func NewConsecutiveService(repo billing.ConsecutiveRepository, docTypeRepo billing.DocumentTypeRepository, logger *zap.Logger) *ConsecutiveService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsecutiveService{repo: repo, docTypeRepo: docTypeRepo, logger: logger}
}

// List returns a page of consecutives
func (s *ConsecutiveService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[ConsecutiveResponse], error) {
	filter = filter.Normalize()
	items, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[ConsecutiveResponse]{}, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[ConsecutiveResponse]{}, err
	}
	responses := make([]ConsecutiveResponse, len(items))
	for i := range items {
		responses[i] = ToConsecutiveResponse(&items[i])
	}
	return shared.NewPaginated(responses, total, filter.Page, filter.PageSize), nil
}

// GetByID returns one consecutive
func (s *ConsecutiveService) GetByID(ctx context.Context, id uuid.UUID) (*ConsecutiveResponse, error) {
	consecutive, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Consecutive", id)
	}
	response := ToConsecutiveResponse(consecutive)
	return &response, nil
}

// Create creates a counter for an existing document type
func (s *ConsecutiveService) Create(ctx context.Context, req ConsecutiveRequest) (*ConsecutiveResponse, error) {
	if err := s.ensureDocumentType(ctx, req.DocumentTypeID); err != nil {
		return nil, err
	}
	consecutive, err := billing.NewConsecutive(req.DocumentTypeID, req.Prefix, req.RangeStart, req.RangeEnd)
	if err != nil {
		return nil, err
	}
	if req.CurrentNumber != nil {
		if err := consecutive.Configure(req.Prefix, req.RangeStart, req.RangeEnd, *req.CurrentNumber); err != nil {
			return nil, err
		}
	}
	if req.Active != nil {
		consecutive.SetActive(*req.Active)
	}
	if err := s.repo.Save(ctx, consecutive); err != nil {
		return nil, err
	}

	s.logger.Info("Consecutive created",
		zap.String("prefix", consecutive.Prefix),
		zap.Int64("range_start", consecutive.RangeStart),
		zap.Int64("range_end", consecutive.RangeEnd))
	response := ToConsecutiveResponse(consecutive)
	return &response, nil
}

// Update reconfigures a counter. Leaving CurrentNumber empty keeps the
// stored position.
func (s *ConsecutiveService) Update(ctx context.Context, id uuid.UUID, req ConsecutiveRequest) (*ConsecutiveResponse, error) {
	consecutive, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Consecutive", id)
	}
	if req.DocumentTypeID != consecutive.DocumentTypeID {
		if err := s.ensureDocumentType(ctx, req.DocumentTypeID); err != nil {
			return nil, err
		}
		consecutive.DocumentTypeID = req.DocumentTypeID
	}

	current := consecutive.CurrentNumber
	if req.CurrentNumber != nil {
		current = *req.CurrentNumber
	}
	previous := consecutive.CurrentNumber
	if err := consecutive.Configure(req.Prefix, req.RangeStart, req.RangeEnd, current); err != nil {
		return nil, err
	}
	if req.Active != nil {
		consecutive.SetActive(*req.Active)
	}
	if err := s.repo.Save(ctx, consecutive); err != nil {
		return nil, err
	}

	if current < previous {
		s.logger.Warn("Consecutive moved backwards",
			zap.String("consecutive_id", id.String()),
			zap.Int64("from", previous),
			zap.Int64("to", current))
	}
	response := ToConsecutiveResponse(consecutive)
	return &response, nil
}

// Delete removes a consecutive
func (s *ConsecutiveService) Delete(ctx context.Context, id uuid.UUID) error {
	return notFoundAs(s.repo.Delete(ctx, id), "Consecutive", id)
}

func (s *ConsecutiveService) ensureDocumentType(ctx context.Context, id uuid.UUID) error {
	if _, err := s.docTypeRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewValidationError("Document type %s does not exist", id)
		}
		return err
	}
	return nil
}
