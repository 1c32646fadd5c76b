package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/supermercado/backend/internal/domain/catalog"
	"github.com/supermercado/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// TaxRateService manages tax rates
type TaxRateService struct {
	repo   catalog.TaxRateRepository
	logger *zap.Logger
}

// NewTaxRateService creates a new TaxRateService
func NewTaxRateService(repo catalog.TaxRateRepository, logger *zap.Logger) *TaxRateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaxRateService{repo: repo, logger: logger}
}

// List returns a page of tax rates
func (s *TaxRateService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[TaxRateResponse], error) {
	filter = filter.Normalize()
	rates, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[TaxRateResponse]{}, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[TaxRateResponse]{}, err
	}
	items := make([]TaxRateResponse, len(rates))
	for i := range rates {
		items[i] = ToTaxRateResponse(&rates[i])
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// GetByID returns one tax rate
func (s *TaxRateService) GetByID(ctx context.Context, id uuid.UUID) (*TaxRateResponse, error) {
	rate, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Tax rate", id)
	}
	response := ToTaxRateResponse(rate)
	return &response, nil
}

// Create creates a tax rate with a unique code
func (s *TaxRateService) Create(ctx context.Context, req TaxRateRequest) (*TaxRateResponse, error) {
	rate, err := catalog.NewTaxRate(req.Code, req.Name, req.Percentage)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueCode(ctx, rate.Code, uuid.Nil); err != nil {
		return nil, err
	}
	if req.Active != nil {
		rate.SetActive(*req.Active)
	}
	if err := s.repo.Save(ctx, rate); err != nil {
		return nil, err
	}

	s.logger.Info("Tax rate created", zap.String("code", rate.Code), zap.String("percentage", rate.Percentage.String()))
	response := ToTaxRateResponse(rate)
	return &response, nil
}

// Update changes code, name, percentage and active flag. Issued invoices
// keep the percentage they were priced with.
func (s *TaxRateService) Update(ctx context.Context, id uuid.UUID, req TaxRateRequest) (*TaxRateResponse, error) {
	rate, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Tax rate", id)
	}
	if err := rate.Update(req.Code, req.Name, req.Percentage); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueCode(ctx, rate.Code, id); err != nil {
		return nil, err
	}
	if req.Active != nil {
		rate.SetActive(*req.Active)
	}
	if err := s.repo.Save(ctx, rate); err != nil {
		return nil, err
	}
	response := ToTaxRateResponse(rate)
	return &response, nil
}

// Delete removes a tax rate no product uses
func (s *TaxRateService) Delete(ctx context.Context, id uuid.UUID) error {
	return notFoundAs(s.repo.Delete(ctx, id), "Tax rate", id)
}

func (s *TaxRateService) ensureUniqueCode(ctx context.Context, code string, excludeID uuid.UUID) error {
	exists, err := s.repo.ExistsByCode(ctx, code, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError(shared.CodeAlreadyExists, "Tax rate with code "+code+" already exists")
	}
	return nil
}
