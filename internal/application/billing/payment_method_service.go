package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/supermercado/backend/internal/domain/billing"
	"github.com/supermercado/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PaymentMethodService manages payment methods
type PaymentMethodService struct {
	repo   billing.PaymentMethodRepository
	logger *zap.Logger
}

// NewPaymentMethodService creates a new PaymentMethodService
func NewPaymentMethodService(repo billing.PaymentMethodRepository, logger *zap.Logger) *PaymentMethodService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentMethodService{repo: repo, logger: logger}
}

// List returns a page of payment methods
func (s *PaymentMethodService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[PaymentMethodResponse], error) {
	filter = filter.Normalize()
	items, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[PaymentMethodResponse]{}, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[PaymentMethodResponse]{}, err
	}
	responses := make([]PaymentMethodResponse, len(items))
	for i := range items {
		responses[i] = ToPaymentMethodResponse(&items[i])
	}
	return shared.NewPaginated(responses, total, filter.Page, filter.PageSize), nil
}

// GetByID returns one payment method
func (s *PaymentMethodService) GetByID(ctx context.Context, id uuid.UUID) (*PaymentMethodResponse, error) {
	method, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Payment method", id)
	}
	response := ToPaymentMethodResponse(method)
	return &response, nil
}

// Create creates a payment method with a unique code
func (s *PaymentMethodService) Create(ctx context.Context, req PaymentMethodRequest) (*PaymentMethodResponse, error) {
	method, err := billing.NewPaymentMethod(req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueCode(ctx, method.Code, uuid.Nil); err != nil {
		return nil, err
	}
	if req.Active != nil {
		method.SetActive(*req.Active)
	}
	if err := s.repo.Save(ctx, method); err != nil {
		return nil, err
	}

	s.logger.Info("Payment method created", zap.String("code", method.Code))
	response := ToPaymentMethodResponse(method)
	return &response, nil
}

// Update changes code, name and active flag
func (s *PaymentMethodService) Update(ctx context.Context, id uuid.UUID, req PaymentMethodRequest) (*PaymentMethodResponse, error) {
	method, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Payment method", id)
	}
	if err := method.Update(req.Code, req.Name); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueCode(ctx, method.Code, id); err != nil {
		return nil, err
	}
	if req.Active != nil {
		method.SetActive(*req.Active)
	}
	if err := s.repo.Save(ctx, method); err != nil {
		return nil, err
	}
	response := ToPaymentMethodResponse(method)
	return &response, nil
}

// Delete removes a payment method. Methods used by invoices are restricted
// by the schema and should be deactivated instead.
func (s *PaymentMethodService) Delete(ctx context.Context, id uuid.UUID) error {
	return notFoundAs(s.repo.Delete(ctx, id), "Payment method", id)
}

func (s *PaymentMethodService) ensureUniqueCode(ctx context.Context, code string, excludeID uuid.UUID) error {
	exists, err := s.repo.ExistsByCode(ctx, code, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError(shared.CodeAlreadyExists, "Payment method with code "+code+" already exists")
	}
	return nil
}
