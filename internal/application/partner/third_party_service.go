package partner

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/supermercado/backend/internal/domain/partner"
	"github.com/supermercado/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ThirdPartyService manages customers and suppliers
type ThirdPartyService struct {
	repo       partner.ThirdPartyRepository
	idTypeRepo partner.IdentificationTypeRepository
	logger     *zap.Logger
}

// NewThirdPartyService creates a new ThirdPartyService
func NewThirdPartyService(
	repo partner.ThirdPartyRepository,
	idTypeRepo partner.IdentificationTypeRepository,
	logger *zap.Logger,
) *ThirdPartyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ThirdPartyService{repo: repo, idTypeRepo: idTypeRepo, logger: logger}
}

// List returns a page of third parties
func (s *ThirdPartyService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[ThirdPartyResponse], error) {
	filter = filter.Normalize()
	parties, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[ThirdPartyResponse]{}, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[ThirdPartyResponse]{}, err
	}
	items := make([]ThirdPartyResponse, len(parties))
	for i := range parties {
		items[i] = ToThirdPartyResponse(&parties[i])
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// GetByID returns one third party
func (s *ThirdPartyService) GetByID(ctx context.Context, id uuid.UUID) (*ThirdPartyResponse, error) {
	party, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Third party", id)
	}
	response := ToThirdPartyResponse(party)
	return &response, nil
}

// Create registers a third party. Without explicit flags it is a customer.
func (s *ThirdPartyService) Create(ctx context.Context, req ThirdPartyRequest) (*ThirdPartyResponse, error) {
	if err := s.ensureIdentificationType(ctx, req.IdentificationTypeID); err != nil {
		return nil, err
	}
	party, err := partner.NewThirdParty(req.IdentificationTypeID, req.IdentificationNumber, req.FirstName, req.LastName, req.BusinessName)
	if err != nil {
		return nil, err
	}
	if err := s.apply(party, req); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueIdentification(ctx, party, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, party); err != nil {
		return nil, err
	}

	s.logger.Info("Third party created",
		zap.String("third_party_id", party.ID.String()),
		zap.String("identification", party.IdentificationNumber),
		zap.Bool("customer", party.IsCustomer),
		zap.Bool("supplier", party.IsSupplier),
	)
	response := ToThirdPartyResponse(party)
	return &response, nil
}

// Update replaces the identification, names, contact and flags
func (s *ThirdPartyService) Update(ctx context.Context, id uuid.UUID, req ThirdPartyRequest) (*ThirdPartyResponse, error) {
	party, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Third party", id)
	}
	if req.IdentificationTypeID != party.IdentificationTypeID {
		if err := s.ensureIdentificationType(ctx, req.IdentificationTypeID); err != nil {
			return nil, err
		}
	}
	if err := party.SetIdentification(req.IdentificationTypeID, req.IdentificationNumber); err != nil {
		return nil, err
	}
	if err := party.SetNames(req.FirstName, req.LastName, req.BusinessName); err != nil {
		return nil, err
	}
	if err := s.apply(party, req); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueIdentification(ctx, party, id); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, party); err != nil {
		return nil, err
	}
	response := ToThirdPartyResponse(party)
	return &response, nil
}

// Delete removes a third party no invoice references
func (s *ThirdPartyService) Delete(ctx context.Context, id uuid.UUID) error {
	return notFoundAs(s.repo.Delete(ctx, id), "Third party", id)
}

// apply sets contact data, role flags and the active flag from req
func (s *ThirdPartyService) apply(party *partner.ThirdParty, req ThirdPartyRequest) error {
	if err := party.SetContact(req.Email, req.Phone, req.Address); err != nil {
		return err
	}
	isCustomer, isSupplier := party.IsCustomer, party.IsSupplier
	if req.IsCustomer != nil {
		isCustomer = *req.IsCustomer
	}
	if req.IsSupplier != nil {
		isSupplier = *req.IsSupplier
	}
	if err := party.SetRoles(isCustomer, isSupplier); err != nil {
		return err
	}
	if req.Active != nil {
		party.SetActive(*req.Active)
	}
	return nil
}

func (s *ThirdPartyService) ensureIdentificationType(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return shared.NewValidationError("Identification type is required")
	}
	idType, err := s.idTypeRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewValidationError("Identification type %s does not exist", id)
		}
		return err
	}
	if !idType.Active {
		return shared.NewInactiveError("Identification type", idType.Code)
	}
	return nil
}

func (s *ThirdPartyService) ensureUniqueIdentification(ctx context.Context, party *partner.ThirdParty, excludeID uuid.UUID) error {
	exists, err := s.repo.ExistsByIdentification(ctx, party.IdentificationTypeID, party.IdentificationNumber, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError(shared.CodeAlreadyExists, "A third party with identification "+party.IdentificationNumber+" already exists")
	}
	return nil
}

func notFoundAs(err error, entity string, id uuid.UUID) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewNotFoundError(entity, id)
	}
	return err
}
