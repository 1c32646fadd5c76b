package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/supermercado/backend/internal/domain/catalog"
	"github.com/supermercado/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductService handles product catalog maintenance.
// Stock is only written at creation; afterwards invoicing owns it.
type ProductService struct {
	productRepo catalog.ProductRepository
	lookup      catalog.ProductLookup
	taxRateRepo catalog.TaxRateRepository
	logger      *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	lookup catalog.ProductLookup,
	taxRateRepo catalog.TaxRateRepository,
	logger *zap.Logger,
) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		productRepo: productRepo,
		lookup:      lookup,
		taxRateRepo: taxRateRepo,
		logger:      logger,
	}
}

// List returns a page of products
func (s *ProductService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[ProductResponse], error) {
	filter = filter.Normalize()
	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}
	total, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}
	return shared.NewPaginated(ToProductResponses(products), total, filter.Page, filter.PageSize), nil
}

// GetByID returns one product
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Product", id)
	}
	response := ToProductResponse(product)
	return &response, nil
}

// Create creates a product with unique code and barcode and its opening stock
func (s *ProductService) Create(ctx context.Context, req ProductRequest) (*ProductResponse, error) {
	if err := s.ensureTaxRate(ctx, req.TaxRateID); err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(req.Code, req.Barcode, req.Name, req.UnitPrice, req.TaxRateID)
	if err != nil {
		return nil, err
	}
	product.Description = req.Description
	if err := product.SetStockLimits(req.StockMin, req.StockMax); err != nil {
		return nil, err
	}
	if req.StockCurrent != nil {
		if err := product.SetOpeningStock(*req.StockCurrent); err != nil {
			return nil, err
		}
	}
	if req.Active != nil && !*req.Active {
		if err := product.Deactivate(); err != nil {
			return nil, err
		}
	}

	if err := s.ensureUniqueKeys(ctx, product, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		if errors.Is(err, shared.ErrDuplicateRecord) {
			return nil, shared.NewDomainError(shared.CodeAlreadyExists, "A product with code "+product.Code+" or barcode "+product.Barcode+" already exists")
		}
		return nil, err
	}

	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("code", product.Code),
		zap.String("opening_stock", product.StockCurrent.String()),
	)
	response := ToProductResponse(product)
	return &response, nil
}

// Update changes descriptive, pricing and limit fields. A stock value in
// the request is ignored.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req ProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Product", id)
	}
	if req.TaxRateID != product.TaxRateID {
		if err := s.ensureTaxRate(ctx, req.TaxRateID); err != nil {
			return nil, err
		}
	}

	if err := product.UpdateCodes(req.Code, req.Barcode); err != nil {
		return nil, err
	}
	if err := product.Update(req.Name, req.Description, req.UnitPrice, req.TaxRateID); err != nil {
		return nil, err
	}
	if err := product.SetStockLimits(req.StockMin, req.StockMax); err != nil {
		return nil, err
	}
	if req.Active != nil && *req.Active != product.IsActive() {
		if *req.Active {
			err = product.Activate()
		} else {
			err = product.Deactivate()
		}
		if err != nil {
			return nil, err
		}
	}
	if req.StockCurrent != nil && !req.StockCurrent.Equal(product.StockCurrent) {
		s.logger.Warn("Ignoring stock change on product update",
			zap.String("product_id", id.String()),
			zap.String("requested", req.StockCurrent.String()),
		)
	}

	if err := s.ensureUniqueKeys(ctx, product, id); err != nil {
		return nil, err
	}
	if err := s.productRepo.UpdateDetails(ctx, product); err != nil {
		if errors.Is(err, shared.ErrDuplicateRecord) {
			return nil, shared.NewDomainError(shared.CodeAlreadyExists, "A product with code "+product.Code+" or barcode "+product.Barcode+" already exists")
		}
		return nil, notFoundAs(err, "Product", id)
	}

	// stock may have moved since the read
	return s.GetByID(ctx, id)
}

// Delete removes a product that no invoice references
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return notFoundAs(err, "Product", id)
	}
	s.logger.Info("Product deleted", zap.String("product_id", id.String()))
	return nil
}

func (s *ProductService) ensureTaxRate(ctx context.Context, taxRateID uuid.UUID) error {
	if taxRateID == uuid.Nil {
		return shared.NewValidationError("Tax rate is required")
	}
	rate, err := s.taxRateRepo.FindByID(ctx, taxRateID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewValidationError("Tax rate %s does not exist", taxRateID)
		}
		return err
	}
	if !rate.Active {
		return shared.NewInactiveError("Tax rate", rate.Code)
	}
	return nil
}

func (s *ProductService) ensureUniqueKeys(ctx context.Context, product *catalog.Product, excludeID uuid.UUID) error {
	exists, err := s.lookup.ExistsByCode(ctx, product.Code, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError(shared.CodeAlreadyExists, "A product with code "+product.Code+" already exists")
	}
	exists, err = s.lookup.ExistsByBarcode(ctx, product.Barcode, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError(shared.CodeAlreadyExists, "A product with barcode "+product.Barcode+" already exists")
	}
	return nil
}

// notFoundAs names the missing entity in a NOT_FOUND error
func notFoundAs(err error, entity string, id uuid.UUID) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewNotFoundError(entity, id)
	}
	return err
}
