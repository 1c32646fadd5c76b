package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/supermercado/backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// GormTaxRateRepository implements TaxRateRepository using GORM
type GormTaxRateRepository struct {
	*GormRepository[catalog.TaxRate]
}

// NewGormTaxRateRepository creates a new GormTaxRateRepository
func NewGormTaxRateRepository(db *gorm.DB) *GormTaxRateRepository {
	return &GormTaxRateRepository{
		GormRepository: newGormRepository[catalog.TaxRate](db, queryOptions{
			sortFields:    TaxRateSortFields,
			defaultOrder:  "code",
			searchColumns: []string{"code", "name"},
			filterColumns: map[string]string{"active": "active"},
		}),
	}
}

// FindByIDs finds multiple tax rates by their IDs
func (r *GormTaxRateRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.TaxRate, error) {
	if len(ids) == 0 {
		return []catalog.TaxRate{}, nil
	}
	var rates []catalog.TaxRate
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rates).Error; err != nil {
		return nil, err
	}
	return rates, nil
}

// ExistsByCode checks if a tax rate other than excludeID uses code
func (r *GormTaxRateRepository) ExistsByCode(ctx context.Context, code string, excludeID uuid.UUID) (bool, error) {
	return r.existsWhere(ctx, excludeID, "code = ?", strings.ToUpper(strings.TrimSpace(code)))
}

var _ catalog.TaxRateRepository = (*GormTaxRateRepository)(nil)
