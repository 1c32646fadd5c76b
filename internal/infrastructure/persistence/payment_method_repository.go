package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/supermercado/backend/internal/domain/billing"
	"gorm.io/gorm"
)

// GormPaymentMethodRepository implements PaymentMethodRepository using GORM
type GormPaymentMethodRepository struct {
	*GormRepository[billing.PaymentMethod]
}

// NewGormPaymentMethodRepository creates a new GormPaymentMethodRepository
func NewGormPaymentMethodRepository(db *gorm.DB) *GormPaymentMethodRepository {
	return &GormPaymentMethodRepository{
		GormRepository: newGormRepository[billing.PaymentMethod](db, queryOptions{
			sortFields:    PaymentMethodSortFields,
			defaultOrder:  "name",
			searchColumns: []string{"code", "name"},
			filterColumns: map[string]string{"active": "active"},
		}),
	}
}

// FindActive lists active payment methods ordered by name
func (r *GormPaymentMethodRepository) FindActive(ctx context.Context) ([]billing.PaymentMethod, error) {
	var methods []billing.PaymentMethod
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name ASC").
		Find(&methods).Error; err != nil {
		return nil, err
	}
	return methods, nil
}

// ExistsByCode checks if a payment method other than excludeID uses code
func (r *GormPaymentMethodRepository) ExistsByCode(ctx context.Context, code string, excludeID uuid.UUID) (bool, error) {
	return r.existsWhere(ctx, excludeID, "code = ?", strings.ToUpper(strings.TrimSpace(code)))
}

var _ billing.PaymentMethodRepository = (*GormPaymentMethodRepository)(nil)
