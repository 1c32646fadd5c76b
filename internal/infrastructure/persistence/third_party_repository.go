package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/supermercado/backend/internal/domain/partner"
	"github.com/supermercado/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormThirdPartyRepository implements ThirdPartyRepository using GORM
type GormThirdPartyRepository struct {
	*GormRepository[partner.ThirdParty]
}

// NewGormThirdPartyRepository creates a new GormThirdPartyRepository
func NewGormThirdPartyRepository(db *gorm.DB) *GormThirdPartyRepository {
	return &GormThirdPartyRepository{
		GormRepository: newGormRepository[partner.ThirdParty](db, queryOptions{
			sortFields:    ThirdPartySortFields,
			defaultOrder:  "created_at",
			searchColumns: []string{"identification_number", "first_name", "last_name", "business_name", "email"},
			filterColumns: map[string]string{
				"active":                 "active",
				"is_customer":            "is_customer",
				"is_supplier":            "is_supplier",
				"identification_type_id": "identification_type_id",
			},
		}),
	}
}

// ExistsByIdentification checks if another third party uses the document
func (r *GormThirdPartyRepository) ExistsByIdentification(ctx context.Context, identificationTypeID uuid.UUID, number string, excludeID uuid.UUID) (bool, error) {
	return r.existsWhere(ctx, excludeID,
		"identification_type_id = ? AND identification_number = ?",
		identificationTypeID, strings.TrimSpace(number))
}

// FindCustomers lists active customers
func (r *GormThirdPartyRepository) FindCustomers(ctx context.Context, filter shared.Filter) ([]partner.ThirdParty, error) {
	var parties []partner.ThirdParty
	query := r.db.WithContext(ctx).Model(&partner.ThirdParty{}).
		Where("active = ? AND is_customer = ?", true, true)
	if err := r.applyFilter(query, filter).Find(&parties).Error; err != nil {
		return nil, err
	}
	return parties, nil
}

// CountCustomers counts active customers
func (r *GormThirdPartyRepository) CountCustomers(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&partner.ThirdParty{}).
		Where("active = ? AND is_customer = ?", true, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ partner.ThirdPartyRepository = (*GormThirdPartyRepository)(nil)

// GormIdentificationTypeRepository implements IdentificationTypeRepository using GORM
type GormIdentificationTypeRepository struct {
	*GormRepository[partner.IdentificationType]
}

// NewGormIdentificationTypeRepository creates a new GormIdentificationTypeRepository
func NewGormIdentificationTypeRepository(db *gorm.DB) *GormIdentificationTypeRepository {
	return &GormIdentificationTypeRepository{
		GormRepository: newGormRepository[partner.IdentificationType](db, queryOptions{
			sortFields:    IdentificationTypeSortFields,
			defaultOrder:  "code",
			searchColumns: []string{"code", "name"},
			filterColumns: map[string]string{"active": "active"},
		}),
	}
}

// ExistsByCode checks if another identification type uses code
func (r *GormIdentificationTypeRepository) ExistsByCode(ctx context.Context, code string, excludeID uuid.UUID) (bool, error) {
	return r.existsWhere(ctx, excludeID, "code = ?", strings.ToUpper(strings.TrimSpace(code)))
}

var _ partner.IdentificationTypeRepository = (*GormIdentificationTypeRepository)(nil)
