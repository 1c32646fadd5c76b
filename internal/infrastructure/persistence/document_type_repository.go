package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/supermercado/backend/internal/domain/billing"
	"gorm.io/gorm"
)

// GormDocumentTypeRepository implements DocumentTypeRepository using GORM
type GormDocumentTypeRepository struct {
	*GormRepository[billing.DocumentType]
}

// NewGormDocumentTypeRepository creates a new GormDocumentTypeRepository
func NewGormDocumentTypeRepository(db *gorm.DB) *GormDocumentTypeRepository {
	return &GormDocumentTypeRepository{
		GormRepository: newGormRepository[billing.DocumentType](db, queryOptions{
			sortFields:    DocumentTypeSortFields,
			defaultOrder:  "code",
			searchColumns: []string{"code", "name"},
			filterColumns: map[string]string{"active": "active"},
		}),
	}
}

// FindByCode finds a document type by its code
func (r *GormDocumentTypeRepository) FindByCode(ctx context.Context, code string) (*billing.DocumentType, error) {
	var docType billing.DocumentType
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&docType).Error; err != nil {
		return nil, translateError(err)
	}
	return &docType, nil
}

// ExistsByCode checks if a document type other than excludeID uses code
func (r *GormDocumentTypeRepository) ExistsByCode(ctx context.Context, code string, excludeID uuid.UUID) (bool, error) {
	return r.existsWhere(ctx, excludeID, "code = ?", strings.ToUpper(strings.TrimSpace(code)))
}

var _ billing.DocumentTypeRepository = (*GormDocumentTypeRepository)(nil)
