package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/supermercado/backend/internal/domain/billing"
	"github.com/supermercado/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormConsecutiveRepository implements ConsecutiveRepository using GORM
type GormConsecutiveRepository struct {
	*GormRepository[billing.Consecutive]
}

// NewGormConsecutiveRepository creates a new GormConsecutiveRepository
func NewGormConsecutiveRepository(db *gorm.DB) *GormConsecutiveRepository {
	return &GormConsecutiveRepository{
		GormRepository: newGormRepository[billing.Consecutive](db, queryOptions{
			sortFields:    ConsecutiveSortFields,
			defaultOrder:  "prefix",
			searchColumns: []string{"prefix"},
			filterColumns: map[string]string{
				"active":           "active",
				"document_type_id": "document_type_id",
			},
		}),
	}
}

// FindActiveByDocumentTypeForUpdate loads and locks the active counter of a
// document type. The oldest active counter wins if several exist.
func (r *GormConsecutiveRepository) FindActiveByDocumentTypeForUpdate(ctx context.Context, documentTypeID uuid.UUID) (*billing.Consecutive, error) {
	var consecutive billing.Consecutive
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("document_type_id = ? AND active = ?", documentTypeID, true).
		Order("created_at ASC").
		First(&consecutive).Error; err != nil {
		return nil, translateError(err)
	}
	return &consecutive, nil
}

// AdvanceFrom moves the counter one step, only if it still holds expected
func (r *GormConsecutiveRepository) AdvanceFrom(ctx context.Context, id uuid.UUID, expected int64) error {
	result := r.db.WithContext(ctx).Model(&billing.Consecutive{}).
		Where("id = ? AND current_number = ? AND current_number < range_end", id, expected).
		Updates(map[string]any{
			"current_number": gorm.Expr("current_number + 1"),
			"version":        gorm.Expr("version + 1"),
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 1 {
		return nil
	}

	current, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if current.CurrentNumber >= current.RangeEnd {
		return billing.NewRangeExhaustedError(current.Prefix, current.RangeEnd)
	}
	return shared.ErrConcurrencyConflict
}

var _ billing.ConsecutiveRepository = (*GormConsecutiveRepository)(nil)
