package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/supermercado/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// queryOptions describes how a shared.Filter maps onto one table
type queryOptions struct {
	sortFields    map[string]bool
	defaultOrder  string
	searchColumns []string
	filterColumns map[string]string
}

// GormRepository is the storage adapter shared by the master-data
// repositories. Entity repositories embed it and add their own queries.
type GormRepository[T any] struct {
	db   *gorm.DB
	opts queryOptions
}

func newGormRepository[T any](db *gorm.DB, opts queryOptions) *GormRepository[T] {
	if opts.defaultOrder == "" {
		opts.defaultOrder = "created_at"
	}
	return &GormRepository[T]{db: db, opts: opts}
}

// FindByID finds an entity by its ID
func (r *GormRepository[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	var entity T
	if err := r.db.WithContext(ctx).First(&entity, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &entity, nil
}

// FindAll finds all entities matching the filter
func (r *GormRepository[T]) FindAll(ctx context.Context, filter shared.Filter) ([]T, error) {
	var entities []T
	query := r.applyFilter(r.db.WithContext(ctx).Model(new(T)), filter)
	if err := query.Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// Count counts entities matching the filter
func (r *GormRepository[T]) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(new(T)), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an entity
func (r *GormRepository[T]) Save(ctx context.Context, entity *T) error {
	return translateError(r.db.WithContext(ctx).Save(entity).Error)
}

// Delete deletes an entity by its ID
func (r *GormRepository[T]) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(new(T), "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// existsWhere checks for a row matching the condition other than excludeID.
// Pass uuid.Nil to check every row.
func (r *GormRepository[T]) existsWhere(ctx context.Context, excludeID uuid.UUID, condition string, args ...any) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(new(T)).Where(condition, args...)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options including pagination and ordering
func (r *GormRepository[T]) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, r.opts.sortFields, r.opts.defaultOrder)
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

// applyFilterWithoutPagination applies search and equality filters only
func (r *GormRepository[T]) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" && len(r.opts.searchColumns) > 0 {
		pattern := "%" + strings.ToLower(search) + "%"
		conditions := make([]string, 0, len(r.opts.searchColumns))
		args := make([]any, 0, len(r.opts.searchColumns))
		for _, column := range r.opts.searchColumns {
			conditions = append(conditions, "LOWER("+column+") LIKE ?")
			args = append(args, pattern)
		}
		query = query.Where("("+strings.Join(conditions, " OR ")+")", args...)
	}

	for key, value := range filter.Filters {
		column, ok := r.opts.filterColumns[key]
		if !ok {
			continue
		}
		query = query.Where(column+" = ?", value)
	}

	return query
}
