package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supermercado/backend/internal/domain/catalog"
	"github.com/supermercado/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	*GormRepository[catalog.Product]
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{
		GormRepository: newGormRepository[catalog.Product](db, queryOptions{
			sortFields:    ProductSortFields,
			defaultOrder:  "name",
			searchColumns: []string{"code", "barcode", "name"},
			filterColumns: map[string]string{
				"active":      "active",
				"tax_rate_id": "tax_rate_id",
			},
		}),
	}
}

// FindByIDForUpdate finds a product and locks the row
func (r *GormProductRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &product, nil
}

// UpdateDetails writes the catalog fields of product and leaves the stored stock alone
func (r *GormProductRepository) UpdateDetails(ctx context.Context, product *catalog.Product) error {
	result := r.db.WithContext(ctx).Model(&catalog.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{
			"code":        product.Code,
			"barcode":     product.Barcode,
			"name":        product.Name,
			"description": product.Description,
			"unit_price":  product.UnitPrice,
			"stock_min":   product.StockMin,
			"stock_max":   product.StockMax,
			"tax_rate_id": product.TaxRateID,
			"active":      product.Active,
			"version":     gorm.Expr("version + 1"),
			"updated_at":  product.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByIDs finds multiple products by their IDs
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var products []catalog.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindAvailable lists active products with stock on hand
func (r *GormProductRepository) FindAvailable(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := r.db.WithContext(ctx).Model(&catalog.Product{}).
		Where("active = ? AND stock_current > 0", true)
	if filter.OrderBy == "" {
		filter.OrderBy = "name"
		filter.OrderDir = "asc"
	}
	if err := r.applyFilter(query, filter).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// CountBelowMinimum counts active products at or under their minimum stock
func (r *GormProductRepository) CountBelowMinimum(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&catalog.Product{}).
		Where("active = ? AND stock_current <= stock_min", true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DecreaseStock subtracts qty when the stored stock still covers it
func (r *GormProductRepository) DecreaseStock(ctx context.Context, id uuid.UUID, qty decimal.Decimal) error {
	result := r.db.WithContext(ctx).Model(&catalog.Product{}).
		Where("id = ? AND stock_current >= ?", id, qty).
		Updates(map[string]any{
			"stock_current": gorm.Expr("stock_current - ?", qty),
			"version":       gorm.Expr("version + 1"),
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return shared.ErrInsufficientStock
	}
	return nil
}

// IncreaseStock adds qty back to the product
func (r *GormProductRepository) IncreaseStock(ctx context.Context, id uuid.UUID, qty decimal.Decimal) error {
	result := r.db.WithContext(ctx).Model(&catalog.Product{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"stock_current": gorm.Expr("stock_current + ?", qty),
			"version":       gorm.Expr("version + 1"),
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsByCode checks if a product other than excludeID uses code
func (r *GormProductRepository) ExistsByCode(ctx context.Context, code string, excludeID uuid.UUID) (bool, error) {
	return r.existsWhere(ctx, excludeID, "code = ?", strings.ToUpper(strings.TrimSpace(code)))
}

// ExistsByBarcode checks if a product other than excludeID uses barcode
func (r *GormProductRepository) ExistsByBarcode(ctx context.Context, barcode string, excludeID uuid.UUID) (bool, error) {
	return r.existsWhere(ctx, excludeID, "barcode = ?", strings.TrimSpace(barcode))
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
