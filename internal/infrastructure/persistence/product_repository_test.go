package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supermercado/backend/internal/domain/catalog"
	"github.com/supermercado/backend/internal/domain/shared"
	"github.com/supermercado/backend/internal/testutil"
	"gorm.io/gorm"
)

func newSQLiteDB(t *testing.T) *gorm.DB {
	return testutil.NewSQLiteDB(t, Models()...)
}

func seededDB(t *testing.T) (*gorm.DB, *testutil.Fixtures) {
	db := newSQLiteDB(t)
	return db, testutil.Seed(t, db)
}

func TestGormProductRepository_FindByID(t *testing.T) {
	db, f := seededDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	t.Run("finds existing product", func(t *testing.T) {
		p, err := repo.FindByID(ctx, f.Rice.ID)
		require.NoError(t, err)
		assert.Equal(t, "ARROZ-500", p.Code)
		assert.True(t, p.UnitPrice.Equal(decimal.NewFromInt(5000)))
		assert.True(t, p.StockCurrent.Equal(decimal.NewFromInt(10)))
	})

	t.Run("returns ErrNotFound for unknown id", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormProductRepository_FindAll(t *testing.T) {
	db, _ := seededDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	t.Run("searches code, barcode and name ignoring case", func(t *testing.T) {
		products, err := repo.FindAll(ctx, shared.Filter{Search: "leche"})
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "LECHE-1L", products[0].Code)

		products, err = repo.FindAll(ctx, shared.Filter{Search: "7701234000011"})
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "ARROZ-500", products[0].Code)
	})

	t.Run("filters on whitelisted keys only", func(t *testing.T) {
		products, err := repo.FindAll(ctx, shared.Filter{Filters: map[string]interface{}{
			"active":        false,
			"password_hash": "x",
		}})
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "VELA-1", products[0].Code)
	})

	t.Run("orders and paginates", func(t *testing.T) {
		products, err := repo.FindAll(ctx, shared.Filter{Page: 1, PageSize: 2, OrderBy: "unit_price", OrderDir: "asc"})
		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, "VELA-1", products[0].Code)
		assert.Equal(t, "JABON-3", products[1].Code)

		products, err = repo.FindAll(ctx, shared.Filter{Page: 2, PageSize: 2, OrderBy: "unit_price", OrderDir: "asc"})
		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, "ARROZ-500", products[1].Code)
	})

	t.Run("unknown sort column falls back to default", func(t *testing.T) {
		products, err := repo.FindAll(ctx, shared.Filter{OrderBy: "name; DROP TABLE products", OrderDir: "asc"})
		require.NoError(t, err)
		assert.Len(t, products, 4)
	})

	t.Run("counts without pagination", func(t *testing.T) {
		count, err := repo.Count(ctx, shared.Filter{Page: 1, PageSize: 1, Filters: map[string]interface{}{"active": true}})
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})
}

func TestGormProductRepository_SaveAndDelete(t *testing.T) {
	db, f := seededDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	t.Run("save updates an existing row", func(t *testing.T) {
		p, err := repo.FindByID(ctx, f.Milk.ID)
		require.NoError(t, err)
		require.NoError(t, p.Update("Leche entera 1L", "Bolsa", decimal.NewFromInt(3400), f.Exempt.ID))
		require.NoError(t, repo.Save(ctx, p))

		reloaded, err := repo.FindByID(ctx, f.Milk.ID)
		require.NoError(t, err)
		assert.Equal(t, "Leche entera 1L", reloaded.Name)
		assert.True(t, reloaded.UnitPrice.Equal(decimal.NewFromInt(3400)))
	})

	t.Run("save inserts a new row and rejects duplicated codes", func(t *testing.T) {
		p, err := catalog.NewProduct("PAN-1", "7709990001", "Pan tajado", decimal.NewFromInt(4500), f.IVA19.ID)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, p))

		dup, err := catalog.NewProduct("PAN-1", "7709990002", "Pan integral", decimal.NewFromInt(5200), f.IVA19.ID)
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Save(ctx, dup), shared.ErrDuplicateRecord)
	})

	t.Run("delete removes the row", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, f.Soap.ID))
		_, err := repo.FindByID(ctx, f.Soap.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("delete of unknown id is not found", func(t *testing.T) {
		assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), shared.ErrNotFound)
	})
}

func TestGormProductRepository_Exists(t *testing.T) {
	db, f := seededDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	exists, err := repo.ExistsByCode(ctx, "arroz-500", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByCode(ctx, "ARROZ-500", f.Rice.ID)
	require.NoError(t, err)
	assert.False(t, exists, "the product itself is excluded")

	exists, err = repo.ExistsByBarcode(ctx, " 7701234000028 ", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByBarcode(ctx, "000", uuid.Nil)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGormProductRepository_Stock(t *testing.T) {
	db, f := seededDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	t.Run("decrease takes stock when enough is on hand", func(t *testing.T) {
		require.NoError(t, repo.DecreaseStock(ctx, f.Rice.ID, decimal.RequireFromString("2.5")))
		p := testutil.ReloadProduct(t, db, f.Rice)
		assert.True(t, p.StockCurrent.Equal(decimal.RequireFromString("7.5")), p.StockCurrent.String())
		assert.Equal(t, f.Rice.Version+1, p.Version)
	})

	t.Run("decrease refuses to go negative", func(t *testing.T) {
		err := repo.DecreaseStock(ctx, f.Milk.ID, decimal.NewFromInt(6))
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		p := testutil.ReloadProduct(t, db, f.Milk)
		assert.True(t, p.StockCurrent.Equal(decimal.NewFromInt(5)))
	})

	t.Run("decrease of the exact stock leaves zero", func(t *testing.T) {
		require.NoError(t, repo.DecreaseStock(ctx, f.Milk.ID, decimal.NewFromInt(5)))
		p := testutil.ReloadProduct(t, db, f.Milk)
		assert.True(t, p.StockCurrent.IsZero())
	})

	t.Run("decrease of unknown product is not found", func(t *testing.T) {
		assert.ErrorIs(t, repo.DecreaseStock(ctx, uuid.New(), decimal.NewFromInt(1)), shared.ErrNotFound)
	})

	t.Run("increase adds stock back", func(t *testing.T) {
		require.NoError(t, repo.IncreaseStock(ctx, f.Soap.ID, decimal.NewFromInt(3)))
		p := testutil.ReloadProduct(t, db, f.Soap)
		assert.True(t, p.StockCurrent.Equal(decimal.NewFromInt(3)))
	})

	t.Run("increase of unknown product is not found", func(t *testing.T) {
		assert.ErrorIs(t, repo.IncreaseStock(ctx, uuid.New(), decimal.NewFromInt(1)), shared.ErrNotFound)
	})
}

func TestGormProductRepository_UpdateDetails(t *testing.T) {
	db, f := seededDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	stale, err := repo.FindByID(ctx, f.Rice.ID)
	require.NoError(t, err)
	require.NoError(t, repo.DecreaseStock(ctx, f.Rice.ID, decimal.NewFromInt(4)))

	require.NoError(t, stale.Update("Arroz Premium 500g", "grano largo", decimal.NewFromInt(5200), f.IVA19.ID))
	require.NoError(t, stale.Deactivate())
	require.NoError(t, repo.UpdateDetails(ctx, stale))

	p := testutil.ReloadProduct(t, db, f.Rice)
	assert.Equal(t, "Arroz Premium 500g", p.Name)
	assert.True(t, p.UnitPrice.Equal(decimal.NewFromInt(5200)))
	assert.False(t, p.Active)
	assert.True(t, p.StockCurrent.Equal(decimal.NewFromInt(6)), "stock sold meanwhile must survive, got %s", p.StockCurrent)

	missing := *stale
	missing.ID = uuid.New()
	assert.ErrorIs(t, repo.UpdateDetails(ctx, &missing), shared.ErrNotFound)
}

func TestGormProductRepository_Availability(t *testing.T) {
	db, f := seededDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	available, err := repo.FindAvailable(ctx, shared.Filter{})
	require.NoError(t, err)
	codes := make([]string, 0, len(available))
	for _, p := range available {
		codes = append(codes, p.Code)
	}
	assert.Equal(t, []string{"ARROZ-500", "LECHE-1L"}, codes, "inactive and out of stock products are hidden")

	below, err := repo.CountBelowMinimum(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), below, "only the out of stock soap is at its zero minimum")

	products, err := repo.FindByIDs(ctx, []uuid.UUID{f.Rice.ID, f.Milk.ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, products, 2)

	products, err = repo.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestGormProductRepository_FindByIDForUpdate_Postgres(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	repo := NewGormProductRepository(mockDB.DB)
	id := uuid.New()

	mockDB.Mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1 ORDER BY .* LIMIT .* FOR UPDATE`).
		WithArgs(id, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "name", "stock_current", "active"}).
			AddRow(id.String(), "ARROZ-500", "Arroz 500g", "10", true))

	p, err := repo.FindByIDForUpdate(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, p.ID)
	mockDB.ExpectationsWereMet(t)
}

func TestGormProductRepository_DecreaseStock_Postgres(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	repo := NewGormProductRepository(mockDB.DB)
	id := uuid.New()
	qty := decimal.NewFromInt(2)

	mockDB.Mock.ExpectExec(`UPDATE "products" SET .*stock_current"=stock_current - \$1.* WHERE id = \$\d+ AND stock_current >= \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.DecreaseStock(context.Background(), id, qty))
	mockDB.ExpectationsWereMet(t)
}
