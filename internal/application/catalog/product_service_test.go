package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appcatalog "github.com/supermercado/backend/internal/application/catalog"
	"github.com/supermercado/backend/internal/domain/catalog"
	"github.com/supermercado/backend/internal/domain/shared"
	"github.com/supermercado/backend/internal/infrastructure/persistence"
	"github.com/supermercado/backend/internal/testutil"
	"gorm.io/gorm"
)

type catalogEnv struct {
	db       *gorm.DB
	f        *testutil.Fixtures
	repo     *persistence.GormProductRepository
	products *appcatalog.ProductService
	taxes    *appcatalog.TaxRateService
}

func newCatalogEnv(t *testing.T) *catalogEnv {
	t.Helper()
	db := testutil.NewSQLiteDB(t, persistence.Models()...)
	repo := persistence.NewGormProductRepository(db)
	taxRepo := persistence.NewGormTaxRateRepository(db)
	return &catalogEnv{
		db:       db,
		f:        testutil.Seed(t, db),
		repo:     repo,
		products: appcatalog.NewProductService(repo, repo, taxRepo, nil),
		taxes:    appcatalog.NewTaxRateService(taxRepo, nil),
	}
}

func codeOf(t *testing.T, err error) string {
	t.Helper()
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr), "expected a domain error, got %v", err)
	return domainErr.Code
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (e *catalogEnv) coffeeRequest() appcatalog.ProductRequest {
	stock := dec("12")
	return appcatalog.ProductRequest{
		Code:         "cafe-250",
		Barcode:      "7701234000059",
		Name:         "Cafe molido 250g",
		UnitPrice:    dec("8900"),
		StockCurrent: &stock,
		StockMin:     dec("3"),
		StockMax:     dec("40"),
		TaxRateID:    e.f.IVA19.ID,
	}
}

func TestProductService_Create(t *testing.T) {
	env := newCatalogEnv(t)
	ctx := context.Background()

	created, err := env.products.Create(ctx, env.coffeeRequest())
	require.NoError(t, err)
	assert.Equal(t, "CAFE-250", created.Code)
	assert.True(t, created.StockCurrent.Equal(dec("12")))
	assert.True(t, created.Active)
	assert.False(t, created.LowStock)

	stored, err := env.repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, stored.StockMax.Equal(dec("40")))
}

func TestProductService_CreateRejections(t *testing.T) {
	env := newCatalogEnv(t)
	ctx := context.Background()

	inactiveTax, err := catalog.NewTaxRate("IVA5", "IVA 5%", dec("5"))
	require.NoError(t, err)
	inactiveTax.SetActive(false)
	require.NoError(t, env.db.Create(inactiveTax).Error)

	tests := []struct {
		name   string
		mutate func(*appcatalog.ProductRequest)
		code   string
	}{
		{"duplicate code", func(r *appcatalog.ProductRequest) { r.Code = "arroz-500" }, shared.CodeAlreadyExists},
		{"duplicate barcode", func(r *appcatalog.ProductRequest) { r.Barcode = env.f.Milk.Barcode }, shared.CodeAlreadyExists},
		{"unknown tax rate", func(r *appcatalog.ProductRequest) { r.TaxRateID = uuid.New() }, shared.CodeValidation},
		{"missing tax rate", func(r *appcatalog.ProductRequest) { r.TaxRateID = uuid.Nil }, shared.CodeValidation},
		{"inactive tax rate", func(r *appcatalog.ProductRequest) { r.TaxRateID = inactiveTax.ID }, shared.CodeInactiveEntity},
		{"negative price", func(r *appcatalog.ProductRequest) { r.UnitPrice = dec("-1") }, "INVALID_PRICE"},
		{"code with spaces", func(r *appcatalog.ProductRequest) { r.Code = "CAFE 250" }, "INVALID_CODE"},
		{"min above max", func(r *appcatalog.ProductRequest) { r.StockMin = dec("50") }, "INVALID_STOCK_LIMIT"},
		{"negative opening stock", func(r *appcatalog.ProductRequest) {
			negative := dec("-2")
			r.StockCurrent = &negative
		}, "INVALID_STOCK"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := env.coffeeRequest()
			tt.mutate(&req)
			_, err := env.products.Create(ctx, req)
			require.Error(t, err)
			assert.Equal(t, tt.code, codeOf(t, err))
		})
	}
	assert.Equal(t, int64(4), testutil.CountRows(t, env.db, &catalog.Product{}))
}

func TestProductService_UpdateNeverTouchesStock(t *testing.T) {
	env := newCatalogEnv(t)
	ctx := context.Background()

	// a sale lands between the client's read and its update
	require.NoError(t, env.repo.DecreaseStock(ctx, env.f.Rice.ID, dec("3")))

	stale := dec("10")
	updated, err := env.products.Update(ctx, env.f.Rice.ID, appcatalog.ProductRequest{
		Code:         "ARROZ-500",
		Barcode:      env.f.Rice.Barcode,
		Name:         "Arroz blanco 500g",
		UnitPrice:    dec("5200"),
		StockCurrent: &stale,
		StockMin:     dec("8"),
		TaxRateID:    env.f.IVA19.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Arroz blanco 500g", updated.Name)
	assert.True(t, updated.UnitPrice.Equal(dec("5200")))
	assert.True(t, updated.StockCurrent.Equal(dec("7")), "got %s", updated.StockCurrent)
	assert.True(t, updated.LowStock)
	assert.Greater(t, updated.Version, env.f.Rice.Version)
}

func TestProductService_UpdateActivation(t *testing.T) {
	env := newCatalogEnv(t)
	ctx := context.Background()
	active := true

	updated, err := env.products.Update(ctx, env.f.Retired.ID, appcatalog.ProductRequest{
		Code:      env.f.Retired.Code,
		Barcode:   env.f.Retired.Barcode,
		Name:      env.f.Retired.Name,
		UnitPrice: env.f.Retired.UnitPrice,
		TaxRateID: env.f.Retired.TaxRateID,
		Active:    &active,
	})
	require.NoError(t, err)
	assert.True(t, updated.Active)

	t.Run("repeating the same flag is not an error", func(t *testing.T) {
		_, err := env.products.Update(ctx, env.f.Retired.ID, appcatalog.ProductRequest{
			Code:      env.f.Retired.Code,
			Barcode:   env.f.Retired.Barcode,
			Name:      env.f.Retired.Name,
			UnitPrice: env.f.Retired.UnitPrice,
			TaxRateID: env.f.Retired.TaxRateID,
			Active:    &active,
		})
		assert.NoError(t, err)
	})
}

func TestProductService_UpdateRejections(t *testing.T) {
	env := newCatalogEnv(t)
	ctx := context.Background()

	req := appcatalog.ProductRequest{
		Code:      "LECHE-1L",
		Barcode:   env.f.Rice.Barcode,
		Name:      env.f.Rice.Name,
		UnitPrice: env.f.Rice.UnitPrice,
		TaxRateID: env.f.Rice.TaxRateID,
	}
	_, err := env.products.Update(ctx, env.f.Rice.ID, req)
	assert.Equal(t, shared.CodeAlreadyExists, codeOf(t, err))

	_, err = env.products.Update(ctx, uuid.New(), req)
	assert.Equal(t, shared.CodeNotFound, codeOf(t, err))

	p := testutil.ReloadProduct(t, env.db, env.f.Rice)
	assert.Equal(t, "ARROZ-500", p.Code)
}

func TestProductService_ListAndDelete(t *testing.T) {
	env := newCatalogEnv(t)
	ctx := context.Background()

	page, err := env.products.List(ctx, shared.Filter{Search: "arroz"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, 20, page.PageSize)
	require.Len(t, page.Items, 1)
	assert.Equal(t, env.f.Rice.ID, page.Items[0].ID)

	require.NoError(t, env.products.Delete(ctx, env.f.Soap.ID))
	_, err = env.products.GetByID(ctx, env.f.Soap.ID)
	assert.Equal(t, shared.CodeNotFound, codeOf(t, err))

	err = env.products.Delete(ctx, env.f.Soap.ID)
	assert.Equal(t, shared.CodeNotFound, codeOf(t, err))
}

func TestTaxRateService(t *testing.T) {
	env := newCatalogEnv(t)
	ctx := context.Background()

	created, err := env.taxes.Create(ctx, appcatalog.TaxRateRequest{Code: "iva5", Name: "IVA 5%", Percentage: dec("5")})
	require.NoError(t, err)
	assert.Equal(t, "IVA5", created.Code)
	assert.True(t, created.Active)

	_, err = env.taxes.Create(ctx, appcatalog.TaxRateRequest{Code: "IVA19", Name: "Otro", Percentage: dec("19")})
	assert.Equal(t, shared.CodeAlreadyExists, codeOf(t, err))

	_, err = env.taxes.Create(ctx, appcatalog.TaxRateRequest{Code: "X", Name: "Fuera de rango", Percentage: dec("101")})
	assert.Equal(t, shared.CodeValidation, codeOf(t, err))

	inactive := false
	updated, err := env.taxes.Update(ctx, created.ID, appcatalog.TaxRateRequest{Code: "IVA5", Name: "IVA reducido", Percentage: dec("5"), Active: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "IVA reducido", updated.Name)
	assert.False(t, updated.Active)

	_, err = env.taxes.Update(ctx, created.ID, appcatalog.TaxRateRequest{Code: "EXENTO", Name: "Choque", Percentage: dec("0")})
	assert.Equal(t, shared.CodeAlreadyExists, codeOf(t, err))

	page, err := env.taxes.List(ctx, shared.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)

	require.NoError(t, env.taxes.Delete(ctx, created.ID))
	_, err = env.taxes.GetByID(ctx, created.ID)
	assert.Equal(t, shared.CodeNotFound, codeOf(t, err))
}
