package billing

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/supermercado/backend/internal/domain/catalog"
	"github.com/supermercado/backend/internal/domain/shared"
)

type mockStockSource struct {
	mock.Mock
}

func (m *mockStockSource) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func stockedProduct(t *testing.T, code string, stock string) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(code, code+"-BAR", "Producto "+code, d("1000"), uuid.New())
	require.NoError(t, err)
	require.NoError(t, p.SetOpeningStock(d(stock)))
	return p
}

func TestStockValidator_Validate(t *testing.T) {
	ctx := context.Background()

	t.Run("passes when every line has stock", func(t *testing.T) {
		source := new(mockStockSource)
		a := stockedProduct(t, "A", "10")
		b := stockedProduct(t, "B", "2")
		source.On("FindByIDForUpdate", ctx, a.ID).Return(a, nil)
		source.On("FindByIDForUpdate", ctx, b.ID).Return(b, nil)

		err := NewStockValidator(source).Validate(ctx, []StockRequest{
			{ProductID: a.ID, Quantity: d("10")},
			{ProductID: b.ID, Quantity: d("1.5")},
		})
		require.NoError(t, err)
		source.AssertExpectations(t)
	})

	t.Run("stops at first short line", func(t *testing.T) {
		source := new(mockStockSource)
		a := stockedProduct(t, "A", "1")
		b := stockedProduct(t, "B", "5")
		source.On("FindByIDForUpdate", ctx, a.ID).Return(a, nil)

		err := NewStockValidator(source).Validate(ctx, []StockRequest{
			{ProductID: a.ID, Quantity: d("2")},
			{ProductID: b.ID, Quantity: d("1")},
		})
		require.Error(t, err)

		var stockErr *InsufficientStockError
		require.True(t, errors.As(err, &stockErr))
		assert.True(t, stockErr.Available.Equal(d("1")))
		assert.True(t, stockErr.Requested.Equal(d("2")))
		assert.True(t, errors.Is(err, shared.ErrInsufficientStock))
		source.AssertNotCalled(t, "FindByIDForUpdate", ctx, b.ID)
	})

	t.Run("missing product is not found", func(t *testing.T) {
		source := new(mockStockSource)
		id := uuid.New()
		source.On("FindByIDForUpdate", ctx, id).Return(nil, shared.ErrNotFound)

		err := NewStockValidator(source).Validate(ctx, []StockRequest{{ProductID: id, Quantity: d("1")}})
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
		assert.Contains(t, err.Error(), id.String())
	})
}
