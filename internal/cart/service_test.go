package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickcart-shop/quickcart/internal/models"
	"github.com/quickcart-shop/quickcart/internal/storage"
)

func newTestService() *Service {
	return &Service{Store: storage.NewMemStore()}
}

func product(id int, price float64) models.Product {
	return models.Product{ID: id, Name: "Product", Price: price, Stock: 10}
}

func TestAdd_MergesByProductID(t *testing.T) {
	t.Parallel()

	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Add(ctx, product(1, 9.99))
	require.NoError(t, err)
	item, err := svc.Add(ctx, product(1, 9.99))
	require.NoError(t, err)

	assert.Equal(t, uint(2), item.Quantity)

	items := svc.Items(ctx)
	require.Len(t, items, 1)
	assert.Equal(t, uint(2), items[0].Quantity)
	assert.Equal(t, 2, svc.ItemCount(ctx))
}

func TestAdd_AppendsDistinctProducts(t *testing.T) {
	t.Parallel()

	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Add(ctx, product(1, 9.99))
	require.NoError(t, err)
	_, err = svc.Add(ctx, product(2, 4.99))
	require.NoError(t, err)

	items := svc.Items(ctx)
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].ID)
	assert.Equal(t, 2, items[1].ID)
	assert.Equal(t, 2, svc.ItemCount(ctx))
}

func TestAdd_IgnoresStock(t *testing.T) {
	t.Parallel()

	svc := newTestService()
	ctx := context.Background()

	p := models.Product{ID: 1, Name: "Last one", Price: 5, Stock: 1}
	for i := 0; i < 3; i++ {
		_, err := svc.Add(ctx, p)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, svc.ItemCount(ctx))
}

func TestRemove_IsIdempotent(t *testing.T) {
	t.Parallel()

	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Add(ctx, product(1, 9.99))
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, 1))
	assert.Empty(t, svc.Items(ctx))

	// Absent entry: still no error, nothing changes.
	require.NoError(t, svc.Remove(ctx, 1))
	require.NoError(t, svc.Remove(ctx, 99))
	assert.Empty(t, svc.Items(ctx))
}

func TestSetQuantity_Overwrites(t *testing.T) {
	t.Parallel()

	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Add(ctx, product(1, 9.99))
	require.NoError(t, err)

	require.NoError(t, svc.SetQuantity(ctx, 1, 5))
	items := svc.Items(ctx)
	require.Len(t, items, 1)
	assert.Equal(t, uint(5), items[0].Quantity)
	assert.Equal(t, 5, svc.ItemCount(ctx))
}

func TestSetQuantity_ZeroBehavesAsRemove(t *testing.T) {
	t.Parallel()

	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Add(ctx, product(1, 9.99))
	require.NoError(t, err)
	_, err = svc.Add(ctx, product(2, 4.99))
	require.NoError(t, err)

	require.NoError(t, svc.SetQuantity(ctx, 1, 0))

	items := svc.Items(ctx)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].ID)

	require.NoError(t, svc.SetQuantity(ctx, 2, -3))
	assert.Empty(t, svc.Items(ctx))
}

func TestSetQuantity_AbsentItemIsNoop(t *testing.T) {
	t.Parallel()

	svc := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.SetQuantity(ctx, 42, 3))
	assert.Empty(t, svc.Items(ctx))
}

func TestTotals(t *testing.T) {
	t.Parallel()

	svc := newTestService()
	ctx := context.Background()

	// 10.00 x 2 + 5.00 x 1 = 25.00 subtotal, 2.00 tax, 27.00 total.
	_, err := svc.Add(ctx, product(1, 10.00))
	require.NoError(t, err)
	_, err = svc.Add(ctx, product(1, 10.00))
	require.NoError(t, err)
	_, err = svc.Add(ctx, product(2, 5.00))
	require.NoError(t, err)

	totals := svc.Totals(ctx)
	assert.Equal(t, 25.00, totals.Subtotal)
	assert.Equal(t, 2.00, totals.Tax)
	assert.Equal(t, 27.00, totals.Total)
}

func TestTotals_EmptyCart(t *testing.T) {
	t.Parallel()

	svc := newTestService()
	totals := svc.Totals(context.Background())
	assert.Equal(t, models.Totals{}, totals)
}

func TestTotals_RoundsToTwoDecimals(t *testing.T) {
	t.Parallel()

	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Add(ctx, product(1, 0.10))
	require.NoError(t, err)
	_, err = svc.Add(ctx, product(2, 0.25))
	require.NoError(t, err)

	totals := svc.Totals(ctx)
	assert.Equal(t, 0.35, totals.Subtotal)
	assert.Equal(t, 0.03, totals.Tax) // 0.028 rounds up
	assert.Equal(t, 0.38, totals.Total)
}

func TestTotals_CustomTaxRate(t *testing.T) {
	t.Parallel()

	svc := newTestService()
	svc.TaxRate = 0.2
	ctx := context.Background()

	_, err := svc.Add(ctx, product(1, 10.00))
	require.NoError(t, err)

	totals := svc.Totals(ctx)
	assert.Equal(t, 10.00, totals.Subtotal)
	assert.Equal(t, 2.00, totals.Tax)
	assert.Equal(t, 12.00, totals.Total)
}

func TestClear(t *testing.T) {
	t.Parallel()

	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Add(ctx, product(1, 9.99))
	require.NoError(t, err)
	_, err = svc.Add(ctx, product(2, 4.99))
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx))
	assert.Equal(t, 0, svc.ItemCount(ctx))
	assert.Empty(t, svc.Items(ctx))

	// Clearing an already empty cart stays at zero.
	require.NoError(t, svc.Clear(ctx))
	assert.Equal(t, 0, svc.ItemCount(ctx))
}

func TestCheckout(t *testing.T) {
	t.Parallel()

	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Checkout(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Add(ctx, product(1, 10.00))
	require.NoError(t, err)

	totals, err := svc.Checkout(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10.80, totals.Total)
	assert.Empty(t, svc.Items(ctx))
}
