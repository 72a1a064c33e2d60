package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickcart-shop/quickcart/internal/models"
)

func testCart() []models.CartItem {
	return []models.CartItem{
		{Product: models.Product{ID: 1, Name: "Headphones", Price: 79.99}, Quantity: 2},
		{Product: models.Product{ID: 5, Name: "Bottle", Price: 24.99}, Quantity: 1},
		{Product: models.Product{ID: 7, Name: "Mouse", Price: 29.99}, Quantity: 3},
	}
}

func TestMemStore_RoundTrip(t *testing.T) {
	t.Parallel()

	st := NewMemStore()
	ctx := context.Background()

	require.NoError(t, st.Set(ctx, KeyCart, testCart()))

	var got []models.CartItem
	require.True(t, st.Get(ctx, KeyCart, &got))
	require.Len(t, got, 3)
	for i, want := range testCart() {
		assert.Equal(t, want.ID, got[i].ID)
		assert.Equal(t, want.Quantity, got[i].Quantity)
	}
}

func TestMemStore_AbsentKeyLeavesDestUntouched(t *testing.T) {
	t.Parallel()

	st := NewMemStore()
	ctx := context.Background()

	count := 42
	assert.False(t, st.Get(ctx, "quickcart:missing", &count))
	assert.Equal(t, 42, count)
}

func TestMemStore_CorruptedValueReadsAsAbsent(t *testing.T) {
	t.Parallel()

	st := NewMemStore()
	ctx := context.Background()

	require.NoError(t, st.Set(ctx, KeyCart, testCart()))
	st.Corrupt(KeyCart)

	items := []models.CartItem{{Quantity: 9}}
	assert.False(t, st.Get(ctx, KeyCart, &items))
	require.Len(t, items, 1)
	assert.Equal(t, uint(9), items[0].Quantity)
}

func TestMemStore_Delete(t *testing.T) {
	t.Parallel()

	st := NewMemStore()
	ctx := context.Background()

	require.NoError(t, st.Set(ctx, KeyRemember, true))
	require.NoError(t, st.Delete(ctx, KeyRemember))

	var remember bool
	assert.False(t, st.Get(ctx, KeyRemember, &remember))

	// Deleting an absent key is a no-op.
	require.NoError(t, st.Delete(ctx, KeyRemember))
}

func TestGormStore_RoundTripAcrossReopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "quickcart.db")

	st, err := Open(ctx, "", path)
	require.NoError(t, err)

	require.NoError(t, st.Set(ctx, KeyCart, testCart()))
	require.NoError(t, st.Close())

	// A fresh handle on the same file sees the same ledger.
	st, err = Open(ctx, "", path)
	require.NoError(t, err)
	defer st.Close()

	var got []models.CartItem
	require.True(t, st.Get(ctx, KeyCart, &got))
	require.Len(t, got, 3)
	for i, want := range testCart() {
		assert.Equal(t, want.ID, got[i].ID)
		assert.Equal(t, want.Quantity, got[i].Quantity)
	}
}

func TestGormStore_SetOverwrites(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st, err := Open(ctx, "", filepath.Join(t.TempDir(), "quickcart.db"))
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.Set(ctx, KeyRemember, false))
	require.NoError(t, st.Set(ctx, KeyRemember, true))

	var remember bool
	require.True(t, st.Get(ctx, KeyRemember, &remember))
	assert.True(t, remember)
}

func TestGormStore_GetAbsent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st, err := Open(ctx, "", filepath.Join(t.TempDir(), "quickcart.db"))
	require.NoError(t, err)
	defer st.Close()

	var accounts []models.Account
	assert.False(t, st.Get(ctx, KeyAccounts, &accounts))
	assert.Empty(t, accounts)
}

func TestOpen_RequiresBackend(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), "", "")
	require.Error(t, err)
}
