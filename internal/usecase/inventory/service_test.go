package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	dombook "example.com/bookstore/internal/domain/book"
	domorder "example.com/bookstore/internal/domain/order"
)

// mockBookRepository applies adjustments with the same availability rules as
// the real MySQL implementation.
type mockBookRepository struct {
	books map[int64]*dombook.Book
	calls int
}

func (m *mockBookRepository) BulkAdjustStock(ctx context.Context, adjustments []dombook.StockAdjustment) error {
	m.calls++
	for _, adj := range adjustments {
		b, ok := m.books[adj.BookID]
		if !ok {
			continue
		}
		prev := b.Stock
		b.Stock += adj.Delta
		if b.Stock <= 0 {
			b.Stock = 0
			b.Available = false
		} else if adj.Delta > 0 && prev == 0 {
			b.Available = true
		}
	}
	return nil
}

func setupInventory() (*Service, *mockBookRepository) {
	repo := &mockBookRepository{books: map[int64]*dombook.Book{
		1: {ID: 1, Title: "Book One", Stock: 3, Available: true},
		2: {ID: 2, Title: "Book Two", Stock: 10, Available: true},
	}}
	return NewService(repo), repo
}

func TestCommit_DecrementsAllLinesInOneCall(t *testing.T) {
	svc, repo := setupInventory()

	err := svc.Commit(context.Background(), []domorder.Item{
		{BookID: 1, Quantity: 2},
		{BookID: 2, Quantity: 4},
	})

	require.NoError(t, err)
	require.Equal(t, 1, repo.calls)
	require.Equal(t, int64(1), repo.books[1].Stock)
	require.Equal(t, int64(6), repo.books[2].Stock)
	require.True(t, repo.books[1].Available)
}

func TestCommit_StockOutDisablesAvailability(t *testing.T) {
	svc, repo := setupInventory()

	err := svc.Commit(context.Background(), []domorder.Item{{BookID: 1, Quantity: 3}})

	require.NoError(t, err)
	require.Equal(t, int64(0), repo.books[1].Stock)
	require.False(t, repo.books[1].Available)
}

func TestRestore_ReenablesOnlyFromZero(t *testing.T) {
	svc, repo := setupInventory()

	// Sell out book 1, then manually disable book 2 while it still has stock.
	require.NoError(t, svc.Commit(context.Background(), []domorder.Item{{BookID: 1, Quantity: 3}}))
	repo.books[2].Available = false

	err := svc.Restore(context.Background(), []domorder.Item{
		{BookID: 1, Quantity: 3},
		{BookID: 2, Quantity: 1},
	})

	require.NoError(t, err)
	require.Equal(t, int64(3), repo.books[1].Stock)
	require.True(t, repo.books[1].Available)

	// Book 2 was disabled by hand, not by a stock-out; restoring copies
	// must not silently republish it.
	require.Equal(t, int64(11), repo.books[2].Stock)
	require.False(t, repo.books[2].Available)
}
