package store_test

import (
	"context"
	"testing"

	"github.com/orderdesk/apiserver/internal/db/dbtest"
	"github.com/orderdesk/apiserver/internal/store"
	"github.com/orderdesk/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func seedProducts(t *testing.T, repo *store.ProductRepository, names ...string) []types.Product {
	t.Helper()
	products := make([]types.Product, 0, len(names))
	for i, name := range names {
		created, err := repo.Create(context.Background(), types.Product{
			Name:        name,
			Description: "desc " + name,
			Price:       float64(i + 1),
		})
		require.NoError(t, err)
		products = append(products, created)
	}
	return products
}

func TestRepository_CreateReturnsGeneratedID(t *testing.T) {
	repo := store.NewUserRepository(dbtest.Open(t))
	ctx := context.Background()

	first, err := repo.Create(ctx, types.User{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", HashedPassword: "x"})
	require.NoError(t, err)
	second, err := repo.Create(ctx, types.User{FirstName: "Alan", LastName: "Turing", Email: "alan@example.com", HashedPassword: "y"})
	require.NoError(t, err)

	assert.NotZero(t, first.ID)
	assert.Greater(t, second.ID, first.ID)
	assert.Equal(t, "alan@example.com", second.Email)
	assert.False(t, second.CreatedAt.IsZero())
}

func TestRepository_GetOne(t *testing.T) {
	repo := store.NewProductRepository(dbtest.Open(t))
	products := seedProducts(t, repo, "lamp", "desk")
	ctx := context.Background()

	found, err := repo.GetOne(ctx, types.ProductFilter{Name: "desk"})
	require.NoError(t, err)
	assert.Equal(t, products[1].ID, found.ID)

	found, err = repo.GetOne(ctx, types.ProductFilter{ID: products[0].ID})
	require.NoError(t, err)
	assert.Equal(t, "lamp", found.Name)

	_, err = repo.GetOne(ctx, types.ProductFilter{Name: "chair"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRepository_GetLast(t *testing.T) {
	repo := store.NewOrderRepository(dbtest.Open(t))
	ctx := context.Background()

	var last types.Order
	for i := 0; i < 3; i++ {
		created, err := repo.Create(ctx, types.Order{UserID: 1, ProductID: i + 1, Status: "new"})
		require.NoError(t, err)
		last = created
	}
	_, err := repo.Create(ctx, types.Order{UserID: 2, ProductID: 1, Status: "new"})
	require.NoError(t, err)

	found, err := repo.GetLast(ctx, types.OrderFilter{UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, last.ID, found.ID)

	_, err = repo.GetLast(ctx, types.OrderFilter{UserID: 42})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRepository_GetAllOrdersByIDDescending(t *testing.T) {
	repo := store.NewProductRepository(dbtest.Open(t))
	ctx := context.Background()

	empty, err := repo.GetAll(ctx, types.ProductFilter{})
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	products := seedProducts(t, repo, "a", "b", "c")

	all, err := repo.GetAll(ctx, types.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, products[2].ID, all[0].ID)
	assert.Equal(t, products[0].ID, all[2].ID)

	filtered, err := repo.GetAll(ctx, types.ProductFilter{Name: "b"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, products[1].ID, filtered[0].ID)
}

func TestRepository_List(t *testing.T) {
	repo := store.NewProductRepository(dbtest.Open(t))
	ctx := context.Background()
	products := seedProducts(t, repo, "a", "b", "c", "d", "e")

	page, total, err := repo.List(ctx, types.ProductFilter{}, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page, 2)
	assert.Equal(t, products[4].ID, page[0].ID)
	assert.Equal(t, products[3].ID, page[1].ID)

	page, total, err = repo.List(ctx, types.ProductFilter{}, 4, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page, 1)
	assert.Equal(t, products[0].ID, page[0].ID)

	page, total, err = repo.List(ctx, types.ProductFilter{}, 10, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Empty(t, page)
}

func TestRepository_UpdateIsPartial(t *testing.T) {
	repo := store.NewProductRepository(dbtest.Open(t))
	ctx := context.Background()
	products := seedProducts(t, repo, "lamp")

	err := repo.Update(ctx, products[0].ID, types.ProductChanges{Price: ptr(99.5)})
	require.NoError(t, err)

	found, err := repo.GetOne(ctx, types.ProductFilter{ID: products[0].ID})
	require.NoError(t, err)
	assert.Equal(t, 99.5, found.Price)
	assert.Equal(t, "lamp", found.Name)
	assert.Equal(t, "desc lamp", found.Description)
}

func TestRepository_UpdateMissingIsNoop(t *testing.T) {
	repo := store.NewProductRepository(dbtest.Open(t))
	ctx := context.Background()

	require.NoError(t, repo.Update(ctx, 999999, types.ProductChanges{Name: ptr("ghost")}))
	require.NoError(t, repo.Update(ctx, 999999, types.ProductChanges{}))

	all, err := repo.GetAll(ctx, types.ProductFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRepository_Delete(t *testing.T) {
	repo := store.NewOrderRepository(dbtest.Open(t))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := repo.Create(ctx, types.Order{UserID: 7, ProductID: 1, Status: "new"})
		require.NoError(t, err)
	}
	kept, err := repo.Create(ctx, types.Order{UserID: 8, ProductID: 1, Status: "new"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, types.OrderFilter{UserID: 7}))
	require.NoError(t, repo.Delete(ctx, types.OrderFilter{UserID: 7}))

	all, err := repo.GetAll(ctx, types.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, kept.ID, all[0].ID)

	assert.ErrorIs(t, repo.Delete(ctx, types.OrderFilter{}), store.ErrEmptyFilter)
}

func TestRepository_DuplicateEmailIsConflict(t *testing.T) {
	repo := store.NewUserRepository(dbtest.Open(t))
	ctx := context.Background()

	user := types.User{FirstName: "A", LastName: "B", Email: "dup@example.com", HashedPassword: "x"}
	_, err := repo.Create(ctx, user)
	require.NoError(t, err)

	_, err = repo.Create(ctx, user)
	assert.ErrorIs(t, err, store.ErrConflict)
}
