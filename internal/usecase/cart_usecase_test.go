package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"app/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartUsecase(store *fakeStore) *usecase.CartUsecase {
	return usecase.NewCartUsecase(&fakeCartRepo{s: store}, &fakeProductRepo{s: store})
}

func TestAddToCart_AccumulatesSameProduct(t *testing.T) {
	store := newFakeStore()
	p := seedProduct(store, "ノート", "100.00", 10)
	uc := newCartUsecase(store)

	_, err := uc.AddToCart(context.Background(), 1, usecase.AddCartInput{ProductUUID: p.UUID, Number: 2})
	require.NoError(t, err)

	resp, err := uc.AddToCart(context.Background(), 1, usecase.AddCartInput{ProductUUID: p.UUID, Number: 1})
	require.NoError(t, err)

	//同一商品は1行にまとまる
	require.Len(t, resp.Items, 1)
	assert.Equal(t, int64(3), resp.Items[0].Number)
	assert.True(t, resp.Total.Equal(decimal.RequireFromString("300.00")), "total = %s", resp.Total)
}

func TestAddToCart_RejectsOverStock(t *testing.T) {
	store := newFakeStore()
	p := seedProduct(store, "ノート", "100.00", 2)
	uc := newCartUsecase(store)

	_, err := uc.AddToCart(context.Background(), 1, usecase.AddCartInput{ProductUUID: p.UUID, Number: 2})
	require.NoError(t, err)

	//既存分と合わせて在庫超過
	_, err = uc.AddToCart(context.Background(), 1, usecase.AddCartInput{ProductUUID: p.UUID, Number: 1})
	require.Error(t, err)

	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Status)
	assert.Contains(t, he.Message, "ノート")
}

func TestAddToCart_ProductNotFound(t *testing.T) {
	store := newFakeStore()
	uc := newCartUsecase(store)

	_, err := uc.AddToCart(context.Background(), 1, usecase.AddCartInput{ProductUUID: "no-such-uuid", Number: 1})
	require.Error(t, err)

	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
}

func TestGetCart_LineTotalsRoundUp(t *testing.T) {
	store := newFakeStore()
	p := seedProduct(store, "ペン", "10.001", 10)
	seedCartItem(store, 1, p.ID, 1)
	uc := newCartUsecase(store)

	resp, err := uc.GetCart(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.True(t, resp.Items[0].Total.Equal(decimal.RequireFromString("10.01")))
	assert.True(t, resp.Total.Equal(decimal.RequireFromString("10.01")))
}

func TestDeleteCartItem_OnlyOwnItems(t *testing.T) {
	store := newFakeStore()
	p := seedProduct(store, "ノート", "100.00", 10)
	item := seedCartItem(store, 1, p.ID, 2)
	uc := newCartUsecase(store)

	//他人の行は消せない
	_, err := uc.DeleteCartItem(context.Background(), 2, item.ID)
	require.Error(t, err)
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
	require.Len(t, store.cartItems, 1)

	resp, err := uc.DeleteCartItem(context.Background(), 1, item.ID)
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
	assert.Empty(t, store.cartItems)
}
