package repository

import (
	"context"

	"app/internal/domain/model"
)

type CartItemRepository interface {
	//Productを含めて返す
	ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error)

	// 同一商品はプラス
	UpsertByUserAndProduct(ctx context.Context, userID int64, productID int64, addQty int64) error

	FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error)
	DeleteByID(ctx context.Context, cartItemID int64) error
	IsOwnedByUser(ctx context.Context, cartItemID int64, userID int64) (bool, error)

	//ユーザーのカートを空にする（注文確定時）
	ClearByUserID(ctx context.Context, userID int64) error
}
