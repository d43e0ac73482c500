package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 一意制約違反（注文番号の衝突など）
var ErrConflict = errors.New("conflict")

// 一覧検索
type ProductListQuery struct {
	Page  int
	Limit int
	Q     string
}

// 商品の永続化と在庫カウンタの操作を約束。
type ProductRepository interface {
	List(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
	FindByUUID(ctx context.Context, uuid string) (model.Product, error)

	// 在庫が足りるときだけ count を減らし safe_count を増やす。
	// チェックと減算は1つのUPDATEで行う（同じ商品への同時注文はDB側で直列化される）。
	ReserveStock(ctx context.Context, productID int64, qty int64) (bool, error)

	// 在庫戻し（未払いキャンセル）
	ReleaseStock(ctx context.Context, productID int64, qty int64) error
}
