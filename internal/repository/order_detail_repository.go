package repository

import (
	"context"

	"app/internal/domain/model"
)

type OrderDetailRepository interface {
	//明細をまとめて作成する。orderIDはここで振る
	CreateBulk(ctx context.Context, orderID int64, details []model.OrderDetail) ([]model.OrderDetail, error)

	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderDetail, error)
}
