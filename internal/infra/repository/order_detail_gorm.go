package repository

import (
	"context"

	"app/internal/domain/model"

	"gorm.io/gorm"
)

type OrderDetailGormRepository struct {
	db *gorm.DB
}

func NewOrderDetailGormRepository(db *gorm.DB) *OrderDetailGormRepository {
	return &OrderDetailGormRepository{db: db}
}

func (r *OrderDetailGormRepository) CreateBulk(ctx context.Context, orderID int64, details []model.OrderDetail) ([]model.OrderDetail, error) {
	if len(details) == 0 {
		return details, nil
	}
	for i := range details {
		details[i].OrderID = orderID
	}
	if err := r.db.WithContext(ctx).Create(&details).Error; err != nil {
		return nil, err
	}
	return details, nil
}

func (r *OrderDetailGormRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderDetail, error) {
	var details []model.OrderDetail
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id asc").Find(&details).Error
	if err != nil {
		return []model.OrderDetail{}, err
	}
	return details, nil
}
