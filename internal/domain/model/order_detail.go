package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文明細。価格は注文時点のスナップショット
type OrderDetail struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64 `gorm:"not null;index" json:"order_id"`
	ProductID int64 `gorm:"not null;index" json:"product_id"`

	//数量
	Number int64 `gorm:"not null" json:"number"`

	//注文時点の単価
	Price decimal.Decimal `gorm:"type:numeric(12,3);not null" json:"price"`

	//単価×数量を通貨精度へ切り上げた金額
	Total decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

// NewOrderDetail は商品と数量から明細を作る。単価はここで焼き込む。
func NewOrderDetail(p Product, number int64) OrderDetail {
	return OrderDetail{
		ProductID: p.ID,
		Number:    number,
		Price:     p.Price,
		Total:     CeilTotal(p.Price, number),
	}
}

// CeilTotal は単価×数量を小数第2位へ切り上げる。
// 端数は常に切り上げ（切り捨てると請求漏れになる）。
func CeilTotal(price decimal.Decimal, number int64) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(number)).RoundCeil(2)
}
