package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "PENDING"
	OrderStatusPaid     OrderStatus = "PAID"
	OrderStatusCanceled OrderStatus = "CANCELED"
)

// 注文名は先頭50文字まで
const orderNameLimit = 50

type Order struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//注文番号。決済とキャンセルジョブはこの番号で注文を参照する
	No string `gorm:"type:varchar(64);not null;uniqueIndex" json:"no"`

	UserID int64 `gorm:"not null;index" json:"user_id"`

	//配送先スナップショット。作成時点の住所を焼き込む（後で住所を直しても注文は変わらない）
	ConsigneeName    string `gorm:"type:varchar(255);not null" json:"consignee_name"`
	ConsigneePhone   string `gorm:"type:varchar(30)" json:"consignee_phone"`
	ConsigneeAddress string `gorm:"type:varchar(500);not null" json:"consignee_address"`

	//商品名のサマリ（複数商品は | 連結）
	Name string `gorm:"type:varchar(255);not null" json:"name"`

	//明細合計
	Total decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`

	Status OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// OrderName は商品名を | で連結して先頭50文字で切る。
// 商品名単位ではなく文字単位で切る。
func OrderName(names []string) string {
	return limitRunes(strings.Join(names, "|"), orderNameLimit)
}

func limitRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
