package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//外部公開用ID（注文APIは商品をuuidで参照する）
	UUID string `gorm:"type:uuid;not null;uniqueIndex" json:"uuid"`

	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	//単価。小数第3位まで持てる（合計時に通貨精度へ切り上げる）
	Price decimal.Decimal `gorm:"type:numeric(12,3);not null" json:"price"`

	//販売可能在庫
	Count int64 `gorm:"not null;default:0" json:"count"`

	//引当済み在庫。注文確定でCountと同時に動かす
	SafeCount int64 `gorm:"not null;default:0;column:safe_count" json:"safe_count"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
