package model

import "time"

// カートの1行。ユーザー×商品で1行、同一商品の追加は数量加算。
type CartItem struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64 `gorm:"not null;index" json:"user_id"`
	ProductID int64 `gorm:"not null;index" json:"product_id"`

	//数量
	Number int64 `gorm:"not null" json:"number"`

	Product Product `gorm:"foreignKey:ProductID" json:"product"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
