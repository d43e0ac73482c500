package model_test

import (
	"testing"

	"app/internal/domain/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCeilTotal(t *testing.T) {
	cases := []struct {
		name   string
		price  string
		number int64
		want   string
	}{
		{name: "端数切り上げ", price: "10.001", number: 1, want: "10.01"},
		{name: "割り切れる金額はそのまま", price: "10.50", number: 2, want: "21.00"},
		{name: "数量を掛けてから丸める", price: "0.333", number: 3, want: "1.00"},
		{name: "整数価格", price: "100", number: 3, want: "300"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := model.CeilTotal(decimal.RequireFromString(tc.price), tc.number)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.want)), "got %s want %s", got, tc.want)
		})
	}
}

func TestCeilTotal_NeverRoundsDown(t *testing.T) {
	price := decimal.RequireFromString("9.999")

	got := model.CeilTotal(price, 1)

	//9.999 → 10.00（9.99ではない）
	assert.True(t, got.Equal(decimal.RequireFromString("10.00")), "got %s", got)
	assert.True(t, got.GreaterThanOrEqual(price))
}

func TestNewOrderDetail_SnapshotsPrice(t *testing.T) {
	p := model.Product{
		ID:    7,
		Name:  "りんご",
		Price: decimal.RequireFromString("10.001"),
	}

	d := model.NewOrderDetail(p, 2)

	assert.Equal(t, int64(7), d.ProductID)
	assert.Equal(t, int64(2), d.Number)
	assert.True(t, d.Price.Equal(p.Price))
	//10.001 * 2 = 20.002 → 20.01
	assert.True(t, d.Total.Equal(decimal.RequireFromString("20.01")), "total = %s", d.Total)
}
