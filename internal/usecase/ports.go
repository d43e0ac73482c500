package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// 決済画面の生成に必要な最小限の情報
type PayForm struct {
	OutTradeNo  string
	TotalAmount decimal.Decimal
	Subject     string
}

// 外部決済SDKへの窓口。金額は再丸めせずそのまま渡す。
type PaymentGateway interface {
	//PC向けの決済ページURL
	WebPayURL(ctx context.Context, form PayForm) (string, error)

	//モバイル向けの決済ページURL
	WapPayURL(ctx context.Context, form PayForm) (string, error)
}

// 未払い注文の自動キャンセル予約（外部の遅延キュー）。
// コミット後にだけ呼ぶ。失敗しても注文は取り消さない。
type CancelScheduler interface {
	ScheduleCancel(ctx context.Context, orderNo string, delay time.Duration) error
}
