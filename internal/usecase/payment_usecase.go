package usecase

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"
)

type PaymentUsecase struct {
	gateway PaymentGateway
}

func NewPaymentUsecase(gateway PaymentGateway) *PaymentUsecase {
	return &PaymentUsecase{gateway: gateway}
}

type PayFormOutput struct {
	OrderNo string `json:"order_no"`
	PayURL  string `json:"pay_url"`
}

// BuildPayForm は確定済みの注文から決済画面のURLを作る。
// モバイルならwap、それ以外はwebの決済画面を返す。
func (u *PaymentUsecase) BuildPayForm(ctx context.Context, order OrderOutput, isMobile bool) (PayFormOutput, error) {
	form := PayForm{
		OutTradeNo:  order.No,
		TotalAmount: order.Total,
		Subject:     order.Name,
	}

	var (
		payURL string
		err    error
	)
	if isMobile {
		payURL, err = u.gateway.WapPayURL(ctx, form)
	} else {
		payURL, err = u.gateway.WebPayURL(ctx, form)
	}
	if err != nil {
		log.Error().Err(err).Str("order_no", order.No).Msg("payment gateway error")
		return PayFormOutput{}, NewHTTPError(http.StatusBadGateway, "payment gateway error")
	}

	return PayFormOutput{OrderNo: order.No, PayURL: payURL}, nil
}
