package payment

import (
	"context"

	"app/internal/usecase"

	"github.com/smartwalle/alipay/v3"
)

// AlipayGateway は usecase.PaymentGateway のAlipay実装。
// 金額は注文確定時に丸め済みなので、ここでは文字列化するだけで再丸めしない。
type AlipayGateway struct {
	client    *alipay.Client
	returnURL string
	notifyURL string
}

func NewAlipayGateway(appID, privateKey string, production bool, returnURL, notifyURL string) (*AlipayGateway, error) {
	client, err := alipay.New(appID, privateKey, production)
	if err != nil {
		return nil, err
	}

	return &AlipayGateway{
		client:    client,
		returnURL: returnURL,
		notifyURL: notifyURL,
	}, nil
}

// PC向けの決済ページURL
func (g *AlipayGateway) WebPayURL(ctx context.Context, form usecase.PayForm) (string, error) {
	var p = alipay.TradePagePay{}
	p.NotifyURL = g.notifyURL
	p.ReturnURL = g.returnURL
	p.Subject = form.Subject
	p.OutTradeNo = form.OutTradeNo
	p.TotalAmount = form.TotalAmount.StringFixed(2)
	p.ProductCode = "FAST_INSTANT_TRADE_PAY"

	u, err := g.client.TradePagePay(p)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// モバイル向けの決済ページURL
func (g *AlipayGateway) WapPayURL(ctx context.Context, form usecase.PayForm) (string, error) {
	var p = alipay.TradeWapPay{}
	p.NotifyURL = g.notifyURL
	p.ReturnURL = g.returnURL
	p.Subject = form.Subject
	p.OutTradeNo = form.OutTradeNo
	p.TotalAmount = form.TotalAmount.StringFixed(2)
	p.ProductCode = "QUICK_WAP_WAY"

	u, err := g.client.TradeWapPay(p)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
