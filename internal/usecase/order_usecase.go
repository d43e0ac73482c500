package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// 未払い注文を自動キャンセルするまでの既定時間
const defaultCancelAfter = 30 * time.Minute

type OrderUsecase struct {
	tx          repo.TransactionManager
	scheduler   CancelScheduler
	cancelAfter time.Duration
}

// schedulerはnil可（workerは予約しない）
func NewOrderUsecase(tx repo.TransactionManager, scheduler CancelScheduler, cancelAfter time.Duration) *OrderUsecase {
	if cancelAfter <= 0 {
		cancelAfter = defaultCancelAfter
	}
	return &OrderUsecase{tx: tx, scheduler: scheduler, cancelAfter: cancelAfter}
}

// ProductUUIDが空ならカート一括注文、入っていれば単品注文
type PlaceOrderInput struct {
	AddressID   int64
	ProductUUID string
	Quantity    int64
}

type OrderDetailOutput struct {
	ProductID int64           `json:"product_id"`
	Number    int64           `json:"number"`
	Price     decimal.Decimal `json:"price"`
	Total     decimal.Decimal `json:"total"`
}

type OrderOutput struct {
	ID               int64               `json:"id"`
	No               string              `json:"no"`
	UserID           int64               `json:"user_id"`
	Name             string              `json:"name"`
	ConsigneeName    string              `json:"consignee_name"`
	ConsigneePhone   string              `json:"consignee_phone"`
	ConsigneeAddress string              `json:"consignee_address"`
	Total            decimal.Decimal     `json:"total"`
	Status           string              `json:"status"`
	CreatedAt        time.Time           `json:"created_at"`
	Details          []OrderDetailOutput `json:"details"`
}

// PlaceOrder は注文を1トランザクションで確定する。
// 住所の読込、商品の読込、在庫引当、注文・明細の作成、カート削除までが1つの
// 作業単位で、途中で失敗したら全部ロールバックする。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID int64, in PlaceOrderInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.AddressID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid address_id")
	}
	if in.ProductUUID != "" && in.Quantity < 1 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		draft, err := u.newDraftOrder(ctx, r, userID, in.AddressID)
		if err != nil {
			return err
		}

		// 商品uuidがあれば単品注文、無ければカートの中身で注文
		if in.ProductUUID != "" {
			return u.storeSingleOrder(ctx, r, &out, draft, in.ProductUUID, in.Quantity)
		}
		return u.storeCartOrder(ctx, r, &out, draft, userID)
	})

	if err != nil {
		return OrderOutput{}, err
	}

	// コミット後の後追い処理。失敗しても確定済みの注文は取り消さない
	if u.scheduler != nil {
		if err := u.scheduler.ScheduleCancel(ctx, out.No, u.cancelAfter); err != nil {
			log.Warn().Err(err).Str("order_no", out.No).Msg("failed to schedule auto cancel")
		}
	}

	return out, nil
}

// 配送先を焼き込んだ注文の下書きを作る。まだ保存しない。
func (u *OrderUsecase) newDraftOrder(ctx context.Context, r repo.TxRepos, userID int64, addressID int64) (model.Order, error) {
	addr, err := r.Addresses().FindByID(ctx, addressID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "address not found")
	}
	if err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//他人の住所なら403
	if addr.UserID != userID {
		return model.Order{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}

	return model.Order{
		No:               uuid.NewString(),
		UserID:           userID,
		ConsigneeName:    addr.Name,
		ConsigneePhone:   addr.Phone,
		ConsigneeAddress: addr.Format(),
		Status:           model.OrderStatusPending,
	}, nil
}

// 在庫を引き当てて明細を1行作る。
// 足りなければ409（どの商品が足りないかをメッセージに入れる）。
func (u *OrderUsecase) reserveLineItem(ctx context.Context, r repo.TxRepos, p model.Product, number int64) (model.OrderDetail, error) {
	if number < 1 {
		return model.OrderDetail{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	ok, err := r.Products().ReserveStock(ctx, p.ID, number)
	if err != nil {
		return model.OrderDetail{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !ok {
		return model.OrderDetail{}, NewHTTPError(http.StatusConflict, fmt.Sprintf("[%s] insufficient stock", p.Name))
	}

	return model.NewOrderDetail(p, number), nil
}

// 単品注文
func (u *OrderUsecase) storeSingleOrder(ctx context.Context, r repo.TxRepos, out *OrderOutput, draft model.Order, productUUID string, number int64) error {
	p, err := r.Products().FindByUUID(ctx, productUUID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	detail, err := u.reserveLineItem(ctx, r, p, number)
	if err != nil {
		return err
	}

	draft.Name = p.Name
	draft.Total = detail.Total

	created, err := r.Orders().Create(ctx, draft)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	details, err := r.OrderDetails().CreateBulk(ctx, created.ID, []model.OrderDetail{detail})
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	*out = toOrderOutput(created, details)
	return nil
}

// カート一括注文。確定できたらカートを空にする。
func (u *OrderUsecase) storeCartOrder(ctx context.Context, r repo.TxRepos, out *OrderOutput, draft model.Order, userID int64) error {
	items, err := r.CartItems().ListByUserID(ctx, userID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if len(items) == 0 {
		return NewHTTPError(http.StatusBadRequest, "cart is empty")
	}

	details := make([]model.OrderDetail, 0, len(items))
	names := make([]string, 0, len(items))
	total := decimal.Zero

	for _, item := range items {
		//商品が消えているカート行は注文にできない
		if item.Product.ID == 0 {
			return NewHTTPError(http.StatusNotFound, "product not found")
		}

		detail, err := u.reserveLineItem(ctx, r, item.Product, item.Number)
		if err != nil {
			return err
		}

		details = append(details, detail)
		names = append(names, item.Product.Name)
		total = total.Add(detail.Total)
	}

	draft.Name = model.OrderName(names)
	draft.Total = total

	created, err := r.Orders().Create(ctx, draft)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	createdDetails, err := r.OrderDetails().CreateBulk(ctx, created.ID, details)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//カートを空にする。ロールバック時は削除も巻き戻る
	if err := r.CartItems().ClearByUserID(ctx, userID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	*out = toOrderOutput(created, createdDetails)
	return nil
}

// GetOrderForRepay は再決済用に未払いの注文を読み直す。
func (u *OrderUsecase) GetOrderForRepay(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//他人の注文は「存在しない扱い」にする
		if o.UserID != userID {
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		if o.Status != model.OrderStatusPending {
			return NewHTTPError(http.StatusBadRequest, "order is not payable")
		}

		details, err := r.OrderDetails().ListByOrderID(ctx, o.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(o, details)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListByUserID(ctx, userID, 1, 50)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			details, err := r.OrderDetails().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, toOrderOutput(o, details))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.UserID != userID {
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		details, err := r.OrderDetails().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(o, details)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// CancelUnpaidOrder は期限までに支払われなかった注文を取り消して在庫を戻す。
// workerが遅延キュー経由で呼ぶ。支払い済み・取消済みなら何もしない。
func (u *OrderUsecase) CancelUnpaidOrder(ctx context.Context, orderNo string) error {
	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByNo(ctx, orderNo)
		if errors.Is(err, repo.ErrNotFound) {
			//既に消えた注文。再実行しても安全なように黙って成功にする
			return nil
		}
		if err != nil {
			return err
		}

		if o.Status != model.OrderStatusPending {
			return nil
		}

		details, err := r.OrderDetails().ListByOrderID(ctx, o.ID)
		if err != nil {
			return err
		}

		//引き当てた在庫を戻す
		for _, d := range details {
			if err := r.Products().ReleaseStock(ctx, d.ProductID, d.Number); err != nil {
				return err
			}
		}

		if err := r.Orders().UpdateStatus(ctx, o.ID, model.OrderStatusCanceled); err != nil {
			return err
		}

		log.Info().Str("order_no", orderNo).Msg("unpaid order canceled")
		return nil
	})
}

func toOrderOutput(o model.Order, details []model.OrderDetail) OrderOutput {
	outDetails := make([]OrderDetailOutput, 0, len(details))
	for _, d := range details {
		outDetails = append(outDetails, OrderDetailOutput{
			ProductID: d.ProductID,
			Number:    d.Number,
			Price:     d.Price,
			Total:     d.Total,
		})
	}

	return OrderOutput{
		ID:               o.ID,
		No:               o.No,
		UserID:           o.UserID,
		Name:             o.Name,
		ConsigneeName:    o.ConsigneeName,
		ConsigneePhone:   o.ConsigneePhone,
		ConsigneeAddress: o.ConsigneeAddress,
		Total:            o.Total,
		Status:           string(o.Status),
		CreatedAt:        o.CreatedAt,
		Details:          outDetails,
	}
}
