package mq

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

const (
	//遅延キュー。TTL切れのメッセージがDLX経由でcancelQueueへ落ちる
	cancelDelayQueue = "order_cancel_delay"

	//workerが消費するキュー
	cancelQueue = "order_cancel"
)

type CancelMessage struct {
	OrderNo string `json:"order_no"`
}

type Rabbit struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewRabbit(url string) (*Rabbit, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	//遅延キュー。期限切れをdefault exchange経由でorder_cancelへ流す
	if _, err := ch.QueueDeclare(cancelDelayQueue, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": cancelQueue,
	}); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	if _, err := ch.QueueDeclare(cancelQueue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &Rabbit{conn: conn, ch: ch}, nil
}

func (r *Rabbit) Close() {
	if r.ch != nil {
		_ = r.ch.Close()
	}
	if r.conn != nil {
		_ = r.conn.Close()
	}
}

// ScheduleCancel は注文番号を遅延キューへ積む。
// per-message TTLなので、キャンセル時間を途中で縮めても先行メッセージの後ろで待つ。
func (r *Rabbit) ScheduleCancel(ctx context.Context, orderNo string, delay time.Duration) error {
	body, err := json.Marshal(CancelMessage{OrderNo: orderNo})
	if err != nil {
		return err
	}

	return r.ch.PublishWithContext(ctx, "", cancelDelayQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Expiration:   strconv.FormatInt(delay.Milliseconds(), 10),
		Body:         body,
	})
}

type CancelHandler func(ctx context.Context, orderNo string) error

// ConsumeCancels はctxが閉じるまでキャンセルメッセージを処理し続ける。
func (r *Rabbit) ConsumeCancels(ctx context.Context, handler CancelHandler) error {
	msgs, err := r.ch.Consume(cancelQueue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}

			var m CancelMessage
			if err := json.Unmarshal(d.Body, &m); err != nil {
				log.Error().Err(err).Msg("invalid cancel message")
				_ = d.Nack(false, false)
				continue
			}

			if err := handler(ctx, m.OrderNo); err != nil {
				log.Error().Err(err).Str("order_no", m.OrderNo).Msg("cancel handler failed")
				//再キューすると即ループするので捨てる
				_ = d.Nack(false, false)
				continue
			}

			_ = d.Ack(false)
		}
	}
}
