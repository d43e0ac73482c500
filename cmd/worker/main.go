package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"app/internal/config"
	"app/internal/infra/db"
	"app/internal/infra/mq"
	infraRepo "app/internal/infra/repository"
	"app/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// 未払い注文の自動キャンセルworker。
// 遅延キューから期限切れの注文番号を受け取り、未払いなら取り消して在庫を戻す。
func main() {
	// Logger
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	_ = godotenv.Load()

	cfg, err := config.Load()
	must(err)

	gormDB, err := db.Connect(cfg)
	must(err)

	txm := infraRepo.NewTxManagerGorm(gormDB)

	//workerは予約しないのでschedulerはnil
	orderUC := usecase.NewOrderUsecase(txm, nil, 0)

	rabbit, err := mq.NewRabbit(cfg.RabbitURL)
	must(err)
	defer rabbit.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().Str("rabbit", cfg.RabbitURL).Msg("cancel worker started")

	if err := rabbit.ConsumeCancels(ctx, orderUC.CancelUnpaidOrder); err != nil {
		log.Fatal().Err(err).Msg("consumer stopped")
	}

	log.Info().Msg("cancel worker stopped")
}

func must(err error) {
	if err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}
