package main

import (
	"os"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	"app/internal/infra/mq"
	"app/internal/infra/payment"
	infraRepo "app/internal/infra/repository"
	"app/internal/metrics"
	"app/internal/server"
	"app/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Logger
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	//.envがあれば読む（無くてもいい）
	_ = godotenv.Load()

	cfg, err := config.Load()
	must(err)

	log.Info().
		Str("port", cfg.Port).
		Str("db", cfg.PostgresHost).
		Str("rabbit", cfg.RabbitURL).
		Msg("starting checkout api")

	//DB接続
	gormDB, err := db.Connect(cfg)
	must(err)
	must(gormDB.AutoMigrate(
		&model.Address{},
		&model.Product{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderDetail{},
	))

	//Repository（GORM実装）生成
	txm := infraRepo.NewTxManagerGorm(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	cartRepo := infraRepo.NewCartItemGormRepository(gormDB)
	addressRepo := infraRepo.NewAddressGormRepository(gormDB)

	//キャンセルジョブの予約先
	rabbit, err := mq.NewRabbit(cfg.RabbitURL)
	must(err)
	defer rabbit.Close()

	//決済ゲートウェイ
	gateway, err := payment.NewAlipayGateway(
		cfg.AlipayAppID,
		cfg.AlipayPrivateKey,
		cfg.AlipayProduction,
		cfg.PayReturnURL,
		cfg.PayNotifyURL,
	)
	must(err)

	//Usecase生成
	cancelAfter := time.Duration(cfg.OrderCancelMinutes) * time.Minute
	orderUC := usecase.NewOrderUsecase(txm, rabbit, cancelAfter)
	paymentUC := usecase.NewPaymentUsecase(gateway)
	cartUC := usecase.NewCartUsecase(cartRepo, productRepo)
	productUC := usecase.NewProductUsecase(productRepo)
	addressUC := usecase.NewAddressUsecase(addressRepo)

	//Handler生成
	m := metrics.NewOrderMetrics()
	orderH := handler.NewOrderHandler(orderUC, paymentUC, m)
	cartH := handler.NewCartHandler(cartUC)
	productH := handler.NewProductHandler(productUC)
	addressH := handler.NewAddressHandler(addressUC)

	//Server起動
	e := server.New(cfg, orderH, cartH, productH, addressH)
	must(e.Start(":" + cfg.Port))
}

func must(err error) {
	if err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}
