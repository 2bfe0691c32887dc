package di

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"go.uber.org/fx"

	"github.com/mkulima/shambamart/internal/adapter/gateway"
	"github.com/mkulima/shambamart/internal/app"
	"github.com/mkulima/shambamart/internal/config"
	"github.com/mkulima/shambamart/internal/domain/repository"
	"github.com/mkulima/shambamart/internal/storage/postgres"
	"github.com/mkulima/shambamart/internal/test"
)

func TestModuleComposesGraphWithReplacements(t *testing.T) {
	cfg := &config.Config{
		RunAddress:          ":0",
		DatabaseURI:         "postgres://stub",
		GatewayAddress:      "http://localhost",
		TokenSecret:         "secret",
		PaymentPollInterval: time.Millisecond,
		WorkerPoolSize:      1,
		ShutdownTimeout:     time.Millisecond,
		MaxPaymentsBatch:    1,
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	buyerRepo := test.NewBuyerRepositoryStub()
	itemRepo := test.NewItemRepositoryStub()
	cartRepo := test.NewCartRepositoryStub()
	orderRepo := test.NewOrderRepositoryStub()
	paymentRepo := test.NewPaymentRepositoryStub()
	gatewayStub := &test.GatewayClientStub{}

	var facade *app.MarketFacade
	fxApp := fx.New(
		fx.NopLogger,
		fx.Supply(context.Background()),
		Module(
			fx.Replace(cfg),
			fx.Replace(logger),
			fx.Replace(&postgres.Storage{}),
			fx.Replace(repository.BuyerRepository(buyerRepo)),
			fx.Replace(repository.ItemRepository(itemRepo)),
			fx.Replace(repository.CartRepository(cartRepo)),
			fx.Replace(repository.OrderRepository(orderRepo)),
			fx.Replace(repository.PaymentRepository(paymentRepo)),
			fx.Replace(gateway.Client(gatewayStub)),
		),
		fx.Populate(&facade),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	t.Cleanup(func() { _ = fxApp.Stop(context.Background()) })
	if facade == nil {
		t.Fatal("expected market facade instance")
	}
}
