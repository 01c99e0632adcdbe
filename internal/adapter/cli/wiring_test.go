package cli

import (
	"context"
	"testing"

	"sports_booking/internal/adapter/persistence/repository"
	"sports_booking/internal/config"
	"sports_booking/internal/infrastructure/messaging"
	"sports_booking/internal/infrastructure/payments"
)

func TestOpenStore(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		store, closeStore, err := openStore(context.Background(), config.App{StoreDriver: config.StoreMemory}, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer closeStore()
		if _, ok := store.(*repository.BookingMemoryRepository); !ok {
			t.Fatalf("expected memory repository, got %T", store)
		}
	})

	t.Run("dynamodb with local endpoint", func(t *testing.T) {
		store, _, err := openStore(context.Background(), config.App{
			StoreDriver:        config.StoreDynamoDB,
			AWSRegion:          "us-east-1",
			AWSAccessKeyID:     "local",
			AWSSecretAccessKey: "local",
			DynamoDBEndpoint:   "http://localhost:8000",
			BookingsTable:      "bookings",
		}, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := store.(*repository.BookingDynamoRepository); !ok {
			t.Fatalf("expected dynamodb repository, got %T", store)
		}
	})

	t.Run("postgres without url", func(t *testing.T) {
		if _, _, err := openStore(context.Background(), config.App{StoreDriver: config.StorePostgres}, false); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("unknown driver", func(t *testing.T) {
		if _, _, err := openStore(context.Background(), config.App{StoreDriver: "sqlite"}, false); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestNewPaymentGateway(t *testing.T) {
	t.Run("http", func(t *testing.T) {
		gw, err := newPaymentGateway(config.App{PaymentProvider: config.PaymentProviderHTTP, PaymentURL: "http://payments.local"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := gw.(*payments.HTTPCheckoutGateway); !ok {
			t.Fatalf("expected http gateway, got %T", gw)
		}
	})

	t.Run("mercadopago mock", func(t *testing.T) {
		gw, err := newPaymentGateway(config.App{PaymentProvider: config.PaymentProviderMercadoPago, PaymentGatewayMock: true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := gw.(*payments.MercadoPagoGateway); !ok {
			t.Fatalf("expected mercadopago gateway, got %T", gw)
		}
	})

	t.Run("mercadopago without token", func(t *testing.T) {
		gw, err := newPaymentGateway(config.App{PaymentProvider: config.PaymentProviderMercadoPago})
		if err == nil {
			t.Fatalf("expected error")
		}
		if gw != nil {
			t.Fatalf("expected nil gateway, got %T", gw)
		}
	})
}

func TestNewEventPublisher(t *testing.T) {
	pub, err := newEventPublisher(config.App{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := pub.(messaging.NoopPublisher); !ok {
		t.Fatalf("expected noop publisher, got %T", pub)
	}
}

func TestNewRoot(t *testing.T) {
	root := NewRoot()
	for _, name := range []string{"serve", "migrate"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Fatalf("expected %s subcommand, err=%v", name, err)
		}
	}
}
