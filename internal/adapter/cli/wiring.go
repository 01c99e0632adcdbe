package cli

import (
	"context"
	"fmt"
	"log"

	"sports_booking/internal/adapter/persistence/repository"
	"sports_booking/internal/config"
	"sports_booking/internal/infrastructure/database"
	"sports_booking/internal/infrastructure/database/migrations"
	"sports_booking/internal/infrastructure/messaging"
	"sports_booking/internal/infrastructure/payments"
	"sports_booking/internal/usecase/interfaces"
)

type eventPublisher interface {
	interfaces.IEventPublisher
	Close() error
}

// openStore returns the booking store selected by STORE_DRIVER and a func
// releasing its connections.
func openStore(ctx context.Context, cfg config.App, migrate bool) (interfaces.IBookingRepository, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		log.Printf("[booking][store] using in-memory store; data is lost on restart")
		return repository.NewBookingMemoryRepository(), func() {}, nil
	case config.StorePostgres:
		pool, err := database.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if migrate {
			if err := migrations.Up(ctx, pool); err != nil {
				pool.Close()
				return nil, nil, err
			}
		}
		return repository.NewBookingPostgresRepository(pool), pool.Close, nil
	case config.StoreDynamoDB:
		ddb, err := database.ConnectDynamoDB(ctx, database.DynamoDBSettings{
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
			Endpoint:        cfg.DynamoDBEndpoint,
		})
		if err != nil {
			return nil, nil, err
		}
		return repository.NewBookingDynamoRepository(ddb, repository.BookingTables{
			Bookings: cfg.BookingsTable,
			Extras:   cfg.BookingExtrasTable,
			Counters: cfg.CountersTable,
		}), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}

func newPaymentGateway(cfg config.App) (interfaces.IPaymentGateway, error) {
	switch cfg.PaymentProvider {
	case config.PaymentProviderMercadoPago:
		gw, err := payments.NewMercadoPagoGateway(cfg.MercadoPagoAccessToken, cfg.MercadoPagoPayerEmail, cfg.PaymentTimeout, cfg.PaymentGatewayMock)
		if err != nil {
			return nil, err
		}
		return gw, nil
	case config.PaymentProviderHTTP:
		return payments.NewHTTPCheckoutGateway(cfg.PaymentURL, cfg.PaymentTimeout), nil
	default:
		return nil, fmt.Errorf("unknown PAYMENT_PROVIDER %q", cfg.PaymentProvider)
	}
}

func newEventPublisher(cfg config.App) (eventPublisher, error) {
	if cfg.AMQPURL == "" {
		log.Printf("[events][noop] AMQP_URL not set; lifecycle events are dropped")
		return messaging.NoopPublisher{}, nil
	}
	pub, err := messaging.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		return nil, err
	}
	return pub, nil
}
