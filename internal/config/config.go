package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	StoreDynamoDB = "dynamodb"
	StorePostgres = "postgres"
	StoreMemory   = "memory"

	PaymentProviderHTTP        = "http"
	PaymentProviderMercadoPago = "mercadopago"
)

type App struct {
	// HTTP
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`
	GinMode  string `envconfig:"GIN_MODE" default:"debug"`
	Env      string `envconfig:"ENV" default:"dev"`

	// Store
	StoreDriver        string `envconfig:"STORE_DRIVER" default:"dynamodb"`
	DatabaseURL        string `envconfig:"DATABASE_URL"`
	AWSRegion          string `envconfig:"AWS_REGION" default:"us-east-1"`
	AWSAccessKeyID     string `envconfig:"AWS_ACCESS_KEY_ID" default:"local"`
	AWSSecretAccessKey string `envconfig:"AWS_SECRET_ACCESS_KEY" default:"local"`
	DynamoDBEndpoint   string `envconfig:"DYNAMODB_ENDPOINT"`
	BookingsTable      string `envconfig:"BOOKINGS_TABLE" default:"bookings"`
	BookingExtrasTable string `envconfig:"BOOKING_EXTRAS_TABLE" default:"booking_extras"`
	CountersTable      string `envconfig:"COUNTERS_TABLE" default:"counters"`

	// Agenda (slot locks)
	AgendaURL   string        `envconfig:"AGENDA_URL" default:"http://sports-agenda:8000"`
	LockTTL     time.Duration `envconfig:"LOCK_TTL" default:"300s"`
	LockTimeout time.Duration `envconfig:"LOCK_TIMEOUT" default:"10s"`

	// Payments
	PaymentProvider        string        `envconfig:"PAYMENT_PROVIDER" default:"http"`
	PaymentURL             string        `envconfig:"PAYMENT_URL" default:"http://sports-payment:8000"`
	PaymentTimeout         time.Duration `envconfig:"PAYMENT_TIMEOUT" default:"15s"`
	MercadoPagoAccessToken string        `envconfig:"MERCADOPAGO_ACCESS_TOKEN"`
	MercadoPagoPayerEmail  string        `envconfig:"MERCADOPAGO_PAYER_EMAIL"`
	PaymentGatewayMock     bool          `envconfig:"PAYMENT_GATEWAY_MOCK" default:"false"`

	// Events
	AMQPURL      string `envconfig:"AMQP_URL"`
	AMQPExchange string `envconfig:"AMQP_EXCHANGE" default:"booking.events"`

	// Auth; empty disables the middleware
	JWTSecret string `envconfig:"JWT_SECRET"`

	// Tracing
	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `envconfig:"OTEL_SERVICE_NAME" default:"sports-booking"`
}

func Load() (App, error) {
	var c App
	if err := envconfig.Process("", &c); err != nil {
		return App{}, err
	}
	return c, c.Validate()
}

func (c App) Validate() error {
	switch c.StoreDriver {
	case StoreDynamoDB, StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_DRIVER=%s", StorePostgres)
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.PaymentProvider {
	case PaymentProviderHTTP, PaymentProviderMercadoPago:
	default:
		return fmt.Errorf("unknown PAYMENT_PROVIDER %q", c.PaymentProvider)
	}

	if c.LockTTL <= 0 {
		return fmt.Errorf("LOCK_TTL must be positive")
	}
	return nil
}
