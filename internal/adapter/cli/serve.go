package cli

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sports_booking/internal/adapter/http/routes"
	"sports_booking/internal/config"
	"sports_booking/internal/infrastructure/observability"
	"sports_booking/internal/infrastructure/scheduling"
	"sports_booking/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func NewServeCmd() *cobra.Command {
	var migrateUp bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the booking HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			gin.SetMode(cfg.GinMode)

			shutdownTracer, err := observability.InitTracer(ctx, cfg.ServiceName, cfg.OTLPEndpoint, cfg.Env)
			if err != nil {
				return err
			}
			defer func() {
				flushCtx, cancelFlush := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancelFlush()
				if err := shutdownTracer(flushCtx); err != nil {
					log.Printf("[otel] shutdown failed err=%v", err)
				}
			}()

			store, closeStore, err := openStore(ctx, cfg, migrateUp)
			if err != nil {
				return err
			}
			defer closeStore()

			payments, err := newPaymentGateway(cfg)
			if err != nil {
				return err
			}

			events, err := newEventPublisher(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = events.Close() }()

			locks := scheduling.NewAgendaGateway(cfg.AgendaURL, cfg.LockTimeout)
			quotes := usecase.NewQuoteUseCase(usecase.DefaultPriceTable())
			bookings := usecase.NewBookingUseCase(store, quotes, locks, payments, events, cfg.LockTTL)

			router := routes.NewRouter(routes.Dependencies{
				Bookings:  bookings,
				Quotes:    quotes,
				JWTSecret: cfg.JWTSecret,
			})
			log.Printf("[booking][serve] starting store=%s payments=%s agenda=%s", cfg.StoreDriver, cfg.PaymentProvider, cfg.AgendaURL)
			return routes.Start(ctx, cfg.HTTPAddr, router)
		},
	}
	cmd.Flags().BoolVar(&migrateUp, "migrate", true, "apply schema migrations on start (postgres store only)")
	return cmd
}
