package cli

import (
	"context"
	"fmt"
	"log"
	"time"

	"sports_booking/internal/config"
	"sports_booking/internal/infrastructure/database"
	"sports_booking/internal/infrastructure/database/migrations"

	"github.com/spf13/cobra"
)

func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the postgres schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.StoreDriver != config.StorePostgres {
				return fmt.Errorf("migrate requires STORE_DRIVER=%s, got %q", config.StorePostgres, cfg.StoreDriver)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			pool, err := database.ConnectPostgres(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := migrations.Up(ctx, pool); err != nil {
				return err
			}
			log.Printf("[database][migrate] schema up to date")
			return nil
		},
	}
}
