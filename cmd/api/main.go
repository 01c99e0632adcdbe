package main

import (
	"os"

	_ "sports_booking/docs"
	"sports_booking/internal/adapter/cli"

	_ "github.com/joho/godotenv/autoload"
)

// @title           Sports Booking API
// @version         1.0
// @description     Court booking orchestration: quotes, slot locks, checkout and payment reconciliation.

// @host localhost:8080

// @BasePath  /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	if err := cli.NewRoot().Execute(); err != nil {
		os.Exit(1)
	}
}
