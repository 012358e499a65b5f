package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"checkout-service/internal/client"
	"checkout-service/internal/config"
	"checkout-service/internal/repository"
	"checkout-service/internal/server"
	"checkout-service/internal/service"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	if level, err := logLevel(cfg.Log.Level); err != nil {
		fmt.Printf("Invalid log level: %v\n", err)
		os.Exit(1)
	} else {
		log.SetLevel(level)
	}

	db := client.InitMysqlClient(cfg.DatabaseURL)

	basketRepo := repository.NewBasketRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	countryRepo := repository.NewCountryRepository(db)

	if err := countryRepo.Seed(context.Background()); err != nil {
		log.Fatalf("seed countries: %v", err)
	}

	gateway := newGateway(cfg)
	site := service.NewSiteURLs(&cfg.Site)

	checkoutService := service.NewCheckoutService(
		gateway,
		service.NewAddressBuilder(countryRepo),
		service.NewOrderNumberAllocator(cfg.Site.OrderNumberPrefix),
		service.NewOrderPlacer(db, orderRepo, basketRepo, service.NewPaymentRecorder(gateway.Name())),
		basketRepo,
		orderRepo,
		site,
	)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	srv := server.NewServer(checkoutService, site, cfg.Auth.JWTSecret, cfg.Auth.CookieName)

	log.Infof("Starting HTTP server on %s", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Info("Signal received, starting graceful shutdown...")

	_, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(); err != nil {
		log.Fatal("HTTP server shutdown error")
	}
}

func newGateway(cfg *config.Config) client.PaymentGateway {
	switch cfg.Gateway.Processor {
	case "braintree":
		return client.NewBraintreeClient(&cfg.Braintree)
	default:
		return client.NewStripeClient(&cfg.Stripe)
	}
}

func logLevel(name string) (log.Lvl, error) {
	switch name {
	case "debug":
		return log.DEBUG, nil
	case "info":
		return log.INFO, nil
	case "warn":
		return log.WARN, nil
	case "error":
		return log.ERROR, nil
	default:
		return 0, fmt.Errorf("unknown level %q", name)
	}
}
