package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"pharmadelivery/cmd"
	"pharmadelivery/internal/adapters/out/postgres"
	"pharmadelivery/internal/core/domain/model/kernel"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	defaultRoutingTimeout = 10 * time.Second
	defaultDeliveryDays   = "mon,tue,wed,thu,fri"
	shutdownTimeout       = 10 * time.Second
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB := openDB(ctx, configs)

	app := cmd.NewCompositionRoot(configs, gormDB, logger)
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to close connections", "error", err)
		}
	}()

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(ctx, app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	// .env is optional, the environment wins when both are set.
	_ = godotenv.Load(".env")

	depot, err := kernel.NewGeoPoint(floatVariable("DEPOT_LAT"), floatVariable("DEPOT_LON"))
	if err != nil {
		log.Fatalf("Invalid depot location: %v", err)
	}

	days := os.Getenv("DELIVERY_DAYS")
	if days == "" {
		days = defaultDeliveryDays
	}
	deliveryDays, err := kernel.ParseWeekdays(days)
	if err != nil {
		log.Fatalf("Invalid DELIVERY_DAYS: %v", err)
	}

	routingBaseURL := os.Getenv("ROUTING_BASE_URL")
	if routingBaseURL == "" {
		log.Fatalf("ROUTING_BASE_URL is required")
	}

	config := cmd.Config{
		HTTPPort:                os.Getenv("HTTP_PORT"),
		DBHost:                  os.Getenv("DB_HOST"),
		DBPort:                  os.Getenv("DB_PORT"),
		DBUser:                  os.Getenv("DB_USER"),
		DBPassword:              os.Getenv("DB_PASSWORD"),
		DBName:                  os.Getenv("DB_NAME"),
		DBSslMode:               os.Getenv("DB_SSLMODE"),
		RoutingBaseURL:          routingBaseURL,
		RoutingTimeout:          defaultRoutingTimeout,
		Depot:                   depot,
		RouteConcurrency:        intVariable("ROUTE_CONCURRENCY"),
		RedisAddr:               os.Getenv("REDIS_ADDR"),
		KafkaHost:               os.Getenv("KAFKA_HOST"),
		KafkaStatusChangedTopic: os.Getenv("KAFKA_STATUS_CHANGED_TOPIC"),
		DeliveryDays:            deliveryDays,
	}
	return config
}

func floatVariable(key string) float64 {
	raw := os.Getenv(key)
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Fatalf("Invalid %s %q: %v", key, raw, err)
	}
	return value
}

// intVariable returns 0 for an unset key.
func intVariable(key string) int {
	raw := os.Getenv(key)
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("Invalid %s %q: %v", key, raw, err)
	}
	return value
}

func openDB(ctx context.Context, configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword, configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(gormpg.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err = postgres.Migrate(ctx, gormDB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	return gormDB
}

func startWebServer(ctx context.Context, app *cmd.CompositionRoot, port string) {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	app.HTTPServer().Register(e)

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		e.Logger.Error(err)
	}
}
