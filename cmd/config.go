package cmd

import (
	"time"

	"pharmadelivery/internal/core/domain/model/kernel"
)

// Config is read from the environment at startup.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RoutingBaseURL string
	RoutingTimeout time.Duration
	Depot          kernel.GeoPoint
	// RouteConcurrency bounds parallel route computations; 0 uses the default.
	RouteConcurrency int

	// RedisAddr enables the distance cache when set.
	RedisAddr string
	// KafkaHost enables status change publishing when set.
	KafkaHost               string
	KafkaStatusChangedTopic string

	DeliveryDays kernel.Weekdays
}
