package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "slotwise"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultKafkaBookingsTopic = "booking-events"

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultSlotLockTTL    = 10 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour

	DefaultDefaultMeetingDurationMin = 30
	DefaultDefaultBufferMin          = 0
	DefaultDefaultBookingsPerSlot    = 1
	DefaultDefaultTimeZone           = "UTC"

	DefaultPaginationLimit = 100
)
