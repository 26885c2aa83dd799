package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvKafkaBrokers       = "KAFKA_BROKERS"
	EnvKafkaBookingsTopic = "KAFKA_BOOKINGS_TOPIC"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvSlotLockTTL    = "SLOT_LOCK_TTL"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"

	EnvDefaultMeetingDurationMin = "DEFAULT_MEETING_DURATION_MIN"
	EnvDefaultBufferMin          = "DEFAULT_BUFFER_MIN"
	EnvDefaultBookingsPerSlot    = "DEFAULT_BOOKINGS_PER_SLOT"
	EnvDefaultTimeZone           = "DEFAULT_TIME_ZONE"
)
