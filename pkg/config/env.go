package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvJWTSecret   = "JWT_SECRET"
	EnvAccessTTL   = "ACCESS_TOKEN_TTL"
	EnvBcryptCost  = "BCRYPT_COST"

	EnvPropertyLockTTL  = "PROPERTY_LOCK_TTL"
	EnvLatchWaitTimeout = "LATCH_WAIT_TIMEOUT"

	EnvOwnerCacheTTL  = "OWNER_CACHE_TTL"
	EnvOwnerCacheSize = "OWNER_CACHE_SIZE"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
