package config

import (
	"medibook-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		MongoDB: MongoDB{
			Port:     utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:     utils.GetEnvString("MONGODB_HOST", "localhost"),
			DbName:   utils.GetEnvString("MONGODB_DB_NAME", "medibook"),
			Username: utils.GetEnvString("MONGODB_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MONGODB_PASSWORD", "defaultPassword"),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "defaultPassword"),
		},
		Minio: Minio{
			Port:       utils.GetEnvString("MINIO_PORT", "9000"),
			Host:       utils.GetEnvString("MINIO_HOST", "localhost"),
			Username:   utils.GetEnvString("MINIO_USERNAME", "defaultUsername"),
			Password:   utils.GetEnvString("MINIO_PASSWORD", "defaultPassword"),
			BucketName: utils.GetEnvString("MINIO_BUCKET_NAME", "webhook-audit"),
			UseSSL:     utils.GetEnvBool("MINIO_USE_SSL", false),
		},
		SMTP: SMTP{
			Host:        utils.GetEnvString("SMTP_HOST", "localhost"),
			Username:    utils.GetEnvString("SMTP_USERNAME", ""),
			Password:    utils.GetEnvString("SMTP_PASSWORD", ""),
			EmailSender: utils.GetEnvString("SMTP_EMAIL_SENDER", ""),
			Port:        utils.GetEnvInt("SMTP_PORT", 2525),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:             utils.GetEnvString("APP_ENV", "development"),
			Port:            utils.GetEnvString("APP_PORT", ":8080"),
			Version:         utils.GetEnvString("APP_VERSION", "v1"),
			Address:         utils.GetEnvString("APP_ADDRESS", "localhost"),
			Timezone:        utils.GetEnvString("APP_TIMEZONE", "Asia/Kolkata"),
			EndpointPrefix:  utils.GetEnvString("APP_ENDPOINT_PREFIX", "api"),
			MaxRequests:     utils.GetEnvInt("APP_MAX_REQUEST", 10),
			ShutdownTimeout: utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT", 10),
		},
		JWT: JWT{
			Secret: utils.GetEnvString("JWT_SECRET", "anyjwt"),
		},
		PaymentGateway: PaymentGateway{
			BaseUrl:       utils.GetEnvString("GATEWAY_BASE_URL", "https://api.razorpay.com"),
			KeyID:         utils.GetEnvString("GATEWAY_KEY_ID", ""),
			KeySecret:     utils.GetEnvString("GATEWAY_KEY_SECRET", ""),
			WebhookSecret: utils.GetEnvString("GATEWAY_WEBHOOK_SECRET", ""),
			CallbackUrl:   utils.GetEnvString("GATEWAY_CALLBACK_URL", "http://localhost:8080/api/v1/payments/callback"),
			TimeoutInSecs: utils.GetEnvInt("GATEWAY_TIMEOUT_IN_SECONDS", 10),
		},
		Booking: Booking{
			SlotLockTTLInSecs:       utils.GetEnvInt("BOOKING_SLOT_LOCK_TTL_IN_SECONDS", 30),
			SlotLockWaitInSecs:      utils.GetEnvInt("BOOKING_SLOT_LOCK_WAIT_IN_SECONDS", 5),
			PaymentLockTTLInSecs:    utils.GetEnvInt("BOOKING_PAYMENT_LOCK_TTL_IN_SECONDS", 15),
			PaymentLockWaitInSecs:   utils.GetEnvInt("BOOKING_PAYMENT_LOCK_WAIT_IN_SECONDS", 5),
			PaymentTimeoutInMinutes: utils.GetEnvInt("BOOKING_PAYMENT_TIMEOUT_IN_MINUTES", 15),
			SweeperCronSpec:         utils.GetEnvString("BOOKING_SWEEPER_CRON_SPEC", "@every 2m"),
		},
		Notification: Notification{
			Partitions:      utils.GetEnvInt("NOTIFICATION_PARTITIONS", 4),
			MaxAttempts:     utils.GetEnvInt("NOTIFICATION_MAX_ATTEMPTS", 3),
			RetryDelayInSec: utils.GetEnvInt("NOTIFICATION_RETRY_DELAY_IN_SECONDS", 2),
		},
	}
}
