package config

type (
	DriverConfig struct {
		MongoDB  MongoDB
		Redis    Redis
		RabbitMQ RabbitMQ
		Minio    Minio
		SMTP     SMTP
		Logger   Logger
	}

	InternalConfig struct {
		App            App
		JWT            JWT
		PaymentGateway PaymentGateway
		Booking        Booking
		Notification   Notification
	}

	App struct {
		Env             string
		Port            string
		Version         string
		Address         string
		Timezone        string
		EndpointPrefix  string
		MaxRequests     int
		ShutdownTimeout int
	}

	JWT struct {
		Secret string
	}

	PaymentGateway struct {
		BaseUrl       string
		KeyID         string
		KeySecret     string
		WebhookSecret string
		CallbackUrl   string
		TimeoutInSecs int
	}

	Booking struct {
		SlotLockTTLInSecs       int
		SlotLockWaitInSecs      int
		PaymentLockTTLInSecs    int
		PaymentLockWaitInSecs   int
		PaymentTimeoutInMinutes int
		SweeperCronSpec         string
	}

	Notification struct {
		Partitions      int
		MaxAttempts     int
		RetryDelayInSec int
	}

	MongoDB struct {
		Port     string
		Host     string
		DbName   string
		Username string
		Password string
	}

	Redis struct {
		Host     string
		Port     string
		Password string
	}

	RabbitMQ struct {
		Port     string
		Host     string
		Username string
		Password string
	}

	Minio struct {
		Port       string
		Host       string
		Username   string
		Password   string
		BucketName string
		UseSSL     bool
	}

	SMTP struct {
		Host        string
		Username    string
		Password    string
		EmailSender string
		Port        int
	}

	Logger struct {
		Level               string
		OutputFileName      string
		OutputErrorFileName string
	}
)
