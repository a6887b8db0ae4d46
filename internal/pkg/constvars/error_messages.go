package constvars

// Validation messages, mapped by validator tag
var CustomValidationErrorMessages = map[string]string{
	"required": "is required",
	"email":    "must be a valid email",
	"alphanum": "must contain only alphanumeric characters",
	"min":      "must be at least %s characters long",
	"max":      "maximum at %s characters long",
	"dateonly": "must be a date in YYYY-MM-DD format",
	"hhmm":     "must be a time in HH:MM format",
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientNotAuthorized                 = "you can't access this feature"
	ErrClientNotLoggedIn                   = "your session ended, please login again"

	ErrClientSlotNotFound          = "slot not found"
	ErrClientSlotAlreadyBooked     = "Slot already booked"
	ErrClientAppointmentNotFound   = "appointment not found"
	ErrClientPaymentOrderNotFound  = "payment record not found"
	ErrClientPatientNotFound       = "patient not found"
	ErrClientInvalidSignature      = "invalid payment signature"
	ErrClientCancelNotConfirmed    = "only confirmed appointments can be cancelled"
	ErrClientPaymentGatewayProblem = "payment provider is unavailable, please try again later"
)

// Error messages for developers
const (
	ErrDevInvalidInput         = "invalid input"
	ErrDevCannotParseJSON      = "cannot parse JSON"
	ErrDevCannotMarshalJSON    = "cannot marshal JSON"
	ErrDevValidationFailed     = "validation failed"
	ErrDevCannotReadBody       = "cannot read request body"
	ErrDevServerProcess        = "server failed to process the request"
	ErrDevCreateHTTPRequest    = "failed to create HTTP request"
	ErrDevSendHTTPRequest      = "failed to send HTTP request"
	ErrDevAuthSigningMethod    = "unexpected signing method"
	ErrDevAuthTokenMissing     = "token missing"
	ErrDevAuthTokenInvalid     = "invalid token"
	ErrDevCannotParseDate      = "cannot parse date"
	ErrDevCannotAcquireLock    = "failed to acquire lock"
	ErrDevLockNotOwned         = "lock not owned by this client"
	ErrDevSlotNotFound         = "slot document not found"
	ErrDevSlotAlreadyBooked    = "slot is already booked"
	ErrDevAppointmentNotFound  = "appointment document not found"
	ErrDevPaymentOrderNotFound = "payment order not found for gateway order id: %s"
	ErrDevPersonNotFound       = "person document not found"
	ErrDevDoctorNotFound       = "doctor document not found"
	ErrDevInvalidSignature     = "payment signature verification failed, possible tampering"
	ErrDevNotAppointmentOwner  = "requester does not own the appointment"
	ErrDevAppointmentNotActive = "appointment is not in a cancellable state"

	// Mongo DB
	ErrDevDBFailedToFindDocument     = "failed to find document"
	ErrDevDBFailedToInsertDocument   = "failed to insert document"
	ErrDevDBFailedToUpdateDocument   = "failed to update document"
	ErrDevDBFailedToIterateDocuments = "failed to iterate documents"
	ErrDevDBFailedToRunTransaction   = "failed to run transaction"

	// Redis
	ErrDevRedisGetData       = "failed to get data from redis"
	ErrDevRedisSetData       = "failed to set data to redis"
	ErrDevRedisDeleteData    = "failed to delete data from redis"
	ErrDevRedisSetNX         = "failed to set data with NX to redis"
	ErrDevRedisExpire        = "failed to refresh key expiration in redis"
	ErrDevRedisGetNoData     = "no data from redis for key: %s"
	ErrDevRedisReleaseLock   = "failed to release redis lock"
	ErrDevLockAcquireTimeout = "could not acquire lock within wait budget"

	// RabbitMQ
	ErrDevRabbitMQPublishMessage = "failed to publish message to queue: %s"
	ErrDevRabbitMQConsume        = "failed to start consuming queue: %s"
	ErrDevRabbitMQDeclareQueue   = "failed to declare queue: %s"

	// Payment gateway
	ErrDevGatewayCreateOrder  = "payment gateway order creation failed"
	ErrDevGatewayFetchPayment = "payment gateway payment fetch failed"
	ErrDevGatewayRefund       = "payment gateway refund failed"
	ErrDevGatewayBadResponse  = "payment gateway returned status %d"

	// Minio
	ErrDevMinioPutObject = "failed to store object in bucket: %s"

	// SMTP
	ErrDevSMTPSendEmail = "failed to send email through host: %s"

	ResponseUnknown = "unknown"
)
