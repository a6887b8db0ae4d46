package constvars

const (
	LoggingRequestIDKey      = "request_id"
	LoggingRequestKey        = "request"
	LoggingResponseKey       = "response"
	LoggingDataKey           = "data"
	LoggingSlotIDKey         = "slot_id"
	LoggingPatientIDKey      = "patient_id"
	LoggingAppointmentIDKey  = "appointment_id"
	LoggingPaymentOrderIDKey = "payment_order_id"
	LoggingGatewayOrderIDKey = "gateway_order_id"
	LoggingEventIDKey        = "event_id"
	LoggingPartitionKey      = "partition"
	LoggingAttemptKey        = "attempt"
	LoggingRedisKey          = "redis_key"
	LoggingLockValueKey      = "lock_value"
	LoggingQueueNameKey      = "queue_name"
	LoggingMethodKey         = "method"
	LoggingEndpointKey       = "endpoint"
	LoggingRemoteAddrKey     = "remote_addr"
	LoggingUserAgentKey      = "user_agent"
	LoggingStatusCodeKey     = "status_code"
	LoggingDurationKey       = "duration"
	LoggingSuccessKey        = "success"
)
