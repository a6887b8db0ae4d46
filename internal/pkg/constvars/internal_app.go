package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY ContextKey = "request_id"
	CONTEXT_PERSON_ID_KEY  ContextKey = "person_id"
)

const (
	ResourceSlot         = "Slot"
	ResourceAppointment  = "Appointment"
	ResourcePaymentOrder = "PaymentOrder"
	ResourcePerson       = "Person"
	ResourceDoctor       = "Doctor"
)

const (
	MongoCollectionSlots         = "slots"
	MongoCollectionAppointments  = "appointments"
	MongoCollectionPaymentOrders = "payment_orders"
	MongoCollectionPersons       = "persons"
	MongoCollectionDoctors       = "doctors"
)

const (
	RedisSlotLockKeyFormat         = "slot:%s:lock"
	RedisPaymentOrderLockKeyFormat = "payorder:%s:lock"
	RedisSweeperLeaderLockKey      = "sweeper:leader"
)

const (
	AppointmentDateFormat = "2006-01-02"
	AppointmentTimeFormat = "15:04"
)

const (
	DefaultCurrency = "INR"
)
