package constvars

// Payment outcome statuses as reported by the gateway. The gateway reports
// "captured" on its webhook events and "SUCCESS" on redirect callbacks; both
// mean the payment went through.
const (
	GatewayStatusCaptured = "captured"
	GatewayStatusSuccess  = "SUCCESS"
	GatewayStatusFailed   = "failed"
)

const (
	GatewayEventPaymentCaptured = "payment.captured"
	GatewayEventPaymentFailed   = "payment.failed"
)

const (
	GatewayOrdersPath   = "/v1/orders"
	GatewayPaymentsPath = "/v1/payments"
)
