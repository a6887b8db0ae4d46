package models

import "time"

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentSuccess  PaymentStatus = "success"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) Terminal() bool {
	return s != PaymentPending
}

// PaymentOrder is the money-movement record tied one-to-one to an
// appointment's payment attempt. GatewayOrderID is assigned at creation and
// unique; GatewayPaymentID only once the gateway reports success.
type PaymentOrder struct {
	ID               string        `json:"id" bson:"_id"`
	AppointmentID    string        `json:"appointment_id" bson:"appointment_id"`
	Amount           float64       `json:"amount" bson:"amount"`
	Currency         string        `json:"currency" bson:"currency"`
	GatewayOrderID   string        `json:"gateway_order_id" bson:"gateway_order_id"`
	GatewayPaymentID string        `json:"gateway_payment_id,omitempty" bson:"gateway_payment_id,omitempty"`
	Status           PaymentStatus `json:"status" bson:"status"`
	PaidAt           *time.Time    `json:"paid_at,omitempty" bson:"paid_at,omitempty"`
	CreatedAt        time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at" bson:"updated_at"`
}
