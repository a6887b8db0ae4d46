package contracts

import "context"

type GatewayOrder struct {
	OrderID       string
	AmountInPaise int64
	Currency      string
	Receipt       string
}

type GatewayPayment struct {
	PaymentID string
	OrderID   string
	Status    string
	Method    string
	Email     string
}

type GatewayRefund struct {
	RefundID  string
	PaymentID string
}

// PaymentGatewayService talks to the configured payment provider. All network
// failures surface as typed gateway errors so callers can abort their
// enclosing transaction.
type PaymentGatewayService interface {
	CreateOrder(ctx context.Context, amount float64, currency, receipt string) (*GatewayOrder, error)
	FetchPayment(ctx context.Context, paymentID string) (*GatewayPayment, error)
	Refund(ctx context.Context, paymentID string, amount float64) (*GatewayRefund, error)
	VerifyPaymentSignature(orderID, paymentID, signature string) bool
	VerifyWebhookSignature(payload []byte, signature string) bool
	CheckoutOptions(orderID string, amount float64, prefillEmail string) map[string]interface{}
}
