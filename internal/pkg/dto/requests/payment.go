package requests

// PaymentCallbackRequest is the normalized form of both gateway delivery
// paths: the browser redirect callback and the server-to-server webhook.
type PaymentCallbackRequest struct {
	OrderID   string `json:"order_id" validate:"required"`
	PaymentID string `json:"payment_id" validate:"required"`
	Signature string `json:"signature" validate:"required"`
	Status    string `json:"status" validate:"required"`
}

// GatewayWebhookEvent mirrors the provider's webhook envelope. The signature
// travels in a header and is verified against the raw body before this
// struct is ever decoded.
type GatewayWebhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
				Status  string `json:"status"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}
