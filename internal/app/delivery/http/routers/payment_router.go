package routers

import (
	"medibook-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

// Gateway deliveries authenticate with signatures, not bearer tokens.
func attachPaymentRoutes(router chi.Router, paymentController *controllers.PaymentController) {
	router.Post("/callback", paymentController.PaymentCallback)
	router.Post("/webhook", paymentController.PaymentWebhook)
}
