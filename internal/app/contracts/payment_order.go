package contracts

import (
	"context"
	"medibook-service/internal/app/models"
)

type PaymentOrderRepository interface {
	CreatePaymentOrder(ctx context.Context, order *models.PaymentOrder) (*models.PaymentOrder, error)
	FindByAppointmentID(ctx context.Context, appointmentID string) (*models.PaymentOrder, error)
	FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.PaymentOrder, error)
	UpdatePaymentOrder(ctx context.Context, order *models.PaymentOrder) (*models.PaymentOrder, error)
}
