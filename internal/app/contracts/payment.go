package contracts

import (
	"context"
	"medibook-service/internal/pkg/dto/requests"
)

type PaymentUsecase interface {
	// HandleCallback verifies the gateway signature, then applies the
	// settlement transition. Callbacks for orders already in a terminal state
	// are duplicate deliveries and succeed without any state change.
	HandleCallback(ctx context.Context, request *requests.PaymentCallbackRequest) error
	// HandleWebhook verifies the signature over the raw body, unwraps the
	// provider envelope, and applies the same settlement transition as
	// HandleCallback.
	HandleWebhook(ctx context.Context, rawBody []byte, signature string) error
	// Cancel refunds the recorded amount for a confirmed appointment and
	// frees its slot. A failed refund leaves the appointment confirmed.
	Cancel(ctx context.Context, appointmentID, requesterID string) error
	// ExpirePendingPayment applies the failure transition for one waiting
	// appointment whose payment never completed. Safe to race with a late
	// callback: whichever writer acts first wins.
	ExpirePendingPayment(ctx context.Context, appointmentID string) error
}
