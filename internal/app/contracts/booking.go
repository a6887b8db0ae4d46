package contracts

import (
	"context"
	"medibook-service/internal/pkg/dto/responses"
)

type BookingUsecase interface {
	// Reserve serializes concurrent attempts on the same slot, creates the
	// waiting appointment plus its pending payment order, and returns the
	// checkout payload. The second of two concurrent callers gets a conflict.
	Reserve(ctx context.Context, patientID, slotID string) (*responses.BookingResponse, error)
	GetAppointmentDetails(ctx context.Context, appointmentID string) (*responses.AppointmentDetails, error)
}
