package contracts

import (
	"context"
	"medibook-service/internal/app/models"
)

type SlotRepository interface {
	CreateSlot(ctx context.Context, slot *models.Slot) (*models.Slot, error)
	FindSlotByID(ctx context.Context, slotID string) (*models.Slot, error)
	FindSlotsByDoctorID(ctx context.Context, doctorID string) ([]models.Slot, error)
	SetSlotBooked(ctx context.Context, slotID string, booked bool) error
}
