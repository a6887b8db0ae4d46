package contracts

import (
	"context"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/dto/requests"
)

type SlotUsecase interface {
	CreateSlot(ctx context.Context, request *requests.CreateSlotRequest) (*models.Slot, error)
	ListSlotsByDoctor(ctx context.Context, doctorID string) ([]models.Slot, error)
}
