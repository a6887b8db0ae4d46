package slots

import (
	"context"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/requests"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	slotUsecaseInstance contracts.SlotUsecase
	onceSlotUsecase     sync.Once
)

type slotUsecase struct {
	SlotRepository   contracts.SlotRepository
	DoctorRepository contracts.DoctorRepository
	Log              *zap.Logger
}

func NewSlotUsecase(
	slotRepository contracts.SlotRepository,
	doctorRepository contracts.DoctorRepository,
	logger *zap.Logger,
) contracts.SlotUsecase {
	onceSlotUsecase.Do(func() {
		slotUsecaseInstance = &slotUsecase{
			SlotRepository:   slotRepository,
			DoctorRepository: doctorRepository,
			Log:              logger,
		}
	})
	return slotUsecaseInstance
}

func (uc *slotUsecase) CreateSlot(ctx context.Context, request *requests.CreateSlotRequest) (*models.Slot, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	if _, err := uc.DoctorRepository.FindDoctorByID(ctx, request.DoctorID); err != nil {
		return nil, err
	}

	slot := &models.Slot{
		ID:        uuid.NewString(),
		DoctorID:  request.DoctorID,
		Date:      request.Date,
		StartTime: request.StartTime,
		EndTime:   request.EndTime,
		Booked:    false,
		CreatedAt: time.Now().UTC(),
	}

	created, err := uc.SlotRepository.CreateSlot(ctx, slot)
	if err != nil {
		uc.Log.Error("slotUsecase.CreateSlot error calling SlotRepository.CreateSlot",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("slotUsecase.CreateSlot created slot",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSlotIDKey, created.ID),
	)
	return created, nil
}

func (uc *slotUsecase) ListSlotsByDoctor(ctx context.Context, doctorID string) ([]models.Slot, error) {
	return uc.SlotRepository.FindSlotsByDoctorID(ctx, doctorID)
}
