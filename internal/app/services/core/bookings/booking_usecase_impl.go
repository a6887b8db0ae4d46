package bookings

import (
	"context"
	"fmt"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/responses"
	"medibook-service/internal/pkg/exceptions"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	bookingUsecaseInstance contracts.BookingUsecase
	onceBookingUsecase     sync.Once
)

type bookingUsecase struct {
	SlotRepository         contracts.SlotRepository
	AppointmentRepository  contracts.AppointmentRepository
	PaymentOrderRepository contracts.PaymentOrderRepository
	PersonRepository       contracts.PersonRepository
	DoctorRepository       contracts.DoctorRepository
	PaymentGateway         contracts.PaymentGatewayService
	Locker                 contracts.LockerService
	TxManager              contracts.TransactionManager
	InternalConfig         *config.InternalConfig
	Log                    *zap.Logger
}

func NewBookingUsecase(
	slotRepository contracts.SlotRepository,
	appointmentRepository contracts.AppointmentRepository,
	paymentOrderRepository contracts.PaymentOrderRepository,
	personRepository contracts.PersonRepository,
	doctorRepository contracts.DoctorRepository,
	paymentGateway contracts.PaymentGatewayService,
	locker contracts.LockerService,
	txManager contracts.TransactionManager,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.BookingUsecase {
	onceBookingUsecase.Do(func() {
		bookingUsecaseInstance = &bookingUsecase{
			SlotRepository:         slotRepository,
			AppointmentRepository:  appointmentRepository,
			PaymentOrderRepository: paymentOrderRepository,
			PersonRepository:       personRepository,
			DoctorRepository:       doctorRepository,
			PaymentGateway:         paymentGateway,
			Locker:                 locker,
			TxManager:              txManager,
			InternalConfig:         internalConfig,
			Log:                    logger,
		}
	})
	return bookingUsecaseInstance
}

// Reserve serializes all reservation attempts for one slot behind the slot
// lock. Everything between acquiring the lock and returning, including the
// gateway order creation, happens inside one storage transaction so a gateway
// failure leaves no appointment and an unbooked slot.
func (uc *bookingUsecase) Reserve(ctx context.Context, patientID, slotID string) (*responses.BookingResponse, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	patient, err := uc.PersonRepository.FindPersonByID(ctx, patientID)
	if err != nil {
		return nil, err
	}

	lockKey := fmt.Sprintf(constvars.RedisSlotLockKeyFormat, slotID)
	lockTTL := time.Duration(uc.InternalConfig.Booking.SlotLockTTLInSecs) * time.Second
	lockWait := time.Duration(uc.InternalConfig.Booking.SlotLockWaitInSecs) * time.Second

	lockValue, err := uc.Locker.Lock(ctx, lockKey, lockTTL, lockWait)
	if err != nil {
		uc.Log.Warn("bookingUsecase.Reserve could not acquire slot lock",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSlotIDKey, slotID),
			zap.Error(err),
		)
		return nil, err
	}
	defer func() {
		if unlockErr := uc.Locker.Unlock(ctx, lockKey, lockValue); unlockErr != nil {
			uc.Log.Warn("bookingUsecase.Reserve failed to release slot lock",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingSlotIDKey, slotID),
				zap.Error(unlockErr),
			)
		}
	}()

	var response *responses.BookingResponse
	err = uc.TxManager.WithTransaction(ctx, func(txCtx context.Context) error {
		slot, err := uc.SlotRepository.FindSlotByID(txCtx, slotID)
		if err != nil {
			return err
		}
		if slot.Booked {
			return exceptions.ErrSlotAlreadyBooked(nil)
		}

		doctor, err := uc.DoctorRepository.FindDoctorByID(txCtx, slot.DoctorID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		appointment := &models.Appointment{
			ID:        uuid.NewString(),
			PatientID: patientID,
			SlotID:    slotID,
			Status:    models.AppointmentWaiting,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err := uc.AppointmentRepository.CreateAppointment(txCtx, appointment); err != nil {
			return err
		}

		if err := uc.SlotRepository.SetSlotBooked(txCtx, slotID, true); err != nil {
			return err
		}

		order, err := uc.PaymentGateway.CreateOrder(txCtx, doctor.ConsultationFee, constvars.DefaultCurrency, appointment.ID)
		if err != nil {
			return err
		}

		paymentOrder := &models.PaymentOrder{
			ID:             uuid.NewString(),
			AppointmentID:  appointment.ID,
			Amount:         doctor.ConsultationFee,
			Currency:       order.Currency,
			GatewayOrderID: order.OrderID,
			Status:         models.PaymentPending,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if _, err := uc.PaymentOrderRepository.CreatePaymentOrder(txCtx, paymentOrder); err != nil {
			return err
		}

		response = &responses.BookingResponse{
			AppointmentID:   appointment.ID,
			GatewayOrderID:  order.OrderID,
			Amount:          doctor.ConsultationFee,
			Currency:        order.Currency,
			CheckoutOptions: uc.PaymentGateway.CheckoutOptions(order.OrderID, doctor.ConsultationFee, patient.Email),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.Log.Info("bookingUsecase.Reserve reserved slot",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSlotIDKey, slotID),
		zap.String(constvars.LoggingAppointmentIDKey, response.AppointmentID),
		zap.String(constvars.LoggingGatewayOrderIDKey, response.GatewayOrderID),
	)
	return response, nil
}

func (uc *bookingUsecase) GetAppointmentDetails(ctx context.Context, appointmentID string) (*responses.AppointmentDetails, error) {
	appointment, err := uc.AppointmentRepository.FindAppointmentByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	order, err := uc.PaymentOrderRepository.FindByAppointmentID(ctx, appointment.ID)
	if err != nil {
		return nil, err
	}

	slot, err := uc.SlotRepository.FindSlotByID(ctx, appointment.SlotID)
	if err != nil {
		return nil, err
	}

	doctor, err := uc.DoctorRepository.FindDoctorByID(ctx, slot.DoctorID)
	if err != nil {
		return nil, err
	}

	doctorPerson, err := uc.PersonRepository.FindPersonByID(ctx, doctor.PersonID)
	if err != nil {
		return nil, err
	}

	return &responses.AppointmentDetails{
		AppointmentID:   appointment.ID,
		Status:          string(appointment.Status),
		PaymentStatus:   string(order.Status),
		Amount:          order.Amount,
		DoctorName:      doctorPerson.Name,
		AppointmentDate: slot.Date,
		AppointmentTime: slot.StartTime,
	}, nil
}
