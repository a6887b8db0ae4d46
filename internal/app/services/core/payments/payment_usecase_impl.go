package payments

import (
	"context"
	"fmt"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/exceptions"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

var (
	paymentUsecaseInstance contracts.PaymentUsecase
	oncePaymentUsecase     sync.Once
)

type paymentUsecase struct {
	PaymentOrderRepository contracts.PaymentOrderRepository
	AppointmentRepository  contracts.AppointmentRepository
	SlotRepository         contracts.SlotRepository
	PersonRepository       contracts.PersonRepository
	DoctorRepository       contracts.DoctorRepository
	PaymentGateway         contracts.PaymentGatewayService
	Locker                 contracts.LockerService
	TxManager              contracts.TransactionManager
	Dispatcher             contracts.NotificationDispatcher
	InternalConfig         *config.InternalConfig
	Log                    *zap.Logger
}

func NewPaymentUsecase(
	paymentOrderRepository contracts.PaymentOrderRepository,
	appointmentRepository contracts.AppointmentRepository,
	slotRepository contracts.SlotRepository,
	personRepository contracts.PersonRepository,
	doctorRepository contracts.DoctorRepository,
	paymentGateway contracts.PaymentGatewayService,
	locker contracts.LockerService,
	txManager contracts.TransactionManager,
	dispatcher contracts.NotificationDispatcher,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.PaymentUsecase {
	oncePaymentUsecase.Do(func() {
		paymentUsecaseInstance = &paymentUsecase{
			PaymentOrderRepository: paymentOrderRepository,
			AppointmentRepository:  appointmentRepository,
			SlotRepository:         slotRepository,
			PersonRepository:       personRepository,
			DoctorRepository:       doctorRepository,
			PaymentGateway:         paymentGateway,
			Locker:                 locker,
			TxManager:              txManager,
			Dispatcher:             dispatcher,
			InternalConfig:         internalConfig,
			Log:                    logger,
		}
	})
	return paymentUsecaseInstance
}

// HandleCallback settles a payment order from a gateway delivery. The order
// lock serializes concurrent deliveries for the same order; once the order is
// in a terminal state every later delivery is treated as a duplicate and
// acknowledged without touching state or publishing a second notification.
func (uc *paymentUsecase) HandleCallback(ctx context.Context, request *requests.PaymentCallbackRequest) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	if !uc.PaymentGateway.VerifyPaymentSignature(request.OrderID, request.PaymentID, request.Signature) {
		uc.Log.Warn("paymentUsecase.HandleCallback rejected callback with bad signature",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingGatewayOrderIDKey, request.OrderID),
		)
		return exceptions.ErrInvalidPaymentSignature(nil)
	}

	return uc.settle(ctx, request.OrderID, request.PaymentID, request.Status)
}

// HandleWebhook is the server-to-server delivery path. The signature covers
// the raw body, so it is verified before the envelope is ever decoded.
func (uc *paymentUsecase) HandleWebhook(ctx context.Context, rawBody []byte, signature string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	if !uc.PaymentGateway.VerifyWebhookSignature(rawBody, signature) {
		uc.Log.Warn("paymentUsecase.HandleWebhook rejected webhook with bad signature",
			zap.String(constvars.LoggingRequestIDKey, requestID),
		)
		return exceptions.ErrInvalidPaymentSignature(nil)
	}

	var event requests.GatewayWebhookEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return exceptions.ErrCannotParseJSON(err)
	}

	entity := event.Payload.Payment.Entity
	return uc.settle(ctx, entity.OrderID, entity.ID, entity.Status)
}

// settle applies the joint appointment and payment transition for one
// gateway-reported outcome.
func (uc *paymentUsecase) settle(ctx context.Context, orderID, paymentID, status string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	lockKey := fmt.Sprintf(constvars.RedisPaymentOrderLockKeyFormat, orderID)
	lockTTL := time.Duration(uc.InternalConfig.Booking.PaymentLockTTLInSecs) * time.Second
	lockWait := time.Duration(uc.InternalConfig.Booking.PaymentLockWaitInSecs) * time.Second

	lockValue, err := uc.Locker.Lock(ctx, lockKey, lockTTL, lockWait)
	if err != nil {
		return err
	}
	defer func() {
		if unlockErr := uc.Locker.Unlock(ctx, lockKey, lockValue); unlockErr != nil {
			uc.Log.Warn("paymentUsecase.settle failed to release order lock",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(unlockErr),
			)
		}
	}()

	order, err := uc.PaymentOrderRepository.FindByGatewayOrderID(ctx, orderID)
	if err != nil {
		return err
	}

	if order.Status.Terminal() {
		uc.Log.Info("paymentUsecase.settle ignored duplicate delivery",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingGatewayOrderIDKey, order.GatewayOrderID),
			zap.String("status", string(order.Status)),
		)
		return nil
	}

	appointment, err := uc.AppointmentRepository.FindAppointmentByID(ctx, order.AppointmentID)
	if err != nil {
		return err
	}

	succeeded := isSuccessStatus(status)
	err = uc.TxManager.WithTransaction(ctx, func(txCtx context.Context) error {
		order.GatewayPaymentID = paymentID
		if succeeded {
			now := time.Now().UTC()
			order.Status = models.PaymentSuccess
			order.PaidAt = &now
			if _, err := uc.PaymentOrderRepository.UpdatePaymentOrder(txCtx, order); err != nil {
				return err
			}
			return uc.AppointmentRepository.UpdateAppointmentStatus(txCtx, appointment.ID, models.AppointmentConfirmed)
		}

		order.Status = models.PaymentFailed
		if _, err := uc.PaymentOrderRepository.UpdatePaymentOrder(txCtx, order); err != nil {
			return err
		}
		if err := uc.AppointmentRepository.UpdateAppointmentStatus(txCtx, appointment.ID, models.AppointmentFailed); err != nil {
			return err
		}
		return uc.SlotRepository.SetSlotBooked(txCtx, appointment.SlotID, false)
	})
	if err != nil {
		return err
	}

	uc.Log.Info("paymentUsecase.settle settled payment",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingGatewayOrderIDKey, order.GatewayOrderID),
		zap.String(constvars.LoggingAppointmentIDKey, appointment.ID),
		zap.Bool("succeeded", succeeded),
	)

	if !succeeded {
		return nil
	}

	// The settlement is committed; a publish failure must not fail the
	// callback, the gateway would retry an already-settled order.
	event, err := uc.buildConfirmationEvent(ctx, appointment, order)
	if err != nil {
		uc.Log.Error("paymentUsecase.settle could not assemble notification event",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAppointmentIDKey, appointment.ID),
			zap.Error(err),
		)
		return nil
	}
	if _, err := uc.Dispatcher.Publish(ctx, event); err != nil {
		uc.Log.Error("paymentUsecase.settle could not publish notification event",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAppointmentIDKey, appointment.ID),
			zap.Error(err),
		)
	}
	return nil
}

// Cancel refunds a confirmed appointment and frees its slot. The refund call
// happens before any state change, so a gateway failure leaves the
// appointment confirmed and retryable.
func (uc *paymentUsecase) Cancel(ctx context.Context, appointmentID, requesterID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	appointment, err := uc.AppointmentRepository.FindAppointmentByID(ctx, appointmentID)
	if err != nil {
		return err
	}
	if appointment.PatientID != requesterID {
		return exceptions.ErrNotAppointmentOwner(nil)
	}
	if appointment.Status != models.AppointmentConfirmed {
		return exceptions.ErrAppointmentNotCancellable(nil)
	}

	order, err := uc.PaymentOrderRepository.FindByAppointmentID(ctx, appointmentID)
	if err != nil {
		return err
	}

	lockKey := fmt.Sprintf(constvars.RedisPaymentOrderLockKeyFormat, order.GatewayOrderID)
	lockTTL := time.Duration(uc.InternalConfig.Booking.PaymentLockTTLInSecs) * time.Second
	lockWait := time.Duration(uc.InternalConfig.Booking.PaymentLockWaitInSecs) * time.Second

	lockValue, err := uc.Locker.Lock(ctx, lockKey, lockTTL, lockWait)
	if err != nil {
		return err
	}
	defer func() {
		if unlockErr := uc.Locker.Unlock(ctx, lockKey, lockValue); unlockErr != nil {
			uc.Log.Warn("paymentUsecase.Cancel failed to release order lock",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(unlockErr),
			)
		}
	}()

	order, err = uc.PaymentOrderRepository.FindByAppointmentID(ctx, appointmentID)
	if err != nil {
		return err
	}
	if order.Status != models.PaymentSuccess {
		return exceptions.ErrAppointmentNotCancellable(nil)
	}

	// The refund amount is the amount recorded at reservation time, never a
	// value taken from the cancel request.
	if _, err := uc.PaymentGateway.Refund(ctx, order.GatewayPaymentID, order.Amount); err != nil {
		uc.Log.Error("paymentUsecase.Cancel refund failed, appointment stays confirmed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
			zap.Error(err),
		)
		return err
	}

	err = uc.TxManager.WithTransaction(ctx, func(txCtx context.Context) error {
		order.Status = models.PaymentRefunded
		if _, err := uc.PaymentOrderRepository.UpdatePaymentOrder(txCtx, order); err != nil {
			return err
		}
		if err := uc.AppointmentRepository.UpdateAppointmentStatus(txCtx, appointmentID, models.AppointmentCancelled); err != nil {
			return err
		}
		return uc.SlotRepository.SetSlotBooked(txCtx, appointment.SlotID, false)
	})
	if err != nil {
		return err
	}

	uc.Log.Info("paymentUsecase.Cancel cancelled appointment and refunded payment",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
		zap.String(constvars.LoggingGatewayOrderIDKey, order.GatewayOrderID),
	)
	return nil
}

// ExpirePendingPayment fails one waiting appointment whose payment window
// elapsed. If the order lock is held a callback is settling the same order;
// the sweeper backs off and lets the callback win.
func (uc *paymentUsecase) ExpirePendingPayment(ctx context.Context, appointmentID string) error {
	order, err := uc.PaymentOrderRepository.FindByAppointmentID(ctx, appointmentID)
	if err != nil {
		return err
	}

	lockKey := fmt.Sprintf(constvars.RedisPaymentOrderLockKeyFormat, order.GatewayOrderID)
	lockTTL := time.Duration(uc.InternalConfig.Booking.PaymentLockTTLInSecs) * time.Second

	acquired, lockValue, err := uc.Locker.TryLock(ctx, lockKey, lockTTL)
	if err != nil {
		return err
	}
	if !acquired {
		return nil
	}
	defer func() {
		if unlockErr := uc.Locker.Unlock(ctx, lockKey, lockValue); unlockErr != nil {
			uc.Log.Warn("paymentUsecase.ExpirePendingPayment failed to release order lock",
				zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
				zap.Error(unlockErr),
			)
		}
	}()

	order, err = uc.PaymentOrderRepository.FindByAppointmentID(ctx, appointmentID)
	if err != nil {
		return err
	}
	if order.Status.Terminal() {
		return nil
	}

	appointment, err := uc.AppointmentRepository.FindAppointmentByID(ctx, appointmentID)
	if err != nil {
		return err
	}
	if appointment.Status != models.AppointmentWaiting {
		return nil
	}

	err = uc.TxManager.WithTransaction(ctx, func(txCtx context.Context) error {
		order.Status = models.PaymentFailed
		if _, err := uc.PaymentOrderRepository.UpdatePaymentOrder(txCtx, order); err != nil {
			return err
		}
		if err := uc.AppointmentRepository.UpdateAppointmentStatus(txCtx, appointmentID, models.AppointmentFailed); err != nil {
			return err
		}
		return uc.SlotRepository.SetSlotBooked(txCtx, appointment.SlotID, false)
	})
	if err != nil {
		return err
	}

	uc.Log.Info("paymentUsecase.ExpirePendingPayment expired waiting appointment",
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
		zap.String(constvars.LoggingGatewayOrderIDKey, order.GatewayOrderID),
	)
	return nil
}

func (uc *paymentUsecase) buildConfirmationEvent(ctx context.Context, appointment *models.Appointment, order *models.PaymentOrder) (*models.NotificationEvent, error) {
	patient, err := uc.PersonRepository.FindPersonByID(ctx, appointment.PatientID)
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

	return &models.NotificationEvent{
		AppointmentID:   appointment.ID,
		RecipientEmail:  patient.Email,
		DoctorName:      doctorPerson.Name,
		PatientName:     patient.Name,
		AppointmentDate: slot.Date,
		AppointmentTime: slot.StartTime,
		ConsultationFee: order.Amount,
		TemplateData: map[string]interface{}{
			"formattedFee": fmt.Sprintf("₹%.2f", order.Amount),
		},
	}, nil
}

// isSuccessStatus accepts both forms the gateway reports: redirect callbacks
// carry "SUCCESS", webhook events carry "captured".
func isSuccessStatus(status string) bool {
	return status == constvars.GatewayStatusSuccess || status == constvars.GatewayStatusCaptured
}
