package payments

import (
	"context"
	"errors"
	"fmt"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/exceptions"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePaymentOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*models.PaymentOrder
}

func newFakePaymentOrderRepo(orders ...*models.PaymentOrder) *fakePaymentOrderRepo {
	repo := &fakePaymentOrderRepo{orders: make(map[string]*models.PaymentOrder)}
	for _, o := range orders {
		copied := *o
		repo.orders[o.ID] = &copied
	}
	return repo
}

func (r *fakePaymentOrderRepo) CreatePaymentOrder(_ context.Context, order *models.PaymentOrder) (*models.PaymentOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *order
	r.orders[order.ID] = &copied
	return order, nil
}

func (r *fakePaymentOrderRepo) FindByAppointmentID(_ context.Context, appointmentID string) (*models.PaymentOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.AppointmentID == appointmentID {
			copied := *o
			return &copied, nil
		}
	}
	return nil, exceptions.ErrPaymentOrderNotFound(nil, appointmentID)
}

func (r *fakePaymentOrderRepo) FindByGatewayOrderID(_ context.Context, gatewayOrderID string) (*models.PaymentOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.GatewayOrderID == gatewayOrderID {
			copied := *o
			return &copied, nil
		}
	}
	return nil, exceptions.ErrPaymentOrderNotFound(nil, gatewayOrderID)
}

func (r *fakePaymentOrderRepo) UpdatePaymentOrder(_ context.Context, order *models.PaymentOrder) (*models.PaymentOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[order.ID]; !ok {
		return nil, exceptions.ErrPaymentOrderNotFound(nil, order.GatewayOrderID)
	}
	copied := *order
	r.orders[order.ID] = &copied
	return order, nil
}

func (r *fakePaymentOrderRepo) get(id string) models.PaymentOrder {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.orders[id]
}

type fakeAppointmentRepo struct {
	mu           sync.Mutex
	appointments map[string]*models.Appointment
}

func newFakeAppointmentRepo(appointments ...*models.Appointment) *fakeAppointmentRepo {
	repo := &fakeAppointmentRepo{appointments: make(map[string]*models.Appointment)}
	for _, a := range appointments {
		copied := *a
		repo.appointments[a.ID] = &copied
	}
	return repo
}

func (r *fakeAppointmentRepo) CreateAppointment(_ context.Context, appointment *models.Appointment) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *appointment
	r.appointments[appointment.ID] = &copied
	return appointment, nil
}

func (r *fakeAppointmentRepo) FindAppointmentByID(_ context.Context, appointmentID string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appointments[appointmentID]
	if !ok {
		return nil, exceptions.ErrAppointmentNotFound(nil)
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAppointmentRepo) UpdateAppointmentStatus(_ context.Context, appointmentID string, status models.AppointmentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appointments[appointmentID]
	if !ok {
		return exceptions.ErrAppointmentNotFound(nil)
	}
	a.Status = status
	return nil
}

func (r *fakeAppointmentRepo) DeleteAppointment(_ context.Context, appointmentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.appointments, appointmentID)
	return nil
}

func (r *fakeAppointmentRepo) FindWaitingOlderThan(_ context.Context, cutoff time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, a := range r.appointments {
		if a.Status == models.AppointmentWaiting && a.CreatedAt.Before(cutoff) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) get(id string) models.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.appointments[id]
}

type fakeSlotRepo struct {
	mu    sync.Mutex
	slots map[string]*models.Slot
}

func newFakeSlotRepo(slots ...*models.Slot) *fakeSlotRepo {
	repo := &fakeSlotRepo{slots: make(map[string]*models.Slot)}
	for _, s := range slots {
		copied := *s
		repo.slots[s.ID] = &copied
	}
	return repo
}

func (r *fakeSlotRepo) CreateSlot(_ context.Context, slot *models.Slot) (*models.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *slot
	r.slots[slot.ID] = &copied
	return slot, nil
}

func (r *fakeSlotRepo) FindSlotByID(_ context.Context, slotID string) (*models.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[slotID]
	if !ok {
		return nil, exceptions.ErrSlotNotFound(nil)
	}
	copied := *s
	return &copied, nil
}

func (r *fakeSlotRepo) FindSlotsByDoctorID(_ context.Context, doctorID string) ([]models.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Slot
	for _, s := range r.slots {
		if s.DoctorID == doctorID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSlotRepo) SetSlotBooked(_ context.Context, slotID string, booked bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[slotID]
	if !ok {
		return exceptions.ErrSlotNotFound(nil)
	}
	s.Booked = booked
	return nil
}

func (r *fakeSlotRepo) get(id string) models.Slot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.slots[id]
}

type fakePersonRepo struct {
	persons map[string]*models.Person
}

func (r *fakePersonRepo) FindPersonByID(_ context.Context, personID string) (*models.Person, error) {
	p, ok := r.persons[personID]
	if !ok {
		return nil, exceptions.ErrPersonNotFound(nil)
	}
	return p, nil
}

type fakeDoctorRepo struct {
	doctors map[string]*models.Doctor
}

func (r *fakeDoctorRepo) FindDoctorByID(_ context.Context, doctorID string) (*models.Doctor, error) {
	d, ok := r.doctors[doctorID]
	if !ok {
		return nil, exceptions.ErrDoctorNotFound(nil)
	}
	return d, nil
}

// fakeLocker grants every lock unless a key is marked held.
type fakeLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: make(map[string]bool)}
}

func (l *fakeLocker) TryLock(_ context.Context, key string, _ time.Duration) (bool, string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] {
		return false, "", nil
	}
	l.held[key] = true
	return true, "token-" + key, nil
}

func (l *fakeLocker) Lock(ctx context.Context, key string, expiration, _ time.Duration) (string, error) {
	acquired, value, err := l.TryLock(ctx, key, expiration)
	if err != nil {
		return "", err
	}
	if !acquired {
		return "", exceptions.ErrLockAcquireTimeout(errors.New("held"))
	}
	return value, nil
}

func (l *fakeLocker) Unlock(_ context.Context, key, _ string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
	return nil
}

func (l *fakeLocker) Refresh(_ context.Context, _, _ string, _ time.Duration) error {
	return nil
}

type fakeTxManager struct{}

func (m *fakeTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeGateway struct {
	mu             sync.Mutex
	signatureValid bool
	webhookValid   bool
	refundErr      error
	refunds        []struct {
		paymentID string
		amount    float64
	}
}

func (g *fakeGateway) CreateOrder(_ context.Context, amount float64, currency, receipt string) (*contracts.GatewayOrder, error) {
	return &contracts.GatewayOrder{OrderID: "order_" + receipt, AmountInPaise: int64(amount * 100), Currency: currency, Receipt: receipt}, nil
}

func (g *fakeGateway) FetchPayment(_ context.Context, paymentID string) (*contracts.GatewayPayment, error) {
	return &contracts.GatewayPayment{PaymentID: paymentID}, nil
}

func (g *fakeGateway) Refund(_ context.Context, paymentID string, amount float64) (*contracts.GatewayRefund, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.refundErr != nil {
		return nil, g.refundErr
	}
	g.refunds = append(g.refunds, struct {
		paymentID string
		amount    float64
	}{paymentID, amount})
	return &contracts.GatewayRefund{RefundID: "rfnd_1", PaymentID: paymentID}, nil
}

func (g *fakeGateway) VerifyPaymentSignature(_, _, _ string) bool { return g.signatureValid }
func (g *fakeGateway) VerifyWebhookSignature(_ []byte, _ string) bool {
	return g.webhookValid
}
func (g *fakeGateway) CheckoutOptions(orderID string, amount float64, prefillEmail string) map[string]interface{} {
	return map[string]interface{}{"order_id": orderID}
}

type fakeDispatcher struct {
	mu     sync.Mutex
	events []*models.NotificationEvent
	err    error
}

func (d *fakeDispatcher) Publish(_ context.Context, event *models.NotificationEvent) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return "", d.err
	}
	d.events = append(d.events, event)
	return "evt-1", nil
}

func (d *fakeDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.events)
}

type paymentFixture struct {
	usecase     *paymentUsecase
	orders      *fakePaymentOrderRepo
	appts       *fakeAppointmentRepo
	slots       *fakeSlotRepo
	gateway     *fakeGateway
	dispatcher  *fakeDispatcher
	locker      *fakeLocker
	order       *models.PaymentOrder
	appointment *models.Appointment
	slot        *models.Slot
}

func newPaymentFixture(appointmentStatus models.AppointmentStatus, paymentStatus models.PaymentStatus) *paymentFixture {
	slot := &models.Slot{ID: "slot-42", DoctorID: "doc-1", Date: "2026-09-01", StartTime: "10:00", EndTime: "10:30", Booked: true}
	appointment := &models.Appointment{
		ID:        "appt-1",
		PatientID: "patient-1",
		SlotID:    slot.ID,
		Status:    appointmentStatus,
		CreatedAt: time.Now().UTC().Add(-time.Hour),
	}
	order := &models.PaymentOrder{
		ID:             "po-1",
		AppointmentID:  appointment.ID,
		Amount:         500,
		Currency:       constvars.DefaultCurrency,
		GatewayOrderID: "order_abc",
		Status:         paymentStatus,
	}
	if paymentStatus == models.PaymentSuccess {
		order.GatewayPaymentID = "pay_xyz"
	}

	orders := newFakePaymentOrderRepo(order)
	appts := newFakeAppointmentRepo(appointment)
	slotRepo := newFakeSlotRepo(slot)
	gateway := &fakeGateway{signatureValid: true, webhookValid: true}
	dispatcher := &fakeDispatcher{}
	lockService := newFakeLocker()

	uc := &paymentUsecase{
		PaymentOrderRepository: orders,
		AppointmentRepository:  appts,
		SlotRepository:         slotRepo,
		PersonRepository: &fakePersonRepo{persons: map[string]*models.Person{
			"patient-1": {ID: "patient-1", Name: "Asha Rao", Email: "asha@example.com"},
			"person-doc": {ID: "person-doc", Name: "Dr. Mehta", Email: "mehta@example.com"},
		}},
		DoctorRepository: &fakeDoctorRepo{doctors: map[string]*models.Doctor{
			"doc-1": {ID: "doc-1", PersonID: "person-doc", ConsultationFee: 500},
		}},
		PaymentGateway: gateway,
		Locker:         lockService,
		TxManager:      &fakeTxManager{},
		Dispatcher:     dispatcher,
		InternalConfig: &config.InternalConfig{
			Booking: config.Booking{
				PaymentLockTTLInSecs:  1,
				PaymentLockWaitInSecs: 1,
			},
		},
		Log: zap.NewNop(),
	}

	return &paymentFixture{
		usecase:     uc,
		orders:      orders,
		appts:       appts,
		slots:       slotRepo,
		gateway:     gateway,
		dispatcher:  dispatcher,
		locker:      lockService,
		order:       order,
		appointment: appointment,
		slot:        slot,
	}
}

func successCallback() *requests.PaymentCallbackRequest {
	return &requests.PaymentCallbackRequest{
		OrderID:   "order_abc",
		PaymentID: "pay_xyz",
		Signature: "sig",
		Status:    constvars.GatewayStatusSuccess,
	}
}

func TestHandleCallback(t *testing.T) {
	t.Run("successful payment confirms appointment and publishes one event", func(t *testing.T) {
		f := newPaymentFixture(models.AppointmentWaiting, models.PaymentPending)

		err := f.usecase.HandleCallback(context.Background(), successCallback())
		require.NoError(t, err)

		order := f.orders.get("po-1")
		assert.Equal(t, models.PaymentSuccess, order.Status)
		assert.Equal(t, "pay_xyz", order.GatewayPaymentID)
		require.NotNil(t, order.PaidAt)

		assert.Equal(t, models.AppointmentConfirmed, f.appts.get("appt-1").Status)
		assert.True(t, f.slots.get("slot-42").Booked)
		assert.Equal(t, 1, f.dispatcher.count())
	})

	t.Run("duplicate delivery is acknowledged without state change or second event", func(t *testing.T) {
		f := newPaymentFixture(models.AppointmentWaiting, models.PaymentPending)

		require.NoError(t, f.usecase.HandleCallback(context.Background(), successCallback()))
		firstPaidAt := f.orders.get("po-1").PaidAt

		require.NoError(t, f.usecase.HandleCallback(context.Background(), successCallback()))

		order := f.orders.get("po-1")
		assert.Equal(t, models.PaymentSuccess, order.Status)
		assert.Equal(t, firstPaidAt, order.PaidAt)
		assert.Equal(t, models.AppointmentConfirmed, f.appts.get("appt-1").Status)
		assert.Equal(t, 1, f.dispatcher.count(), "duplicate must not publish a second notification")
	})

	t.Run("invalid signature is rejected before any lookup", func(t *testing.T) {
		f := newPaymentFixture(models.AppointmentWaiting, models.PaymentPending)
		f.gateway.signatureValid = false

		err := f.usecase.HandleCallback(context.Background(), successCallback())
		require.Error(t, err)

		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusUnauthorized, customErr.StatusCode)

		assert.Equal(t, models.PaymentPending, f.orders.get("po-1").Status)
		assert.Equal(t, models.AppointmentWaiting, f.appts.get("appt-1").Status)
		assert.Equal(t, 0, f.dispatcher.count())
	})

	t.Run("failed payment fails appointment and frees the slot", func(t *testing.T) {
		f := newPaymentFixture(models.AppointmentWaiting, models.PaymentPending)

		request := successCallback()
		request.Status = constvars.GatewayStatusFailed
		require.NoError(t, f.usecase.HandleCallback(context.Background(), request))

		assert.Equal(t, models.PaymentFailed, f.orders.get("po-1").Status)
		assert.Equal(t, models.AppointmentFailed, f.appts.get("appt-1").Status)
		assert.False(t, f.slots.get("slot-42").Booked)
		assert.Equal(t, 0, f.dispatcher.count())
	})

	t.Run("late callback after expiry is a no-op", func(t *testing.T) {
		f := newPaymentFixture(models.AppointmentFailed, models.PaymentFailed)

		require.NoError(t, f.usecase.HandleCallback(context.Background(), successCallback()))

		assert.Equal(t, models.PaymentFailed, f.orders.get("po-1").Status)
		assert.Equal(t, models.AppointmentFailed, f.appts.get("appt-1").Status)
		assert.Equal(t, 0, f.dispatcher.count())
	})

	t.Run("unknown order is reported as not found", func(t *testing.T) {
		f := newPaymentFixture(models.AppointmentWaiting, models.PaymentPending)

		request := successCallback()
		request.OrderID = "order_nope"
		err := f.usecase.HandleCallback(context.Background(), request)

		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusNotFound, customErr.StatusCode)
	})
}

func TestCancel(t *testing.T) {
	t.Run("refunds the recorded amount and frees the slot", func(t *testing.T) {
		f := newPaymentFixture(models.AppointmentConfirmed, models.PaymentSuccess)

		require.NoError(t, f.usecase.Cancel(context.Background(), "appt-1", "patient-1"))

		require.Len(t, f.gateway.refunds, 1)
		assert.Equal(t, "pay_xyz", f.gateway.refunds[0].paymentID)
		assert.Equal(t, float64(500), f.gateway.refunds[0].amount)

		assert.Equal(t, models.PaymentRefunded, f.orders.get("po-1").Status)
		assert.Equal(t, models.AppointmentCancelled, f.appts.get("appt-1").Status)
		assert.False(t, f.slots.get("slot-42").Booked)
	})

	t.Run("rejects a requester who does not own the appointment", func(t *testing.T) {
		f := newPaymentFixture(models.AppointmentConfirmed, models.PaymentSuccess)

		err := f.usecase.Cancel(context.Background(), "appt-1", "patient-2")

		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusForbidden, customErr.StatusCode)
		assert.Empty(t, f.gateway.refunds)
		assert.Equal(t, models.AppointmentConfirmed, f.appts.get("appt-1").Status)
	})

	t.Run("rejects cancelling an appointment that is not confirmed", func(t *testing.T) {
		for _, status := range []models.AppointmentStatus{models.AppointmentWaiting, models.AppointmentFailed, models.AppointmentCancelled} {
			t.Run(string(status), func(t *testing.T) {
				f := newPaymentFixture(status, models.PaymentPending)

				err := f.usecase.Cancel(context.Background(), "appt-1", "patient-1")

				var customErr *exceptions.CustomError
				require.ErrorAs(t, err, &customErr)
				assert.Equal(t, constvars.StatusConflict, customErr.StatusCode)
				assert.Empty(t, f.gateway.refunds)
			})
		}
	})

	t.Run("failed refund leaves the appointment confirmed", func(t *testing.T) {
		f := newPaymentFixture(models.AppointmentConfirmed, models.PaymentSuccess)
		f.gateway.refundErr = exceptions.ErrGatewayRefund(errors.New("gateway down"))

		err := f.usecase.Cancel(context.Background(), "appt-1", "patient-1")
		require.Error(t, err)

		assert.Equal(t, models.AppointmentConfirmed, f.appts.get("appt-1").Status)
		assert.Equal(t, models.PaymentSuccess, f.orders.get("po-1").Status)
		assert.True(t, f.slots.get("slot-42").Booked)
	})
}

func TestExpirePendingPayment(t *testing.T) {
	t.Run("fails a waiting appointment and frees the slot", func(t *testing.T) {
		f := newPaymentFixture(models.AppointmentWaiting, models.PaymentPending)

		require.NoError(t, f.usecase.ExpirePendingPayment(context.Background(), "appt-1"))

		assert.Equal(t, models.PaymentFailed, f.orders.get("po-1").Status)
		assert.Equal(t, models.AppointmentFailed, f.appts.get("appt-1").Status)
		assert.False(t, f.slots.get("slot-42").Booked)
	})

	t.Run("backs off when a callback holds the order lock", func(t *testing.T) {
		f := newPaymentFixture(models.AppointmentWaiting, models.PaymentPending)
		lockKey := fmt.Sprintf(constvars.RedisPaymentOrderLockKeyFormat, "order_abc")
		f.locker.held[lockKey] = true

		require.NoError(t, f.usecase.ExpirePendingPayment(context.Background(), "appt-1"))

		assert.Equal(t, models.PaymentPending, f.orders.get("po-1").Status)
		assert.Equal(t, models.AppointmentWaiting, f.appts.get("appt-1").Status)
	})

	t.Run("already settled order is left alone", func(t *testing.T) {
		f := newPaymentFixture(models.AppointmentConfirmed, models.PaymentSuccess)

		require.NoError(t, f.usecase.ExpirePendingPayment(context.Background(), "appt-1"))

		assert.Equal(t, models.PaymentSuccess, f.orders.get("po-1").Status)
		assert.Equal(t, models.AppointmentConfirmed, f.appts.get("appt-1").Status)
	})
}

func TestHandleWebhook(t *testing.T) {
	webhookBody := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_xyz","order_id":"order_abc","status":"captured"}}}}`)

	t.Run("captured event settles the payment", func(t *testing.T) {
		f := newPaymentFixture(models.AppointmentWaiting, models.PaymentPending)

		require.NoError(t, f.usecase.HandleWebhook(context.Background(), webhookBody, "sig"))

		assert.Equal(t, models.PaymentSuccess, f.orders.get("po-1").Status)
		assert.Equal(t, models.AppointmentConfirmed, f.appts.get("appt-1").Status)
		assert.Equal(t, 1, f.dispatcher.count())
	})

	t.Run("invalid signature is rejected", func(t *testing.T) {
		f := newPaymentFixture(models.AppointmentWaiting, models.PaymentPending)
		f.gateway.webhookValid = false

		err := f.usecase.HandleWebhook(context.Background(), webhookBody, "sig")

		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusUnauthorized, customErr.StatusCode)
		assert.Equal(t, models.PaymentPending, f.orders.get("po-1").Status)
	})

	t.Run("webhook retry after settlement is a no-op", func(t *testing.T) {
		f := newPaymentFixture(models.AppointmentWaiting, models.PaymentPending)

		require.NoError(t, f.usecase.HandleWebhook(context.Background(), webhookBody, "sig"))
		require.NoError(t, f.usecase.HandleWebhook(context.Background(), webhookBody, "sig"))

		assert.Equal(t, 1, f.dispatcher.count())
	})
}
