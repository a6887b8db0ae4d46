package sweeper

import (
	"context"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/constvars"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// leaderLockTTL bounds how long a crashed instance can block other replicas
// from sweeping.
const leaderLockTTL = 90 * time.Second

// Worker periodically fails waiting appointments whose payment window
// elapsed. A redis leader lock keeps only one replica sweeping per tick;
// replicas that lose the lock skip the tick entirely.
type Worker struct {
	PaymentUsecase        contracts.PaymentUsecase
	AppointmentRepository contracts.AppointmentRepository
	Locker                contracts.LockerService
	InternalConfig        *config.InternalConfig
	Log                   *zap.Logger
	cron                  *cron.Cron
}

func NewWorker(
	paymentUsecase contracts.PaymentUsecase,
	appointmentRepository contracts.AppointmentRepository,
	locker contracts.LockerService,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) *Worker {
	return &Worker{
		PaymentUsecase:        paymentUsecase,
		AppointmentRepository: appointmentRepository,
		Locker:                locker,
		InternalConfig:        internalConfig,
		Log:                   logger,
	}
}

// Start schedules the sweep and returns a stop function for shutdown.
func (w *Worker) Start(ctx context.Context) (func(), error) {
	w.cron = cron.New()
	_, err := w.cron.AddFunc(w.InternalConfig.Booking.SweeperCronSpec, func() {
		w.Sweep(ctx)
	})
	if err != nil {
		return nil, err
	}
	w.cron.Start()

	return func() {
		stopCtx := w.cron.Stop()
		<-stopCtx.Done()
	}, nil
}

// Sweep runs one pass: elect a leader, collect expired waiting appointments,
// and apply the failure transition to each. Per-appointment errors are logged
// and skipped so one bad record never stalls the rest of the batch.
func (w *Worker) Sweep(ctx context.Context) {
	acquired, lockValue, err := w.Locker.TryLock(ctx, constvars.RedisSweeperLeaderLockKey, leaderLockTTL)
	if err != nil {
		w.Log.Error("sweeper.Sweep leader election failed", zap.Error(err))
		return
	}
	if !acquired {
		return
	}
	defer func() {
		if unlockErr := w.Locker.Unlock(ctx, constvars.RedisSweeperLeaderLockKey, lockValue); unlockErr != nil {
			w.Log.Warn("sweeper.Sweep failed to release leader lock", zap.Error(unlockErr))
		}
	}()

	timeout := time.Duration(w.InternalConfig.Booking.PaymentTimeoutInMinutes) * time.Minute
	cutoff := time.Now().UTC().Add(-timeout)

	expired, err := w.AppointmentRepository.FindWaitingOlderThan(ctx, cutoff)
	if err != nil {
		w.Log.Error("sweeper.Sweep could not list expired appointments", zap.Error(err))
		return
	}
	if len(expired) == 0 {
		return
	}

	w.Log.Info("sweeper.Sweep expiring stale appointments",
		zap.Int("count", len(expired)),
		zap.Time("cutoff", cutoff),
	)

	for _, appointment := range expired {
		if err := w.PaymentUsecase.ExpirePendingPayment(ctx, appointment.ID); err != nil {
			w.Log.Error("sweeper.Sweep failed to expire appointment",
				zap.String(constvars.LoggingAppointmentIDKey, appointment.ID),
				zap.Error(err),
			)
		}
	}
}
