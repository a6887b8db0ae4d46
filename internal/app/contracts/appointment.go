package contracts

import (
	"context"
	"medibook-service/internal/app/models"
	"time"
)

type AppointmentRepository interface {
	CreateAppointment(ctx context.Context, appointment *models.Appointment) (*models.Appointment, error)
	FindAppointmentByID(ctx context.Context, appointmentID string) (*models.Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, appointmentID string, status models.AppointmentStatus) error
	DeleteAppointment(ctx context.Context, appointmentID string) error
	FindWaitingOlderThan(ctx context.Context, cutoff time.Time) ([]models.Appointment, error)
}
