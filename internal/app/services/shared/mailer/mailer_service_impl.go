package mailer

import (
	"context"
	"fmt"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/drivers/mailer"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/exceptions"
	"net/smtp"
	"sync"

	"go.uber.org/zap"
)

const appointmentConfirmationSubject = "Appointment confirmed"

var (
	mailNotifierInstance contracts.Notifier
	onceMailNotifier     sync.Once
)

type mailNotifier struct {
	Client *mailer.SMTPClient
	Log    *zap.Logger
}

// NewMailNotifier is the external send collaborator of the notification
// pipeline: it turns a NotificationEvent into a plain confirmation email.
func NewMailNotifier(client *mailer.SMTPClient, logger *zap.Logger) contracts.Notifier {
	onceMailNotifier.Do(func() {
		mailNotifierInstance = &mailNotifier{
			Client: client,
			Log:    logger,
		}
	})
	return mailNotifierInstance
}

func (s *mailNotifier) SendAppointmentConfirmation(ctx context.Context, event *models.NotificationEvent) error {
	fee := fmt.Sprintf("%.2f", event.ConsultationFee)
	if formatted, ok := event.TemplateData["formattedFee"].(string); ok {
		fee = formatted
	}

	body := fmt.Sprintf(
		"Dear %s,\r\n\r\nYour appointment with %s on %s at %s is confirmed.\r\nConsultation fee: %s\r\nAppointment reference: %s\r\n",
		event.PatientName,
		event.DoctorName,
		event.AppointmentDate,
		event.AppointmentTime,
		fee,
		event.AppointmentID,
	)

	msg := []byte(fmt.Sprintf(
		"To: %s\r\nSubject: %s\r\n\r\n%s",
		event.RecipientEmail,
		appointmentConfirmationSubject,
		body,
	))

	addr := fmt.Sprintf("%s:%d", s.Client.Host, s.Client.Port)
	if err := smtp.SendMail(addr, s.Client.Auth, s.Client.EmailSender, []string{event.RecipientEmail}, msg); err != nil {
		return exceptions.ErrSMTPSendEmail(err, s.Client.Host)
	}

	s.Log.Info("mailNotifier sent appointment confirmation",
		zap.String(constvars.LoggingEventIDKey, event.EventID),
		zap.String(constvars.LoggingAppointmentIDKey, event.AppointmentID),
	)
	return nil
}
