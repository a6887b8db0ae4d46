package models

import "time"

// NotificationEvent is the immutable payload published to the notification
// queue once a payment settles. It carries everything the external sender
// needs so the consumer never has to reach back into storage.
type NotificationEvent struct {
	EventID          string                 `json:"eventId"`
	AppointmentID    string                 `json:"appointmentId"`
	RecipientEmail   string                 `json:"recipient"`
	DoctorName       string                 `json:"doctorName"`
	PatientName      string                 `json:"patientName"`
	AppointmentDate  string                 `json:"appointmentDate"`
	AppointmentTime  string                 `json:"appointmentTime"`
	ConsultationFee  float64                `json:"consultationFee"`
	CreatedAt        time.Time              `json:"createdAt"`
	TemplateData     map[string]interface{} `json:"extraRenderingData,omitempty"`
}
