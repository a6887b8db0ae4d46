package models

import "time"

type AppointmentStatus string

const (
	AppointmentWaiting   AppointmentStatus = "waiting"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentFailed    AppointmentStatus = "failed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// Terminal reports whether no further transition may be applied to an
// appointment in this status.
func (s AppointmentStatus) Terminal() bool {
	return s == AppointmentFailed || s == AppointmentCancelled
}

// Appointment is a patient's claim on a slot. SlotID is immutable after
// creation and appointments are never deleted, only transitioned.
type Appointment struct {
	ID        string            `json:"id" bson:"_id"`
	PatientID string            `json:"patient_id" bson:"patient_id"`
	SlotID    string            `json:"slot_id" bson:"slot_id"`
	Status    AppointmentStatus `json:"status" bson:"status"`
	CreatedAt time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time         `json:"updated_at" bson:"updated_at"`
}
