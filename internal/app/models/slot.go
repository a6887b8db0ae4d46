package models

import "time"

// Slot is a bookable time range published by a doctor. Booked is true if and
// only if exactly one appointment referencing the slot is waiting or
// confirmed; the reservation and settlement flows are the only writers.
type Slot struct {
	ID        string    `json:"id" bson:"_id"`
	DoctorID  string    `json:"doctor_id" bson:"doctor_id"`
	Date      string    `json:"date" bson:"date"`
	StartTime string    `json:"start_time" bson:"start_time"`
	EndTime   string    `json:"end_time" bson:"end_time"`
	Booked    bool      `json:"booked" bson:"booked"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
