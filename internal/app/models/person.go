package models

import "time"

// Person holds contact identity shared by patients and doctors. Relations are
// id-based; nothing holds a back-reference to a person.
type Person struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Phone     string    `json:"phone,omitempty" bson:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

type Doctor struct {
	ID              string    `json:"id" bson:"_id"`
	PersonID        string    `json:"person_id" bson:"person_id"`
	Specialty       string    `json:"specialty" bson:"specialty"`
	ConsultationFee float64   `json:"consultation_fee" bson:"consultation_fee"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
}
