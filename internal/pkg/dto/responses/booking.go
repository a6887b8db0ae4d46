package responses

// BookingResponse is returned from a successful reservation and carries the
// opaque checkout payload the gateway's client SDK consumes.
type BookingResponse struct {
	AppointmentID   string                 `json:"appointment_id"`
	GatewayOrderID  string                 `json:"gateway_order_id"`
	Amount          float64                `json:"amount"`
	Currency        string                 `json:"currency"`
	CheckoutOptions map[string]interface{} `json:"checkout_options"`
}

type AppointmentDetails struct {
	AppointmentID   string  `json:"appointment_id"`
	Status          string  `json:"status"`
	PaymentStatus   string  `json:"payment_status"`
	Amount          float64 `json:"amount"`
	DoctorName      string  `json:"doctor_name"`
	AppointmentDate string  `json:"appointment_date"`
	AppointmentTime string  `json:"appointment_time"`
}
