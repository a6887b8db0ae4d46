package constvars

const (
	SuccessCreateSlot           = "successfully created slot"
	SuccessGetSlots             = "successfully retrieved slots"
	SuccessCreateBooking        = "successfully reserved slot, waiting for payment"
	SuccessGetAppointment       = "successfully retrieved appointment"
	SuccessCancelAppointment    = "successfully cancelled appointment"
	SuccessProcessCallback      = "successfully processed payment callback"
	SuccessAcknowledgedCallback = "callback acknowledged"
)
