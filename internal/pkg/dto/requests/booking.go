package requests

type CreateBookingRequest struct {
	SlotID string `json:"slot_id" validate:"required"`
}
