package notifyservice

// Типы событий, отправляемых в NotifyService
const (
	EventBookingRequest   = "booking_request"
	EventBookingConfirmed = "booking_confirmed"
	EventBookingCancelled = "booking_cancelled"
)

// Notification модель уведомления для NotifyService
type Notification struct {
	RecipientID string         `json:"recipient_id"`
	EventType   string         `json:"event_type"`
	Payload     map[string]any `json:"payload,omitempty"`
}

// ErrorResponse модель ошибки от NotifyService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
