package domain

// Default scheduling values
const (
	DefaultDurationMinutes = 60
	MinLeadTimeMinutes     = 30
)

// Business validation constants
const (
	MinDurationMinutes    = 15
	MaxDurationMinutes    = 240
	MaxTopicLength        = 200
	MaxDescriptionLength  = 2000
	MaxCancelReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses список статусов, не занимающих слот
// Используется при фильтрации активных бронирований
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
}

// ActiveStatuses список статусов бронирований, занимающих слот
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}
