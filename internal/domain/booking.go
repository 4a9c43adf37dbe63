package domain

import (
	"time"

	"github.com/m04kA/CNP-SchedulerService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// Booking represents a confirmed consultation reservation.
// Date, StartTime and EndTime are always stored in the canonical timezone;
// requester-local values exist only transiently during request resolution.
type Booking struct {
	ID              string
	ConsultantID    string
	ClientID        string
	Date            time.Time // canonical date, midnight UTC
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	Topic           string
	Description     string
	MeetingLink     string
	Status          BookingStatus

	// Originating slot reference: exactly one of SlotID (concrete slot)
	// or TemplateID (recurring occurrence) is set
	SlotID     *string
	TemplateID *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still occupies its time slot
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeConfirmed returns true if the booking is awaiting confirmation
func (b *Booking) CanBeConfirmed() bool {
	return b.Status == StatusPending
}

// IsRecurring returns true if the booking was made against a recurring
// template occurrence rather than a concrete slot
func (b *Booking) IsRecurring() bool {
	return b.TemplateID != nil
}

// SessionStart returns the canonical instant at which the session starts
func (b *Booking) SessionStart(loc *time.Location) time.Time {
	return time.Date(
		b.Date.Year(), b.Date.Month(), b.Date.Day(),
		b.StartTime.Hour(), b.StartTime.Minute(), 0, 0, loc,
	)
}

// SessionEnd returns the canonical instant at which the session ends
func (b *Booking) SessionEnd(loc *time.Location) time.Time {
	return b.SessionStart(loc).Add(time.Duration(b.DurationMinutes) * time.Minute)
}

// ConsultantBookingsFilter фильтр для получения бронирований консультанта
type ConsultantBookingsFilter struct {
	ConsultantID    string         // Обязательный параметр
	StartDate       *time.Time     // Начало периода (опционально)
	EndDate         *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отмененные бронирования
}
