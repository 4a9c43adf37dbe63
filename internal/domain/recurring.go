package domain

import (
	"time"

	"github.com/m04kA/CNP-SchedulerService/pkg/types"
)

// RecurringTemplate represents a weekly availability template.
// The template itself is not bookable; each week it yields one virtual
// occurrence on Weekday at StartTime, expressed in the consultant's
// Timezone and converted to canonical time on expansion.
type RecurringTemplate struct {
	ID              string
	ConsultantID    string
	Weekday         time.Weekday // 0 = Sunday ... 6 = Saturday
	StartTime       types.TimeString
	DurationMinutes int
	Timezone        string // IANA identifier of the template's wall-clock times
	IsActive        bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EndTime returns the template's end-of-occurrence time
func (t *RecurringTemplate) EndTime() (types.TimeString, error) {
	return t.StartTime.AddMinutes(t.DurationMinutes)
}

// OccurrenceReservation is the serialization record for bookings made
// against a recurring occurrence. The UNIQUE(template, date, start_time)
// constraint on this record is the virtual-slot counterpart of the
// concrete slot's status compare-and-swap.
type OccurrenceReservation struct {
	ID             int64
	TemplateID     string
	OccurrenceDate time.Time // canonical date, midnight UTC
	StartTime      types.TimeString
	BookingID      string
	CreatedAt      time.Time
}
