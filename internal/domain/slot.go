package domain

import (
	"time"

	"github.com/m04kA/CNP-SchedulerService/pkg/types"
)

// SlotStatus represents the lifecycle status of a concrete slot
type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "available"
	SlotStatusPending   SlotStatus = "pending"
	SlotStatusBooked    SlotStatus = "booked"
	SlotStatusCancelled SlotStatus = "cancelled"
)

// Slot represents a bookable unit of a consultant's calendar.
// A concrete slot is persisted with a stable ID and carries the status
// lifecycle available -> pending -> {booked, available}. A virtual slot is
// derived on demand from a recurring template: it has no ID and no mutable
// state, only a TemplateID pointing at its origin.
type Slot struct {
	ID           string // empty for virtual slots
	ConsultantID string
	Date         time.Time // canonical date, midnight UTC
	StartTime    types.TimeString
	EndTime      types.TimeString
	Status       SlotStatus
	BookingID    *string
	TemplateID   *string // set for virtual slots

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsVirtual returns true if the slot is a recurring-template occurrence
// that has not been persisted
func (s *Slot) IsVirtual() bool {
	return s.ID == ""
}

// IsBookable returns true if a booking request may target this slot
func (s *Slot) IsBookable() bool {
	return s.IsVirtual() || s.Status == SlotStatusAvailable
}

// DurationMinutes returns the slot length in minutes
func (s *Slot) DurationMinutes() int {
	return s.StartTime.MinutesUntil(s.EndTime)
}
