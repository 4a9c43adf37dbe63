package bookings

import (
	"context"
	"time"

	"github.com/m04kA/CNP-SchedulerService/internal/domain"
	"github.com/m04kA/CNP-SchedulerService/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	GetByClientID(ctx context.Context, clientID string, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByConsultantWithFilter(ctx context.Context, filter domain.ConsultantBookingsFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id string, fromStatus, toStatus domain.BookingStatus) error
	Cancel(ctx context.Context, id string, reason string) error
}

// SlotRepository интерфейс репозитория конкретных слотов
type SlotRepository interface {
	MarkBooked(ctx context.Context, slotID string) error
	Release(ctx context.Context, slotID string) error
}

// OccurrenceReservations интерфейс резерваций recurring occurrences
type OccurrenceReservations interface {
	ReleaseOccurrence(ctx context.Context, templateID string, date time.Time, startTime types.TimeString) error
}

// NotifyClient интерфейс клиента для NotifyService
type NotifyClient interface {
	SendAsync(recipientID, eventType string, payload map[string]any)
}

// TimeConverter интерфейс канонического времени
type TimeConverter interface {
	NowCanonical() time.Time
	CanonicalLocation() *time.Location
	FromCanonical(date time.Time, t types.TimeString, targetTZ string) (time.Time, types.TimeString, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
