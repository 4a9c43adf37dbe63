package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/CNP-SchedulerService/internal/domain"
	"github.com/m04kA/CNP-SchedulerService/internal/integrations/userservice"
	"github.com/m04kA/CNP-SchedulerService/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// SlotRepository интерфейс репозитория конкретных слотов
type SlotRepository interface {
	FindAvailable(ctx context.Context, consultantID string, date time.Time, startTime types.TimeString) (*domain.Slot, error)
	GetAvailableByID(ctx context.Context, id, consultantID string) (*domain.Slot, error)
	MarkPending(ctx context.Context, slotID, bookingID string) error
	Release(ctx context.Context, slotID string) error
}

// OccurrenceReservations интерфейс резерваций recurring occurrences
type OccurrenceReservations interface {
	ReserveOccurrence(ctx context.Context, templateID string, date time.Time, startTime types.TimeString, bookingID string) error
	ReleaseOccurrence(ctx context.Context, templateID string, date time.Time, startTime types.TimeString) error
}

// ScheduleResolver интерфейс раскрытия recurring-ссылок в виртуальные слоты
type ScheduleResolver interface {
	Expand(ctx context.Context, templateID, consultantID string, date time.Time, startTime types.TimeString) (*domain.Slot, error)
}

// UserServiceClient интерфейс клиента для UserService
type UserServiceClient interface {
	GetProfileWithGracefulDegradation(ctx context.Context, userID string) (*userservice.Profile, error)
	ResolveHandle(ctx context.Context, handle string) (string, error)
}

// NotifyClient интерфейс клиента для NotifyService
type NotifyClient interface {
	SendAsync(recipientID, eventType string, payload map[string]any)
}

// TimezoneResolver интерфейс определения таймзоны клиента по профилю
type TimezoneResolver interface {
	Resolve(phoneNumber, countryCode string) string
}

// TimeConverter интерфейс конвертации времени между таймзонами
type TimeConverter interface {
	ToCanonical(date time.Time, t types.TimeString, sourceTZ string) (time.Time, types.TimeString, error)
	FromCanonical(date time.Time, t types.TimeString, targetTZ string) (time.Time, types.TimeString, error)
	NowIn(tz string) (time.Time, types.TimeString, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
