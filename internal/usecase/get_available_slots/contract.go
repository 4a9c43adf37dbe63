package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/CNP-SchedulerService/internal/domain"
	"github.com/m04kA/CNP-SchedulerService/pkg/types"
)

// SlotRepository интерфейс репозитория конкретных слотов
type SlotRepository interface {
	ListByConsultantAndDate(ctx context.Context, consultantID string, date time.Time, status *domain.SlotStatus) ([]*domain.Slot, error)
}

// TemplateRepository интерфейс репозитория recurring-шаблонов
type TemplateRepository interface {
	ListActiveByConsultant(ctx context.Context, consultantID string, weekday *time.Weekday) ([]*domain.RecurringTemplate, error)
}

// OccurrenceReservations интерфейс резерваций recurring occurrences
type OccurrenceReservations interface {
	ListReservedOccurrences(ctx context.Context, templateIDs []string, date time.Time) (map[string]struct{}, error)
}

// ScheduleResolver интерфейс раскрытия шаблонов в виртуальные слоты
type ScheduleResolver interface {
	OccurrenceOn(template *domain.RecurringTemplate, date time.Time) (*domain.Slot, error)
}

// TimezoneResolver интерфейс определения таймзоны по умолчанию
type TimezoneResolver interface {
	Resolve(phoneNumber, countryCode string) string
}

// TimeConverter интерфейс конвертации времени между таймзонами
type TimeConverter interface {
	FromCanonical(date time.Time, t types.TimeString, targetTZ string) (time.Time, types.TimeString, error)
	NowIn(tz string) (time.Time, types.TimeString, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
