package schedule

import (
	"context"
	"time"

	"github.com/m04kA/CNP-SchedulerService/internal/domain"
	"github.com/m04kA/CNP-SchedulerService/pkg/types"
)

// SlotRepository интерфейс репозитория конкретных слотов
type SlotRepository interface {
	Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error)
	ListByConsultantAndDate(ctx context.Context, consultantID string, date time.Time, status *domain.SlotStatus) ([]*domain.Slot, error)
}

// TemplateRepository интерфейс репозитория recurring-шаблонов
type TemplateRepository interface {
	CreateTemplate(ctx context.Context, template *domain.RecurringTemplate) (*domain.RecurringTemplate, error)
	GetTemplateByID(ctx context.Context, id string) (*domain.RecurringTemplate, error)
	ListActiveByConsultant(ctx context.Context, consultantID string, weekday *time.Weekday) ([]*domain.RecurringTemplate, error)
	DeactivateTemplate(ctx context.Context, id, consultantID string) error
}

// TimeConverter интерфейс конвертации времени между таймзонами
type TimeConverter interface {
	ToCanonical(date time.Time, t types.TimeString, sourceTZ string) (time.Time, types.TimeString, error)
	FromCanonical(date time.Time, t types.TimeString, targetTZ string) (time.Time, types.TimeString, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
