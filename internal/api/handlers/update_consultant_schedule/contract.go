package update_consultant_schedule

import (
	"context"
	"time"

	"github.com/m04kA/CNP-SchedulerService/internal/service/schedule/models"
)

type ScheduleService interface {
	CreateSlot(ctx context.Context, req *models.CreateSlotRequest) (*models.SlotResponse, error)
	CreateTemplate(ctx context.Context, req *models.CreateTemplateRequest) (*models.TemplateResponse, error)
	DeactivateTemplate(ctx context.Context, templateID, consultantID string) error
	GetConsultantSchedule(ctx context.Context, consultantID string, date *time.Time) (*models.ScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
