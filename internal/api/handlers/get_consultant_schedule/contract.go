package get_consultant_schedule

import (
	"context"
	"time"

	"github.com/m04kA/CNP-SchedulerService/internal/service/schedule/models"
)

type ScheduleService interface {
	GetConsultantSchedule(ctx context.Context, consultantID string, date *time.Time) (*models.ScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
