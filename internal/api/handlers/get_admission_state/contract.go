package get_admission_state

import (
	"context"
	"time"

	"github.com/m04kA/CNP-SchedulerService/internal/admission"
)

type BookingService interface {
	GetAdmissionState(ctx context.Context, bookingID, userID string, joinedAt *time.Time) (*admission.State, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
