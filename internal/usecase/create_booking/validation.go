package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/CNP-SchedulerService/internal/domain"
	"github.com/m04kA/CNP-SchedulerService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ClientID == "" {
		return fmt.Errorf("%w: clientID is required", ErrInvalidInput)
	}

	if req.Consultant == "" {
		return fmt.Errorf("%w: consultant is required", ErrInvalidInput)
	}

	if req.Topic == "" {
		return fmt.Errorf("%w: topic is required", ErrInvalidInput)
	}
	if len(req.Topic) > domain.MaxTopicLength {
		return fmt.Errorf("%w: topic must be at most %d characters", ErrInvalidInput, domain.MaxTopicLength)
	}

	if req.Description != nil && len(*req.Description) > domain.MaxDescriptionLength {
		return fmt.Errorf("%w: description must be at most %d characters", ErrInvalidInput, domain.MaxDescriptionLength)
	}

	if req.DurationMinutes < 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidInput)
	}

	if req.SlotRef != nil {
		if *req.SlotRef == "" {
			return fmt.Errorf("%w: slotRef must not be empty", ErrInvalidInput)
		}
		return nil
	}

	// Без ссылки на слот обязательны дата и время
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if req.StartTime == "" {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	return nil
}

// resolveRequestedDuration вычисляет запрошенную длительность сессии.
// Приоритет: endTime (должен быть позже startTime), затем duration,
// затем дефолтная длительность. Если указаны и endTime, и duration,
// они обязаны согласоваться
func resolveRequestedDuration(req *Request, defaultMinutes int) (int, error) {
	if req.EndTime == "" {
		if req.DurationMinutes > 0 {
			return req.DurationMinutes, nil
		}
		return defaultMinutes, nil
	}

	if err := req.EndTime.Validate(); err != nil {
		return 0, fmt.Errorf("%w: invalid endTime format: %v", ErrInvalidInput, err)
	}

	minutes := req.StartTime.MinutesUntil(req.EndTime)
	if minutes <= 0 {
		return 0, fmt.Errorf("%w: endTime must be after startTime", ErrInvalidInput)
	}
	if req.DurationMinutes > 0 && req.DurationMinutes != minutes {
		return 0, fmt.Errorf("%w: duration does not match endTime", ErrInvalidInput)
	}

	return minutes, nil
}

// validateLeadTime проверяет минимальное время упреждения бронирования.
// Обе точки сравнения выражены в локальной таймзоне клиента с точностью
// до минуты: ровно minLeadTimeMinutes до начала - ещё допустимо
func validateLeadTime(
	localDate time.Time,
	localStart types.TimeString,
	nowDate time.Time,
	nowTime types.TimeString,
	minLeadTimeMinutes int,
) error {
	switch {
	case localDate.Before(nowDate):
		return fmt.Errorf("%w: requested time is in the past", ErrTooSoon)
	case localDate.After(nowDate):
		return nil
	}

	// Тот же день: сравниваем минуты от полуночи
	if nowTime.MinutesUntil(localStart) < minLeadTimeMinutes {
		return fmt.Errorf("%w: must book at least %d minutes in advance", ErrTooSoon, minLeadTimeMinutes)
	}

	return nil
}
