package schedule

import "errors"

var (
	// ErrScheduleNotFound возвращается, когда шаблон расписания не найден,
	// неактивен или не порождает occurrence на запрошенную дату
	ErrScheduleNotFound = errors.New("schedule template not found")

	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("slot not found")

	// ErrSlotConflict возвращается, когда у консультанта уже есть слот
	// на эти дату и время
	ErrSlotConflict = errors.New("slot already exists at this time")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInvalidTimeRange возвращается при некорректном временном диапазоне
	ErrInvalidTimeRange = errors.New("invalid time range")

	// ErrUnknownTimezone возвращается при неизвестном IANA-идентификаторе таймзоны
	ErrUnknownTimezone = errors.New("unknown timezone")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
