package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInvalidSlotReference возвращается при некорректной ссылке на recurring-слот
	ErrInvalidSlotReference = errors.New("create_booking: invalid slot reference")

	// ErrTooSoon возвращается, когда до начала сессии осталось меньше
	// минимального времени упреждения или запрошенное время уже в прошлом
	ErrTooSoon = errors.New("create_booking: booking start is too soon")

	// ErrScheduleNotFound возвращается, когда шаблон расписания не найден,
	// неактивен или не порождает occurrence на запрошенную дату
	ErrScheduleNotFound = errors.New("create_booking: schedule not found")

	// ErrSlotNotAvailable возвращается, когда выбранный слот недоступен
	// (не существует, уже занят или проигран конкурентному запросу)
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
