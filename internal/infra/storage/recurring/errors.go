package recurring

import "errors"

var (
	// ErrTemplateNotFound возвращается, когда шаблон расписания не найден
	ErrTemplateNotFound = errors.New("recurring.repository: template not found")

	// ErrOccurrenceTaken возвращается, когда occurrence уже зарезервирован
	// другим бронированием (проигран CAS на уникальном индексе)
	ErrOccurrenceTaken = errors.New("recurring.repository: occurrence is already reserved")

	// ErrReservationNotFound возвращается, когда резервация occurrence не найдена
	ErrReservationNotFound = errors.New("recurring.repository: reservation not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("recurring.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("recurring.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("recurring.repository: failed to scan row")
)
