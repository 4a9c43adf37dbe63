package userservice

import "errors"

var (
	// ErrUserNotFound возвращается, когда пользователь не найден в UserService
	ErrUserNotFound = errors.New("user not found")

	// ErrHandleNotFound возвращается, когда handle консультанта не разрешился в ID
	ErrHandleNotFound = errors.New("consultant handle not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("userservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("userservice client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Указывает, что UserService недоступен и следует работать без данных профиля
	ErrServiceDegraded = errors.New("userservice unavailable: graceful degradation applied")
)
