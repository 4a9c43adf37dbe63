package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Значения поля kind ошибки API. Клиенты ветвятся по kind,
// message - локализованный текст для отображения
const (
	KindMissingInput     = "MissingInputError"
	KindTooSoon          = "TooSoonError"
	KindScheduleNotFound = "ScheduleNotFoundError"
	KindInvalidReference = "InvalidReferenceFormatError"
	KindSlotUnavailable  = "SlotUnavailableError"
	KindPersistence      = "PersistenceError"

	KindInvalidInput = "InvalidInputError"
	KindUnauthorized = "UnauthorizedError"
	KindAccessDenied = "AccessDeniedError"
	KindNotFound     = "NotFoundError"
	KindConflict     = "ConflictError"
)

// ErrorResponse стандартный формат ошибки API
type ErrorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// DecodeJSON декодирует тело запроса в переданную структуру
func DecodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("failed to decode request body: %w", err)
	}

	return nil
}

// RespondJSON отправляет JSON ответ с указанным статус-кодом
func RespondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if payload != nil {
		// Ошибку кодирования уже не вернуть клиенту, заголовки отправлены
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// RespondError отправляет ошибку с указанным статус-кодом, видом и сообщением
func RespondError(w http.ResponseWriter, statusCode int, kind, message string) {
	RespondJSON(w, statusCode, ErrorResponse{
		Kind:    kind,
		Message: message,
	})
}

// RespondBadRequest отправляет ошибку 400 Bad Request
func RespondBadRequest(w http.ResponseWriter, kind, message string) {
	RespondError(w, http.StatusBadRequest, kind, message)
}

// RespondUnauthorized отправляет ошибку 401 Unauthorized
func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, KindUnauthorized, message)
}

// RespondForbidden отправляет ошибку 403 Forbidden
func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, KindAccessDenied, message)
}

// RespondNotFound отправляет ошибку 404 Not Found
func RespondNotFound(w http.ResponseWriter, kind, message string) {
	RespondError(w, http.StatusNotFound, kind, message)
}

// RespondConflict отправляет ошибку 409 Conflict
func RespondConflict(w http.ResponseWriter, kind, message string) {
	RespondError(w, http.StatusConflict, kind, message)
}

// RespondInternalError отправляет ошибку 500 Internal Server Error
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, KindPersistence, "внутренняя ошибка сервера")
}
