package get_admission_state

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/CNP-SchedulerService/internal/api/handlers"
	"github.com/m04kA/CNP-SchedulerService/internal/api/middleware"
	"github.com/m04kA/CNP-SchedulerService/internal/service/bookings"
)

const (
	msgMissingUserID    = "отсутствует ID пользователя"
	msgNotFound         = "бронирование не найдено"
	msgForbidden        = "доступ запрещен"
	msgInvalidJoinedAt  = "некорректный формат joinedAt, ожидается RFC 3339"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/{bookingId}/admission
// Опциональный query-параметр joinedAt (RFC 3339) - момент присоединения
// клиента к сессии
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID := vars["bookingId"]

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /bookings/{id}/admission - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var joinedAt *time.Time
	if joinedAtStr := r.URL.Query().Get("joinedAt"); joinedAtStr != "" {
		parsed, err := time.Parse(time.RFC3339, joinedAtStr)
		if err != nil {
			h.logger.Warn("GET /bookings/{id}/admission - Invalid joinedAt: %v", err)
			handlers.RespondBadRequest(w, handlers.KindInvalidInput, msgInvalidJoinedAt)
			return
		}
		joinedAt = &parsed
	}

	state, err := h.service.GetAdmissionState(r.Context(), bookingID, userID, joinedAt)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("GET /bookings/{id}/admission - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, handlers.KindNotFound, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /bookings/{id}/admission - Access denied: booking_id=%s, user_id=%s",
				bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /bookings/{id}/admission - Failed to resolve state: booking_id=%s, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /bookings/{id}/admission - State resolved: booking_id=%s, phase=%s", bookingID, state.Phase)
	handlers.RespondJSON(w, http.StatusOK, FromState(state))
}
