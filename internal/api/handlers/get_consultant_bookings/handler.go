package get_consultant_bookings

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/CNP-SchedulerService/internal/api/handlers"
	"github.com/m04kA/CNP-SchedulerService/internal/api/middleware"
	"github.com/m04kA/CNP-SchedulerService/internal/service/bookings"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
	msgInvalidFilter = "некорректные параметры фильтрации"
	msgForbidden     = "доступ запрещен"
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

// Handle GET /api/v1/consultants/{consultantId}/bookings
// Query-параметры: startDate, endDate, status, includeInactive
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	consultantID := vars["consultantId"]

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /consultants/{id}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	req, err := parseQuery(r.URL.Query(), userID, consultantID)
	if err != nil {
		h.logger.Warn("GET /consultants/{id}/bookings - Invalid query: consultant_id=%s, error=%v", consultantID, err)
		handlers.RespondBadRequest(w, handlers.KindInvalidInput, msgInvalidFilter)
		return
	}

	result, err := h.service.GetConsultantBookings(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /consultants/{id}/bookings - Access denied: consultant_id=%s, user_id=%s",
				consultantID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /consultants/{id}/bookings - Invalid filter: consultant_id=%s", consultantID)
			handlers.RespondBadRequest(w, handlers.KindInvalidInput, msgInvalidFilter)

		default:
			h.logger.Error("GET /consultants/{id}/bookings - Failed to get bookings: consultant_id=%s, error=%v",
				consultantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /consultants/{id}/bookings - Retrieved %d bookings: consultant_id=%s",
		len(result.Bookings), consultantID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
