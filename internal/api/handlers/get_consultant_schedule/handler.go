package get_consultant_schedule

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/CNP-SchedulerService/internal/api/handlers"
	"github.com/m04kA/CNP-SchedulerService/internal/api/middleware"
	"github.com/m04kA/CNP-SchedulerService/internal/domain"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
	msgInvalidDate   = "некорректный формат даты, ожидается YYYY-MM-DD"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/consultants/{consultantId}/schedule
// Опциональный query-параметр date добавляет конкретные слоты на дату
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	consultantID := vars["consultantId"]

	// Получаем userID из контекста (через middleware Auth)
	if _, ok := middleware.GetUserID(r.Context()); !ok {
		h.logger.Warn("GET /consultants/{id}/schedule - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var date *time.Time
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		parsed, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			h.logger.Warn("GET /consultants/{id}/schedule - Invalid date: %v", err)
			handlers.RespondBadRequest(w, handlers.KindInvalidInput, msgInvalidDate)
			return
		}
		date = &parsed
	}

	result, err := h.service.GetConsultantSchedule(r.Context(), consultantID, date)
	if err != nil {
		h.logger.Error("GET /consultants/{id}/schedule - Failed to get schedule: consultant_id=%s, error=%v",
			consultantID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /consultants/{id}/schedule - Retrieved schedule: consultant_id=%s, templates=%d, slots=%d",
		consultantID, len(result.Templates), len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, result)
}
