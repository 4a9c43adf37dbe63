package update_consultant_schedule

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/CNP-SchedulerService/internal/api/handlers"
	"github.com/m04kA/CNP-SchedulerService/internal/api/middleware"
	"github.com/m04kA/CNP-SchedulerService/internal/service/schedule"
	"github.com/m04kA/CNP-SchedulerService/internal/service/schedule/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
	msgScheduleNotFound   = "шаблон расписания не найден"
	msgUnknownTimezone    = "неизвестная таймзона"
	msgSlotConflict       = "слот на это время уже существует"
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

// Handle PUT /api/v1/consultants/{consultantId}/schedule
// Редактировать расписание может только сам консультант
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	consultantID := vars["consultantId"]

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /consultants/{id}/schedule - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if userID != consultantID {
		h.logger.Warn("PUT /consultants/{id}/schedule - Access denied: consultant_id=%s, user_id=%s",
			consultantID, userID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	var req UpdateScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /consultants/{id}/schedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, handlers.KindInvalidInput, msgInvalidRequestBody)
		return
	}

	// Применяем изменения по порядку
	for _, templateID := range req.DeactivateTemplates {
		if err := h.service.DeactivateTemplate(r.Context(), templateID, consultantID); err != nil {
			h.respondServiceError(w, "deactivate template", templateID, err)
			return
		}
	}

	for _, template := range req.AddTemplates {
		_, err := h.service.CreateTemplate(r.Context(), &models.CreateTemplateRequest{
			ConsultantID:    consultantID,
			Weekday:         template.Weekday,
			StartTime:       template.StartTime,
			DurationMinutes: template.DurationMinutes,
			Timezone:        template.Timezone,
		})
		if err != nil {
			h.respondServiceError(w, "create template", consultantID, err)
			return
		}
	}

	for _, slot := range req.AddSlots {
		_, err := h.service.CreateSlot(r.Context(), &models.CreateSlotRequest{
			ConsultantID: consultantID,
			Date:         slot.Date,
			StartTime:    slot.StartTime,
			EndTime:      slot.EndTime,
			Timezone:     slot.Timezone,
		})
		if err != nil {
			h.respondServiceError(w, "create slot", consultantID, err)
			return
		}
	}

	// Возвращаем обновленное расписание
	result, err := h.service.GetConsultantSchedule(r.Context(), consultantID, nil)
	if err != nil {
		h.logger.Error("PUT /consultants/{id}/schedule - Failed to get updated schedule: consultant_id=%s, error=%v",
			consultantID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PUT /consultants/{id}/schedule - Schedule updated successfully: consultant_id=%s", consultantID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// respondServiceError маппит ошибки сервиса расписания на HTTP статусы
func (h *Handler) respondServiceError(w http.ResponseWriter, op, id string, err error) {
	switch {
	case errors.Is(err, schedule.ErrScheduleNotFound):
		h.logger.Warn("PUT /consultants/{id}/schedule - Template not found: %s, id=%s", op, id)
		handlers.RespondNotFound(w, handlers.KindScheduleNotFound, msgScheduleNotFound)

	case errors.Is(err, schedule.ErrUnknownTimezone):
		h.logger.Warn("PUT /consultants/{id}/schedule - Unknown timezone: %s, id=%s", op, id)
		handlers.RespondBadRequest(w, handlers.KindInvalidInput, msgUnknownTimezone)

	case errors.Is(err, schedule.ErrSlotConflict):
		h.logger.Warn("PUT /consultants/{id}/schedule - Slot conflict: %s, id=%s", op, id)
		handlers.RespondConflict(w, handlers.KindConflict, msgSlotConflict)

	case errors.Is(err, schedule.ErrInvalidInput), errors.Is(err, schedule.ErrInvalidTimeRange):
		h.logger.Warn("PUT /consultants/{id}/schedule - Invalid input: %s, id=%s, error=%v", op, id, err)
		handlers.RespondBadRequest(w, handlers.KindInvalidInput, err.Error())

	default:
		h.logger.Error("PUT /consultants/{id}/schedule - Failed to %s: id=%s, error=%v", op, id, err)
		handlers.RespondInternalError(w)
	}
}
