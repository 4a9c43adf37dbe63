package get_available_slots

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/CNP-SchedulerService/internal/api/handlers"
	"github.com/m04kA/CNP-SchedulerService/internal/api/middleware"
	"github.com/m04kA/CNP-SchedulerService/internal/domain"
	getAvailableSlots "github.com/m04kA/CNP-SchedulerService/internal/usecase/get_available_slots"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
	msgInvalidDate   = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidInput  = "некорректные параметры запроса"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/consultants/{consultantId}/slots
// Query-параметры: date (обязательный), tz (опциональный)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	consultantID := vars["consultantId"]

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /consultants/{id}/slots - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	date, err := time.Parse(domain.DateFormat, r.URL.Query().Get("date"))
	if err != nil {
		h.logger.Warn("GET /consultants/{id}/slots - Invalid date: %v", err)
		handlers.RespondBadRequest(w, handlers.KindInvalidInput, msgInvalidDate)
		return
	}

	req := &getAvailableSlots.Request{
		UserID:       userID,
		ConsultantID: consultantID,
		Date:         date,
	}
	if tz := r.URL.Query().Get("tz"); tz != "" {
		req.Timezone = &tz
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrInvalidInput),
			errors.Is(err, getAvailableSlots.ErrInvalidDate):
			h.logger.Warn("GET /consultants/{id}/slots - Invalid input: consultant_id=%s, error=%v", consultantID, err)
			handlers.RespondBadRequest(w, handlers.KindInvalidInput, msgInvalidInput)

		default:
			h.logger.Error("GET /consultants/{id}/slots - Failed to get slots: consultant_id=%s, error=%v",
				consultantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /consultants/{id}/slots - Retrieved %d slots: consultant_id=%s, date=%s",
		len(result.Slots), consultantID, date.Format(domain.DateFormat))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
