package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/CNP-SchedulerService/internal/api/handlers"
	"github.com/m04kA/CNP-SchedulerService/internal/api/middleware"
	createBooking "github.com/m04kA/CNP-SchedulerService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateTime    = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidSlotRef     = "некорректная ссылка на слот"
	msgTooSoon            = "до начала сессии осталось слишком мало времени"
	msgScheduleNotFound   = "расписание консультанта не найдено"
	msgSlotNotAvailable   = "выбранный временной слот недоступен"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Получаем userID из контекста (через middleware Auth)
	clientID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, handlers.KindInvalidInput, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(clientID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, handlers.KindInvalidInput, msgInvalidDateTime)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		// Обработка ошибок use case
		switch {
		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: client_id=%s, consultant=%s", clientID, req.Consultant)
			handlers.RespondConflict(w, handlers.KindSlotUnavailable, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrScheduleNotFound):
			h.logger.Warn("POST /bookings - Schedule not found: client_id=%s, consultant=%s", clientID, req.Consultant)
			handlers.RespondNotFound(w, handlers.KindScheduleNotFound, msgScheduleNotFound)

		case errors.Is(err, createBooking.ErrTooSoon):
			h.logger.Warn("POST /bookings - Too soon: client_id=%s, consultant=%s", clientID, req.Consultant)
			handlers.RespondBadRequest(w, handlers.KindTooSoon, msgTooSoon)

		case errors.Is(err, createBooking.ErrInvalidSlotReference):
			h.logger.Warn("POST /bookings - Invalid slot reference: client_id=%s", clientID)
			handlers.RespondBadRequest(w, handlers.KindInvalidReference, msgInvalidSlotRef)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: client_id=%s, error=%v", clientID, err)
			handlers.RespondBadRequest(w, handlers.KindMissingInput, err.Error())

		default:
			h.logger.Error("POST /bookings - Failed to create booking: client_id=%s, consultant=%s, error=%v",
				clientID, req.Consultant, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%s, client_id=%s, consultant_id=%s",
		result.ID, clientID, result.ConsultantID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
