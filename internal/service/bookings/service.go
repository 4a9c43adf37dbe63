package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/CNP-SchedulerService/internal/admission"
	"github.com/m04kA/CNP-SchedulerService/internal/domain"
	bookingRepo "github.com/m04kA/CNP-SchedulerService/internal/infra/storage/booking"
	slotRepo "github.com/m04kA/CNP-SchedulerService/internal/infra/storage/slot"
	"github.com/m04kA/CNP-SchedulerService/internal/integrations/notifyservice"
	"github.com/m04kA/CNP-SchedulerService/internal/service/bookings/models"
)

// Service сервис для работы с существующими бронированиями:
// чтение, подтверждение, отмена и завершение
type Service struct {
	bookingRepo     BookingRepository
	slotRepo        SlotRepository
	reservations    OccurrenceReservations
	notifyClient    NotifyClient
	converter       TimeConverter
	txManager       TransactionManager
	admitWindow     time.Duration
	countdownWindow time.Duration
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований.
// Нулевые окна допуска означают значения по умолчанию
func NewService(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	reservations OccurrenceReservations,
	notifyClient NotifyClient,
	converter TimeConverter,
	txManager TransactionManager,
	admitWindow time.Duration,
	countdownWindow time.Duration,
	logger Logger,
) *Service {
	if admitWindow <= 0 {
		admitWindow = admission.DefaultAdmitWindow
	}
	if countdownWindow <= 0 {
		countdownWindow = admission.DefaultCountdownWindow
	}
	return &Service{
		bookingRepo:     bookingRepo,
		slotRepo:        slotRepo,
		reservations:    reservations,
		notifyClient:    notifyClient,
		converter:       converter,
		txManager:       txManager,
		admitWindow:     admitWindow,
		countdownWindow: countdownWindow,
		logger:          logger,
	}
}

// GetByID получает бронирование по ID
// Проверяет права доступа - бронирование видят только его клиент и консультант.
// Если указана таймзона, дополнительно заполняет локальные дату и время
func (s *Service) GetByID(ctx context.Context, id, userID string, tz *string) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s for user=%s", id, userID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%s not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if err := checkBookingAccess(booking, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%s to booking id=%s", userID, id)
		return nil, err
	}

	resp := models.FromDomainBooking(booking)
	if tz != nil {
		s.localize(resp, booking, *tz)
	}

	s.logger.Info("GetByID: successfully fetched booking id=%s", id)
	return resp, nil
}

// GetUserBookings получает историю бронирований клиента
// Опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%s, status=%v", req.UserID, req.Status)

	// Конвертируем статус из строки в domain.BookingStatus
	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%s", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByClientID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%s: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%s", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// GetConsultantBookings получает бронирования консультанта с гибкой фильтрацией
// Поддерживает фильтрацию по периоду, статусу и включению отменённых бронирований
// Доступно только самому консультанту
//
// Примеры использования:
// - Все активные бронирования: GetConsultantBookings(ctx, &GetConsultantBookingsRequest{ConsultantID: id, UserID: id})
// - Бронирования на дату: StartDate и EndDate указывают на одну дату
// - Бронирования за период: StartDate и EndDate указывают на разные даты
// - Только подтвержденные: указать Status = "confirmed"
// - Включая отменённые: IncludeInactive = true
func (s *Service) GetConsultantBookings(ctx context.Context, req *models.GetConsultantBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := fmt.Sprintf("GetConsultantBookings: fetching bookings for consultant=%s, user=%s", req.ConsultantID, req.UserID)
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeInactive {
		logMsg += ", includeInactive=true"
	}
	s.logger.Info(logMsg)

	// Календарь консультанта видит только он сам
	if req.UserID != req.ConsultantID {
		s.logger.Warn("GetConsultantBookings: access denied for user=%s to consultant=%s calendar", req.UserID, req.ConsultantID)
		return nil, ErrAccessDenied
	}

	// Конвертируем request в domain фильтр
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetConsultantBookings: invalid filter for consultant=%s: %v", req.ConsultantID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByConsultantWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetConsultantBookings: repository error for consultant=%s: %v", req.ConsultantID, err)
		return nil, fmt.Errorf("%w: GetConsultantBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetConsultantBookings: successfully fetched %d bookings for consultant=%s", len(bookings), req.ConsultantID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование и освобождает занятый слот.
// Отменить бронирование могут его клиент и его консультант.
// Отмена статуса и освобождение слота выполняются в одной транзакции
func (s *Service) Cancel(ctx context.Context, bookingID string, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%s by user=%s", bookingID, req.UserID)

	if len(req.CancellationReason) > domain.MaxCancelReasonLength {
		return fmt.Errorf("%w: cancellation reason too long", ErrInvalidInput)
	}

	// Получаем бронирование
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%s not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%s: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if err := checkBookingAccess(booking, req.UserID); err != nil {
		s.logger.Warn("Cancel: access denied for user=%s to cancel booking id=%s", req.UserID, bookingID)
		return err
	}

	// Проверяем, можно ли отменить бронирование
	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%s cannot be cancelled, status=%s", bookingID, booking.Status)
		return ErrCannotCancel
	}

	// Отменяем бронирование и освобождаем слот атомарно
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.bookingRepo.Cancel(ctx, bookingID, req.CancellationReason); err != nil {
			if errors.Is(err, bookingRepo.ErrInvalidStatus) {
				return ErrCannotCancel
			}
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		return s.releaseBookedCapacity(ctx, booking)
	})
	if err != nil {
		if errors.Is(err, ErrCannotCancel) {
			return ErrCannotCancel
		}
		s.logger.Error("Cancel: transaction failed for booking id=%s: %v", bookingID, err)
		return err
	}

	// Уведомляем вторую сторону
	recipientID := booking.ConsultantID
	if req.UserID == booking.ConsultantID {
		recipientID = booking.ClientID
	}
	s.notifyClient.SendAsync(recipientID, notifyservice.EventBookingCancelled, map[string]any{
		"booking_id": bookingID,
		"reason":     req.CancellationReason,
	})

	s.logger.Info("Cancel: successfully cancelled booking id=%s", bookingID)
	return nil
}

// Confirm подтверждает бронирование.
// Доступно только консультанту бронирования. Переводит бронирование
// pending -> confirmed и concrete-слот pending -> booked в одной транзакции
func (s *Service) Confirm(ctx context.Context, bookingID, userID string) error {
	s.logger.Info("Confirm: confirming booking id=%s by user=%s", bookingID, userID)

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Confirm: booking id=%s not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("Confirm: repository error for booking id=%s: %v", bookingID, err)
		return fmt.Errorf("%w: Confirm - repository error: %v", ErrInternal, err)
	}

	// Подтверждает только консультант
	if booking.ConsultantID != userID {
		s.logger.Warn("Confirm: access denied for user=%s to confirm booking id=%s", userID, bookingID)
		return ErrAccessDenied
	}

	if !booking.CanBeConfirmed() {
		s.logger.Warn("Confirm: booking id=%s cannot be confirmed, status=%s", bookingID, booking.Status)
		return ErrCannotConfirm
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.bookingRepo.UpdateStatus(ctx, bookingID, domain.StatusPending, domain.StatusConfirmed); err != nil {
			if errors.Is(err, bookingRepo.ErrInvalidStatus) {
				return ErrCannotConfirm
			}
			return fmt.Errorf("%w: Confirm - repository error: %v", ErrInternal, err)
		}

		// Фиксируем concrete-слот; у recurring occurrence запись резервации
		// уже удерживает время
		if booking.SlotID != nil {
			if err := s.slotRepo.MarkBooked(ctx, *booking.SlotID); err != nil {
				if errors.Is(err, slotRepo.ErrSlotNotAvailable) {
					return ErrCannotConfirm
				}
				return fmt.Errorf("%w: Confirm - slot repository error: %v", ErrInternal, err)
			}
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCannotConfirm) {
			return ErrCannotConfirm
		}
		s.logger.Error("Confirm: transaction failed for booking id=%s: %v", bookingID, err)
		return err
	}

	// Уведомляем клиента о подтверждении
	s.notifyClient.SendAsync(booking.ClientID, notifyservice.EventBookingConfirmed, map[string]any{
		"booking_id": bookingID,
	})

	s.logger.Info("Confirm: successfully confirmed booking id=%s", bookingID)
	return nil
}

// Complete завершает бронирование после окончания сессии.
// Доступно только консультанту и только после времени окончания
func (s *Service) Complete(ctx context.Context, bookingID, userID string) error {
	s.logger.Info("Complete: completing booking id=%s by user=%s", bookingID, userID)

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Complete: booking id=%s not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("Complete: repository error for booking id=%s: %v", bookingID, err)
		return fmt.Errorf("%w: Complete - repository error: %v", ErrInternal, err)
	}

	if booking.ConsultantID != userID {
		s.logger.Warn("Complete: access denied for user=%s to complete booking id=%s", userID, bookingID)
		return ErrAccessDenied
	}

	// Завершить можно только подтверждённую и уже закончившуюся сессию
	sessionEnd := booking.SessionEnd(s.converter.CanonicalLocation())
	if s.converter.NowCanonical().Before(sessionEnd) {
		s.logger.Warn("Complete: booking id=%s session has not ended yet", bookingID)
		return ErrSessionNotEnded
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, domain.StatusConfirmed, domain.StatusCompleted); err != nil {
		if errors.Is(err, bookingRepo.ErrInvalidStatus) {
			s.logger.Warn("Complete: booking id=%s cannot be completed, status=%s", bookingID, booking.Status)
			return ErrInvalidStatus
		}
		s.logger.Error("Complete: repository error for booking id=%s: %v", bookingID, err)
		return fmt.Errorf("%w: Complete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Complete: successfully completed booking id=%s", bookingID)
	return nil
}

// GetAdmissionState вычисляет состояние допуска к сессии бронирования.
// Доступно обеим сторонам бронирования. joinedAt - момент, когда клиент
// присоединился к сессии (nil, если еще не присоединялся)
func (s *Service) GetAdmissionState(ctx context.Context, bookingID, userID string, joinedAt *time.Time) (*admission.State, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetAdmissionState: booking id=%s not found", bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetAdmissionState: repository error for booking id=%s: %v", bookingID, err)
		return nil, fmt.Errorf("%w: GetAdmissionState - repository error: %v", ErrInternal, err)
	}

	if err := checkBookingAccess(booking, userID); err != nil {
		s.logger.Warn("GetAdmissionState: access denied for user=%s to booking id=%s", userID, bookingID)
		return nil, err
	}

	state := admission.Resolve(
		s.converter.NowCanonical(),
		admission.Schedule{
			Start:           booking.SessionStart(s.converter.CanonicalLocation()),
			DurationMinutes: booking.DurationMinutes,
		},
		joinedAt,
		s.admitWindow,
		s.countdownWindow,
	)

	return &state, nil
}

// Вспомогательные методы

// releaseBookedCapacity освобождает занятую бронированием ёмкость:
// concrete-слот возвращается в available, резервация occurrence удаляется
func (s *Service) releaseBookedCapacity(ctx context.Context, booking *domain.Booking) error {
	switch {
	case booking.SlotID != nil:
		if err := s.slotRepo.Release(ctx, *booking.SlotID); err != nil {
			return fmt.Errorf("%w: release slot %s: %v", ErrInternal, *booking.SlotID, err)
		}
	case booking.IsRecurring():
		if err := s.reservations.ReleaseOccurrence(ctx, *booking.TemplateID, booking.Date, booking.StartTime); err != nil {
			return fmt.Errorf("%w: release occurrence of template %s: %v", ErrInternal, *booking.TemplateID, err)
		}
	}
	return nil
}

// localize заполняет локальные дату и время ответа в указанной таймзоне.
// Ошибка конвертации не ломает ответ: канонические времена остаются,
// локальные поля просто не заполняются
func (s *Service) localize(resp *models.BookingResponse, booking *domain.Booking, tz string) {
	localDate, localStart, err := s.converter.FromCanonical(booking.Date, booking.StartTime, tz)
	if err != nil {
		s.logger.Warn("localize: failed to convert booking id=%s times to tz=%s: %v", booking.ID, tz, err)
		return
	}

	dateStr := localDate.Format(domain.DateFormat)
	startStr := localStart.String()
	resp.LocalDate = &dateStr
	resp.LocalStartTime = &startStr
	resp.LocalTimezone = &tz
}

// checkBookingAccess проверяет, что пользователь является стороной бронирования
func checkBookingAccess(booking *domain.Booking, userID string) error {
	if booking.ClientID == userID || booking.ConsultantID == userID {
		return nil
	}
	return ErrAccessDenied
}
