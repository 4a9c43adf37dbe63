package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/CNP-SchedulerService/internal/domain"
	recurringRepo "github.com/m04kA/CNP-SchedulerService/internal/infra/storage/recurring"
	slotRepo "github.com/m04kA/CNP-SchedulerService/internal/infra/storage/slot"
	"github.com/m04kA/CNP-SchedulerService/internal/integrations/notifyservice"
	scheduleService "github.com/m04kA/CNP-SchedulerService/internal/service/schedule"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo      BookingRepository
	slotRepo         SlotRepository
	reservations     OccurrenceReservations
	scheduleResolver ScheduleResolver
	userClient       UserServiceClient
	notifyClient     NotifyClient
	tzResolver       TimezoneResolver
	converter        TimeConverter
	minLeadTime      int
	defaultDuration  int
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	reservations OccurrenceReservations,
	scheduleResolver ScheduleResolver,
	userClient UserServiceClient,
	notifyClient NotifyClient,
	tzResolver TimezoneResolver,
	converter TimeConverter,
	minLeadTimeMinutes int,
	defaultDurationMinutes int,
	logger Logger,
) *UseCase {
	if minLeadTimeMinutes <= 0 {
		minLeadTimeMinutes = domain.MinLeadTimeMinutes
	}
	if defaultDurationMinutes <= 0 {
		defaultDurationMinutes = domain.DefaultDurationMinutes
	}
	return &UseCase{
		bookingRepo:      bookingRepo,
		slotRepo:         slotRepo,
		reservations:     reservations,
		scheduleResolver: scheduleResolver,
		userClient:       userClient,
		notifyClient:     notifyClient,
		tzResolver:       tzResolver,
		converter:        converter,
		minLeadTime:      minLeadTimeMinutes,
		defaultDuration:  defaultDurationMinutes,
		logger:           logger,
	}
}

// Execute выполняет use case создания бронирования
//
// Конкурентный доступ к слоту разрешается без длинной транзакции:
// конкретный слот захватывается compare-and-swap переводом
// available -> pending, recurring occurrence - вставкой под уникальный
// индекс. Если после захвата не удалось сохранить бронирование,
// выполняется компенсирующее освобождение
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: client=%s, consultant=%s, date=%s, time=%s",
		req.ClientID, req.Consultant, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Нормализуем ссылку на консультанта в canonical ID
	consultantID := uc.resolveConsultant(ctx, req.Consultant)

	// 3. Определяем таймзону клиента
	clientTZ := uc.resolveClientTimezone(ctx, req)

	nowDate, nowTime, err := uc.converter.NowIn(clientTZ)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get current time in tz=%s: %v", clientTZ, err)
		return nil, fmt.Errorf("%w: timezone conversion failed: %v", ErrInternal, err)
	}

	// 4. Разбираем ссылку на слот, если она указана
	var slotRef *domain.SlotReference
	if req.SlotRef != nil {
		parsed, err := domain.ParseSlotReference(*req.SlotRef)
		if err != nil {
			uc.logger.Warn("CreateBooking: invalid slot reference %q: %v", *req.SlotRef, err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidSlotReference, err)
		}
		slotRef = parsed
	}

	// 5. Прямой запрос времени: упреждение проверяем до поиска слота,
	// запрошенное время уже выражено в таймзоне клиента
	var wantDuration int
	if slotRef == nil {
		if err := validateLeadTime(req.Date, req.StartTime, nowDate, nowTime, uc.minLeadTime); err != nil {
			uc.logger.Warn("CreateBooking: lead time validation failed for client=%s: %v", req.ClientID, err)
			return nil, err
		}

		wantDuration, err = resolveRequestedDuration(req, uc.defaultDuration)
		if err != nil {
			uc.logger.Warn("CreateBooking: invalid requested duration for client=%s: %v", req.ClientID, err)
			return nil, err
		}
	}

	// 6. Находим целевой слот (конкретный или виртуальный)
	slot, err := uc.resolveSlot(ctx, req, consultantID, clientTZ, slotRef)
	if err != nil {
		return nil, err
	}

	// Прямой запрос адресует слот парой дата+время, поэтому запрошенная
	// длительность обязана совпасть с длительностью найденного слота
	if slotRef == nil && slot.DurationMinutes() != wantDuration {
		uc.logger.Warn("CreateBooking: requested duration %d does not match slot duration %d for consultant=%s",
			wantDuration, slot.DurationMinutes(), consultantID)
		return nil, ErrSlotNotAvailable
	}

	// 7. Локальные времена слота для ответа; для выбора по ссылке здесь же
	// проверяем упреждение - время стало известно только из слота
	localDate, localStart, err := uc.converter.FromCanonical(slot.Date, slot.StartTime, clientTZ)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to convert slot time to client tz=%s: %v", clientTZ, err)
		return nil, fmt.Errorf("%w: timezone conversion failed: %v", ErrInternal, err)
	}

	if slotRef != nil {
		if err := validateLeadTime(localDate, localStart, nowDate, nowTime, uc.minLeadTime); err != nil {
			uc.logger.Warn("CreateBooking: lead time validation failed for client=%s: %v", req.ClientID, err)
			return nil, err
		}
	}

	// 8. Захватываем слот
	bookingID := uuid.NewString()
	if err := uc.claimSlot(ctx, slot, bookingID); err != nil {
		return nil, err
	}

	// 9. Сохраняем бронирование; при неудаче освобождаем захваченный слот
	booking := &domain.Booking{
		ID:              bookingID,
		ConsultantID:    consultantID,
		ClientID:        req.ClientID,
		Date:            slot.Date,
		StartTime:       slot.StartTime,
		EndTime:         slot.EndTime,
		DurationMinutes: slot.DurationMinutes(),
		Topic:           req.Topic,
		Status:          domain.StatusPending,
		SlotID:          slotIDPtr(slot),
		TemplateID:      slot.TemplateID,
	}
	if req.Description != nil {
		booking.Description = *req.Description
	}
	if req.MeetingLink != nil {
		booking.MeetingLink = *req.MeetingLink
	}

	created, err := uc.bookingRepo.Create(ctx, booking)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to create booking: %v", err)
		uc.compensateClaim(ctx, slot, bookingID)
		return nil, fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%s for client=%s", created.ID, req.ClientID)

	// 10. Уведомляем консультанта о новом запросе
	uc.notifyClient.SendAsync(consultantID, notifyservice.EventBookingRequest, map[string]any{
		"booking_id": created.ID,
		"client_id":  created.ClientID,
		"date":       created.Date.Format(domain.DateFormat),
		"start_time": created.StartTime.String(),
		"topic":      created.Topic,
	})

	// Конвертируем в response
	resp := &Response{
		ID:              created.ID,
		ConsultantID:    created.ConsultantID,
		ClientID:        created.ClientID,
		Date:            created.Date,
		StartTime:       created.StartTime,
		EndTime:         created.EndTime,
		DurationMinutes: created.DurationMinutes,
		Status:          string(created.Status),
		Topic:           created.Topic,
		Description:     req.Description,
		MeetingLink:     created.MeetingLink,
		SlotID:          created.SlotID,
		TemplateID:      created.TemplateID,
		LocalDate:       localDate,
		LocalStartTime:  localStart,
		LocalTimezone:   clientTZ,
		CreatedAt:       created.CreatedAt,
		UpdatedAt:       created.UpdatedAt,
	}
	return resp, nil
}

// resolveConsultant нормализует ссылку на консультанта в canonical ID.
// Handle разрешается через UserService; при недоступности сервиса или
// неизвестном handle используется исходное значение, чтобы дальнейшие
// проверки (поиск слота, расписания) дали осмысленный отказ
func (uc *UseCase) resolveConsultant(ctx context.Context, consultant string) string {
	ref := domain.NewConsultantRef(consultant)
	if ref.IsDirect() {
		return ref.Raw()
	}

	resolved, err := uc.userClient.ResolveHandle(ctx, ref.Raw())
	if err != nil {
		uc.logger.Warn("CreateBooking: failed to resolve consultant handle %q, using as-is: %v", ref.Raw(), err)
		return ref.Raw()
	}

	uc.logger.Info("CreateBooking: resolved consultant handle %q to id=%s", ref.Raw(), resolved)
	return resolved
}

// resolveClientTimezone определяет таймзону клиента.
// Приоритет: явная таймзона запроса, затем профиль (телефон и страна),
// затем дефолтная таймзона resolver-а. Ошибки профиля не блокируют
// бронирование
func (uc *UseCase) resolveClientTimezone(ctx context.Context, req *Request) string {
	if req.Timezone != nil && *req.Timezone != "" {
		return *req.Timezone
	}

	profile, err := uc.userClient.GetProfileWithGracefulDegradation(ctx, req.ClientID)
	if err != nil {
		uc.logger.Warn("CreateBooking: profile unavailable for client=%s, using default timezone: %v", req.ClientID, err)
		return uc.tzResolver.Resolve("", "")
	}

	return uc.tzResolver.Resolve(profile.PhoneNumber, profile.CountryCode)
}

// resolveSlot находит целевой слот бронирования
func (uc *UseCase) resolveSlot(
	ctx context.Context,
	req *Request,
	consultantID, clientTZ string,
	slotRef *domain.SlotReference,
) (*domain.Slot, error) {
	// Без ссылки ищем свободный конкретный слот по каноническому времени
	if slotRef == nil {
		canonDate, canonStart, err := uc.converter.ToCanonical(req.Date, req.StartTime, clientTZ)
		if err != nil {
			uc.logger.Warn("CreateBooking: failed to convert requested time from tz=%s: %v", clientTZ, err)
			return nil, fmt.Errorf("%w: invalid timezone %q", ErrInvalidInput, clientTZ)
		}

		slot, err := uc.slotRepo.FindAvailable(ctx, consultantID, canonDate, canonStart)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				uc.logger.Warn("CreateBooking: no available slot for consultant=%s at %s %s",
					consultantID, canonDate.Format(domain.DateFormat), canonStart)
				return nil, ErrSlotNotAvailable
			}
			uc.logger.Error("CreateBooking: slot lookup failed: %v", err)
			return nil, fmt.Errorf("%w: slot lookup failed: %v", ErrInternal, err)
		}
		return slot, nil
	}

	switch slotRef.Kind {
	case domain.ReferenceConcrete:
		slot, err := uc.slotRepo.GetAvailableByID(ctx, slotRef.SlotID, consultantID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				uc.logger.Warn("CreateBooking: slot id=%s not available for consultant=%s", slotRef.SlotID, consultantID)
				return nil, ErrSlotNotAvailable
			}
			uc.logger.Error("CreateBooking: slot lookup failed: %v", err)
			return nil, fmt.Errorf("%w: slot lookup failed: %v", ErrInternal, err)
		}
		return slot, nil

	case domain.ReferenceRecurring:
		if req.Date.IsZero() {
			return nil, fmt.Errorf("%w: date is required for a recurring slot reference", ErrInvalidInput)
		}

		slot, err := uc.scheduleResolver.Expand(ctx, slotRef.TemplateID, consultantID, req.Date, slotRef.StartTime)
		if err != nil {
			if errors.Is(err, scheduleService.ErrScheduleNotFound) {
				uc.logger.Warn("CreateBooking: template=%s does not yield occurrence at %s %s for consultant=%s",
					slotRef.TemplateID, req.Date.Format(domain.DateFormat), slotRef.StartTime, consultantID)
				return nil, ErrScheduleNotFound
			}
			uc.logger.Error("CreateBooking: schedule expansion failed: %v", err)
			return nil, fmt.Errorf("%w: schedule expansion failed: %v", ErrInternal, err)
		}
		return slot, nil

	default:
		return nil, fmt.Errorf("%w: unsupported slot reference kind", ErrInvalidSlotReference)
	}
}

// claimSlot захватывает слот под бронирование
func (uc *UseCase) claimSlot(ctx context.Context, slot *domain.Slot, bookingID string) error {
	if !slot.IsBookable() {
		uc.logger.Warn("CreateBooking: slot id=%s is not bookable, status=%s", slot.ID, slot.Status)
		return ErrSlotNotAvailable
	}

	if slot.IsVirtual() {
		err := uc.reservations.ReserveOccurrence(ctx, *slot.TemplateID, slot.Date, slot.StartTime, bookingID)
		if err != nil {
			if errors.Is(err, recurringRepo.ErrOccurrenceTaken) {
				uc.logger.Warn("CreateBooking: occurrence of template=%s at %s %s already taken",
					*slot.TemplateID, slot.Date.Format(domain.DateFormat), slot.StartTime)
				return ErrSlotNotAvailable
			}
			uc.logger.Error("CreateBooking: failed to reserve occurrence: %v", err)
			return fmt.Errorf("%w: failed to reserve occurrence: %v", ErrInternal, err)
		}
		return nil
	}

	if err := uc.slotRepo.MarkPending(ctx, slot.ID, bookingID); err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotAvailable) {
			uc.logger.Warn("CreateBooking: lost slot id=%s to a concurrent request", slot.ID)
			return ErrSlotNotAvailable
		}
		uc.logger.Error("CreateBooking: failed to mark slot pending: %v", err)
		return fmt.Errorf("%w: failed to mark slot pending: %v", ErrInternal, err)
	}
	return nil
}

// compensateClaim освобождает захваченный слот после неудачного сохранения
// бронирования. Неудача самой компенсации только логируется: исходная
// ошибка важнее, а зависший pending-слот виден в данных и чинится руками
func (uc *UseCase) compensateClaim(ctx context.Context, slot *domain.Slot, bookingID string) {
	if slot.IsVirtual() {
		if err := uc.reservations.ReleaseOccurrence(ctx, *slot.TemplateID, slot.Date, slot.StartTime); err != nil {
			uc.logger.Error("CreateBooking: COMPENSATION FAILED for occurrence template=%s date=%s time=%s booking=%s: %v",
				*slot.TemplateID, slot.Date.Format(domain.DateFormat), slot.StartTime, bookingID, err)
		}
		return
	}

	if err := uc.slotRepo.Release(ctx, slot.ID); err != nil {
		uc.logger.Error("CreateBooking: COMPENSATION FAILED for slot id=%s booking=%s: %v", slot.ID, bookingID, err)
	}
}

// slotIDPtr возвращает указатель на ID слота для конкретного слота
// и nil для виртуального
func slotIDPtr(slot *domain.Slot) *string {
	if slot.IsVirtual() {
		return nil
	}
	id := slot.ID
	return &id
}
