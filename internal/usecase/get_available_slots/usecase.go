package get_available_slots

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/CNP-SchedulerService/internal/domain"
	recurringRepo "github.com/m04kA/CNP-SchedulerService/internal/infra/storage/recurring"
	"github.com/m04kA/CNP-SchedulerService/pkg/types"
)

// UseCase use case для получения доступных слотов консультанта.
// Выдача объединяет два источника: сохраненные available-слоты и
// виртуальные occurrences активных recurring-шаблонов за вычетом уже
// занятых. Слоты, до начала которых осталось меньше минимального
// времени упреждения в таймзоне клиента, в выдачу не попадают
type UseCase struct {
	slotRepo         SlotRepository
	templateRepo     TemplateRepository
	reservations     OccurrenceReservations
	scheduleResolver ScheduleResolver
	tzResolver       TimezoneResolver
	converter        TimeConverter
	minLeadTime      int
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	templateRepo TemplateRepository,
	reservations OccurrenceReservations,
	scheduleResolver ScheduleResolver,
	tzResolver TimezoneResolver,
	converter TimeConverter,
	minLeadTimeMinutes int,
	logger Logger,
) *UseCase {
	if minLeadTimeMinutes <= 0 {
		minLeadTimeMinutes = domain.MinLeadTimeMinutes
	}
	return &UseCase{
		slotRepo:         slotRepo,
		templateRepo:     templateRepo,
		reservations:     reservations,
		scheduleResolver: scheduleResolver,
		tzResolver:       tzResolver,
		converter:        converter,
		minLeadTime:      minLeadTimeMinutes,
		logger:           logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: user=%s, consultant=%s, date=%s",
		req.UserID, req.ConsultantID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Определяем таймзону для локального отображения и фильтра упреждения
	displayTZ := uc.tzResolver.Resolve("", "")
	if req.Timezone != nil && *req.Timezone != "" {
		displayTZ = *req.Timezone
	}

	nowDate, nowTime, err := uc.converter.NowIn(displayTZ)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get current time in tz=%s: %v", displayTZ, err)
		return nil, fmt.Errorf("%w: timezone conversion failed: %v", ErrInternal, err)
	}

	// 3. Получаем сохраненные available-слоты на дату
	availableStatus := domain.SlotStatusAvailable
	concrete, err := uc.slotRepo.ListByConsultantAndDate(ctx, req.ConsultantID, req.Date, &availableStatus)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list slots: %v", err)
		return nil, fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
	}

	// 4. Получаем активные recurring-шаблоны и занятые occurrences
	templates, err := uc.templateRepo.ListActiveByConsultant(ctx, req.ConsultantID, nil)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list templates: %v", err)
		return nil, fmt.Errorf("%w: failed to list templates: %v", ErrInternal, err)
	}

	reserved, err := uc.reservations.ListReservedOccurrences(ctx, templateIDs(templates), req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list reserved occurrences: %v", err)
		return nil, fmt.Errorf("%w: failed to list reserved occurrences: %v", ErrInternal, err)
	}

	// 5. Собираем выдачу
	slots := make([]Slot, 0, len(concrete)+len(templates))

	for _, slot := range concrete {
		entry, ok, err := uc.buildEntry(slot, displayTZ, nowDate, nowTime)
		if err != nil {
			return nil, err
		}
		if ok {
			slots = append(slots, entry)
		}
	}

	for _, template := range templates {
		slot, err := uc.scheduleResolver.OccurrenceOn(template, req.Date)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to expand template=%s: %v", template.ID, err)
			return nil, fmt.Errorf("%w: failed to expand template: %v", ErrInternal, err)
		}
		if slot == nil {
			// Шаблон не порождает occurrence на эту дату
			continue
		}

		if _, taken := reserved[recurringRepo.OccurrenceKey(template.ID, slot.StartTime)]; taken {
			continue
		}

		entry, ok, err := uc.buildEntry(slot, displayTZ, nowDate, nowTime)
		if err != nil {
			return nil, err
		}
		if ok {
			slots = append(slots, entry)
		}
	}

	sortSlots(slots)

	uc.logger.Info("GetAvailableSlots: returning %d slots for consultant=%s, date=%s",
		len(slots), req.ConsultantID, req.Date.Format(domain.DateFormat))

	return &Response{
		ConsultantID: req.ConsultantID,
		Date:         req.Date,
		Timezone:     displayTZ,
		Slots:        slots,
	}, nil
}

// buildEntry конвертирует domain слот в элемент выдачи.
// Возвращает ok=false, если слот отфильтрован по времени упреждения
func (uc *UseCase) buildEntry(
	slot *domain.Slot,
	displayTZ string,
	nowDate time.Time,
	nowTime types.TimeString,
) (Slot, bool, error) {
	localDate, localStart, err := uc.converter.FromCanonical(slot.Date, slot.StartTime, displayTZ)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to convert slot time to tz=%s: %v", displayTZ, err)
		return Slot{}, false, fmt.Errorf("%w: timezone conversion failed: %v", ErrInternal, err)
	}

	if !meetsLeadTime(localDate, localStart, nowDate, nowTime, uc.minLeadTime) {
		return Slot{}, false, nil
	}

	return Slot{
		Ref:             buildRef(slot),
		StartTime:       slot.StartTime,
		EndTime:         slot.EndTime,
		DurationMinutes: slot.DurationMinutes(),
		Recurring:       slot.IsVirtual(),
		LocalDate:       localDate.Format(domain.DateFormat),
		LocalStartTime:  localStart,
	}, true, nil
}
