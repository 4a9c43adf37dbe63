package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/CNP-SchedulerService/internal/domain"
	recurringRepo "github.com/m04kA/CNP-SchedulerService/internal/infra/storage/recurring"
	slotRepo "github.com/m04kA/CNP-SchedulerService/internal/infra/storage/slot"
	"github.com/m04kA/CNP-SchedulerService/internal/service/schedule/models"
	"github.com/m04kA/CNP-SchedulerService/internal/timezone"
	"github.com/m04kA/CNP-SchedulerService/pkg/types"
)

// Service сервис для работы с расписанием консультанта:
// конкретные слоты, еженедельные шаблоны и их виртуальные occurrences
type Service struct {
	slotRepo     SlotRepository
	templateRepo TemplateRepository
	converter    TimeConverter
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	slotRepo SlotRepository,
	templateRepo TemplateRepository,
	converter TimeConverter,
	logger Logger,
) *Service {
	return &Service{
		slotRepo:     slotRepo,
		templateRepo: templateRepo,
		converter:    converter,
		logger:       logger,
	}
}

// CreateSlot создает конкретный слот в календаре консультанта.
// Времена запроса указаны в req.Timezone и конвертируются в каноническую
// таймзону перед сохранением
func (s *Service) CreateSlot(ctx context.Context, req *models.CreateSlotRequest) (*models.SlotResponse, error) {
	s.logger.Info("CreateSlot: creating slot for consultant=%s, date=%s, start=%s", req.ConsultantID, req.Date, req.StartTime)

	// 1. Валидируем входные данные
	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		s.logger.Warn("CreateSlot: invalid date=%s: %v", req.Date, err)
		return nil, fmt.Errorf("%w: invalid date format, expected YYYY-MM-DD", ErrInvalidInput)
	}

	startTime, err := types.NewTimeStringFromString(req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start time format, expected HH:MM", ErrInvalidInput)
	}
	endTime, err := types.NewTimeStringFromString(req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end time format, expected HH:MM", ErrInvalidInput)
	}

	if !endTime.IsAfter(startTime) {
		return nil, fmt.Errorf("%w: end time must be after start time", ErrInvalidTimeRange)
	}
	durationMinutes := startTime.MinutesUntil(endTime)
	if durationMinutes < domain.MinDurationMinutes || durationMinutes > domain.MaxDurationMinutes {
		return nil, fmt.Errorf("%w: slot duration must be between %d and %d minutes",
			ErrInvalidTimeRange, domain.MinDurationMinutes, domain.MaxDurationMinutes)
	}

	// 2. Конвертируем времена слота в каноническую таймзону.
	// Дата окончания вычисляется от канонического начала, чтобы слот,
	// пересекающий местную полночь, не разъехался по датам
	canonDate, canonStart, err := s.converter.ToCanonical(date, startTime, req.Timezone)
	if err != nil {
		if errors.Is(err, timezone.ErrUnknownTimezone) {
			s.logger.Warn("CreateSlot: unknown timezone=%s", req.Timezone)
			return nil, fmt.Errorf("%w: %s", ErrUnknownTimezone, req.Timezone)
		}
		return nil, fmt.Errorf("%w: CreateSlot - timezone conversion: %v", ErrInternal, err)
	}

	canonEnd, err := canonStart.AddMinutes(durationMinutes)
	if err != nil {
		return nil, fmt.Errorf("%w: slot crosses midnight in canonical time", ErrInvalidTimeRange)
	}

	// 3. Сохраняем слот
	slot := &domain.Slot{
		ID:           uuid.NewString(),
		ConsultantID: req.ConsultantID,
		Date:         canonDate,
		StartTime:    canonStart,
		EndTime:      canonEnd,
		Status:       domain.SlotStatusAvailable,
	}

	created, err := s.slotRepo.Create(ctx, slot)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotAlreadyExists) {
			s.logger.Warn("CreateSlot: slot already exists for consultant=%s at %s %s",
				req.ConsultantID, canonDate.Format(domain.DateFormat), canonStart)
			return nil, ErrSlotConflict
		}
		s.logger.Error("CreateSlot: repository error for consultant=%s: %v", req.ConsultantID, err)
		return nil, fmt.Errorf("%w: CreateSlot - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateSlot: created slot id=%s for consultant=%s", created.ID, req.ConsultantID)
	return models.FromDomainSlot(created), nil
}

// CreateTemplate создает еженедельный шаблон доступности
func (s *Service) CreateTemplate(ctx context.Context, req *models.CreateTemplateRequest) (*models.TemplateResponse, error) {
	s.logger.Info("CreateTemplate: creating template for consultant=%s, weekday=%d, start=%s",
		req.ConsultantID, req.Weekday, req.StartTime)

	// 1. Валидируем входные данные
	if req.Weekday < 0 || req.Weekday > 6 {
		return nil, fmt.Errorf("%w: weekday must be between 0 (Sunday) and 6 (Saturday)", ErrInvalidInput)
	}

	startTime, err := types.NewTimeStringFromString(req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start time format, expected HH:MM", ErrInvalidInput)
	}

	if req.DurationMinutes < domain.MinDurationMinutes || req.DurationMinutes > domain.MaxDurationMinutes {
		return nil, fmt.Errorf("%w: duration must be between %d and %d minutes",
			ErrInvalidTimeRange, domain.MinDurationMinutes, domain.MaxDurationMinutes)
	}

	if _, err := time.LoadLocation(req.Timezone); err != nil {
		s.logger.Warn("CreateTemplate: unknown timezone=%s", req.Timezone)
		return nil, fmt.Errorf("%w: %s", ErrUnknownTimezone, req.Timezone)
	}

	// 2. Сохраняем шаблон
	template := &domain.RecurringTemplate{
		ID:              uuid.NewString(),
		ConsultantID:    req.ConsultantID,
		Weekday:         time.Weekday(req.Weekday),
		StartTime:       startTime,
		DurationMinutes: req.DurationMinutes,
		Timezone:        req.Timezone,
		IsActive:        true,
	}

	created, err := s.templateRepo.CreateTemplate(ctx, template)
	if err != nil {
		s.logger.Error("CreateTemplate: repository error for consultant=%s: %v", req.ConsultantID, err)
		return nil, fmt.Errorf("%w: CreateTemplate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateTemplate: created template id=%s for consultant=%s", created.ID, req.ConsultantID)
	return models.FromDomainTemplate(created), nil
}

// GetConsultantSchedule возвращает расписание консультанта:
// активные шаблоны и, если указана дата, конкретные слоты на неё
func (s *Service) GetConsultantSchedule(ctx context.Context, consultantID string, date *time.Time) (*models.ScheduleResponse, error) {
	s.logger.Info("GetConsultantSchedule: fetching schedule for consultant=%s", consultantID)

	templates, err := s.templateRepo.ListActiveByConsultant(ctx, consultantID, nil)
	if err != nil {
		s.logger.Error("GetConsultantSchedule: templates repository error for consultant=%s: %v", consultantID, err)
		return nil, fmt.Errorf("%w: GetConsultantSchedule - repository error: %v", ErrInternal, err)
	}

	var slots []*domain.Slot
	if date != nil {
		slots, err = s.slotRepo.ListByConsultantAndDate(ctx, consultantID, *date, nil)
		if err != nil {
			s.logger.Error("GetConsultantSchedule: slots repository error for consultant=%s: %v", consultantID, err)
			return nil, fmt.Errorf("%w: GetConsultantSchedule - repository error: %v", ErrInternal, err)
		}
	}

	return models.FromDomainSchedule(consultantID, templates, slots), nil
}

// DeactivateTemplate деактивирует шаблон консультанта.
// Существующие бронирования по его occurrences сохраняются
func (s *Service) DeactivateTemplate(ctx context.Context, templateID, consultantID string) error {
	s.logger.Info("DeactivateTemplate: deactivating template=%s for consultant=%s", templateID, consultantID)

	if err := s.templateRepo.DeactivateTemplate(ctx, templateID, consultantID); err != nil {
		if errors.Is(err, recurringRepo.ErrTemplateNotFound) {
			s.logger.Warn("DeactivateTemplate: template=%s not found for consultant=%s", templateID, consultantID)
			return ErrScheduleNotFound
		}
		s.logger.Error("DeactivateTemplate: repository error for template=%s: %v", templateID, err)
		return fmt.Errorf("%w: DeactivateTemplate - repository error: %v", ErrInternal, err)
	}

	return nil
}

// Expand раскрывает ссылку на recurring occurrence в виртуальный слот.
// Проверяет, что шаблон существует, активен, принадлежит консультанту и
// действительно порождает occurrence с указанным каноническим временем
// на указанную каноническую дату
func (s *Service) Expand(ctx context.Context, templateID, consultantID string, date time.Time, startTime types.TimeString) (*domain.Slot, error) {
	template, err := s.templateRepo.GetTemplateByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, recurringRepo.ErrTemplateNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("%w: Expand - repository error: %v", ErrInternal, err)
	}

	if !template.IsActive || template.ConsultantID != consultantID {
		return nil, ErrScheduleNotFound
	}

	slot, err := s.OccurrenceOn(template, date)
	if err != nil {
		return nil, err
	}
	if slot == nil || slot.StartTime != startTime {
		// Шаблон не порождает occurrence с таким временем на эту дату:
		// либо день недели не совпадает, либо время в ссылке устарело
		return nil, ErrScheduleNotFound
	}

	return slot, nil
}

// OccurrenceOn возвращает виртуальный слот шаблона, попадающий на указанную
// каноническую дату, или nil, если occurrence на неё не приходится.
// Из-за сдвига таймзон локальная дата occurrence может отличаться от
// канонической на день в обе стороны, поэтому проверяем соседние даты
func (s *Service) OccurrenceOn(template *domain.RecurringTemplate, date time.Time) (*domain.Slot, error) {
	for delta := -1; delta <= 1; delta++ {
		localDate := date.AddDate(0, 0, delta)
		if localDate.Weekday() != template.Weekday {
			continue
		}

		canonDate, canonStart, err := s.converter.ToCanonical(localDate, template.StartTime, template.Timezone)
		if err != nil {
			if errors.Is(err, timezone.ErrUnknownTimezone) {
				return nil, fmt.Errorf("%w: template %s has unknown timezone %s", ErrInternal, template.ID, template.Timezone)
			}
			return nil, fmt.Errorf("%w: OccurrenceOn - timezone conversion: %v", ErrInternal, err)
		}

		if !canonDate.Equal(date) {
			continue
		}

		canonEnd, err := canonStart.AddMinutes(template.DurationMinutes)
		if err != nil {
			// Occurrence пересекает каноническую полночь, не выставляем его
			s.logger.Warn("OccurrenceOn: template=%s occurrence at %s crosses canonical midnight, skipping",
				template.ID, canonStart)
			return nil, nil
		}

		return &domain.Slot{
			ConsultantID: template.ConsultantID,
			Date:         canonDate,
			StartTime:    canonStart,
			EndTime:      canonEnd,
			Status:       domain.SlotStatusAvailable,
			TemplateID:   &template.ID,
		}, nil
	}

	return nil, nil
}
