package get_available_slots_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CNP-SchedulerService/internal/domain"
	"github.com/m04kA/CNP-SchedulerService/internal/timezone"
	"github.com/m04kA/CNP-SchedulerService/internal/usecase/get_available_slots"
	"github.com/m04kA/CNP-SchedulerService/pkg/ptr"
	"github.com/m04kA/CNP-SchedulerService/pkg/types"
)

const consultantID = "22222222-2222-2222-2222-222222222222"

// 2026-03-10 12:00 UTC = 07:00 в Лиме = 21:00 в Сеуле
var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type slotRepoMock struct {
	slots []*domain.Slot
}

func (m *slotRepoMock) ListByConsultantAndDate(_ context.Context, _ string, _ time.Time, status *domain.SlotStatus) ([]*domain.Slot, error) {
	if status == nil || *status != domain.SlotStatusAvailable {
		return nil, nil
	}
	return m.slots, nil
}

type templateRepoMock struct {
	templates []*domain.RecurringTemplate
}

func (m *templateRepoMock) ListActiveByConsultant(_ context.Context, _ string, _ *time.Weekday) ([]*domain.RecurringTemplate, error) {
	return m.templates, nil
}

type reservationsMock struct {
	reserved map[string]struct{}
}

func (m *reservationsMock) ListReservedOccurrences(_ context.Context, _ []string, _ time.Time) (map[string]struct{}, error) {
	if m.reserved == nil {
		return map[string]struct{}{}, nil
	}
	return m.reserved, nil
}

type scheduleResolverMock struct {
	occurrences map[string]*domain.Slot
}

func (m *scheduleResolverMock) OccurrenceOn(template *domain.RecurringTemplate, _ time.Time) (*domain.Slot, error) {
	return m.occurrences[template.ID], nil
}

func concreteSlot(id string, date time.Time, start, end types.TimeString) *domain.Slot {
	return &domain.Slot{
		ID:           id,
		ConsultantID: consultantID,
		Date:         date,
		StartTime:    start,
		EndTime:      end,
		Status:       domain.SlotStatusAvailable,
	}
}

func virtualSlot(templateID string, date time.Time, start, end types.TimeString) *domain.Slot {
	return &domain.Slot{
		ConsultantID: consultantID,
		Date:         date,
		StartTime:    start,
		EndTime:      end,
		Status:       domain.SlotStatusAvailable,
		TemplateID:   &templateID,
	}
}

func template(id string) *domain.RecurringTemplate {
	return &domain.RecurringTemplate{
		ID:              id,
		ConsultantID:    consultantID,
		Weekday:         time.Tuesday,
		StartTime:       "10:00",
		DurationMinutes: 60,
		Timezone:        "Asia/Seoul",
		IsActive:        true,
	}
}

func newUseCase(t *testing.T, slots *slotRepoMock, templates *templateRepoMock, reservations *reservationsMock, resolver *scheduleResolverMock) *get_available_slots.UseCase {
	t.Helper()

	converter, err := timezone.NewConverter("Asia/Seoul", fixedClock{now: testNow})
	require.NoError(t, err)

	return get_available_slots.NewUseCase(
		slots,
		templates,
		reservations,
		resolver,
		timezone.NewResolver(""),
		converter,
		domain.MinLeadTimeMinutes,
		nopLogger{},
	)
}

func TestExecute_MergesConcreteAndRecurring(t *testing.T) {
	queryDate := day(2026, 3, 11)

	uc := newUseCase(t,
		&slotRepoMock{slots: []*domain.Slot{
			concreteSlot("slot-b", queryDate, "14:00", "15:00"),
			concreteSlot("slot-a", queryDate, "09:00", "10:00"),
		}},
		&templateRepoMock{templates: []*domain.RecurringTemplate{template("tmpl-1")}},
		&reservationsMock{},
		&scheduleResolverMock{occurrences: map[string]*domain.Slot{
			"tmpl-1": virtualSlot("tmpl-1", queryDate, "10:00", "11:00"),
		}},
	)

	resp, err := uc.Execute(context.Background(), &get_available_slots.Request{
		UserID:       "user-1",
		ConsultantID: consultantID,
		Date:         queryDate,
		Timezone:     ptr.Ptr("Asia/Seoul"),
	})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 3)
	assert.Equal(t, "Asia/Seoul", resp.Timezone)

	// Отсортировано по каноническому времени начала
	assert.Equal(t, "slot-a", resp.Slots[0].Ref)
	assert.False(t, resp.Slots[0].Recurring)

	assert.Equal(t, "recurring-tmpl-1-10:00", resp.Slots[1].Ref)
	assert.True(t, resp.Slots[1].Recurring)
	assert.Equal(t, 60, resp.Slots[1].DurationMinutes)

	assert.Equal(t, "slot-b", resp.Slots[2].Ref)
}

func TestExecute_FiltersReservedOccurrences(t *testing.T) {
	queryDate := day(2026, 3, 11)

	uc := newUseCase(t,
		&slotRepoMock{},
		&templateRepoMock{templates: []*domain.RecurringTemplate{
			template("tmpl-taken"),
			template("tmpl-free"),
		}},
		&reservationsMock{reserved: map[string]struct{}{
			"tmpl-taken|10:00": {},
		}},
		&scheduleResolverMock{occurrences: map[string]*domain.Slot{
			"tmpl-taken": virtualSlot("tmpl-taken", queryDate, "10:00", "11:00"),
			"tmpl-free":  virtualSlot("tmpl-free", queryDate, "12:00", "13:00"),
		}},
	)

	resp, err := uc.Execute(context.Background(), &get_available_slots.Request{
		UserID:       "user-1",
		ConsultantID: consultantID,
		Date:         queryDate,
		Timezone:     ptr.Ptr("Asia/Seoul"),
	})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 1)
	assert.Equal(t, "recurring-tmpl-free-12:00", resp.Slots[0].Ref)
}

func TestExecute_SkipsTemplatesWithoutOccurrence(t *testing.T) {
	uc := newUseCase(t,
		&slotRepoMock{},
		&templateRepoMock{templates: []*domain.RecurringTemplate{template("tmpl-off-day")}},
		&reservationsMock{},
		&scheduleResolverMock{occurrences: map[string]*domain.Slot{}},
	)

	resp, err := uc.Execute(context.Background(), &get_available_slots.Request{
		UserID:       "user-1",
		ConsultantID: consultantID,
		Date:         day(2026, 3, 11),
		Timezone:     ptr.Ptr("Asia/Seoul"),
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_FiltersByLeadTime(t *testing.T) {
	// Запрос на сегодня: сейчас в Сеуле 21:00.
	// Слот в 21:15 отфильтрован, слот в 21:30 (ровно 30 минут) остается
	uc := newUseCase(t,
		&slotRepoMock{slots: []*domain.Slot{
			concreteSlot("slot-soon", day(2026, 3, 10), "21:15", "22:00"),
			concreteSlot("slot-ok", day(2026, 3, 10), "21:30", "22:15"),
		}},
		&templateRepoMock{},
		&reservationsMock{},
		&scheduleResolverMock{},
	)

	resp, err := uc.Execute(context.Background(), &get_available_slots.Request{
		UserID:       "user-1",
		ConsultantID: consultantID,
		Date:         day(2026, 3, 10),
		Timezone:     ptr.Ptr("Asia/Seoul"),
	})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 1)
	assert.Equal(t, "slot-ok", resp.Slots[0].Ref)
}

func TestExecute_LocalizesSlotTimes(t *testing.T) {
	// Сеул 10-го марта 23:30 = Лима 10-го марта 09:30
	uc := newUseCase(t,
		&slotRepoMock{slots: []*domain.Slot{
			concreteSlot("slot-1", day(2026, 3, 10), "23:30", "23:59"),
		}},
		&templateRepoMock{},
		&reservationsMock{},
		&scheduleResolverMock{},
	)

	resp, err := uc.Execute(context.Background(), &get_available_slots.Request{
		UserID:       "user-1",
		ConsultantID: consultantID,
		Date:         day(2026, 3, 10),
		Timezone:     ptr.Ptr("America/Lima"),
	})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 1)
	assert.Equal(t, types.TimeString("23:30"), resp.Slots[0].StartTime)
	assert.Equal(t, "2026-03-10", resp.Slots[0].LocalDate)
	assert.Equal(t, types.TimeString("09:30"), resp.Slots[0].LocalStartTime)
}

func TestExecute_Validation(t *testing.T) {
	uc := newUseCase(t, &slotRepoMock{}, &templateRepoMock{}, &reservationsMock{}, &scheduleResolverMock{})

	t.Run("missing consultant", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), &get_available_slots.Request{
			UserID: "user-1",
			Date:   day(2026, 3, 10),
		})
		assert.ErrorIs(t, err, get_available_slots.ErrInvalidInput)
	})

	t.Run("missing date", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), &get_available_slots.Request{
			UserID:       "user-1",
			ConsultantID: consultantID,
		})
		assert.ErrorIs(t, err, get_available_slots.ErrInvalidDate)
	})

	t.Run("unknown timezone", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), &get_available_slots.Request{
			UserID:       "user-1",
			ConsultantID: consultantID,
			Date:         day(2026, 3, 10),
			Timezone:     ptr.Ptr("Atlantis/Capital"),
		})
		assert.ErrorIs(t, err, get_available_slots.ErrInvalidInput)
	})
}
