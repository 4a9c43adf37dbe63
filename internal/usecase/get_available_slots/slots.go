package get_available_slots

import (
	"sort"
	"time"

	"github.com/m04kA/CNP-SchedulerService/internal/domain"
	"github.com/m04kA/CNP-SchedulerService/pkg/types"
)

// buildRef строит ссылку для бронирования слота.
// Конкретный слот адресуется своим ID, виртуальный - ссылкой
// "recurring-<templateId>-<HH:MM>" с каноническим временем начала
func buildRef(slot *domain.Slot) string {
	if slot.IsVirtual() {
		return domain.RecurringRefPrefix + *slot.TemplateID + "-" + slot.StartTime.String()
	}
	return slot.ID
}

// meetsLeadTime проверяет, что до начала слота в локальной таймзоне
// клиента осталось не меньше minLeadTimeMinutes.
// Ровно minLeadTimeMinutes - ещё допустимо
func meetsLeadTime(
	localDate time.Time,
	localStart types.TimeString,
	nowDate time.Time,
	nowTime types.TimeString,
	minLeadTimeMinutes int,
) bool {
	switch {
	case localDate.Before(nowDate):
		return false
	case localDate.After(nowDate):
		return true
	}
	return nowTime.MinutesUntil(localStart) >= minLeadTimeMinutes
}

// sortSlots сортирует слоты по каноническому времени начала.
// При совпадении времени конкретные слоты идут раньше виртуальных
func sortSlots(slots []Slot) {
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].StartTime != slots[j].StartTime {
			return slots[i].StartTime.IsBefore(slots[j].StartTime)
		}
		return !slots[i].Recurring && slots[j].Recurring
	})
}

// templateIDs собирает ID шаблонов для запроса занятых occurrences
func templateIDs(templates []*domain.RecurringTemplate) []string {
	ids := make([]string, 0, len(templates))
	for _, template := range templates {
		ids = append(ids, template.ID)
	}
	return ids
}
