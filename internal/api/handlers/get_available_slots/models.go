package get_available_slots

import (
	"github.com/m04kA/CNP-SchedulerService/internal/domain"
	getAvailableSlots "github.com/m04kA/CNP-SchedulerService/internal/usecase/get_available_slots"
)

// SlotResponse HTTP модель доступного слота
type SlotResponse struct {
	Ref             string `json:"ref"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	DurationMinutes int    `json:"durationMinutes"`
	Recurring       bool   `json:"recurring"`
	LocalDate       string `json:"localDate"`
	LocalStartTime  string `json:"localStartTime"`
}

// AvailableSlotsResponse HTTP модель ответа со списком слотов
type AvailableSlotsResponse struct {
	ConsultantID string         `json:"consultantId"`
	Date         string         `json:"date"`
	Timezone     string         `json:"timezone"`
	Slots        []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]SlotResponse, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = SlotResponse{
			Ref:             slot.Ref,
			StartTime:       slot.StartTime.String(),
			EndTime:         slot.EndTime.String(),
			DurationMinutes: slot.DurationMinutes,
			Recurring:       slot.Recurring,
			LocalDate:       slot.LocalDate,
			LocalStartTime:  slot.LocalStartTime.String(),
		}
	}

	return &AvailableSlotsResponse{
		ConsultantID: resp.ConsultantID,
		Date:         resp.Date.Format(domain.DateFormat),
		Timezone:     resp.Timezone,
		Slots:        slots,
	}
}
