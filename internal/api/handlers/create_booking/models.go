package create_booking

import (
	"time"

	"github.com/m04kA/CNP-SchedulerService/internal/domain"
	createBooking "github.com/m04kA/CNP-SchedulerService/internal/usecase/create_booking"
	"github.com/m04kA/CNP-SchedulerService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	Consultant  string  `json:"consultant"`            // Canonical ID или handle консультанта
	Date        string  `json:"date,omitempty"`        // "2026-09-15"
	StartTime   string  `json:"startTime,omitempty"`   // "10:00"
	EndTime     string  `json:"endTime,omitempty"`     // "11:00"
	Duration    int     `json:"duration,omitempty"`    // Длительность в минутах
	SlotRef     *string `json:"slotRef,omitempty"`     // ID слота или "recurring-<templateId>-<HH:MM>"
	Timezone    *string `json:"timezone,omitempty"`    // IANA таймзона клиента
	Topic       string  `json:"topic"`
	Description *string `json:"description,omitempty"`
	MeetingLink *string `json:"meetingLink,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              string  `json:"id"`
	ConsultantID    string  `json:"consultantId"`
	ClientID        string  `json:"clientId"`
	Date            string  `json:"date"`
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	Topic           string  `json:"topic"`
	Description     *string `json:"description,omitempty"`
	MeetingLink     string  `json:"meetingLink,omitempty"`
	SlotID          *string `json:"slotId,omitempty"`
	TemplateID      *string `json:"templateId,omitempty"`
	LocalDate       string  `json:"localDate"`
	LocalStartTime  string  `json:"localStartTime"`
	LocalTimezone   string  `json:"localTimezone"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(clientID string) (*createBooking.Request, error) {
	req := &createBooking.Request{
		ClientID:        clientID,
		Consultant:      r.Consultant,
		DurationMinutes: r.Duration,
		SlotRef:         r.SlotRef,
		Timezone:        r.Timezone,
		Topic:           r.Topic,
		Description:     r.Description,
		MeetingLink:     r.MeetingLink,
	}

	// Дата опциональна только для ссылки на конкретный слот
	if r.Date != "" {
		date, err := time.Parse(domain.DateFormat, r.Date)
		if err != nil {
			return nil, err
		}
		req.Date = date
	}

	if r.StartTime != "" {
		startTime, err := types.NewTimeStringFromString(r.StartTime)
		if err != nil {
			return nil, err
		}
		req.StartTime = startTime
	}

	if r.EndTime != "" {
		endTime, err := types.NewTimeStringFromString(r.EndTime)
		if err != nil {
			return nil, err
		}
		req.EndTime = endTime
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:              resp.ID,
		ConsultantID:    resp.ConsultantID,
		ClientID:        resp.ClientID,
		Date:            resp.Date.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		EndTime:         resp.EndTime.String(),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		Topic:           resp.Topic,
		Description:     resp.Description,
		MeetingLink:     resp.MeetingLink,
		SlotID:          resp.SlotID,
		TemplateID:      resp.TemplateID,
		LocalDate:       resp.LocalDate.Format(domain.DateFormat),
		LocalStartTime:  resp.LocalStartTime.String(),
		LocalTimezone:   resp.LocalTimezone,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
