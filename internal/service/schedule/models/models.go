package models

import (
	"time"

	"github.com/m04kA/CNP-SchedulerService/internal/domain"
)

// Request модели

// CreateSlotRequest запрос на создание конкретного слота
type CreateSlotRequest struct {
	ConsultantID string `json:"consultantId"`
	Date         string `json:"date"`      // "2026-09-15"
	StartTime    string `json:"startTime"` // "10:00"
	EndTime      string `json:"endTime"`   // "11:00"
	Timezone     string `json:"timezone"`  // IANA, таймзона указанных времен
}

// CreateTemplateRequest запрос на создание еженедельного шаблона
type CreateTemplateRequest struct {
	ConsultantID    string `json:"consultantId"`
	Weekday         int    `json:"weekday"`   // 0 = воскресенье ... 6 = суббота
	StartTime       string `json:"startTime"` // "10:00"
	DurationMinutes int    `json:"durationMinutes"`
	Timezone        string `json:"timezone"` // IANA, таймзона шаблона
}

// Response модели

// SlotResponse ответ с данными конкретного слота
type SlotResponse struct {
	ID        string  `json:"id"`
	Date      string  `json:"date"`
	StartTime string  `json:"startTime"`
	EndTime   string  `json:"endTime"`
	Status    string  `json:"status"`
	BookingID *string `json:"bookingId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TemplateResponse ответ с данными еженедельного шаблона
type TemplateResponse struct {
	ID              string `json:"id"`
	Weekday         int    `json:"weekday"`
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
	Timezone        string `json:"timezone"`
	IsActive        bool   `json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ScheduleResponse ответ с полным расписанием консультанта
type ScheduleResponse struct {
	ConsultantID string             `json:"consultantId"`
	Templates    []TemplateResponse `json:"templates"`
	Slots        []SlotResponse     `json:"slots"`
}

// Методы конвертации

// FromDomainSlot конвертирует domain модель слота в DTO
func FromDomainSlot(s *domain.Slot) *SlotResponse {
	if s == nil {
		return nil
	}

	return &SlotResponse{
		ID:        s.ID,
		Date:      s.Date.Format(domain.DateFormat),
		StartTime: s.StartTime.String(),
		EndTime:   s.EndTime.String(),
		Status:    string(s.Status),
		BookingID: s.BookingID,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// FromDomainTemplate конвертирует domain модель шаблона в DTO
func FromDomainTemplate(t *domain.RecurringTemplate) *TemplateResponse {
	if t == nil {
		return nil
	}

	return &TemplateResponse{
		ID:              t.ID,
		Weekday:         int(t.Weekday),
		StartTime:       t.StartTime.String(),
		DurationMinutes: t.DurationMinutes,
		Timezone:        t.Timezone,
		IsActive:        t.IsActive,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

// FromDomainSchedule конвертирует шаблоны и слоты в ответ с расписанием
func FromDomainSchedule(consultantID string, templates []*domain.RecurringTemplate, slots []*domain.Slot) *ScheduleResponse {
	resp := &ScheduleResponse{
		ConsultantID: consultantID,
		Templates:    make([]TemplateResponse, 0, len(templates)),
		Slots:        make([]SlotResponse, 0, len(slots)),
	}

	for _, template := range templates {
		if templateResp := FromDomainTemplate(template); templateResp != nil {
			resp.Templates = append(resp.Templates, *templateResp)
		}
	}
	for _, slot := range slots {
		if slotResp := FromDomainSlot(slot); slotResp != nil {
			resp.Slots = append(resp.Slots, *slotResp)
		}
	}

	return resp
}
