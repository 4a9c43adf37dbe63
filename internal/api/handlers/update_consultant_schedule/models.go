package update_consultant_schedule

// NewSlot элемент запроса на создание конкретного слота
type NewSlot struct {
	Date      string `json:"date"`      // "2026-09-15"
	StartTime string `json:"startTime"` // "10:00"
	EndTime   string `json:"endTime"`   // "11:00"
	Timezone  string `json:"timezone"`  // IANA
}

// NewTemplate элемент запроса на создание еженедельного шаблона
type NewTemplate struct {
	Weekday         int    `json:"weekday"` // 0 = воскресенье ... 6 = суббота
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
	Timezone        string `json:"timezone"` // IANA
}

// UpdateScheduleRequest HTTP request model
// Все секции опциональны и применяются по порядку:
// деактивация шаблонов, создание шаблонов, создание слотов
type UpdateScheduleRequest struct {
	DeactivateTemplates []string      `json:"deactivateTemplates,omitempty"`
	AddTemplates        []NewTemplate `json:"addTemplates,omitempty"`
	AddSlots            []NewSlot     `json:"addSlots,omitempty"`
}
