package create_booking

import (
	"time"

	"github.com/m04kA/CNP-SchedulerService/pkg/types"
)

// Request модель запроса на создание бронирования
//
// Адресация слота работает в двух режимах:
//   - SlotRef == nil: клиент просит время напрямую, Date и StartTime
//     указаны в его локальной таймзоне
//   - SlotRef != nil: клиент выбрал слот из выдачи доступных слотов,
//     Date канонична; для recurring-ссылки она задает occurrence,
//     для конкретного слота дата берется из самого слота
type Request struct {
	ClientID        string           // ID клиента
	Consultant      string           // Canonical ID консультанта или его handle
	Date            time.Time        // Дата бронирования (без времени)
	StartTime       types.TimeString // Время начала (например, "10:00")
	EndTime         types.TimeString // Время окончания (опционально)
	DurationMinutes int              // Длительность в минутах (опционально)
	SlotRef         *string          // Ссылка на слот: ID слота или "recurring-<templateId>-<HH:MM>"
	Timezone        *string          // Явная таймзона клиента, IANA (опционально)
	Topic           string           // Тема консультации
	Description     *string          // Описание запроса (опционально)
	MeetingLink     *string          // Ссылка на видеовстречу (опционально)
}

// Response модель ответа с созданным бронированием
// Date, StartTime и EndTime в канонической таймзоне,
// Local* поля - в таймзоне клиента
type Response struct {
	ID              string           // ID созданного бронирования
	ConsultantID    string           // Canonical ID консультанта
	ClientID        string           // ID клиента
	Date            time.Time        // Каноническая дата бронирования
	StartTime       types.TimeString // Каноническое время начала
	EndTime         types.TimeString // Каноническое время окончания
	DurationMinutes int              // Длительность в минутах
	Status          string           // Статус бронирования
	Topic           string           // Тема консультации
	Description     *string          // Описание запроса
	MeetingLink     string           // Ссылка на видеовстречу

	// Источник слота
	SlotID     *string // ID конкретного слота
	TemplateID *string // ID recurring-шаблона

	// Времена в таймзоне клиента
	LocalDate      time.Time        // Локальная дата
	LocalStartTime types.TimeString // Локальное время начала
	LocalTimezone  string           // Таймзона клиента, IANA

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
