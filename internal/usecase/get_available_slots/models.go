package get_available_slots

import (
	"time"

	"github.com/m04kA/CNP-SchedulerService/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	UserID       string     // ID пользователя (для логирования, не влияет на результат)
	ConsultantID string     // Canonical ID консультанта
	Date         time.Time  // Каноническая дата для получения слотов (без времени)
	Timezone     *string    // Таймзона клиента для локального отображения (опционально)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	ConsultantID string    // ID консультанта
	Date         time.Time // Каноническая дата, на которую запрашивались слоты
	Timezone     string    // Таймзона локальных времен в слотах
	Slots        []Slot    // Список доступных слотов, отсортирован по времени начала
}

// Slot модель доступного слота.
// Ref - значение для поля slotRef запроса бронирования: ID конкретного
// слота либо ссылка "recurring-<templateId>-<HH:MM>"
type Slot struct {
	Ref             string           // Ссылка для бронирования
	StartTime       types.TimeString // Каноническое время начала
	EndTime         types.TimeString // Каноническое время окончания
	DurationMinutes int              // Длительность в минутах
	Recurring       bool             // true для occurrence recurring-шаблона

	// Времена в таймзоне клиента
	LocalDate      string           // Локальная дата "2026-09-15"
	LocalStartTime types.TimeString // Локальное время начала
}
