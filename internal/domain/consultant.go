package domain

import "github.com/google/uuid"

// ConsultantRef ссылка на консультанта из запроса бронирования.
// Клиент может передать либо canonical ID консультанта, либо handle
// собеседника из чата. Ссылка нормализуется ровно один раз в начале
// обработки запроса, дальше по коду ходит только canonical ID.
type ConsultantRef struct {
	raw    string
	direct bool
}

// NewConsultantRef классифицирует входное значение:
// валидный UUID считается прямым ID, всё остальное - handle
func NewConsultantRef(raw string) ConsultantRef {
	_, err := uuid.Parse(raw)
	return ConsultantRef{
		raw:    raw,
		direct: err == nil,
	}
}

// IsDirect возвращает true, если ссылка содержит canonical ID
func (r ConsultantRef) IsDirect() bool {
	return r.direct
}

// Raw возвращает исходное значение ссылки
func (r ConsultantRef) Raw() string {
	return r.raw
}
