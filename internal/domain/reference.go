package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/m04kA/CNP-SchedulerService/pkg/types"
)

// RecurringRefPrefix префикс ссылки на recurring-шаблон в запросе бронирования
const RecurringRefPrefix = "recurring-"

var (
	// ErrInvalidReferenceFormat возвращается при некорректной recurring-ссылке
	ErrInvalidReferenceFormat = errors.New("domain: invalid recurring slot reference format")
)

// recurringRefPattern распознает хвостовой токен времени "HH:MM".
// Якорь стоит на КОНЦЕ строки: id шаблона сам может содержать "-",
// поэтому разбор по первому разделителю дал бы неверный id.
var recurringRefPattern = regexp.MustCompile(`^(.+)-([0-9]{2}:[0-9]{2})$`)

// ReferenceKind вид ссылки на слот в запросе бронирования
type ReferenceKind int

const (
	// ReferenceConcrete ссылка на сохраненный слот по его ID
	ReferenceConcrete ReferenceKind = iota
	// ReferenceRecurring ссылка на occurrence recurring-шаблона
	ReferenceRecurring
)

// SlotReference разобранная ссылка на слот
// Для Concrete заполнен SlotID; для Recurring - TemplateID и StartTime
type SlotReference struct {
	Kind       ReferenceKind
	SlotID     string
	TemplateID string
	StartTime  types.TimeString
}

// ParseSlotReference разбирает ссылку на слот из запроса бронирования.
// Строка без префикса "recurring-" трактуется как ID конкретного слота.
// Строка с префиксом обязана заканчиваться валидным временем "HH:MM";
// всё между префиксом и временем - ID шаблона (включая дефисы).
func ParseSlotReference(raw string) (*SlotReference, error) {
	if !strings.HasPrefix(raw, RecurringRefPrefix) {
		return &SlotReference{
			Kind:   ReferenceConcrete,
			SlotID: raw,
		}, nil
	}

	rest := strings.TrimPrefix(raw, RecurringRefPrefix)

	matches := recurringRefPattern.FindStringSubmatch(rest)
	if matches == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidReferenceFormat, raw)
	}

	startTime, err := types.NewTimeStringFromString(matches[2])
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidReferenceFormat, raw, err)
	}

	return &SlotReference{
		Kind:       ReferenceRecurring,
		TemplateID: matches[1],
		StartTime:  startTime,
	}, nil
}
