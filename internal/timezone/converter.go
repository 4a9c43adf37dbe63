package timezone

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/CNP-SchedulerService/pkg/types"
)

var (
	// ErrUnknownTimezone возвращается при неразрешимом IANA идентификаторе.
	// Converter не подставляет зону по умолчанию - это ответственность Resolver
	ErrUnknownTimezone = errors.New("timezone: unknown timezone identifier")
)

// Clock источник текущего времени (для детерминированных тестов)
type Clock interface {
	Now() time.Time
}

// RealClock реальный источник времени для production
type RealClock struct{}

// Now возвращает текущее время
func (RealClock) Now() time.Time {
	return time.Now()
}

// Converter конвертирует пары (дата, время) между произвольной зоной и
// canonical зоной хранения. Конвертация идет через декомпозицию wall-clock
// полей (год/месяц/день/час/минута), а не через арифметику смещений,
// поэтому корректна и при переходах на летнее время
type Converter struct {
	canonical *time.Location
	clock     Clock
}

// NewConverter создает конвертер для указанной canonical зоны
func NewConverter(canonicalTZ string, clock Clock) (*Converter, error) {
	loc, err := time.LoadLocation(canonicalTZ)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrUnknownTimezone, canonicalTZ, err)
	}
	if clock == nil {
		clock = RealClock{}
	}
	return &Converter{canonical: loc, clock: clock}, nil
}

// CanonicalLocation возвращает canonical зону хранения
func (c *Converter) CanonicalLocation() *time.Location {
	return c.canonical
}

// ToCanonical конвертирует (дата, время) из sourceTZ в canonical зону.
// Дата результата может отличаться от входной: смещение зон может
// перенести момент через полночь в обе стороны
func (c *Converter) ToCanonical(date time.Time, t types.TimeString, sourceTZ string) (time.Time, types.TimeString, error) {
	src, err := time.LoadLocation(sourceTZ)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: %q: %v", ErrUnknownTimezone, sourceTZ, err)
	}

	instant := composeWallClock(date, t, src)
	return decomposeWallClock(instant.In(c.canonical))
}

// FromCanonical конвертирует (дата, время) из canonical зоны в targetTZ
func (c *Converter) FromCanonical(date time.Time, t types.TimeString, targetTZ string) (time.Time, types.TimeString, error) {
	target, err := time.LoadLocation(targetTZ)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: %q: %v", ErrUnknownTimezone, targetTZ, err)
	}

	instant := composeWallClock(date, t, c.canonical)
	return decomposeWallClock(instant.In(target))
}

// NowIn возвращает текущие дату и время в указанной зоне с точностью
// до минуты. Секунды отбрасываются: проверка lead time оперирует минутами
func (c *Converter) NowIn(tz string) (time.Time, types.TimeString, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: %q: %v", ErrUnknownTimezone, tz, err)
	}

	return decomposeWallClock(c.clock.Now().In(loc))
}

// NowCanonical возвращает текущий момент в canonical зоне
func (c *Converter) NowCanonical() time.Time {
	return c.clock.Now().In(c.canonical)
}

// composeWallClock собирает момент времени из даты и HH:MM в указанной зоне
func composeWallClock(date time.Time, t types.TimeString, loc *time.Location) time.Time {
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), 0, 0, loc,
	)
}

// decomposeWallClock раскладывает момент на дату (полночь UTC) и HH:MM
func decomposeWallClock(instant time.Time) (time.Time, types.TimeString, error) {
	date := time.Date(instant.Year(), instant.Month(), instant.Day(), 0, 0, 0, 0, time.UTC)
	return date, types.NewTimeString(instant), nil
}
