package admission

import (
	"errors"
	"time"
)

// Phase фаза допуска к сессии
type Phase string

const (
	// PhaseClosed дверь закрыта: до окна допуска еще далеко
	PhaseClosed Phase = "closed"
	// PhaseOpen окно допуска открыто, можно присоединиться
	PhaseOpen Phase = "open"
	// PhaseInSession пользователь присоединился, сессия идет
	PhaseInSession Phase = "in_session"
	// PhaseEnded сессия завершена по таймауту после присоединения
	PhaseEnded Phase = "ended"
	// PhaseExpired время сессии вышло, пользователь так и не присоединился
	PhaseExpired Phase = "expired"
)

// Default window values
const (
	DefaultAdmitWindow     = 3 * time.Minute
	DefaultCountdownWindow = 10 * time.Minute
)

var (
	// ErrNotAdmittable возвращается при попытке присоединиться вне окна допуска
	ErrNotAdmittable = errors.New("admission: session is not open for joining")
)

// State снимок состояния допуска на момент вычисления
type State struct {
	Phase Phase

	// OpensIn время до открытия окна допуска (только для Closed)
	OpensIn time.Duration

	// CountdownActive индикатор финального отсчета перед открытием окна.
	// Чисто косметический: активен внутри Closed в последние минуты
	// перед порогом допуска, отдельной фазой не является
	CountdownActive bool

	// StartsIn время до планового начала сессии (Closed и Open)
	StartsIn time.Duration

	// EndsIn оставшееся время сессии (только для InSession)
	EndsIn time.Duration
}

// Schedule параметры сессии, от которых вычисляется состояние
type Schedule struct {
	Start           time.Time
	DurationMinutes int
}

// Duration длительность сессии
func (s Schedule) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}

// Resolve вычисляет состояние допуска как чистую функцию от текущего
// момента, расписания и момента присоединения (nil - не присоединялся).
// Никакой истории переходов: состояние каждый раз выводится с нуля,
// поэтому результат воспроизводим в любой момент времени.
//
// Таймаут сессии отсчитывается от момента присоединения, а не от
// планового начала: присоединившийся с опозданием получает полную
// длительность
func Resolve(now time.Time, schedule Schedule, joinedAt *time.Time, admitWindow, countdownWindow time.Duration) State {
	if joinedAt != nil {
		sessionEnd := joinedAt.Add(schedule.Duration())
		if now.Before(sessionEnd) {
			return State{
				Phase:  PhaseInSession,
				EndsIn: sessionEnd.Sub(now),
			}
		}
		return State{Phase: PhaseEnded}
	}

	scheduledEnd := schedule.Start.Add(schedule.Duration())
	if now.After(scheduledEnd) {
		return State{Phase: PhaseExpired}
	}

	admitThreshold := schedule.Start.Add(-admitWindow)
	if !now.Before(admitThreshold) {
		return State{
			Phase:    PhaseOpen,
			StartsIn: schedule.Start.Sub(now),
		}
	}

	opensIn := admitThreshold.Sub(now)
	return State{
		Phase:           PhaseClosed,
		OpensIn:         opensIn,
		CountdownActive: opensIn <= countdownWindow,
		StartsIn:        schedule.Start.Sub(now),
	}
}

// Clock источник текущего времени
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Controller контроллер допуска одной сессии.
// Держит только расписание и момент присоединения; фаза не хранится
// и пересчитывается при каждом обращении
type Controller struct {
	schedule        Schedule
	clock           Clock
	admitWindow     time.Duration
	countdownWindow time.Duration
	joinedAt        *time.Time
}

// Option настройка контроллера
type Option func(*Controller)

// WithClock подменяет источник времени (для тестов)
func WithClock(clock Clock) Option {
	return func(c *Controller) { c.clock = clock }
}

// WithAdmitWindow задает размер окна допуска до начала сессии
func WithAdmitWindow(w time.Duration) Option {
	return func(c *Controller) { c.admitWindow = w }
}

// WithCountdownWindow задает размер окна финального отсчета
func WithCountdownWindow(w time.Duration) Option {
	return func(c *Controller) { c.countdownWindow = w }
}

// NewController создает контроллер допуска для сессии
func NewController(schedule Schedule, opts ...Option) *Controller {
	c := &Controller{
		schedule:        schedule,
		clock:           realClock{},
		admitWindow:     DefaultAdmitWindow,
		countdownWindow: DefaultCountdownWindow,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State возвращает текущее состояние допуска
func (c *Controller) State() State {
	return Resolve(c.clock.Now(), c.schedule, c.joinedAt, c.admitWindow, c.countdownWindow)
}

// Join фиксирует присоединение пользователя к сессии.
// Разрешено только в фазе Open; контроллер никогда не присоединяет
// пользователя автоматически
func (c *Controller) Join() error {
	if c.State().Phase != PhaseOpen {
		return ErrNotAdmittable
	}
	now := c.clock.Now()
	c.joinedAt = &now
	return nil
}

// JoinedAt возвращает момент присоединения (nil, если не присоединялся)
func (c *Controller) JoinedAt() *time.Time {
	return c.joinedAt
}
