package admission

import (
	"context"
	"time"
)

// DefaultPollInterval период переоценки состояния допуска
const DefaultPollInterval = time.Second

// Watcher поллинг-цикл одного клиента над контроллером допуска.
// Периодически пересчитывает состояние и рассылает изменения фазы
// в канал Updates. Никогда не блокируется: если потребитель не успевает
// читать, обновление пропускается - следующий тик принесет актуальное
// состояние. Остановка только через отмену контекста; серверной отмены
// отсчета не существует
type Watcher struct {
	ctrl     *Controller
	interval time.Duration
	updates  chan State
	onFinish func(State)
}

// WatcherOption настройка watcher'а
type WatcherOption func(*Watcher)

// WithPollInterval задает период опроса
func WithPollInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.interval = d }
}

// WithFinishHandler задает обработчик завершения сессии.
// Вызывается один раз при первом наблюдении фазы Ended или Expired -
// точка передачи управления во flow сбора обратной связи
func WithFinishHandler(fn func(State)) WatcherOption {
	return func(w *Watcher) { w.onFinish = fn }
}

// NewWatcher создает watcher над контроллером
func NewWatcher(ctrl *Controller, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		ctrl:     ctrl,
		interval: DefaultPollInterval,
		updates:  make(chan State, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Updates канал изменений фазы допуска
func (w *Watcher) Updates() <-chan State {
	return w.updates
}

// Run запускает цикл опроса до отмены контекста или завершения сессии.
// Первое состояние публикуется сразу, не дожидаясь тика
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.updates)

	lastPhase := Phase("")

	evaluate := func() bool {
		state := w.ctrl.State()
		if state.Phase != lastPhase {
			lastPhase = state.Phase
			w.publish(state)

			if state.Phase == PhaseEnded || state.Phase == PhaseExpired {
				if w.onFinish != nil {
					w.onFinish(state)
				}
				return false
			}
		}
		return true
	}

	if !evaluate() {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !evaluate() {
				return
			}
		}
	}
}

// publish неблокирующая отправка состояния подписчику
func (w *Watcher) publish(state State) {
	select {
	case w.updates <- state:
	default:
		// Потребитель отстал: вытесняем устаревшее состояние новым
		select {
		case <-w.updates:
		default:
		}
		select {
		case w.updates <- state:
		default:
		}
	}
}
