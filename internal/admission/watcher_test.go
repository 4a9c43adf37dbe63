package admission_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CNP-SchedulerService/internal/admission"
)

func collectState(t *testing.T, updates <-chan admission.State) admission.State {
	t.Helper()
	select {
	case state, ok := <-updates:
		require.True(t, ok, "updates channel closed unexpectedly")
		return state
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for state update")
		return admission.State{}
	}
}

func TestWatcher_PublishesPhaseTransitions(t *testing.T) {
	clock := &manualClock{now: sessionStart.Add(-5 * time.Minute)}
	ctrl := newController(clock)

	watcher := admission.NewWatcher(ctrl, admission.WithPollInterval(5*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		watcher.Run(ctx)
	}()

	// Первое состояние публикуется сразу
	state := collectState(t, watcher.Updates())
	assert.Equal(t, admission.PhaseClosed, state.Phase)

	// Переход Closed -> Open
	clock.Advance(3 * time.Minute)
	state = collectState(t, watcher.Updates())
	assert.Equal(t, admission.PhaseOpen, state.Phase)

	// Пользователь присоединился
	require.NoError(t, ctrl.Join())
	state = collectState(t, watcher.Updates())
	assert.Equal(t, admission.PhaseInSession, state.Phase)

	// Сессия закончилась: watcher завершает работу и закрывает канал
	clock.Advance(2 * time.Hour)
	state = collectState(t, watcher.Updates())
	assert.Equal(t, admission.PhaseEnded, state.Phase)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after session end")
	}

	_, open := <-watcher.Updates()
	assert.False(t, open)
}

func TestWatcher_FinishHandlerCalledOnce(t *testing.T) {
	clock := &manualClock{now: sessionStart.Add(2 * time.Hour)}
	ctrl := newController(clock)

	var finishCalls atomic.Int32
	var finishPhase admission.Phase

	watcher := admission.NewWatcher(ctrl,
		admission.WithPollInterval(5*time.Millisecond),
		admission.WithFinishHandler(func(state admission.State) {
			finishCalls.Add(1)
			finishPhase = state.Phase
		}),
	)

	done := make(chan struct{})
	go func() {
		defer close(done)
		watcher.Run(context.Background())
	}()

	state := collectState(t, watcher.Updates())
	assert.Equal(t, admission.PhaseExpired, state.Phase)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after expiry")
	}

	assert.Equal(t, int32(1), finishCalls.Load())
	assert.Equal(t, admission.PhaseExpired, finishPhase)
}

func TestWatcher_StopsOnContextCancel(t *testing.T) {
	clock := &manualClock{now: sessionStart.Add(-time.Hour)}
	ctrl := newController(clock)

	watcher := admission.NewWatcher(ctrl, admission.WithPollInterval(5*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		watcher.Run(ctx)
	}()

	collectState(t, watcher.Updates())
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop on context cancel")
	}
}
