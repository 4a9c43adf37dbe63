package timezone_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CNP-SchedulerService/internal/timezone"
	"github.com/m04kA/CNP-SchedulerService/pkg/types"
)

// fixedClock детерминированный источник времени для тестов
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestConverter_ToCanonical(t *testing.T) {
	conv, err := timezone.NewConverter("Asia/Seoul", nil)
	require.NoError(t, err)

	t.Run("crosses midnight forward", func(t *testing.T) {
		// Богота 23:30 -> Сеул 13:30 следующего дня (UTC-5 -> UTC+9)
		date, ts, err := conv.ToCanonical(day(2026, 3, 10), "23:30", "America/Bogota")
		require.NoError(t, err)
		assert.Equal(t, day(2026, 3, 11), date)
		assert.Equal(t, types.TimeString("13:30"), ts)
	})

	t.Run("same day", func(t *testing.T) {
		date, ts, err := conv.ToCanonical(day(2026, 3, 10), "01:00", "Asia/Tokyo")
		require.NoError(t, err)
		assert.Equal(t, day(2026, 3, 10), date)
		assert.Equal(t, types.TimeString("01:00"), ts)
	})

	t.Run("unknown timezone", func(t *testing.T) {
		_, _, err := conv.ToCanonical(day(2026, 3, 10), "10:00", "Mars/Olympus")
		assert.ErrorIs(t, err, timezone.ErrUnknownTimezone)
	})
}

func TestConverter_FromCanonical(t *testing.T) {
	conv, err := timezone.NewConverter("Asia/Seoul", nil)
	require.NoError(t, err)

	t.Run("roundtrip", func(t *testing.T) {
		canonDate, canonTime, err := conv.ToCanonical(day(2026, 3, 10), "23:30", "America/Bogota")
		require.NoError(t, err)

		localDate, localTime, err := conv.FromCanonical(canonDate, canonTime, "America/Bogota")
		require.NoError(t, err)
		assert.Equal(t, day(2026, 3, 10), localDate)
		assert.Equal(t, types.TimeString("23:30"), localTime)
	})

	t.Run("crosses midnight backward", func(t *testing.T) {
		// Сеул 08:00 -> Лима 18:00 предыдущего дня
		date, ts, err := conv.FromCanonical(day(2026, 3, 11), "08:00", "America/Lima")
		require.NoError(t, err)
		assert.Equal(t, day(2026, 3, 10), date)
		assert.Equal(t, types.TimeString("18:00"), ts)
	})
}

func TestConverter_Now(t *testing.T) {
	// 2026-03-10 12:00:45 UTC
	clock := fixedClock{now: time.Date(2026, 3, 10, 12, 0, 45, 0, time.UTC)}
	conv, err := timezone.NewConverter("Asia/Seoul", clock)
	require.NoError(t, err)

	t.Run("NowIn truncates to minute", func(t *testing.T) {
		date, ts, err := conv.NowIn("America/Lima")
		require.NoError(t, err)
		assert.Equal(t, day(2026, 3, 10), date)
		assert.Equal(t, types.TimeString("07:00"), ts)
	})

	t.Run("NowCanonical", func(t *testing.T) {
		now := conv.NowCanonical()
		assert.Equal(t, "Asia/Seoul", now.Location().String())
		assert.Equal(t, 21, now.Hour())
	})

	t.Run("NowIn unknown timezone", func(t *testing.T) {
		_, _, err := conv.NowIn("Nowhere/Void")
		assert.ErrorIs(t, err, timezone.ErrUnknownTimezone)
	})
}

func TestNewConverter_UnknownCanonical(t *testing.T) {
	_, err := timezone.NewConverter("Not/AZone", nil)
	assert.ErrorIs(t, err, timezone.ErrUnknownTimezone)
}
