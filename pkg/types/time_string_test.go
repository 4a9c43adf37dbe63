package types_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CNP-SchedulerService/pkg/types"
)

func TestNewTimeStringFromString(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		ts, err := types.NewTimeStringFromString("09:30")
		require.NoError(t, err)
		assert.Equal(t, "09:30", ts.String())
	})

	t.Run("invalid format", func(t *testing.T) {
		for _, s := range []string{"9:30", "09-30", "25:00", "10:99", "", "10:5"} {
			_, err := types.NewTimeStringFromString(s)
			assert.ErrorIs(t, err, types.ErrInvalidTimeFormat, "input %q", s)
		}
	})
}

func TestNewTimeString(t *testing.T) {
	moment := time.Date(2026, 3, 15, 7, 5, 42, 0, time.UTC)
	assert.Equal(t, types.TimeString("07:05"), types.NewTimeString(moment))
}

func TestTimeString_Components(t *testing.T) {
	ts := types.TimeString("14:45")
	assert.Equal(t, 14, ts.Hour())
	assert.Equal(t, 45, ts.Minute())
	assert.Equal(t, 14*60+45, ts.MinutesSinceMidnight())
}

func TestTimeString_AddMinutes(t *testing.T) {
	t.Run("within day", func(t *testing.T) {
		ts, err := types.TimeString("10:10").AddMinutes(50)
		require.NoError(t, err)
		assert.Equal(t, types.TimeString("11:00"), ts)
	})

	t.Run("negative shift", func(t *testing.T) {
		ts, err := types.TimeString("10:10").AddMinutes(-70)
		require.NoError(t, err)
		assert.Equal(t, types.TimeString("09:00"), ts)
	})

	t.Run("crosses midnight forward", func(t *testing.T) {
		_, err := types.TimeString("23:30").AddMinutes(60)
		require.Error(t, err)
	})

	t.Run("crosses midnight backward", func(t *testing.T) {
		_, err := types.TimeString("00:10").AddMinutes(-20)
		require.Error(t, err)
	})
}

func TestTimeString_Ordering(t *testing.T) {
	early := types.TimeString("08:00")
	late := types.TimeString("18:30")

	assert.True(t, early.IsBefore(late))
	assert.False(t, late.IsBefore(early))
	assert.True(t, late.IsAfter(early))
	assert.False(t, early.IsAfter(early))

	assert.Equal(t, 630, early.MinutesUntil(late))
	assert.Equal(t, -630, late.MinutesUntil(early))
	assert.Equal(t, 0, early.MinutesUntil(early))
}
