package timezone_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/CNP-SchedulerService/internal/timezone"
)

func TestResolver_Resolve(t *testing.T) {
	r := timezone.NewResolver("")

	t.Run("country code wins", func(t *testing.T) {
		// Телефон перуанский, но код страны указывает на Корею
		assert.Equal(t, "Asia/Seoul", r.Resolve("+51 987 654 321", "KR"))
	})

	t.Run("country code case insensitive", func(t *testing.T) {
		assert.Equal(t, "America/Bogota", r.Resolve("", "co"))
	})

	t.Run("phone prefix fallback", func(t *testing.T) {
		assert.Equal(t, "America/Lima", r.Resolve("+51 987 654 321", ""))
		assert.Equal(t, "Asia/Seoul", r.Resolve("+82-10-1234-5678", ""))
		assert.Equal(t, "America/Guayaquil", r.Resolve("00593912345678", ""))
	})

	t.Run("longest prefix first", func(t *testing.T) {
		// 591 (Боливия) должен выигрывать у 5 и 59
		assert.Equal(t, "America/La_Paz", r.Resolve("+591 712 34567", ""))
	})

	t.Run("no signal falls back to default", func(t *testing.T) {
		assert.Equal(t, timezone.DefaultTimezone, r.Resolve("", ""))
		assert.Equal(t, timezone.DefaultTimezone, r.Resolve("   ", "XX"))
	})

	t.Run("custom default", func(t *testing.T) {
		custom := timezone.NewResolver("Europe/Madrid")
		assert.Equal(t, "Europe/Madrid", custom.Resolve("", ""))
	})
}
