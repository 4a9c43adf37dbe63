package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CNP-SchedulerService/internal/api/handlers"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handlers.ErrorResponse {
	t.Helper()

	var resp handlers.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	handlers.RespondError(rec, http.StatusBadRequest, handlers.KindTooSoon, "слишком поздно")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	resp := decodeError(t, rec)
	assert.Equal(t, handlers.KindTooSoon, resp.Kind)
	assert.Equal(t, "слишком поздно", resp.Message)
}

func TestRespondHelpers(t *testing.T) {
	t.Run("bad request carries explicit kind", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handlers.RespondBadRequest(rec, handlers.KindMissingInput, "не хватает полей")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeError(t, rec)
		assert.Equal(t, handlers.KindMissingInput, resp.Kind)
	})

	t.Run("unauthorized", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handlers.RespondUnauthorized(rec, "нет пользователя")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, handlers.KindUnauthorized, decodeError(t, rec).Kind)
	})

	t.Run("forbidden", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handlers.RespondForbidden(rec, "нет доступа")

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, handlers.KindAccessDenied, decodeError(t, rec).Kind)
	})

	t.Run("not found", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handlers.RespondNotFound(rec, handlers.KindScheduleNotFound, "расписание не найдено")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, handlers.KindScheduleNotFound, decodeError(t, rec).Kind)
	})

	t.Run("conflict", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handlers.RespondConflict(rec, handlers.KindSlotUnavailable, "слот занят")

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, handlers.KindSlotUnavailable, decodeError(t, rec).Kind)
	})

	t.Run("internal error", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handlers.RespondInternalError(rec)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, handlers.KindPersistence, decodeError(t, rec).Kind)
	})
}
