package create_booking_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CNP-SchedulerService/internal/api/handlers"
	handler "github.com/m04kA/CNP-SchedulerService/internal/api/handlers/create_booking"
	"github.com/m04kA/CNP-SchedulerService/internal/api/middleware"
	createBooking "github.com/m04kA/CNP-SchedulerService/internal/usecase/create_booking"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type useCaseMock struct {
	executeFn func(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error)
}

func (m *useCaseMock) Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	return m.executeFn(ctx, req)
}

func doRequest(t *testing.T, uc *useCaseMock, body string) *httptest.ResponseRecorder {
	t.Helper()

	h := middleware.Auth(http.HandlerFunc(handler.NewHandler(uc, nopLogger{}).Handle))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	req.Header.Set(middleware.HeaderUserID, "client-1")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorKind(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var resp handlers.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Kind
}

const validBody = `{"consultant":"consultant-1","date":"2026-09-15","startTime":"10:00","topic":"тема"}`

func TestHandle_Created(t *testing.T) {
	uc := &useCaseMock{
		executeFn: func(_ context.Context, req *createBooking.Request) (*createBooking.Response, error) {
			assert.Equal(t, "client-1", req.ClientID)
			assert.Equal(t, "consultant-1", req.Consultant)
			return &createBooking.Response{
				ID:              "booking-1",
				ConsultantID:    "consultant-1",
				ClientID:        "client-1",
				Date:            time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
				StartTime:       "10:00",
				EndTime:         "11:00",
				DurationMinutes: 60,
				Status:          "pending",
				Topic:           "тема",
				MeetingLink:     "https://meet.example.com/abc",
				LocalDate:       time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
				LocalStartTime:  "10:00",
				LocalTimezone:   "Asia/Seoul",
			}, nil
		},
	}

	rec := doRequest(t, uc, validBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp handler.BookingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "booking-1", resp.ID)
	assert.Equal(t, "https://meet.example.com/abc", resp.MeetingLink)
}

func TestHandle_ErrorKinds(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{
			name:       "slot not available",
			err:        createBooking.ErrSlotNotAvailable,
			wantStatus: http.StatusConflict,
			wantKind:   handlers.KindSlotUnavailable,
		},
		{
			name:       "schedule not found",
			err:        createBooking.ErrScheduleNotFound,
			wantStatus: http.StatusNotFound,
			wantKind:   handlers.KindScheduleNotFound,
		},
		{
			name:       "too soon",
			err:        createBooking.ErrTooSoon,
			wantStatus: http.StatusBadRequest,
			wantKind:   handlers.KindTooSoon,
		},
		{
			name:       "invalid slot reference",
			err:        createBooking.ErrInvalidSlotReference,
			wantStatus: http.StatusBadRequest,
			wantKind:   handlers.KindInvalidReference,
		},
		{
			name:       "invalid input",
			err:        createBooking.ErrInvalidInput,
			wantStatus: http.StatusBadRequest,
			wantKind:   handlers.KindMissingInput,
		},
		{
			name:       "internal error",
			err:        errors.New("db is down"),
			wantStatus: http.StatusInternalServerError,
			wantKind:   handlers.KindPersistence,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc := &useCaseMock{
				executeFn: func(_ context.Context, _ *createBooking.Request) (*createBooking.Response, error) {
					return nil, tc.err
				},
			}

			rec := doRequest(t, uc, validBody)
			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantKind, errorKind(t, rec))
		})
	}
}

func TestHandle_BadRequestBody(t *testing.T) {
	uc := &useCaseMock{
		executeFn: func(_ context.Context, _ *createBooking.Request) (*createBooking.Response, error) {
			t.Fatal("use case must not be called")
			return nil, nil
		},
	}

	t.Run("malformed json", func(t *testing.T) {
		rec := doRequest(t, uc, `{"consultant":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, handlers.KindInvalidInput, errorKind(t, rec))
	})

	t.Run("malformed date", func(t *testing.T) {
		rec := doRequest(t, uc, `{"consultant":"consultant-1","date":"15.09.2026","startTime":"10:00","topic":"тема"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, handlers.KindInvalidInput, errorKind(t, rec))
	})
}
