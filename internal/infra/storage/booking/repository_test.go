package booking_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CNP-SchedulerService/internal/domain"
	"github.com/m04kA/CNP-SchedulerService/internal/infra/storage/booking"
	"github.com/m04kA/CNP-SchedulerService/pkg/ptr"
)

func newMock(t *testing.T) (*booking.Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return booking.NewRepository(db), mock
}

func bookingRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "consultant_id", "client_id", "booking_date", "start_time", "end_time",
		"duration_minutes", "topic", "description", "meeting_link", "status",
		"slot_id", "template_id", "cancellation_reason", "cancelled_at",
		"created_at", "updated_at",
	})
}

func addBookingRow(rows *sqlmock.Rows, id, status string, date time.Time) *sqlmock.Rows {
	return rows.AddRow(
		id, "consultant-1", "client-1", date, "10:00", "11:00",
		60, "tax consultation", "", "", status,
		nil, nil, nil, nil,
		time.Now(), time.Now(),
	)
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newMock(t)

	now := time.Now()
	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	created, err := repo.Create(context.Background(), &domain.Booking{
		ID:              "booking-1",
		ConsultantID:    "consultant-1",
		ClientID:        "client-1",
		Date:            time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		StartTime:       "10:00",
		EndTime:         "11:00",
		DurationMinutes: 60,
		Topic:           "tax consultation",
		Status:          domain.StatusPending,
		SlotID:          ptr.Ptr("slot-1"),
	})
	require.NoError(t, err)
	assert.Equal(t, now, created.CreatedAt)
	assert.Equal(t, now, created.UpdatedAt)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectQuery("SELECT .+ FROM bookings").
			WithArgs("booking-1").
			WillReturnRows(addBookingRow(bookingRows(), "booking-1", "pending", date))

		found, err := repo.GetByID(context.Background(), "booking-1")
		require.NoError(t, err)
		assert.Equal(t, "booking-1", found.ID)
		assert.Equal(t, domain.StatusPending, found.Status)
		assert.True(t, found.CanBeConfirmed())
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectQuery("SELECT .+ FROM bookings").
			WithArgs("missing").
			WillReturnRows(bookingRows())

		_, err := repo.GetByID(context.Background(), "missing")
		assert.ErrorIs(t, err, booking.ErrBookingNotFound)
	})
}

func TestRepository_GetByClientID(t *testing.T) {
	repo, mock := newMock(t)

	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	status := domain.StatusConfirmed

	mock.ExpectQuery("SELECT .+ FROM bookings").
		WithArgs("client-1", "confirmed").
		WillReturnRows(addBookingRow(bookingRows(), "booking-1", "confirmed", date))

	bookings, err := repo.GetByClientID(context.Background(), "client-1", &status)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, domain.StatusConfirmed, bookings[0].Status)
}

func TestRepository_UpdateStatus(t *testing.T) {
	t.Run("valid transition", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectExec("UPDATE bookings SET").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateStatus(context.Background(), "booking-1", domain.StatusPending, domain.StatusConfirmed)
		require.NoError(t, err)
	})

	t.Run("booking not in expected status", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectExec("UPDATE bookings SET").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateStatus(context.Background(), "booking-1", domain.StatusPending, domain.StatusConfirmed)
		assert.ErrorIs(t, err, booking.ErrInvalidStatus)
	})
}

func TestRepository_Cancel(t *testing.T) {
	t.Run("cancels active booking", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectExec("UPDATE bookings SET").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Cancel(context.Background(), "booking-1", "client asked to reschedule"))
	})

	t.Run("already finalized", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectExec("UPDATE bookings SET").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Cancel(context.Background(), "booking-1", "too late")
		assert.ErrorIs(t, err, booking.ErrInvalidStatus)
	})
}
