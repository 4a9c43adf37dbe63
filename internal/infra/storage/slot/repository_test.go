package slot_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CNP-SchedulerService/internal/domain"
	"github.com/m04kA/CNP-SchedulerService/internal/infra/storage/slot"
)

func newMock(t *testing.T) (*slot.Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return slot.NewRepository(db), mock
}

func slotRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "consultant_id", "slot_date", "start_time", "end_time",
		"status", "booking_id", "created_at", "updated_at",
	})
}

func TestRepository_Create(t *testing.T) {
	t.Run("inserts available slot", func(t *testing.T) {
		repo, mock := newMock(t)

		now := time.Now()
		mock.ExpectQuery(regexp.QuoteMeta(
			"INSERT INTO slots (id,consultant_id,slot_date,start_time,end_time,status) VALUES ($1,$2,$3,$4,$5,$6) RETURNING created_at, updated_at",
		)).
			WithArgs("slot-1", "consultant-1", sqlmock.AnyArg(), "10:00", "11:00", "available").
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		created, err := repo.Create(context.Background(), &domain.Slot{
			ID:           "slot-1",
			ConsultantID: "consultant-1",
			Date:         time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
			StartTime:    "10:00",
			EndTime:      "11:00",
			Status:       domain.SlotStatusAvailable,
		})
		require.NoError(t, err)
		assert.Equal(t, now, created.CreatedAt)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps unique violation to already exists", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectQuery("INSERT INTO slots").
			WillReturnError(&pq.Error{Code: "23505"})

		_, err := repo.Create(context.Background(), &domain.Slot{
			ID:           "slot-1",
			ConsultantID: "consultant-1",
			Date:         time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
			StartTime:    "10:00",
			EndTime:      "11:00",
			Status:       domain.SlotStatusAvailable,
		})
		assert.ErrorIs(t, err, slot.ErrSlotAlreadyExists)
	})
}

func TestRepository_FindAvailable(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, consultant_id, slot_date, start_time, end_time, status, booking_id, created_at, updated_at FROM slots WHERE")).
			WithArgs("consultant-1", date, "10:00", "available").
			WillReturnRows(slotRows().
				AddRow("slot-1", "consultant-1", date, "10:00", "11:00", "available", nil, time.Now(), time.Now()))

		found, err := repo.FindAvailable(context.Background(), "consultant-1", date, "10:00")
		require.NoError(t, err)
		assert.Equal(t, "slot-1", found.ID)
		assert.Equal(t, domain.SlotStatusAvailable, found.Status)
		assert.Equal(t, 60, found.DurationMinutes())

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectQuery("SELECT .+ FROM slots").
			WillReturnRows(slotRows())

		_, err := repo.FindAvailable(context.Background(), "consultant-1", date, "10:00")
		assert.ErrorIs(t, err, slot.ErrSlotNotFound)
	})
}

func TestRepository_MarkPending(t *testing.T) {
	t.Run("wins the compare-and-swap", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectExec("UPDATE slots SET").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.MarkPending(context.Background(), "slot-1", "booking-1"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("loses to a concurrent claim", func(t *testing.T) {
		repo, mock := newMock(t)

		// Слот уже не available: condition в UPDATE не совпала
		mock.ExpectExec("UPDATE slots SET").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.MarkPending(context.Background(), "slot-1", "booking-1")
		assert.ErrorIs(t, err, slot.ErrSlotNotAvailable)
	})
}

func TestRepository_MarkBooked(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec("UPDATE slots SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	// Слот не в pending - переход запрещен
	err := repo.MarkBooked(context.Background(), "slot-1")
	assert.ErrorIs(t, err, slot.ErrSlotNotAvailable)
}

func TestRepository_Release(t *testing.T) {
	t.Run("releases pending slot", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectExec("UPDATE slots SET").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Release(context.Background(), "slot-1"))
	})

	t.Run("nothing to release", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectExec("UPDATE slots SET").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Release(context.Background(), "slot-1")
		assert.ErrorIs(t, err, slot.ErrSlotNotAvailable)
	})
}

func TestRepository_ListByConsultantAndDate(t *testing.T) {
	repo, mock := newMock(t)

	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	status := domain.SlotStatusAvailable

	mock.ExpectQuery("SELECT .+ FROM slots").
		WithArgs("consultant-1", date, "available").
		WillReturnRows(slotRows().
			AddRow("slot-1", "consultant-1", date, "09:00", "10:00", "available", nil, time.Now(), time.Now()).
			AddRow("slot-2", "consultant-1", date, "11:00", "12:00", "available", nil, time.Now(), time.Now()))

	slots, err := repo.ListByConsultantAndDate(context.Background(), "consultant-1", date, &status)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "slot-1", slots[0].ID)
	assert.Equal(t, "slot-2", slots[1].ID)

	require.NoError(t, mock.ExpectationsWereMet())
}
