package recurring_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CNP-SchedulerService/internal/domain"
	"github.com/m04kA/CNP-SchedulerService/internal/infra/storage/recurring"
)

func newMock(t *testing.T) (*recurring.Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return recurring.NewRepository(db), mock
}

func templateRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "consultant_id", "weekday", "start_time", "duration_minutes",
		"timezone", "is_active", "created_at", "updated_at",
	})
}

func TestRepository_CreateTemplate(t *testing.T) {
	repo, mock := newMock(t)

	now := time.Now()
	mock.ExpectQuery("INSERT INTO recurring_templates").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	created, err := repo.CreateTemplate(context.Background(), &domain.RecurringTemplate{
		ID:              "tmpl-1",
		ConsultantID:    "consultant-1",
		Weekday:         time.Tuesday,
		StartTime:       "10:00",
		DurationMinutes: 60,
		Timezone:        "Asia/Seoul",
		IsActive:        true,
	})
	require.NoError(t, err)
	assert.Equal(t, now, created.CreatedAt)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetTemplateByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectQuery("SELECT .+ FROM recurring_templates").
			WithArgs("tmpl-1").
			WillReturnRows(templateRows().
				AddRow("tmpl-1", "consultant-1", 2, "10:00", 60, "Asia/Seoul", true, time.Now(), time.Now()))

		template, err := repo.GetTemplateByID(context.Background(), "tmpl-1")
		require.NoError(t, err)
		assert.Equal(t, time.Tuesday, template.Weekday)
		assert.True(t, template.IsActive)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectQuery("SELECT .+ FROM recurring_templates").
			WithArgs("missing").
			WillReturnRows(templateRows())

		_, err := repo.GetTemplateByID(context.Background(), "missing")
		assert.ErrorIs(t, err, recurring.ErrTemplateNotFound)
	})
}

func TestRepository_DeactivateTemplate(t *testing.T) {
	t.Run("deactivated", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectExec("UPDATE recurring_templates SET").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.DeactivateTemplate(context.Background(), "tmpl-1", "consultant-1"))
	})

	t.Run("wrong owner", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectExec("UPDATE recurring_templates SET").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.DeactivateTemplate(context.Background(), "tmpl-1", "someone-else")
		assert.ErrorIs(t, err, recurring.ErrTemplateNotFound)
	})
}

func TestRepository_ReserveOccurrence(t *testing.T) {
	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

	t.Run("reserved", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectExec("INSERT INTO recurring_reservations").
			WithArgs("tmpl-1", date, "10:00", "booking-1").
			WillReturnResult(sqlmock.NewResult(1, 1))

		require.NoError(t, repo.ReserveOccurrence(context.Background(), "tmpl-1", date, "10:00", "booking-1"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("occurrence already taken", func(t *testing.T) {
		repo, mock := newMock(t)

		// Конкурирующая вставка выиграла: уникальный индекс отбивает нашу
		mock.ExpectExec("INSERT INTO recurring_reservations").
			WillReturnError(&pq.Error{Code: "23505"})

		err := repo.ReserveOccurrence(context.Background(), "tmpl-1", date, "10:00", "booking-2")
		assert.ErrorIs(t, err, recurring.ErrOccurrenceTaken)
	})
}

func TestRepository_ReleaseOccurrence(t *testing.T) {
	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

	t.Run("released", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectExec("DELETE FROM recurring_reservations").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.ReleaseOccurrence(context.Background(), "tmpl-1", date, "10:00"))
	})

	t.Run("reservation not found", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectExec("DELETE FROM recurring_reservations").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.ReleaseOccurrence(context.Background(), "tmpl-1", date, "10:00")
		assert.ErrorIs(t, err, recurring.ErrReservationNotFound)
	})
}

func TestRepository_ListReservedOccurrences(t *testing.T) {
	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

	t.Run("builds occurrence keys", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectQuery("SELECT template_id, start_time FROM recurring_reservations").
			WillReturnRows(sqlmock.NewRows([]string{"template_id", "start_time"}).
				AddRow("tmpl-1", "10:00").
				AddRow("tmpl-2", "12:30"))

		reserved, err := repo.ListReservedOccurrences(context.Background(), []string{"tmpl-1", "tmpl-2"}, date)
		require.NoError(t, err)
		assert.Len(t, reserved, 2)
		assert.Contains(t, reserved, "tmpl-1|10:00")
		assert.Contains(t, reserved, "tmpl-2|12:30")
	})

	t.Run("no templates short-circuits", func(t *testing.T) {
		repo, mock := newMock(t)

		reserved, err := repo.ListReservedOccurrences(context.Background(), nil, date)
		require.NoError(t, err)
		assert.Empty(t, reserved)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
