package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/CNP-SchedulerService/internal/domain"
	"github.com/m04kA/CNP-SchedulerService/pkg/dbmetrics"
	"github.com/m04kA/CNP-SchedulerService/pkg/psqlbuilder"
	"github.com/m04kA/CNP-SchedulerService/pkg/types"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

const pgUniqueViolation = "23505"

var slotColumns = []string{
	"id",
	"consultant_id",
	"slot_date",
	"start_time",
	"end_time",
	"status",
	"booking_id",
	"created_at",
	"updated_at",
}

// Repository репозиторий конкретных слотов - единственная точка
// сериализации конкурентных бронирований одного слота
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новый слот в статусе available
func (r *Repository) Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("slots").
		Columns(
			"id",
			"consultant_id",
			"slot_date",
			"start_time",
			"end_time",
			"status",
		).
		Values(
			slot.ID,
			slot.ConsultantID,
			slot.Date,
			slot.StartTime,
			slot.EndTime,
			slot.Status,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return nil, ErrSlotAlreadyExists
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time

	return slot, nil
}

// FindAvailable ищет свободный слот по (консультант, дата, время начала)
// Все параметры в canonical времени
func (r *Repository) FindAvailable(ctx context.Context, consultantID string, date time.Time, startTime types.TimeString) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("slots").
		Where(squirrel.Eq{
			"consultant_id": consultantID,
			"slot_date":     date,
			"start_time":    startTime,
			"status":        domain.SlotStatusAvailable,
		}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindAvailable - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanSlot(executor.QueryRowContext(ctx, query, args...), "FindAvailable")
}

// GetAvailableByID получает свободный слот по ID с проверкой владельца
func (r *Repository) GetAvailableByID(ctx context.Context, id, consultantID string) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("slots").
		Where(squirrel.Eq{
			"id":            id,
			"consultant_id": consultantID,
			"status":        domain.SlotStatusAvailable,
		}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetAvailableByID - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanSlot(executor.QueryRowContext(ctx, query, args...), "GetAvailableByID")
}

// ListByConsultantAndDate получает все слоты консультанта на дату
// Опционально фильтрует по статусу
func (r *Repository) ListByConsultantAndDate(ctx context.Context, consultantID string, date time.Time, status *domain.SlotStatus) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("slots").
		Where(squirrel.Eq{
			"consultant_id": consultantID,
			"slot_date":     date,
		}).
		OrderBy("start_time ASC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByConsultantAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByConsultantAndDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanSlots(rows)
}

// MarkPending атомарно переводит слот available -> pending (compare-and-swap).
// Условие по статусу входит в сам UPDATE: из конкурентных вызовов для одного
// слота ровно один увидит rowsAffected == 1, остальные - ErrSlotNotAvailable.
// Это единственная точка, предотвращающая двойное бронирование concrete-слота
func (r *Repository) MarkPending(ctx context.Context, slotID, bookingID string) error {
	return r.casStatus(ctx, "MarkPending", slotID,
		[]domain.SlotStatus{domain.SlotStatusAvailable},
		domain.SlotStatusPending,
		&bookingID,
	)
}

// MarkBooked переводит слот pending -> booked при подтверждении бронирования
func (r *Repository) MarkBooked(ctx context.Context, slotID string) error {
	return r.casStatus(ctx, "MarkBooked", slotID,
		[]domain.SlotStatus{domain.SlotStatusPending},
		domain.SlotStatusBooked,
		nil,
	)
}

// Release возвращает слот в available из pending или booked
// (компенсация неудачного бронирования или явная отмена).
// booking_id при этом очищается
func (r *Repository) Release(ctx context.Context, slotID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("status", domain.SlotStatusAvailable).
		Set("booking_id", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":     slotID,
			"status": []domain.SlotStatus{domain.SlotStatusPending, domain.SlotStatusBooked},
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Release - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Release - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Release - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotNotAvailable
	}

	return nil
}

// casStatus выполняет условный переход статуса слота
func (r *Repository) casStatus(ctx context.Context, op, slotID string, from []domain.SlotStatus, to domain.SlotStatus, bookingID *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("slots").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":     slotID,
			"status": from,
		})

	if bookingID != nil {
		updateBuilder = updateBuilder.Set("booking_id", *bookingID)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrSlotNotAvailable
	}

	return nil
}

func (r *Repository) scanSlot(row *sql.Row, op string) (*domain.Slot, error) {
	var slot domain.Slot
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&slot.ID,
		&slot.ConsultantID,
		&slot.Date,
		&slot.StartTime,
		&slot.EndTime,
		&slot.Status,
		&slot.BookingID,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan slot: %v", ErrScanRow, op, err)
	}

	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time

	return &slot, nil
}

func (r *Repository) scanSlots(rows *sql.Rows) ([]*domain.Slot, error) {
	slots := make([]*domain.Slot, 0)

	for rows.Next() {
		var slot domain.Slot
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&slot.ID,
			&slot.ConsultantID,
			&slot.Date,
			&slot.StartTime,
			&slot.EndTime,
			&slot.Status,
			&slot.BookingID,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanSlots - scan slot: %v", ErrScanRow, err)
		}

		slot.CreatedAt = createdAt.Time
		slot.UpdatedAt = updatedAt.Time
		slots = append(slots, &slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSlots - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}
