package recurring

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

// pgUniqueViolation код ошибки PostgreSQL для нарушения уникального индекса
const pgUniqueViolation = "23505"

var templateColumns = []string{
	"id",
	"consultant_id",
	"weekday",
	"start_time",
	"duration_minutes",
	"timezone",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий recurring-шаблонов и резерваций их occurrences
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateTemplate создает новый шаблон еженедельного расписания
func (r *Repository) CreateTemplate(ctx context.Context, template *domain.RecurringTemplate) (*domain.RecurringTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("recurring_templates").
		Columns(
			"id",
			"consultant_id",
			"weekday",
			"start_time",
			"duration_minutes",
			"timezone",
			"is_active",
		).
		Values(
			template.ID,
			template.ConsultantID,
			int(template.Weekday),
			template.StartTime,
			template.DurationMinutes,
			template.Timezone,
			template.IsActive,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateTemplate - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateTemplate - execute insert: %v", ErrExecQuery, err)
	}

	template.CreatedAt = createdAt.Time
	template.UpdatedAt = updatedAt.Time

	return template, nil
}

// GetTemplateByID получает шаблон по ID
func (r *Repository) GetTemplateByID(ctx context.Context, id string) (*domain.RecurringTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(templateColumns...).
		From("recurring_templates").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetTemplateByID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetTemplateByID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	templates, err := r.scanTemplates(rows)
	if err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return nil, ErrTemplateNotFound
	}

	return templates[0], nil
}

// ListActiveByConsultant получает активные шаблоны консультанта
// Опционально фильтрует по дню недели
func (r *Repository) ListActiveByConsultant(ctx context.Context, consultantID string, weekday *time.Weekday) ([]*domain.RecurringTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(templateColumns...).
		From("recurring_templates").
		Where(squirrel.Eq{
			"consultant_id": consultantID,
			"is_active":     true,
		}).
		OrderBy("weekday ASC, start_time ASC")

	if weekday != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"weekday": int(*weekday)})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByConsultant - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByConsultant - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanTemplates(rows)
}

// DeactivateTemplate помечает шаблон неактивным
// Уже созданные бронирования по его occurrences не затрагиваются
func (r *Repository) DeactivateTemplate(ctx context.Context, id, consultantID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("recurring_templates").
		Set("is_active", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "consultant_id": consultantID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeactivateTemplate - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeactivateTemplate - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeactivateTemplate - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrTemplateNotFound
	}

	return nil
}

// ReserveOccurrence атомарно резервирует occurrence шаблона на дату.
// Виртуальный слот не имеет статусной строки, поэтому точкой сериализации
// служит уникальный индекс (template_id, occurrence_date, start_time):
// из конкурентных вставок одна проходит, остальные получают
// ErrOccurrenceTaken - полный аналог CAS по статусу concrete-слота
func (r *Repository) ReserveOccurrence(ctx context.Context, templateID string, date time.Time, startTime types.TimeString, bookingID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("recurring_reservations").
		Columns(
			"template_id",
			"occurrence_date",
			"start_time",
			"booking_id",
		).
		Values(
			templateID,
			date,
			startTime,
			bookingID,
		).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ReserveOccurrence - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return ErrOccurrenceTaken
		}
		return fmt.Errorf("%w: ReserveOccurrence - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// ReleaseOccurrence снимает резервацию occurrence
// (компенсация неудачного бронирования или отмена)
func (r *Repository) ReleaseOccurrence(ctx context.Context, templateID string, date time.Time, startTime types.TimeString) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("recurring_reservations").
		Where(squirrel.Eq{
			"template_id":     templateID,
			"occurrence_date": date,
			"start_time":      startTime,
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ReleaseOccurrence - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: ReleaseOccurrence - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: ReleaseOccurrence - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

// ListReservedOccurrences возвращает занятые времена occurrences шаблонов
// на дату в виде множества "templateID|HH:MM"
func (r *Repository) ListReservedOccurrences(ctx context.Context, templateIDs []string, date time.Time) (map[string]struct{}, error) {
	if len(templateIDs) == 0 {
		return map[string]struct{}{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("template_id", "start_time").
		From("recurring_reservations").
		Where(squirrel.Eq{
			"template_id":     templateIDs,
			"occurrence_date": date,
		}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListReservedOccurrences - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListReservedOccurrences - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	reserved := make(map[string]struct{})
	for rows.Next() {
		var templateID string
		var startTime types.TimeString
		if err := rows.Scan(&templateID, &startTime); err != nil {
			return nil, fmt.Errorf("%w: ListReservedOccurrences - scan row: %v", ErrScanRow, err)
		}
		reserved[OccurrenceKey(templateID, startTime)] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListReservedOccurrences - rows error: %v", ErrScanRow, err)
	}

	return reserved, nil
}

// OccurrenceKey ключ occurrence в множестве занятых времен
func OccurrenceKey(templateID string, startTime types.TimeString) string {
	return templateID + "|" + startTime.String()
}

// scanTemplates сканирует результаты запроса в слайс шаблонов
func (r *Repository) scanTemplates(rows *sql.Rows) ([]*domain.RecurringTemplate, error) {
	templates := make([]*domain.RecurringTemplate, 0)

	for rows.Next() {
		var template domain.RecurringTemplate
		var weekday int
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&template.ID,
			&template.ConsultantID,
			&weekday,
			&template.StartTime,
			&template.DurationMinutes,
			&template.Timezone,
			&template.IsActive,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanTemplates - scan template: %v", ErrScanRow, err)
		}

		template.Weekday = time.Weekday(weekday)
		template.CreatedAt = createdAt.Time
		template.UpdatedAt = updatedAt.Time
		templates = append(templates, &template)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanTemplates - rows error: %v", ErrScanRow, err)
	}

	return templates, nil
}
