package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"mesa/config"
	"mesa/infras/otel"
	"mesa/infras/postgres"
	"mesa/internal/domains/reservation/model"
	tableModel "mesa/internal/domains/table/model"
	"mesa/shared/constant"
	gDto "mesa/shared/dto"
	"mesa/shared/logger"
	gRepo "mesa/shared/repository"
	"mesa/shared/timezone"
)

// Reservation is the ledger's storage contract. Conflict checks run against
// the authoritative store; the Tx variants run inside the allocation
// transaction so the check and the write cannot be separated by a
// concurrent insert.
type Reservation interface {
	WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
	LockTableTx(ctx context.Context, tx *sqlx.Tx, tableID string) error
	HasConflict(ctx context.Context, tableID string, window model.Window) (bool, error)
	HasConflictTx(ctx context.Context, tx *sqlx.Tx, tableID string, window model.Window) (bool, error)
	InsertTx(ctx context.Context, tx *sqlx.Tx, model model.Reservation) error
	CodeInUseTx(ctx context.Context, tx *sqlx.Tx, code string) (bool, error)
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Reservation, error)
	FindByPhone(ctx context.Context, phone string) ([]model.CustomerReservation, error)
	MarkCancelled(ctx context.Context, id, phone string) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Reservation]
	db           *postgres.Connection
	otel         otel.Otel
	queryTimeout time.Duration
}

func New(db *postgres.Connection, cfg *config.Config, otel otel.Otel) Reservation {
	return &repositoryImpl{
		Repository:   gRepo.NewRepository[model.Reservation](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:           db,
		otel:         otel,
		queryTimeout: time.Duration(cfg.DB.Postgres.QueryTimeoutSeconds) * time.Second,
	}
}

// WithTx runs fn inside a single transaction on the write connection, under
// the configured query timeout. Rollback on any error, commit otherwise.
func (repo *repositoryImpl) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.WithTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	ctx, cancel := context.WithTimeout(ctx, repo.queryTimeout)
	defer cancel()

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to begin transaction (%s): %w", model.EntityName, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()

			panic(p)
		}
	}()

	if err = fn(tx); err != nil {
		_ = tx.Rollback()

		return err
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to commit transaction (%s): %w", model.EntityName, err)
	}

	return nil
}

// LockTableTx takes a row lock on the candidate table for the duration of
// the transaction. The conflict re-check after this lock is what prevents a
// double booking between concurrent create calls.
func (repo *repositoryImpl) LockTableTx(ctx context.Context, tx *sqlx.Tx, tableID string) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.LockTableTx")
	defer scope.End()

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 FOR UPDATE", tableModel.FieldID, tableModel.TableName, tableModel.FieldID)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var id string
	if err := tx.GetContext(ctx, &id, query, tableID); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to lock table row: %w", err)
	}

	return nil
}

// Every reservation occupies the same fixed service window, so an existing
// reservation overlaps [start, end) exactly when its own start falls inside
// (start - duration, end). That keeps the predicate a plain range scan on
// the (table_id, scheduled_at) index.
const conflictQuery = `SELECT EXISTS(
	SELECT 1 FROM reservations
	WHERE table_id = :table_id
	  AND status = :status
	  AND scheduled_at > :window_floor
	  AND scheduled_at < :window_end
)`

func (repo *repositoryImpl) hasConflict(ctx context.Context, db sqlx.ExtContext, tableID string, window model.Window) (bool, error) {
	args := map[string]any{
		"table_id":     tableID,
		"status":       model.StatusConfirmed,
		"window_floor": window.Start.Add(-window.Duration()),
		"window_end":   window.End,
	}

	rows, err := sqlx.NamedQueryContext(ctx, db, conflictQuery, args)
	if err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to check reservation conflict: %w", err)
	}
	defer rows.Close()

	exists := false
	if rows.Next() {
		if err := rows.Scan(&exists); err != nil {
			logger.ErrorWithStack(err)

			return false, fmt.Errorf("failed to scan reservation conflict: %w", err)
		}
	}

	return exists, rows.Err() //nolint:wrapcheck
}

// HasConflict answers the conflict question against the read connection. It
// is intentionally not transactional; the planner tolerates momentarily
// stale answers and create re-validates under lock.
func (repo *repositoryImpl) HasConflict(ctx context.Context, tableID string, window model.Window) (bool, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.HasConflict")
	defer scope.End()

	ctx, cancel := context.WithTimeout(ctx, repo.queryTimeout)
	defer cancel()

	return repo.hasConflict(ctx, repo.db.Read, tableID, window)
}

// HasConflictTx answers the conflict question inside the allocation
// transaction, after the table row lock has been taken.
func (repo *repositoryImpl) HasConflictTx(ctx context.Context, tx *sqlx.Tx, tableID string, window model.Window) (bool, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.HasConflictTx")
	defer scope.End()

	return repo.hasConflict(ctx, tx, tableID, window)
}

const codeInUseQuery = `SELECT EXISTS(
	SELECT 1 FROM reservations
	WHERE confirmation_code = :code AND status = :confirmed
)`

// CodeInUseTx reports whether a confirmation code is already held by a
// confirmed reservation. Checked inside the allocation transaction before
// insert; the partial unique index remains the hard guarantee.
func (repo *repositoryImpl) CodeInUseTx(ctx context.Context, tx *sqlx.Tx, code string) (bool, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.CodeInUseTx")
	defer scope.End()

	args := map[string]any{
		"code":      code,
		"confirmed": model.StatusConfirmed,
	}

	rows, err := sqlx.NamedQueryContext(ctx, tx, codeInUseQuery, args)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to check confirmation code: %w", err)
	}
	defer rows.Close()

	exists := false
	if rows.Next() {
		if err := rows.Scan(&exists); err != nil {
			logger.ErrorWithStack(err)
			scope.TraceError(err)

			return false, fmt.Errorf("failed to scan confirmation code check: %w", err)
		}
	}

	return exists, rows.Err() //nolint:wrapcheck
}

const findByPhoneQuery = `SELECT r.id, r.phone, r.table_id, r.party_size, r.scheduled_at, r.status,
	r.confirmation_code, r.created_at, r.modified_at, r.created_by, r.modified_by,
	t.number AS table_number, t.area AS table_area
FROM reservations r
JOIN restaurant_tables t ON t.id = r.table_id
WHERE r.phone = :phone
ORDER BY r.created_at ASC`

// FindByPhone returns every reservation of a customer, joined with its
// table, in creation order.
func (repo *repositoryImpl) FindByPhone(ctx context.Context, phone string) ([]model.CustomerReservation, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.FindByPhone")
	defer scope.End()

	ctx, cancel := context.WithTimeout(ctx, repo.queryTimeout)
	defer cancel()

	scope.SetAttribute(constant.OtelQueryAttributeKey, findByPhoneQuery)

	var reservations []model.CustomerReservation

	rows, err := sqlx.NamedQueryContext(ctx, repo.db.Read, findByPhoneQuery, map[string]any{"phone": phone})
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to find reservations by phone: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var reservation model.CustomerReservation
		if err := rows.StructScan(&reservation); err != nil {
			logger.ErrorWithStack(err)
			scope.TraceError(err)

			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}

		reservations = append(reservations, reservation)
	}

	return reservations, rows.Err() //nolint:wrapcheck
}

const markCancelledQuery = `UPDATE reservations
SET status = :cancelled, modified_at = :now, modified_by = :phone
WHERE id = :id AND phone = :phone AND status = :confirmed`

// MarkCancelled transitions one owned, still-confirmed reservation to
// cancelled. The guard in the WHERE clause makes the operation safe to race:
// only one caller observes a transition.
func (repo *repositoryImpl) MarkCancelled(ctx context.Context, id, phone string) (bool, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.MarkCancelled")
	defer scope.End()

	ctx, cancel := context.WithTimeout(ctx, repo.queryTimeout)
	defer cancel()

	scope.SetAttribute(constant.OtelQueryAttributeKey, markCancelledQuery)

	result, err := repo.db.Write.NamedExecContext(ctx, markCancelledQuery, map[string]any{
		"id":        id,
		"phone":     phone,
		"cancelled": model.StatusCancelled,
		"confirmed": model.StatusConfirmed,
		"now":       timezone.Now(),
	})
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to cancel reservation: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to read cancellation result: %w", err)
	}

	return affected > 0, nil
}
