package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tutorbook/infras/otel"
	"tutorbook/infras/postgres"
	"tutorbook/internal/domains/ledger/model"
	"tutorbook/shared/constant"
	gDto "tutorbook/shared/dto"
	"tutorbook/shared/logger"
	gRepo "tutorbook/shared/repository"

	"github.com/jmoiron/sqlx"
)

var (
	snapshotQuery = fmt.Sprintf("SELECT %s, %s, %s, %s, %s, %s FROM %s WHERE %s = $1",
		model.FieldSlotID, model.FieldCapacity, model.FieldOccupied, model.FieldConfirmed, model.FieldVersion, model.FieldModifiedAt,
		model.TableName, model.FieldSlotID)

	compareAndSwapQuery = fmt.Sprintf(
		"UPDATE %[1]s SET %[2]s = :%[2]s, %[3]s = :%[3]s, %[4]s = :%[4]s, %[5]s = :%[5]s, %[6]s = %[6]s + 1 WHERE %[7]s = :%[7]s AND %[6]s = :%[6]s",
		model.TableName, model.FieldCapacity, model.FieldOccupied, model.FieldConfirmed, model.FieldModifiedAt, model.FieldVersion, model.FieldSlotID)
)

type Ledger interface {
	InsertTx(ctx context.Context, tx *sqlx.Tx, model model.Ledger) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Ledger, error)
	// SnapshotTx reads the row without locking it. Writers must go through CompareAndSwapTx.
	SnapshotTx(ctx context.Context, tx *sqlx.Tx, slotID string) (model.Ledger, error)
	// CompareAndSwapTx stores next only if the stored version still equals next.Version.
	CompareAndSwapTx(ctx context.Context, tx *sqlx.Tx, next model.Ledger) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Ledger]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Ledger {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Ledger](model.EntityName, model.TableName, model.FieldSlotID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) SnapshotTx(ctx context.Context, tx *sqlx.Tx, slotID string) (res model.Ledger, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".ledger.SnapshotTx")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, snapshotQuery)

	err = tx.GetContext(ctx, &res, snapshotQuery, slotID)
	if errors.Is(err, sql.ErrNoRows) {
		return res, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return res, fmt.Errorf("failed to read ledger: %w", err)
	}

	return res, nil
}

func (r *repositoryImpl) CompareAndSwapTx(ctx context.Context, tx *sqlx.Tx, next model.Ledger) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".ledger.CompareAndSwapTx")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, compareAndSwapQuery)

	result, err := tx.NamedExecContext(ctx, compareAndSwapQuery, next)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to update ledger: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to read ledger update result: %w", err)
	}

	return affected == 1, nil
}
