package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"tutorbook/infras/otel"
	"tutorbook/infras/postgres"
	"tutorbook/internal/domains/workflow/model"
	gDto "tutorbook/shared/dto"
	gRepo "tutorbook/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Workflow interface {
	Insert(ctx context.Context, model model.Workflow) error
	InsertTx(ctx context.Context, tx *sqlx.Tx, model model.Workflow) error
	GetTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Workflow, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Workflow, error)
	UpdateTx(ctx context.Context, tx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Workflow]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Workflow {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Workflow](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
