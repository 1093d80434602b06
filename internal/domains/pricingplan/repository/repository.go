package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"tutorbook/infras/otel"
	"tutorbook/infras/postgres"
	"tutorbook/internal/domains/pricingplan/model"
	gDto "tutorbook/shared/dto"
	gRepo "tutorbook/shared/repository"
)

type PricingPlan interface {
	Insert(ctx context.Context, model model.PricingPlan) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.PricingPlan, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.PricingPlan, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.PricingPlan]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) PricingPlan {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.PricingPlan](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
