package service_test

import (
	"context"
	"errors"
	"testing"

	"tutorbook/config"
	"tutorbook/infras/otel/mocks"
	planMocks "tutorbook/internal/domains/pricingplan/mocks"
	"tutorbook/internal/domains/pricingplan/model"
	"tutorbook/internal/domains/pricingplan/model/dto"
	"tutorbook/internal/domains/pricingplan/service"
	cacheMocks "tutorbook/shared/cache/mocks"
	"tutorbook/shared/constant"
	gDto "tutorbook/shared/dto"
	"tutorbook/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestPricingPlanService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockRepo := planMocks.NewMockPricingPlan(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(mockRepo, &config.Config{}, mockCache, mocks.NewOtel())

	tests := []struct {
		name      string
		req       dto.CreatePricingPlanRequest
		setupMock func()
		wantErr   bool
		wantSess  int
	}{
		{
			name: "single session plan",
			req:  dto.CreatePricingPlanRequest{Name: "Single", Price: 2500, Currency: "USD"},
			setupMock: func() {
				mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantSess: 1,
		},
		{
			name: "bundle plan",
			req:  dto.CreatePricingPlanRequest{Name: "Pack of 5", Price: 10000, Currency: "USD", Sessions: 5},
			setupMock: func() {
				mockRepo.EXPECT().Insert(gomock.Any(), gomock.Cond(func(p model.PricingPlan) bool {
					return p.IsBundle() && p.Active
				})).Return(nil)
			},
			wantSess: 5,
		},
		{
			name: "repository error",
			req:  dto.CreatePricingPlanRequest{Name: "Single", Price: 2500, Currency: "USD"},
			setupMock: func() {
				mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")
			res, err := svc.Create(ctx, tt.req)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantSess, res.Sessions)
			assert.Equal(t, "admin-1", res.CreatedBy)
		})
	}
}

func TestPricingPlanService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockRepo := planMocks.NewMockPricingPlan(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(mockRepo, &config.Config{}, mockCache, mocks.NewOtel())

	mockCache.EXPECT().Get(gomock.Any(), "pricing_plan:get:p1", gomock.Any()).Return(errors.New("cache miss"))
	mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.PricingPlan{ID: "p1", Name: "Single", Price: 2500, Currency: "USD", Sessions: 1}, nil)

	res, err := svc.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(2500), res.Price)

	mockCache.EXPECT().Get(gomock.Any(), "pricing_plan:get:missing", gomock.Any()).Return(errors.New("cache miss"))
	mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.PricingPlan{}, nil)

	_, err = svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, 404, failure.GetCode(err))
}

func TestPricingPlanService_GetAll(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockRepo := planMocks.NewMockPricingPlan(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).Times(2)

	svc := service.New(mockRepo, &config.Config{}, mockCache, mocks.NewOtel())

	mockRepo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(11, nil)
	mockRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.PricingPlan{{ID: "p1"}, {ID: "p2"}}, nil)

	res, err := svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})
	require.NoError(t, err)
	assert.Len(t, res.PricingPlans, 2)
	assert.Equal(t, 2, res.TotalPage)
	assert.Equal(t, 11, res.TotalData)
}
