package dto_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"tutorbook/shared/constant"
	"tutorbook/shared/dto"
	"tutorbook/shared/model"

	"github.com/stretchr/testify/assert"
)

func TestMetadata_FromModel(t *testing.T) {
	// Create test time values
	createdAt := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	modifiedAt := time.Date(2023, 1, 2, 12, 0, 0, 0, time.UTC)

	modelMetadata := model.Metadata{
		CreatedAt:  createdAt,
		ModifiedAt: modifiedAt,
		CreatedBy:  "creator",
		ModifiedBy: "modifier",
	}

	metadata := &dto.Metadata{}
	metadata.FromModel(modelMetadata)

	expectedCreatedAt := createdAt.Format(constant.DateFormat)
	expectedModifiedAt := modifiedAt.Format(constant.DateFormat)

	if metadata.CreatedAt != expectedCreatedAt {
		t.Errorf("expected CreatedAt to be %s, got %s", expectedCreatedAt, metadata.CreatedAt)
	}

	if metadata.ModifiedAt != expectedModifiedAt {
		t.Errorf("expected ModifiedAt to be %s, got %s", expectedModifiedAt, metadata.ModifiedAt)
	}

	if metadata.CreatedBy != "creator" {
		t.Errorf("expected CreatedBy to be 'creator', got %s", metadata.CreatedBy)
	}

	if metadata.ModifiedBy != "modifier" {
		t.Errorf("expected ModifiedBy to be 'modifier', got %s", metadata.ModifiedBy)
	}
}

func TestQueryParams_FromRequest(t *testing.T) {
	sortable := []string{"start_time", "created_at"}

	tests := []struct {
		name     string
		query    string
		defaults bool
		want     dto.QueryParams
	}{
		{
			name:  "all parameters",
			query: "page=2&limit=20&sort_by=start_time&sort_dir=asc",
			want:  dto.QueryParams{Page: 2, Limit: 20, SortBy: "start_time", SortDir: dto.SortDirAsc},
		},
		{
			name:     "defaults when nothing is given",
			defaults: true,
			want:     dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name: "nothing is given and defaults are off",
			want: dto.QueryParams{},
		},
		{
			name:     "invalid and non positive paging",
			query:    "page=-1&limit=abc",
			defaults: true,
			want:     dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:  "limit is capped",
			query: "limit=5000",
			want:  dto.QueryParams{Limit: dto.MaxLimit},
		},
		{
			name:     "unknown sort column is dropped",
			query:    "sort_by=start_time%20DESC%2C%20id&sort_dir=DESC",
			defaults: true,
			want:     dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit, SortDir: dto.SortDirDesc},
		},
		{
			name:     "sort without direction is ascending",
			query:    "sort_by=Created_At",
			defaults: true,
			want:     dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit, SortBy: "created_at", SortDir: dto.SortDirAsc},
		},
		{
			name:  "invalid direction is ignored",
			query: "sort_by=start_time&sort_dir=sideways",
			want:  dto.QueryParams{SortBy: "start_time"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/v1/slots", nil)
			request.URL.RawQuery = tt.query

			got := dto.QueryParams{}
			got.FromRequest(request, tt.defaults, sortable...)

			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("no sortable columns ignores sort_by", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/v1/plans?sort_by=name", nil)

		got := dto.QueryParams{}
		got.FromRequest(request, false)

		assert.Empty(t, got.SortBy)
	})
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	group := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "start_time", ArgName: "day_start", Operator: dto.FilterOperatorGreaterEq, Value: start, Table: "slots"},
			dto.Filter{Field: "start_time", ArgName: "day_end", Operator: dto.FilterOperatorLess, Value: end, Table: "slots"},
			dto.Filter{Field: "status", Operator: dto.FilterOperatorIn, Value: []string{"candidate", "confirmed"}, Table: "slots"},
		},
	}

	where, args := group.GetWhereClause()

	expected := "(slots.start_time >= :day_start AND slots.start_time < :day_end AND slots.status IN (:status_0, :status_1) )"
	if where != expected {
		t.Errorf("expected where clause %q, got %q", expected, where)
	}

	if args["day_start"] != start || args["day_end"] != end {
		t.Errorf("expected time bounds in args, got %v", args)
	}

	if args["status_0"] != "candidate" || args["status_1"] != "confirmed" {
		t.Errorf("expected expanded IN args, got %v", args)
	}
}

func TestFilter_GreaterOperator(t *testing.T) {
	filter := dto.Filter{Field: "end_time", Operator: dto.FilterOperatorGreater, Value: 5}

	where, args := filter.GetWhereClause()
	if where != "end_time > :end_time" {
		t.Errorf("unexpected where clause %q", where)
	}

	if args["end_time"] != 5 {
		t.Errorf("unexpected args %v", args)
	}
}
