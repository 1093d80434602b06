package dto

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"tutorbook/shared/constant"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"

	// MaxLimit caps the page size a caller can ask for.
	MaxLimit = 100
)

type QueryParams struct {
	Page    int    `json:"page"     validate:"omitempty"`
	Limit   int    `json:"limit"    validate:"omitempty,max=100"`
	SortBy  string `json:"sort_by"  validate:"omitempty"`
	SortDir string `json:"sort_dir" validate:"omitempty,oneof=ASC DESC"`
}

// FromRequest reads paging and ordering from the query string.
//
// sort_by ends up in an ORDER BY clause verbatim, so it is kept only when it names one of
// the sortable columns. With defaults set, a missing page or limit falls back to
// DefaultValuePage and DefaultValueLimit and a sort without direction sorts ascending.
func (q *QueryParams) FromRequest(r *http.Request, defaults bool, sortable ...string) {
	query := r.URL.Query()

	q.Page = positiveOr(query.Get(constant.RequestParamPage), q.Page)
	q.Limit = min(positiveOr(query.Get(constant.RequestParamLimit), q.Limit), MaxLimit)

	if sortBy := strings.ToLower(strings.TrimSpace(query.Get(constant.RequestParamSortBy))); slices.Contains(sortable, sortBy) {
		q.SortBy = sortBy
	}

	switch sortDir := strings.ToUpper(query.Get(constant.RequestParamSortDir)); sortDir {
	case SortDirAsc, SortDirDesc:
		q.SortDir = sortDir
	}

	if !defaults {
		return
	}

	if q.Page == 0 {
		q.Page = constant.DefaultValuePage
	}

	if q.Limit == 0 {
		q.Limit = constant.DefaultValueLimit
	}

	if q.SortBy != constant.Empty && q.SortDir == constant.Empty {
		q.SortDir = SortDirAsc
	}
}

func positiveOr(raw string, fallback int) int {
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}

	return value
}
