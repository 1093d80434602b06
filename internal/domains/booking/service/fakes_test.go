package service_test

import (
	"cmp"
	"context"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"

	"tutorbook/internal/domains/booking/event"
	ledgerModel "tutorbook/internal/domains/ledger/model"
	gDto "tutorbook/shared/dto"

	"github.com/jmoiron/sqlx"
)

// memDB is an in-memory stand-in for postgres. Writes made through a transaction are
// undone when the transaction function fails.
type memDB struct {
	mu   sync.Mutex
	undo map[*sqlx.Tx][]func()
}

func newMemDB() *memDB {
	return &memDB{undo: map[*sqlx.Tx][]func(){}}
}

func (db *memDB) WithinTx(_ context.Context, fn func(tx *sqlx.Tx) error) error {
	tx := new(sqlx.Tx)

	db.mu.Lock()
	db.undo[tx] = nil
	db.mu.Unlock()

	err := fn(tx)

	db.mu.Lock()
	defer db.mu.Unlock()

	if err != nil {
		steps := db.undo[tx]
		for i := len(steps) - 1; i >= 0; i-- {
			steps[i]()
		}
	}

	delete(db.undo, tx)

	return err
}

// onRollback must be called with mu held.
func (db *memDB) onRollback(tx *sqlx.Tx, step func()) {
	if tx == nil {
		return
	}

	db.undo[tx] = append(db.undo[tx], step)
}

// table stores rows of one model and answers the repository calls the booking service makes.
type table[T any] struct {
	db    *memDB
	key   func(T) string
	rows  map[string]T
	order []string
}

func newTable[T any](db *memDB, key func(T) string) *table[T] {
	return &table[T]{db: db, key: key, rows: map[string]T{}}
}

func (t *table[T]) insert(tx *sqlx.Tx, row T) error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()

	key := t.key(row)
	if _, ok := t.rows[key]; ok {
		return fmt.Errorf("duplicate key %s", key)
	}

	t.rows[key] = row
	t.order = append(t.order, key)

	t.db.onRollback(tx, func() {
		delete(t.rows, key)
		t.order = slices.DeleteFunc(t.order, func(k string) bool { return k == key })
	})

	return nil
}

func (t *table[T]) Insert(_ context.Context, row T) error {
	return t.insert(nil, row)
}

func (t *table[T]) InsertTx(_ context.Context, tx *sqlx.Tx, row T) error {
	return t.insert(tx, row)
}

func (t *table[T]) InsertBulkTx(_ context.Context, tx *sqlx.Tx, rows []T) error {
	for _, row := range rows {
		if err := t.insert(tx, row); err != nil {
			return err
		}
	}

	return nil
}

func (t *table[T]) Get(_ context.Context, filter gDto.FilterGroup, _ ...string) (T, error) {
	rows := t.find(gDto.QueryParams{Limit: 1}, filter)
	if len(rows) == 0 {
		var zero T

		return zero, nil
	}

	return rows[0], nil
}

func (t *table[T]) GetTx(ctx context.Context, _ *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (T, error) {
	return t.Get(ctx, filter, columns...)
}

func (t *table[T]) GetAll(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]T, error) {
	return t.find(params, filter), nil
}

func (t *table[T]) GetAllTx(ctx context.Context, _ *sqlx.Tx, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]T, error) {
	return t.GetAll(ctx, params, filter, columns...)
}

func (t *table[T]) Count(_ context.Context, filter gDto.FilterGroup) (int, error) {
	return len(t.find(gDto.QueryParams{}, filter)), nil
}

func (t *table[T]) UpdateTx(_ context.Context, tx *sqlx.Tx, fields map[string]any, filter gDto.FilterGroup) error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()

	for _, key := range t.order {
		previous := t.rows[key]
		if !matches(previous, filter) {
			continue
		}

		next := previous
		value := reflect.ValueOf(&next).Elem()

		for name, raw := range fields {
			field, ok := fieldByTag(value, name)
			if !ok {
				return fmt.Errorf("unknown column %s", name)
			}

			set := reflect.ValueOf(raw)

			switch {
			case !set.IsValid():
				field.Set(reflect.Zero(field.Type()))
			case set.Type().AssignableTo(field.Type()):
				field.Set(set)
			default:
				field.Set(set.Convert(field.Type()))
			}
		}

		t.rows[key] = next

		t.db.onRollback(tx, func() { t.rows[key] = previous })
	}

	return nil
}

func (t *table[T]) find(params gDto.QueryParams, filter gDto.FilterGroup) []T {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()

	var out []T

	for _, key := range t.order {
		if row := t.rows[key]; matches(row, filter) {
			out = append(out, row)
		}
	}

	if params.SortBy != "" {
		slices.SortStableFunc(out, func(a, b T) int {
			c := compare(column(a, params.SortBy), column(b, params.SortBy))
			if params.SortDir == gDto.SortDirDesc {
				return -c
			}

			return c
		})
	}

	if params.Limit > 0 {
		offset := 0
		if params.Page > 0 {
			offset = (params.Page - 1) * params.Limit
		}

		if offset >= len(out) {
			return nil
		}

		out = out[offset:min(len(out), offset+params.Limit)]
	}

	return out
}

// row returns the stored row for key, or the zero value.
func (t *table[T]) row(key string) T {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()

	return t.rows[key]
}

// edit changes a stored row outside of any transaction.
func (t *table[T]) edit(key string, fn func(*T)) {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()

	row := t.rows[key]
	fn(&row)
	t.rows[key] = row
}

func (t *table[T]) all() []T {
	return t.find(gDto.QueryParams{}, gDto.FilterGroup{})
}

// ledgerTable adds the versioned compare-and-swap of the ledger repository.
type ledgerTable struct {
	*table[ledgerModel.Ledger]
}

func (l ledgerTable) SnapshotTx(_ context.Context, _ *sqlx.Tx, slotID string) (ledgerModel.Ledger, error) {
	return l.row(slotID), nil
}

func (l ledgerTable) CompareAndSwapTx(_ context.Context, tx *sqlx.Tx, next ledgerModel.Ledger) (bool, error) {
	l.db.mu.Lock()
	defer l.db.mu.Unlock()

	current, ok := l.rows[next.SlotID]
	if !ok || current.Version != next.Version {
		return false, nil
	}

	stored := next
	stored.Version++
	l.rows[next.SlotID] = stored

	l.db.onRollback(tx, func() { l.rows[next.SlotID] = current })

	return true, nil
}

func matches(row any, group gDto.FilterGroup) bool {
	if len(group.Filters) == 0 {
		return true
	}

	or := group.Operator == gDto.FilterGroupOperatorOr

	for _, item := range group.Filters {
		var ok bool

		switch filter := item.(type) {
		case gDto.Filter:
			ok = matchFilter(row, filter)
		case gDto.FilterGroup:
			ok = matches(row, filter)
		}

		if or && ok {
			return true
		}

		if !or && !ok {
			return false
		}
	}

	return !or
}

func matchFilter(row any, filter gDto.Filter) bool {
	got := column(row, filter.Field)
	want := normalize(reflect.ValueOf(filter.Value))

	switch filter.Operator {
	case gDto.FilterOperatorEq:
		return equal(got, want)
	case gDto.FilterOperatorNotEq:
		return !equal(got, want)
	case gDto.FilterOperatorIn:
		values := reflect.ValueOf(filter.Value)
		for i := range values.Len() {
			if equal(got, normalize(values.Index(i))) {
				return true
			}
		}

		return false
	case gDto.FilterOperatorLess:
		return got != nil && compare(got, want) < 0
	case gDto.FilterOperatorLessEq:
		return got != nil && compare(got, want) <= 0
	case gDto.FilterOperatorGreater:
		return got != nil && compare(got, want) > 0
	case gDto.FilterOperatorGreaterEq:
		return got != nil && compare(got, want) >= 0
	case gDto.FilterIsNull:
		return got == nil
	case gDto.FilterIsNotNull:
		return got != nil
	default:
		panic("unsupported filter operator " + filter.Operator)
	}
}

func column(row any, name string) any {
	field, ok := fieldByTag(reflect.ValueOf(row), name)
	if !ok {
		panic("unknown column " + name)
	}

	return normalize(field)
}

func fieldByTag(value reflect.Value, tag string) (reflect.Value, bool) {
	for i := range value.NumField() {
		structField := value.Type().Field(i)

		if structField.Anonymous {
			if field, ok := fieldByTag(value.Field(i), tag); ok {
				return field, true
			}

			continue
		}

		if structField.Tag.Get("db") == tag {
			return value.Field(i), true
		}
	}

	return reflect.Value{}, false
}

func normalize(value reflect.Value) any {
	if !value.IsValid() {
		return nil
	}

	if t, ok := value.Interface().(time.Time); ok {
		return t
	}

	switch value.Kind() {
	case reflect.Pointer, reflect.Interface:
		if value.IsNil() {
			return nil
		}

		return normalize(value.Elem())
	case reflect.String:
		return value.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return value.Int()
	case reflect.Bool:
		if value.Bool() {
			return int64(1)
		}

		return int64(0)
	default:
		return value.Interface()
	}
}

func equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return reflect.TypeOf(a) == reflect.TypeOf(b) && compare(a, b) == 0
}

func compare(a, b any) int {
	switch x := a.(type) {
	case string:
		y, _ := b.(string)

		return strings.Compare(x, y)
	case int64:
		y, _ := b.(int64)

		return cmp.Compare(x, y)
	case time.Time:
		y, _ := b.(time.Time)

		return x.Compare(y)
	default:
		return 0
	}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
}

func (p *recordingPublisher) Publish(_ context.Context, events ...event.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, events...)
}

func (p *recordingPublisher) count(eventType event.Type) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := 0

	for _, evt := range p.events {
		if evt.Type == eventType {
			n++
		}
	}

	return n
}
