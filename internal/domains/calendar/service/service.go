package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"tutorbook/infras/otel"
	"tutorbook/internal/domains/calendar/layout"
	"tutorbook/internal/domains/calendar/model/dto"
	ledgerService "tutorbook/internal/domains/ledger/service"
	slotModel "tutorbook/internal/domains/slot/model"
	slotRepo "tutorbook/internal/domains/slot/repository"
	"tutorbook/shared/constant"
	gDto "tutorbook/shared/dto"
	"tutorbook/shared/failure"
	"tutorbook/shared/timezone"

	"github.com/rs/zerolog/log"
)

// Calendar renders the slots of one day as positioned entries.
type Calendar interface {
	Day(ctx context.Context, req dto.DayRequest) (dto.DayResponse, error)
}

type serviceImpl struct {
	slotRepo slotRepo.Slot
	ledger   ledgerService.Ledger
	otel     otel.Otel
}

func New(slotRepo slotRepo.Slot, ledger ledgerService.Ledger, otel otel.Otel) Calendar {
	return &serviceImpl{
		slotRepo: slotRepo,
		ledger:   ledger,
		otel:     otel,
	}
}

func (s *serviceImpl) Day(ctx context.Context, req dto.DayRequest) (res dto.DayResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".calendar.Day")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	dayStart, dayEnd, err := timezone.DayBounds(req.Date)
	if err != nil {
		return res, failure.BadRequestFromString("date must be formatted as YYYY-MM-DD") // nolint:wrapcheck
	}

	// Slots that started the day before but run past midnight are shown too.
	filters := []any{
		gDto.Filter{Field: slotModel.FieldStartTime, Value: dayEnd, Operator: gDto.FilterOperatorLess, Table: slotModel.TableName},
		gDto.Filter{Field: slotModel.FieldEndTime, Value: dayStart, Operator: gDto.FilterOperatorGreater, Table: slotModel.TableName},
	}

	if req.ProfessorID != constant.Empty {
		filters = append(filters, gDto.Filter{Field: slotModel.FieldProfessorID, Value: req.ProfessorID, Operator: gDto.FilterOperatorEq, Table: slotModel.TableName})
	}

	if req.ClassID != constant.Empty {
		filters = append(filters, gDto.Filter{Field: slotModel.FieldClassID, Value: req.ClassID, Operator: gDto.FilterOperatorEq, Table: slotModel.TableName})
	}

	if !req.IncludeCancelled {
		filters = append(filters, gDto.Filter{
			Field:    slotModel.FieldStatus,
			Value:    string(slotModel.StatusCancelled),
			Operator: gDto.FilterOperatorNotEq,
			Table:    slotModel.TableName,
		})
	}

	params := gDto.QueryParams{SortBy: slotModel.FieldStartTime, SortDir: gDto.SortDirAsc}

	slots, err := s.slotRepo.GetAll(ctx, params, gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd, Filters: filters})
	if err != nil {
		log.Error().Err(err).Str("date", req.Date).Msg("failed to get slots of the day")

		return res, fmt.Errorf("failed to get slots of the day: %w", err)
	}

	events := make([]layout.Event, len(slots))
	ids := make([]string, len(slots))

	for i, slot := range slots {
		events[i] = layout.Event{ID: slot.ID, Start: slot.StartTime, End: slot.EndTime}
		ids[i] = slot.ID
	}

	placements, err := layout.Arrange(events)
	if err != nil {
		log.Error().Err(err).Str("date", req.Date).Msg("stored slot has an empty interval")

		return res, fmt.Errorf("failed to lay out slots: %w", err)
	}

	ledgers, err := s.ledger.GetMany(ctx, ids)
	if err != nil {
		return res, fmt.Errorf("failed to get slot seats: %w", err)
	}

	res.Date = req.Date
	res.Entries = make([]dto.Entry, len(slots))

	for i, slot := range slots {
		res.Entries[i].FromModel(slot)
		res.Entries[i].WithSeats(ledgers)
		res.Entries[i].WithPlacement(placements[i])
	}

	return res, nil
}
