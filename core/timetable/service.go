package timetable

import (
	"context"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/educore/core"
)

var (
	ErrNotFound     = core.NewNotFoundError("Timetable entry not found")
	ErrUnknownClass = core.NewNotFoundError("Class or teacher not found")
)

type (
	Repository interface {
		// ListSlotsByClass orders by weekday, then period.
		ListSlotsByClass(ctx context.Context, classID string, exec ...core.DBExecutor) ([]Slot, error)
		GetSlotByID(ctx context.Context, id string, exec ...core.DBExecutor) (Slot, error)
		CreateSlot(ctx context.Context, s Slot, exec ...core.DBExecutor) (Slot, error)
		UpdateSlot(ctx context.Context, s Slot, exec ...core.DBExecutor) error
		DeleteSlot(ctx context.Context, id string, exec ...core.DBExecutor) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) ListByClass(ctx context.Context, classID string) ([]Slot, error) {
	return svc.repo.ListSlotsByClass(ctx, classID)
}

func (svc *Service) Create(ctx context.Context, ns NewSlot) (Slot, error) {
	return svc.repo.CreateSlot(ctx, Slot{
		ClassID:      ns.ClassID,
		DayOfWeek:    ns.DayOfWeek,
		PeriodNumber: ns.PeriodNumber,
		StartTime:    ns.StartTime,
		EndTime:      ns.EndTime,
		Subject:      ns.Subject,
		TeacherID:    null.StringFromPtr(ns.TeacherID),
		Room:         null.StringFromPtr(ns.Room),
		CreatedAt:    core.NowFunc(),
	})
}

func (svc *Service) Update(ctx context.Context, id string, us UpdateSlot) (Slot, error) {
	s, err := svc.repo.GetSlotByID(ctx, id)
	if err != nil {
		return Slot{}, err
	}
	us.Apply(&s)
	if err = checkTimes(s.StartTime, s.EndTime); err != nil {
		return Slot{}, err
	}
	if err = svc.repo.UpdateSlot(ctx, s); err != nil {
		return Slot{}, errors.Wrap(err, "updating timetable slot")
	}
	return svc.repo.GetSlotByID(ctx, id)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteSlot(ctx, id)
}
