package attendance

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/educore/core"
)

// ErrUnknownStudent is returned when a record references a student or class that does not exist.
var ErrUnknownStudent = core.NewNotFoundError("Student or class not found")

type (
	Repository interface {
		// UpsertRecords writes records keyed by (student, class, date); a repeated key overwrites.
		UpsertRecords(ctx context.Context, records []Record, exec ...core.DBExecutor) ([]Record, error)
		ListRecordsByStudent(ctx context.Context, studentID string, filter QueryFilter, exec ...core.DBExecutor) ([]Record, error)
		ListRecordsByClassDate(ctx context.Context, classID, date string, exec ...core.DBExecutor) ([]Record, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Mark stores a class's attendance for a date. Submitting the same batch twice leaves the same state.
// When a student appears more than once in the batch, the last entry wins.
func (svc *Service) Mark(ctx context.Context, bm BulkMark, markedBy string) ([]Record, error) {
	now := core.NowFunc()
	records := make([]Record, 0, len(bm.Records))
	index := make(map[string]int, len(bm.Records))
	for _, e := range bm.Records {
		rec := Record{
			StudentID: e.StudentID,
			ClassID:   bm.ClassID,
			Date:      bm.Date,
			IsPresent: *e.IsPresent,
			MarkedBy:  markedBy,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if i, ok := index[e.StudentID]; ok {
			records[i] = rec
			continue
		}
		index[e.StudentID] = len(records)
		records = append(records, rec)
	}

	saved, err := svc.repo.UpsertRecords(ctx, records)
	return saved, errors.Wrap(err, "upserting attendance")
}

func (svc *Service) ForStudent(ctx context.Context, studentID string, filter QueryFilter) (StudentAttendance, error) {
	records, err := svc.repo.ListRecordsByStudent(ctx, studentID, filter)
	if err != nil {
		return StudentAttendance{}, errors.Wrap(err, "listing student attendance")
	}
	return StudentAttendance{Records: records, Summary: Summarize(records)}, nil
}

func (svc *Service) ForClassDate(ctx context.Context, classID, date string) ([]Record, error) {
	return svc.repo.ListRecordsByClassDate(ctx, classID, date)
}
