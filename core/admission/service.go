package admission

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/educore/core"
	"github.com/trezcool/educore/core/student"
)

var (
	// errors
	ErrNotFound         = core.NewNotFoundError("Admission not found")
	ErrAlreadyProcessed = core.NewNotFoundError("Admission not found or already processed")
)

type (
	Repository interface {
		CreateAdmission(ctx context.Context, adm Admission, exec ...core.DBExecutor) (Admission, error)
		GetAdmissionByID(ctx context.Context, id string, exec ...core.DBExecutor) (Admission, error)
		QueryAdmissions(ctx context.Context, filter QueryFilter, p core.Pagination, exec ...core.DBExecutor) ([]Admission, int, error)
		// ReviewAdmission moves a pending admission to status.
		// It is a conditional update on the expected prior state: false means the admission
		// does not exist or was already reviewed.
		ReviewAdmission(ctx context.Context, id string, status Status, reviewerID string, at time.Time, exec ...core.DBExecutor) (bool, error)
	}

	Service struct {
		db      core.DB
		repo    Repository
		stdRepo student.Repository
	}
)

func NewService(db core.DB, repo Repository, stdRepo student.Repository) *Service {
	return &Service{db: db, repo: repo, stdRepo: stdRepo}
}

func (svc *Service) Create(ctx context.Context, na NewAdmission) (Admission, error) {
	return svc.repo.CreateAdmission(ctx, Admission{
		FirstName:      na.FirstName,
		LastName:       na.LastName,
		DateOfBirth:    na.DateOfBirth,
		Gender:         na.Gender,
		GradeApplying:  na.GradeApplying,
		ParentName:     na.ParentName,
		ParentEmail:    null.NewString(na.ParentEmail, na.ParentEmail != ""),
		ParentPhone:    na.ParentPhone,
		Address:        null.StringFromPtr(na.Address),
		PreviousSchool: null.StringFromPtr(na.PreviousSchool),
		Status:         StatusPending,
		CreatedAt:      core.NowFunc(),
	})
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter, p core.Pagination) ([]Admission, int, error) {
	return svc.repo.QueryAdmissions(ctx, filter, p)
}

// Approve enrols the applicant into the class with the next free roll number.
// The status change and the enrolment commit together; of two concurrent approvals only one succeeds.
func (svc *Service) Approve(ctx context.Context, id string, approval Approval, reviewerID string) (student.Student, error) {
	var std student.Student
	err := core.WithTx(ctx, svc.db, func(tx core.DBExecutor) error {
		now := core.NowFunc()
		ok, err := svc.repo.ReviewAdmission(ctx, id, StatusApproved, reviewerID, now, tx)
		if err != nil {
			return errors.Wrap(err, "approving admission")
		}
		if !ok {
			return ErrAlreadyProcessed
		}

		adm, err := svc.repo.GetAdmissionByID(ctx, id, tx)
		if err != nil {
			return errors.Wrap(err, "finding admission")
		}
		maxRoll, err := svc.stdRepo.MaxRollNumber(ctx, approval.ClassID, tx)
		if err != nil {
			return errors.Wrap(err, "finding max roll number")
		}

		std, err = svc.stdRepo.CreateStudent(ctx, student.Student{
			RollNumber:     maxRoll + 1,
			FirstName:      adm.FirstName,
			LastName:       adm.LastName,
			DateOfBirth:    adm.DateOfBirth,
			Gender:         adm.Gender,
			ClassID:        approval.ClassID,
			ParentName:     adm.ParentName,
			ParentEmail:    adm.ParentEmail,
			ParentPhone:    adm.ParentPhone,
			Address:        adm.Address,
			PreviousSchool: adm.PreviousSchool,
			IsActive:       true,
			CreatedAt:      now,
			UpdatedAt:      now,
		}, tx)
		return errors.Wrap(err, "creating student")
	})
	if err != nil {
		return student.Student{}, err
	}
	return std, nil
}

func (svc *Service) Reject(ctx context.Context, id, reviewerID string) (Admission, error) {
	ok, err := svc.repo.ReviewAdmission(ctx, id, StatusRejected, reviewerID, core.NowFunc())
	if err != nil {
		return Admission{}, errors.Wrap(err, "rejecting admission")
	}
	if !ok {
		return Admission{}, ErrAlreadyProcessed
	}
	return svc.repo.GetAdmissionByID(ctx, id)
}
