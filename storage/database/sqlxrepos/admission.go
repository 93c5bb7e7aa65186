package sqlxrepos

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/educore/core"
	"github.com/trezcool/educore/core/admission"
)

type admissionRepository struct {
	repository
}

var _ admission.Repository = (*admissionRepository)(nil) // interface compliance check

func NewAdmissionRepository(exec core.DBExecutor) *admissionRepository {
	return &admissionRepository{repository{exec: exec}}
}

func (repo admissionRepository) CreateAdmission(ctx context.Context, adm admission.Admission, exec ...core.DBExecutor) (admission.Admission, error) {
	if adm.ID == "" {
		adm.ID = uuid.New().String()
	}
	q := builder.Insert("admissions").SetMap(sq.Eq{
		"id":              adm.ID,
		"first_name":      adm.FirstName,
		"last_name":       adm.LastName,
		"date_of_birth":   adm.DateOfBirth,
		"gender":          adm.Gender,
		"grade_applying":  adm.GradeApplying,
		"parent_name":     adm.ParentName,
		"parent_email":    adm.ParentEmail,
		"parent_phone":    adm.ParentPhone,
		"address":         adm.Address,
		"previous_school": adm.PreviousSchool,
		"status":          string(adm.Status),
		"created_at":      adm.CreatedAt.UTC(),
	})
	if _, err := execute(ctx, repo.getExec(exec), q); err != nil {
		return admission.Admission{}, errors.Wrap(err, "inserting admission")
	}
	return adm, nil
}

func (repo admissionRepository) GetAdmissionByID(ctx context.Context, id string, exec ...core.DBExecutor) (admission.Admission, error) {
	var adm admission.Admission
	q := builder.Select("*").From("admissions").Where(sq.Eq{"id": id})
	if err := get(ctx, repo.getExec(exec), &adm, q); err != nil {
		return admission.Admission{}, trapNoRowsErr(err, admission.ErrNotFound, "finding admission")
	}
	return adm, nil
}

func (repo admissionRepository) QueryAdmissions(ctx context.Context, filter admission.QueryFilter, p core.Pagination, exec ...core.DBExecutor) ([]admission.Admission, int, error) {
	ex := repo.getExec(exec)
	base := builder.Select().From("admissions")
	if filter.Status != "" {
		base = base.Where(sq.Eq{"status": filter.Status})
	}

	total, err := count(ctx, ex, base)
	if err != nil {
		return nil, 0, errors.Wrap(err, "counting admissions")
	}
	admissions := make([]admission.Admission, 0)
	q := paginate(base.Columns("*").OrderBy("created_at DESC", "id"), p)
	if err = selectAll(ctx, ex, &admissions, q); err != nil {
		return nil, 0, errors.Wrap(err, "querying admissions")
	}
	return admissions, total, nil
}

func (repo admissionRepository) ReviewAdmission(ctx context.Context, id string, status admission.Status, reviewerID string, at time.Time, exec ...core.DBExecutor) (bool, error) {
	q := builder.Update("admissions").
		Set("status", string(status)).
		Set("reviewed_by", reviewerID).
		Set("reviewed_at", at.UTC()).
		Where(sq.Eq{"id": id, "status": string(admission.StatusPending)})
	ok, err := executeOne(ctx, repo.getExec(exec), q)
	return ok, errors.Wrap(err, "reviewing admission")
}
