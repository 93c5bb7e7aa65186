package lessonplan

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/educore/core"
	"github.com/trezcool/educore/core/auth"
	"github.com/trezcool/educore/core/teacher"
)

var (
	// errors
	ErrNotFound        = core.NewNotFoundError("Lesson plan not found")
	ErrNotEditable     = core.NewNotFoundError("Lesson plan not found or not editable")
	ErrAlreadyReviewed = core.NewNotFoundError("Lesson plan not found or already reviewed")
	ErrClassNotFound   = core.NewNotFoundError("Class not found")
)

type (
	Repository interface {
		CreatePlan(ctx context.Context, p Plan, exec ...core.DBExecutor) (Plan, error)
		// GetPlan finds a plan within the filter's scope.
		GetPlan(ctx context.Context, id string, filter QueryFilter, exec ...core.DBExecutor) (Plan, error)
		// QueryPlans lists plans newest first, with the total before paging.
		QueryPlans(ctx context.Context, filter QueryFilter, p core.Pagination, exec ...core.DBExecutor) ([]Plan, int, error)
		// UpdatePendingPlan edits a pending plan owned by teacherID; false when there is none.
		UpdatePendingPlan(ctx context.Context, id, teacherID string, up UpdatePlan, at time.Time, exec ...core.DBExecutor) (bool, error)
		// ReviewPlan is a conditional update on status = pending; false when the plan is absent,
		// out of scope or already reviewed.
		ReviewPlan(ctx context.Context, id string, r Review, exec ...core.DBExecutor) (bool, error)
		CountPendingPlans(ctx context.Context, departmentID string, exec ...core.DBExecutor) (int, error)
	}

	// Notifier tells a user about an event concerning them.
	Notifier interface {
		Notify(ctx context.Context, userID, title, message string) error
	}

	Service struct {
		repo     Repository
		tchrSvc  *teacher.Service
		notifier Notifier
		logger   core.Logger
	}
)

func NewService(repo Repository, tchrSvc *teacher.Service, notifier Notifier, logger core.Logger) *Service {
	return &Service{repo: repo, tchrSvc: tchrSvc, notifier: notifier, logger: logger}
}

// scope narrows a filter to what the caller may see: a teacher their own plans,
// a HOD their department's plans, a principal everything.
func (svc *Service) scope(ctx context.Context, claims auth.Claims, filter *QueryFilter) error {
	switch claims.Role {
	case auth.RoleTeacher:
		t, err := svc.tchrSvc.GetByUserID(ctx, claims.UserID)
		if err != nil {
			return err
		}
		filter.TeacherID = t.ID
	case auth.RoleHOD:
		if !claims.DepartmentID.Valid {
			return ErrNotFound
		}
		filter.DepartmentID = claims.DepartmentID.String
	}
	return nil
}

func (svc *Service) Query(ctx context.Context, claims auth.Claims, filter QueryFilter, p core.Pagination) ([]Plan, int, error) {
	if err := svc.scope(ctx, claims, &filter); err != nil {
		if errors.Cause(err) == ErrNotFound {
			return []Plan{}, 0, nil
		}
		return nil, 0, err
	}
	return svc.repo.QueryPlans(ctx, filter, p)
}

func (svc *Service) Get(ctx context.Context, claims auth.Claims, id string) (Plan, error) {
	var filter QueryFilter
	if err := svc.scope(ctx, claims, &filter); err != nil {
		return Plan{}, err
	}
	return svc.repo.GetPlan(ctx, id, filter)
}

func (svc *Service) Create(ctx context.Context, claims auth.Claims, np NewPlan) (Plan, error) {
	t, err := svc.tchrSvc.GetByUserID(ctx, claims.UserID)
	if err != nil {
		return Plan{}, err
	}
	now := core.NowFunc()
	return svc.repo.CreatePlan(ctx, Plan{
		TeacherID:  t.ID,
		ClassID:    np.ClassID,
		Subject:    np.Subject,
		Date:       np.Date,
		Topic:      np.Topic,
		Objectives: np.Objectives,
		Materials:  null.StringFromPtr(np.Materials),
		Activities: np.Activities,
		Assessment: null.StringFromPtr(np.Assessment),
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

// Update edits the caller's own plan while it is still pending.
func (svc *Service) Update(ctx context.Context, claims auth.Claims, id string, up UpdatePlan) (Plan, error) {
	t, err := svc.tchrSvc.GetByUserID(ctx, claims.UserID)
	if err != nil {
		return Plan{}, err
	}
	ok, err := svc.repo.UpdatePendingPlan(ctx, id, t.ID, up, core.NowFunc())
	if err != nil {
		return Plan{}, errors.Wrap(err, "updating lesson plan")
	}
	if !ok {
		return Plan{}, ErrNotEditable
	}
	return svc.repo.GetPlan(ctx, id, QueryFilter{})
}

func (svc *Service) Approve(ctx context.Context, claims auth.Claims, id string) (Plan, error) {
	return svc.review(ctx, claims, id, StatusApproved, null.String{})
}

func (svc *Service) Reject(ctx context.Context, claims auth.Claims, id string, r Rejection) (Plan, error) {
	return svc.review(ctx, claims, id, StatusRejected, null.StringFrom(r.HodRemarks))
}

// review moves a pending plan of the HOD's department to status; approved and rejected are final.
func (svc *Service) review(ctx context.Context, claims auth.Claims, id string, status Status, remarks null.String) (Plan, error) {
	if !claims.DepartmentID.Valid {
		return Plan{}, ErrAlreadyReviewed
	}
	ok, err := svc.repo.ReviewPlan(ctx, id, Review{
		Status:       status,
		HodRemarks:   remarks,
		ReviewerID:   claims.UserID,
		DepartmentID: claims.DepartmentID.String,
		At:           core.NowFunc(),
	})
	if err != nil {
		return Plan{}, errors.Wrap(err, "reviewing lesson plan")
	}
	if !ok {
		return Plan{}, ErrAlreadyReviewed
	}

	p, err := svc.repo.GetPlan(ctx, id, QueryFilter{})
	if err != nil {
		return Plan{}, err
	}
	svc.notifyAuthor(ctx, p)
	return p, nil
}

// notifyAuthor is best effort: the review stands even if the notification cannot be stored.
func (svc *Service) notifyAuthor(ctx context.Context, p Plan) {
	if svc.notifier == nil || !p.TeacherUser.Valid {
		return
	}
	msg := fmt.Sprintf("Your lesson plan %q for %s was %s.", p.Topic, p.Date, p.Status)
	if p.HodRemarks.Valid {
		msg += " Remarks: " + p.HodRemarks.String
	}
	if err := svc.notifier.Notify(ctx, p.TeacherUser.String, "Lesson plan "+string(p.Status), msg); err != nil {
		svc.logger.Error("notifying lesson plan author", err, p.ID)
	}
}

func (svc *Service) CountPending(ctx context.Context, claims auth.Claims) (int, error) {
	if !claims.DepartmentID.Valid {
		return 0, nil
	}
	return svc.repo.CountPendingPlans(ctx, claims.DepartmentID.String)
}
