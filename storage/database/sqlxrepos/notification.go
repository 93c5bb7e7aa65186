package sqlxrepos

import (
	"context"
	"strconv"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/educore/core"
	"github.com/trezcool/educore/core/auth"
	"github.com/trezcool/educore/core/notification"
)

type notificationRepository struct {
	repository
}

var _ notification.Repository = (*notificationRepository)(nil) // interface compliance check

func NewNotificationRepository(exec core.DBExecutor) *notificationRepository {
	return &notificationRepository{repository{exec: exec}}
}

// addressedTo matches notifications for the user or any of the role's holders.
// role_target holds a JSON array, so the quoted role is searched as text.
func addressedTo(userID string, role auth.Role) sq.Sqlizer {
	return sq.Or{
		sq.Eq{"user_id": userID},
		sq.Like{"role_target": "%" + strconv.Quote(string(role)) + "%"},
	}
}

func (repo notificationRepository) CreateNotification(ctx context.Context, n notification.Notification, exec ...core.DBExecutor) (notification.Notification, error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.RoleTarget == nil {
		n.RoleTarget = core.StringList{}
	}
	q := builder.Insert("notifications").SetMap(sq.Eq{
		"id":          n.ID,
		"user_id":     n.UserID,
		"role_target": n.RoleTarget,
		"title":       n.Title,
		"message":     n.Message,
		"is_read":     n.IsRead,
		"created_at":  n.CreatedAt.UTC(),
	})
	if _, err := execute(ctx, repo.getExec(exec), q); err != nil {
		return notification.Notification{}, errors.Wrap(err, "inserting notification")
	}
	return n, nil
}

func (repo notificationRepository) ListNotifications(ctx context.Context, userID string, role auth.Role, limit int, exec ...core.DBExecutor) ([]notification.Notification, error) {
	q := builder.Select("*").
		From("notifications").
		Where(addressedTo(userID, role)).
		OrderBy("created_at DESC", "id").
		Limit(uint64(limit))

	notifications := make([]notification.Notification, 0)
	if err := selectAll(ctx, repo.getExec(exec), &notifications, q); err != nil {
		return nil, errors.Wrap(err, "listing notifications")
	}
	return notifications, nil
}

func (repo notificationRepository) MarkNotificationRead(ctx context.Context, id, userID string, role auth.Role, exec ...core.DBExecutor) (bool, error) {
	q := builder.Update("notifications").
		Set("is_read", true).
		Where(sq.Eq{"id": id}).
		Where(addressedTo(userID, role))
	ok, err := executeOne(ctx, repo.getExec(exec), q)
	return ok, errors.Wrap(err, "marking notification read")
}

func (repo notificationRepository) GetNotificationByID(ctx context.Context, id string, exec ...core.DBExecutor) (notification.Notification, error) {
	var n notification.Notification
	q := builder.Select("*").From("notifications").Where(sq.Eq{"id": id})
	if err := get(ctx, repo.getExec(exec), &n, q); err != nil {
		return notification.Notification{}, trapNoRowsErr(err, notification.ErrNotFound, "finding notification")
	}
	return n, nil
}
