package notification

import (
	"context"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/educore/core"
	"github.com/trezcool/educore/core/auth"
)

var ErrNotFound = core.NewNotFoundError("Notification not found")

type (
	Repository interface {
		CreateNotification(ctx context.Context, n Notification, exec ...core.DBExecutor) (Notification, error)
		// ListNotifications lists, newest first, what is addressed to the user or their role.
		ListNotifications(ctx context.Context, userID string, role auth.Role, limit int, exec ...core.DBExecutor) ([]Notification, error)
		// MarkNotificationRead returns false unless the notification is addressed to the user or their role.
		MarkNotificationRead(ctx context.Context, id, userID string, role auth.Role, exec ...core.DBExecutor) (bool, error)
		GetNotificationByID(ctx context.Context, id string, exec ...core.DBExecutor) (Notification, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) List(ctx context.Context, claims auth.Claims) ([]Notification, error) {
	return svc.repo.ListNotifications(ctx, claims.UserID, claims.Role, listLimit)
}

func (svc *Service) MarkRead(ctx context.Context, claims auth.Claims, id string) (Notification, error) {
	ok, err := svc.repo.MarkNotificationRead(ctx, id, claims.UserID, claims.Role)
	if err != nil {
		return Notification{}, errors.Wrap(err, "marking notification read")
	}
	if !ok {
		return Notification{}, ErrNotFound
	}
	return svc.repo.GetNotificationByID(ctx, id)
}

// Notify stores a notification addressed to userID.
func (svc *Service) Notify(ctx context.Context, userID, title, message string) error {
	_, err := svc.repo.CreateNotification(ctx, Notification{
		UserID:     null.StringFrom(userID),
		RoleTarget: core.StringList{},
		Title:      title,
		Message:    message,
		CreatedAt:  core.NowFunc(),
	})
	return err
}
