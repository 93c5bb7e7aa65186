package notification

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/educore/core"
)

const listLimit = 50

// Notification is addressed to one user, to every holder of the target roles, or both.
type Notification struct {
	ID         string          `db:"id" json:"id"`
	UserID     null.String     `db:"user_id" json:"user_id"`
	RoleTarget core.StringList `db:"role_target" json:"role_target"`
	Title      string          `db:"title" json:"title"`
	Message    string          `db:"message" json:"message"`
	IsRead     bool            `db:"is_read" json:"is_read"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}
