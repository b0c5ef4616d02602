package services

import (
	"context"

	"github.com/shashiranjanraj/foodhub/app/models"
	"github.com/shashiranjanraj/foodhub/app/repositories"
	"github.com/shashiranjanraj/foodhub/pkg/logger"
	"github.com/shashiranjanraj/foodhub/pkg/metrics"
	"github.com/shashiranjanraj/foodhub/pkg/queue"
)

// Notice is a notification waiting to be stored. A nil UserID addresses
// the admin console.
type Notice struct {
	UserID        *uint                   `json:"userId,omitempty"`
	RelatedUserID *uint                   `json:"relatedUserId,omitempty"`
	OrderID       *uint                   `json:"orderId,omitempty"`
	Type          models.NotificationType `json:"type"`
	Title         string                  `json:"title"`
	Message       string                  `json:"message"`
}

func (n Notice) model() models.Notification {
	return models.Notification{
		UserID:        n.UserID,
		RelatedUserID: n.RelatedUserID,
		OrderID:       n.OrderID,
		Type:          n.Type,
		Title:         n.Title,
		Message:       n.Message,
	}
}

// Notifier emits notifications on a best-effort basis. Notify never fails
// the caller; problems are logged and counted.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// PersistNotification is the queued job that writes a Notice.
type PersistNotification struct {
	Notice
	repo *repositories.NotificationRepository
}

const persistNotificationJob = "notifications.persist"

func (j *PersistNotification) JobName() string { return persistNotificationJob }

func (j *PersistNotification) Handle(ctx context.Context) error {
	m := j.Notice.model()
	return j.repo.Create(ctx, &m)
}

// RegisterJobs makes the notification job runnable by queue workers.
func RegisterJobs(repo *repositories.NotificationRepository) {
	queue.Register(persistNotificationJob, func() queue.Job {
		return &PersistNotification{repo: repo}
	})
}

// QueueNotifier hands notices to the job queue, so a slow or failing
// insert never holds up a request.
type QueueNotifier struct{}

func (QueueNotifier) Notify(ctx context.Context, n Notice) {
	if err := queue.Dispatch(ctx, &PersistNotification{Notice: n}); err != nil {
		metrics.NotificationFailures.WithLabelValues(string(n.Type)).Inc()
		logger.WithCtx(ctx).Warn("notification not queued", "type", n.Type, "error", err)
	}
}

// DirectNotifier writes notices inline. Used by CLI commands, which run no
// queue workers.
type DirectNotifier struct {
	Repo *repositories.NotificationRepository
}

func (d DirectNotifier) Notify(ctx context.Context, n Notice) {
	m := n.model()
	if err := d.Repo.Create(ctx, &m); err != nil {
		metrics.NotificationFailures.WithLabelValues(string(n.Type)).Inc()
		logger.WithCtx(ctx).Warn("notification not stored", "type", n.Type, "error", err)
	}
}
