package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/shashiranjanraj/foodhub/app/models"
	"github.com/shashiranjanraj/foodhub/app/repositories"
	"github.com/shashiranjanraj/foodhub/pkg/collection"
	"github.com/shashiranjanraj/foodhub/pkg/logger"
	"github.com/shashiranjanraj/foodhub/pkg/orm"
)

const (
	adminFeedSize = 50
	userFeedSize  = 50
	backfillBatch = 200
)

// NotificationService reads and acknowledges notifications.
type NotificationService struct {
	repo   *repositories.NotificationRepository
	orders *repositories.OrderRepository
	users  *repositories.UserRepository
}

func NewNotificationService(repo *repositories.NotificationRepository, orders *repositories.OrderRepository, users *repositories.UserRepository) *NotificationService {
	return &NotificationService{repo: repo, orders: orders, users: users}
}

// AdminFeed returns the newest admin-console notifications.
func (s *NotificationService) AdminFeed(ctx context.Context) (NotificationFeed, error) {
	rows, err := s.repo.AdminFeed(ctx, adminFeedSize)
	if err != nil {
		return NotificationFeed{}, err
	}
	unread, err := s.repo.UnreadAdminCount(ctx)
	if err != nil {
		return NotificationFeed{}, fmt.Errorf("notifications: unread: %w", err)
	}
	return feed(rows, unread), nil
}

func (s *NotificationService) MarkAllAdminRead(ctx context.Context) (int64, error) {
	return s.repo.MarkAllAdminRead(ctx)
}

func (s *NotificationService) MarkAdminRead(ctx context.Context, id uint) error {
	found, err := s.repo.MarkAdminRead(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotificationNotFound
	}
	return nil
}

// Mine returns the caller's own notifications.
func (s *NotificationService) Mine(ctx context.Context, userID uint) (NotificationFeed, error) {
	rows, err := s.repo.ForUser(ctx, userID, userFeedSize)
	if err != nil {
		return NotificationFeed{}, fmt.Errorf("notifications: list: %w", err)
	}
	unread, err := s.repo.UnreadUserCount(ctx, userID)
	if err != nil {
		return NotificationFeed{}, fmt.Errorf("notifications: unread: %w", err)
	}
	return feed(rows, unread), nil
}

func (s *NotificationService) MarkAllMineRead(ctx context.Context, userID uint) (int64, error) {
	return s.repo.MarkAllUserRead(ctx, userID)
}

func feed(rows []models.Notification, unread int64) NotificationFeed {
	return NotificationFeed{Items: collection.Map(rows, newNotificationView), UnreadCount: unread}
}

// ─── Backfill ─────────────────────────────────────────────────────────────────

var (
	orderRefRE    = regexp.MustCompile(`#(\d+)`)
	newCustomerRE = regexp.MustCompile(`^New customer registered: (\S+) \(`)
)

// BackfillResult counts what a backfill run did.
type BackfillResult struct {
	Scanned int `json:"scanned"`
	Linked  int `json:"linked"`
}

// Backfill links notifications written before order_id existed. It reads
// the order number out of "#<n>" in the message, sets order_id, and takes
// related_user_id from that order's owner. Registration notices are linked
// to the user named in the message. Rows that cannot be resolved are left
// as they are.
func (s *NotificationService) Backfill(ctx context.Context) (BackfillResult, error) {
	var res BackfillResult
	var after uint
	for {
		rows, err := s.repo.Unlinked(ctx, after, backfillBatch)
		if err != nil {
			return res, err
		}
		if len(rows) == 0 {
			return res, nil
		}
		for _, n := range rows {
			after = n.ID
			res.Scanned++

			orderID, relatedID, err := s.resolveLinks(ctx, n)
			if err != nil {
				return res, err
			}
			if orderID == nil && relatedID == nil {
				continue
			}
			if err := s.repo.Link(ctx, n.ID, orderID, relatedID); err != nil {
				return res, err
			}
			res.Linked++
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}
	}
}

// resolveLinks returns the references n is missing and can be given.
func (s *NotificationService) resolveLinks(ctx context.Context, n models.Notification) (orderID, relatedID *uint, err error) {
	if m := orderRefRE.FindStringSubmatch(n.Message); m != nil {
		id, perr := strconv.ParseUint(m[1], 10, 64)
		if perr != nil {
			return nil, nil, nil
		}
		o, ferr := s.orders.FindByID(ctx, uint(id))
		if orm.IsNotFound(ferr) {
			logger.Debug("backfill: order gone", "notification", n.ID, "order", id)
			return nil, nil, nil
		}
		if ferr != nil {
			return nil, nil, fmt.Errorf("notifications: backfill order %d: %w", id, ferr)
		}
		if n.OrderID == nil {
			orderID = &o.ID
		}
		if n.RelatedUserID == nil {
			relatedID = &o.UserID
		}
		return orderID, relatedID, nil
	}

	if n.RelatedUserID == nil && n.Type == models.NotificationNewUser {
		if m := newCustomerRE.FindStringSubmatch(n.Message); m != nil {
			u, ferr := s.users.FindByUsername(ctx, m[1])
			if orm.IsNotFound(ferr) {
				return nil, nil, nil
			}
			if ferr != nil {
				return nil, nil, fmt.Errorf("notifications: backfill user %s: %w", m[1], ferr)
			}
			return nil, &u.ID, nil
		}
	}
	return nil, nil, nil
}
