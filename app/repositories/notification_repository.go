package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/foodhub/app/models"
)

// NotificationRepository stores admin-console and per-user notifications.
// Admin-console rows have a NULL user_id.
type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("notifications: create: %w", err)
	}
	return nil
}

func (r *NotificationRepository) admin(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Notification{}).Where("user_id IS NULL")
}

// AdminFeed returns the newest admin-console notifications with the related
// user and order preloaded.
func (r *NotificationRepository) AdminFeed(ctx context.Context, limit int) ([]models.Notification, error) {
	out := make([]models.Notification, 0)
	err := r.admin(ctx).
		Preload("RelatedUser").
		Preload("Order").
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("notifications: admin feed: %w", err)
	}
	return out, nil
}

func (r *NotificationRepository) UnreadAdminCount(ctx context.Context) (int64, error) {
	var n int64
	err := r.admin(ctx).Where("is_read = ?", false).Count(&n).Error
	return n, err
}

// MarkAllAdminRead returns how many rows changed.
func (r *NotificationRepository) MarkAllAdminRead(ctx context.Context) (int64, error) {
	res := r.admin(ctx).Where("is_read = ?", false).Update("is_read", true)
	return res.RowsAffected, res.Error
}

// MarkAdminRead flags one admin-console notification. It reports false
// when no such notification exists.
func (r *NotificationRepository) MarkAdminRead(ctx context.Context, id uint) (bool, error) {
	var n models.Notification
	err := r.admin(ctx).Where("id = ?", id).First(&n).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("notifications: find: %w", err)
	}
	if n.IsRead {
		return true, nil
	}
	if err := r.db.WithContext(ctx).Model(&n).Update("is_read", true).Error; err != nil {
		return false, fmt.Errorf("notifications: mark read: %w", err)
	}
	return true, nil
}

// ForUser lists a user's own notifications, newest first.
func (r *NotificationRepository) ForUser(ctx context.Context, userID uint, limit int) ([]models.Notification, error) {
	out := make([]models.Notification, 0)
	err := r.db.WithContext(ctx).
		Preload("Order").
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *NotificationRepository) UnreadUserCount(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}

func (r *NotificationRepository) MarkAllUserRead(ctx context.Context, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

// Unlinked returns up to limit rows, oldest first, that are missing either
// their order or their related user and have an id greater than after.
func (r *NotificationRepository) Unlinked(ctx context.Context, after uint, limit int) ([]models.Notification, error) {
	out := make([]models.Notification, 0)
	err := r.db.WithContext(ctx).
		Where("id > ?", after).
		Where("order_id IS NULL OR related_user_id IS NULL").
		Order("id asc").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("notifications: unlinked: %w", err)
	}
	return out, nil
}

// Link fills the structured references of notification id. Nil arguments
// leave the column untouched.
func (r *NotificationRepository) Link(ctx context.Context, id uint, orderID, relatedUserID *uint) error {
	fields := map[string]any{}
	if orderID != nil {
		fields["order_id"] = *orderID
	}
	if relatedUserID != nil {
		fields["related_user_id"] = *relatedUserID
	}
	if len(fields) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Model(&models.Notification{}).Where("id = ?", id).Updates(fields).Error
	if err != nil {
		return fmt.Errorf("notifications: link %d: %w", id, err)
	}
	return nil
}
