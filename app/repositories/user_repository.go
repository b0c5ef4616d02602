package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/foodhub/app/models"
	"github.com/shashiranjanraj/foodhub/pkg/crypt"
	"github.com/shashiranjanraj/foodhub/pkg/orm"
)

// UserRepository handles database operations for User.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts u. Unique violations surface as orm.IsDuplicate errors.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return fmt.Errorf("users: create: %w", err)
	}
	return nil
}

// FindByID returns gorm.ErrRecordNotFound when missing.
func (r *UserRepository) FindByID(ctx context.Context, id uint) (models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).First(&u, id).Error
	return u, err
}

func (r *UserRepository) FindByUUID(ctx context.Context, uuid string) (models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Where("uuid = ?", uuid).First(&u).Error
	return u, err
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	return u, err
}

// UsernameTaken reports whether another user (not exceptID) has username.
func (r *UserRepository) UsernameTaken(ctx context.Context, username string, exceptID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ? AND id <> ?", username, exceptID).
		Count(&n).Error
	return n > 0, err
}

// EmailTaken compares on the email hash, so the check is case-insensitive
// and never decrypts.
func (r *UserRepository) EmailTaken(ctx context.Context, email string, exceptID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("email_hash = ? AND id <> ?", crypt.EmailHash(email), exceptID).
		Count(&n).Error
	return n > 0, err
}

// List pages through users, newest first, optionally filtered by role.
func (r *UserRepository) List(ctx context.Context, skip, limit int, role string) (orm.Page[models.User], error) {
	q := r.db.WithContext(ctx).Model(&models.User{}).Order("created_at desc, id desc")
	if role != "" {
		q = q.Where("role = ?", role)
	}
	return orm.FetchPage[models.User](q, skip, limit)
}

// Recent returns the n newest users with role.
func (r *UserRepository) Recent(ctx context.Context, role string, n int) ([]models.User, error) {
	var out []models.User
	err := r.db.WithContext(ctx).Where("role = ?", role).
		Order("created_at desc, id desc").Limit(n).Find(&out).Error
	return out, err
}

// Count counts users, optionally by role.
func (r *UserRepository) Count(ctx context.Context, role string) (int64, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&models.User{})
	if role != "" {
		q = q.Where("role = ?", role)
	}
	err := q.Count(&n).Error
	return n, err
}

// Save writes every column of u.
func (r *UserRepository) Save(ctx context.Context, u *models.User) error {
	if err := r.db.WithContext(ctx).Save(u).Error; err != nil {
		return fmt.Errorf("users: save: %w", err)
	}
	return nil
}

// Delete removes u; orders and personal notifications cascade.
func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.User{}, id).Error; err != nil {
		return fmt.Errorf("users: delete: %w", err)
	}
	return nil
}

// NamesByID maps ids to usernames in one query.
func (r *UserRepository) NamesByID(ctx context.Context, ids []uint) (map[uint]string, error) {
	out := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []struct {
		ID       uint
		Username string
	}
	if err := r.db.WithContext(ctx).Model(&models.User{}).
		Select("id, username").Where("id IN ?", ids).Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row.Username
	}
	return out, nil
}
