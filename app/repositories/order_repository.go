package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/foodhub/app/models"
	"github.com/shashiranjanraj/foodhub/pkg/orm"
)

// OrderRepository persists orders, their items and status history.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Transaction runs fn with a repository bound to one database transaction.
// Any error returned by fn rolls everything back.
func (r *OrderRepository) Transaction(ctx context.Context, fn func(tx *OrderRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&OrderRepository{db: tx})
	})
}

func withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).Preload("User")
}

// Insert writes the order row, then its items, then the given history row.
func (r *OrderRepository) Insert(ctx context.Context, o *models.Order, first models.OrderStatusHistory) error {
	db := r.db.WithContext(ctx)
	items := o.Items
	if err := db.Omit(clause.Associations).Create(o).Error; err != nil {
		return fmt.Errorf("orders: insert order: %w", err)
	}
	for i := range items {
		items[i].OrderID = o.ID
	}
	if err := db.Create(&items).Error; err != nil {
		return fmt.Errorf("orders: insert items: %w", err)
	}
	o.Items = items

	first.OrderID = o.ID
	if err := db.Create(&first).Error; err != nil {
		return fmt.Errorf("orders: insert history: %w", err)
	}
	return nil
}

// FindByUUID loads an order with its items and owner.
func (r *OrderRepository) FindByUUID(ctx context.Context, uuid string) (models.Order, error) {
	var o models.Order
	err := r.db.WithContext(ctx).Scopes(withItems).Where("uuid = ?", uuid).First(&o).Error
	return o, err
}

func (r *OrderRepository) FindByID(ctx context.Context, id uint) (models.Order, error) {
	var o models.Order
	err := r.db.WithContext(ctx).First(&o, id).Error
	return o, err
}

// ListByUser pages through one user's orders, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID uint, skip, limit int) (orm.Page[models.Order], error) {
	q := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("user_id = ?", userID).
		Order("created_at desc, id desc")
	return orm.FetchPage[models.Order](q, skip, limit, withItems)
}

// ListAll pages through every order, newest first, optionally filtered.
func (r *OrderRepository) ListAll(ctx context.Context, skip, limit int, status *models.OrderStatus) (orm.Page[models.Order], error) {
	q := r.db.WithContext(ctx).Model(&models.Order{}).Order("created_at desc, id desc")
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	return orm.FetchPage[models.Order](q, skip, limit, withItems)
}

// StatusTotals is one GROUP BY status row.
type StatusTotals struct {
	Status  models.OrderStatus
	Orders  int64
	Revenue decimal.Decimal
}

// Totals groups every order by status with count and summed amount.
func (r *OrderRepository) Totals(ctx context.Context) ([]StatusTotals, error) {
	var rows []StatusTotals
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Select("status, COUNT(*) AS orders, COALESCE(SUM(total_amount), 0) AS revenue").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("orders: totals: %w", err)
	}
	return rows, nil
}

// StatusCounts returns a count for every status, zero included.
func (r *OrderRepository) StatusCounts(ctx context.Context) (map[models.OrderStatus]int64, error) {
	rows, err := r.Totals(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[models.OrderStatus]int64, len(models.OrderStatuses))
	for _, s := range models.OrderStatuses {
		out[s] = 0
	}
	for _, row := range rows {
		out[row.Status] = row.Orders
	}
	return out, nil
}

// CountCreatedBetween counts orders with from <= created_at < to.
func (r *OrderRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&n).Error
	return n, err
}

// CompareAndSetStatus moves order id to status only if its revision is
// still rev. It reports false when another writer got there first.
func (r *OrderRepository) CompareAndSetStatus(ctx context.Context, id, rev uint, status models.OrderStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND revision = ?", id, rev).
		Updates(map[string]any{
			"status":     status,
			"revision":   gorm.Expr("revision + 1"),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, fmt.Errorf("orders: update status: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *OrderRepository) AppendHistory(ctx context.Context, orderID uint, status models.OrderStatus) error {
	h := models.OrderStatusHistory{OrderID: orderID, Status: status}
	if err := r.db.WithContext(ctx).Create(&h).Error; err != nil {
		return fmt.Errorf("orders: append history: %w", err)
	}
	return nil
}

// History returns the status trail oldest first; ties break on id.
func (r *OrderRepository) History(ctx context.Context, orderID uint) ([]models.OrderStatusHistory, error) {
	out := make([]models.OrderStatusHistory, 0)
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).
		Order("created_at asc, id asc").Find(&out).Error
	return out, err
}
