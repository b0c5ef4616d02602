package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/foodhub/app/models"
	"github.com/shashiranjanraj/foodhub/app/repositories"
	"github.com/shashiranjanraj/foodhub/config"
	"github.com/shashiranjanraj/foodhub/pkg/event"
	"github.com/shashiranjanraj/foodhub/pkg/collection"
	"github.com/shashiranjanraj/foodhub/pkg/logger"
	"github.com/shashiranjanraj/foodhub/pkg/metrics"
	"github.com/shashiranjanraj/foodhub/pkg/orm"
)

// FoodResolver looks foods up by id in one batch. Unknown ids are absent
// from the result.
type FoodResolver interface {
	ResolveMany(ctx context.Context, ids []uint) ([]models.Food, error)
}

// LineItem is one requested order line. Prices always come from the
// catalog.
type LineItem struct {
	FoodID   uint `json:"foodId" validate:"required"`
	Quantity int  `json:"quantity" validate:"required,min=1"`
}

// OrderService places orders and moves them through their lifecycle.
type OrderService struct {
	orders *repositories.OrderRepository
	users  *repositories.UserRepository
	foods  FoodResolver
	notify Notifier
	events EventPublisher

	strict         bool
	txTimeout      time.Duration
	catalogTimeout time.Duration
	now            func() time.Time
}

// NewOrderService reads ORDER_STRICT_TRANSITIONS, ORDER_TX_TIMEOUT and
// CATALOG_TIMEOUT once. A nil events publisher disables domain events.
func NewOrderService(orders *repositories.OrderRepository, users *repositories.UserRepository, foods FoodResolver, notify Notifier, events EventPublisher) *OrderService {
	if events == nil {
		events = noEvents{}
	}
	return &OrderService{
		orders:         orders,
		users:          users,
		foods:          foods,
		notify:         notify,
		events:         events,
		strict:         config.StrictTransitions(),
		txTimeout:      config.OrderTxTimeout(),
		catalogTimeout: config.CatalogTimeout(),
		now:            time.Now,
	}
}

// ─── Placement ────────────────────────────────────────────────────────────────

// Create places an order for userID. Lines whose food is unknown or
// unavailable are dropped; if none remain the order is refused with
// ErrNoAvailableItems.
func (s *OrderService) Create(ctx context.Context, userID uint, lines []LineItem) (OrderView, error) {
	if len(lines) == 0 {
		metrics.OrderRejected.WithLabelValues("empty").Inc()
		return OrderView{}, ErrEmptyOrder
	}

	items, total, err := s.price(ctx, lines)
	if err != nil {
		return OrderView{}, err
	}
	if len(items) == 0 {
		metrics.OrderRejected.WithLabelValues("no_available_items").Inc()
		return OrderView{}, ErrNoAvailableItems
	}

	o := models.Order{
		UserID:      userID,
		TotalAmount: total,
		Status:      models.StatusPending,
		Items:       items,
	}

	tctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()
	err = s.orders.Transaction(tctx, func(tx *repositories.OrderRepository) error {
		return tx.Insert(tctx, &o, models.OrderStatusHistory{Status: models.StatusPending})
	})
	if err != nil {
		return OrderView{}, fmt.Errorf("orders: create: %w", err)
	}

	metrics.OrdersCreated.Inc()
	logger.WithCtx(ctx).Info("order placed", "order", o.UUID, "user_id", userID, "total", total.StringFixed(2), "items", len(items))

	saved, err := s.orders.FindByUUID(ctx, o.UUID)
	if err != nil {
		return OrderView{}, fmt.Errorf("orders: reload %s: %w", o.UUID, err)
	}

	s.notify.Notify(ctx, Notice{
		RelatedUserID: &saved.UserID,
		OrderID:       &saved.ID,
		Type:          models.NotificationNewOrder,
		Title:         "New Order Received",
		Message:       fmt.Sprintf("A new order #%d has been placed for $%s.", saved.ID, total.StringFixed(2)),
	})

	placed := OrderPlaced{
		OrderUUID:   saved.UUID,
		TotalAmount: saved.TotalAmount,
		ItemCount:   len(saved.Items),
		PlacedAt:    saved.CreatedAt,
	}
	if saved.User != nil {
		placed.UserUUID = saved.User.UUID
	}
	s.events.FireAsync(ctx, event.Event{Name: EventOrderPlaced, Payload: placed})

	return s.view(ctx, saved)
}

// CreateFor places an order on behalf of the customer with the given uuid.
func (s *OrderService) CreateFor(ctx context.Context, customerUUID string, lines []LineItem) (OrderView, error) {
	u, err := s.users.FindByUUID(ctx, customerUUID)
	if orm.IsNotFound(err) || (err == nil && u.Role != models.RoleCustomer) {
		return OrderView{}, ErrUserNotFound
	}
	if err != nil {
		return OrderView{}, fmt.Errorf("orders: load customer: %w", err)
	}
	return s.Create(ctx, u.ID, lines)
}

// price keeps the lines the catalog can serve and totals them at catalog
// prices.
func (s *OrderService) price(ctx context.Context, lines []LineItem) ([]models.OrderItem, decimal.Decimal, error) {
	ids := collection.Unique(collection.Map(lines, func(l LineItem) uint { return l.FoodID }))

	cctx, cancel := context.WithTimeout(ctx, s.catalogTimeout)
	defer cancel()
	foods, err := s.foods.ResolveMany(cctx, ids)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("orders: resolve foods: %w", err)
	}
	byID := collection.KeyBy(foods, func(f models.Food) uint { return f.ID })

	items := make([]models.OrderItem, 0, len(lines))
	total := decimal.Zero
	for _, l := range lines {
		f, ok := byID[l.FoodID]
		if !ok || !f.IsAvailable || l.Quantity < 1 {
			continue
		}
		items = append(items, models.OrderItem{
			FoodID:   f.ID,
			FoodName: f.Name,
			Quantity: l.Quantity,
			Price:    f.Price,
		})
		total = total.Add(f.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return items, total.Round(2), nil
}

// ─── Queries ──────────────────────────────────────────────────────────────────

// List returns one customer's orders, newest first.
func (s *OrderService) List(ctx context.Context, userID uint, skip, limit int) (orm.Page[OrderView], error) {
	page, err := s.orders.ListByUser(ctx, userID, skip, limit)
	if err != nil {
		return orm.Page[OrderView]{}, fmt.Errorf("orders: list: %w", err)
	}
	items, err := s.views(ctx, page.Items)
	if err != nil {
		return orm.Page[OrderView]{}, err
	}
	return orm.Page[OrderView]{Total: page.Total, Items: items}, nil
}

// ListAll returns every order, newest first. An unknown status filter is
// ignored.
func (s *OrderService) ListAll(ctx context.Context, skip, limit int, status string) (AdminOrderPage, error) {
	var filter *models.OrderStatus
	if st, ok := models.ParseOrderStatus(status); ok {
		filter = &st
	}

	page, err := s.orders.ListAll(ctx, skip, limit, filter)
	if err != nil {
		return AdminOrderPage{}, fmt.Errorf("orders: list all: %w", err)
	}
	counts, err := s.orders.StatusCounts(ctx)
	if err != nil {
		return AdminOrderPage{}, err
	}
	items, err := s.views(ctx, page.Items)
	if err != nil {
		return AdminOrderPage{}, err
	}
	return AdminOrderPage{Total: page.Total, Items: items, StatusCounts: counts}, nil
}

// Get returns an order owned by userID. Someone else's order is reported
// exactly like a missing one.
func (s *OrderService) Get(ctx context.Context, userID uint, ref string) (OrderView, error) {
	o, err := s.find(ctx, &userID, ref)
	if err != nil {
		return OrderView{}, err
	}
	return s.view(ctx, o)
}

// GetAny returns any order.
func (s *OrderService) GetAny(ctx context.Context, ref string) (OrderView, error) {
	o, err := s.find(ctx, nil, ref)
	if err != nil {
		return OrderView{}, err
	}
	return s.view(ctx, o)
}

// Track returns the order with its status history. A non-nil userID
// restricts it to that owner.
func (s *OrderService) Track(ctx context.Context, userID *uint, ref string) (TrackingView, error) {
	o, err := s.find(ctx, userID, ref)
	if err != nil {
		return TrackingView{}, err
	}
	v, err := s.view(ctx, o)
	if err != nil {
		return TrackingView{}, err
	}
	history, err := s.orders.History(ctx, o.ID)
	if err != nil {
		return TrackingView{}, fmt.Errorf("orders: history: %w", err)
	}

	tv := TrackingView{OrderView: v, StatusHistory: make([]StatusHistoryView, 0, len(history))}
	for _, h := range history {
		tv.StatusHistory = append(tv.StatusHistory, StatusHistoryView{Status: h.Status, CreatedAt: h.CreatedAt})
	}
	return tv, nil
}

func (s *OrderService) find(ctx context.Context, owner *uint, ref string) (models.Order, error) {
	o, err := s.orders.FindByUUID(ctx, ref)
	if orm.IsNotFound(err) {
		return o, ErrOrderNotFound
	}
	if err != nil {
		return o, fmt.Errorf("orders: find %s: %w", ref, err)
	}
	if owner != nil && o.UserID != *owner {
		return models.Order{}, ErrOrderNotFound
	}
	return o, nil
}

// ─── Status changes ───────────────────────────────────────────────────────────

// UpdateStatus sets the order's status. The write only succeeds if nobody
// else changed the order since it was read; otherwise ErrOrderConflict is
// returned and nothing is written.
func (s *OrderService) UpdateStatus(ctx context.Context, ref, status string) (OrderView, error) {
	to, ok := models.ParseOrderStatus(status)
	if !ok {
		metrics.OrderRejected.WithLabelValues("invalid_status").Inc()
		return OrderView{}, ErrInvalidStatus
	}

	var (
		o    models.Order
		from models.OrderStatus
	)
	tctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()
	err := s.orders.Transaction(tctx, func(tx *repositories.OrderRepository) error {
		cur, err := tx.FindByUUID(tctx, ref)
		if orm.IsNotFound(err) {
			return ErrOrderNotFound
		}
		if err != nil {
			return err
		}
		if s.strict && !models.CanTransition(cur.Status, to) {
			return ErrInvalidTransition
		}

		swapped, err := tx.CompareAndSetStatus(tctx, cur.ID, cur.Revision, to)
		if err != nil {
			return err
		}
		if !swapped {
			return ErrOrderConflict
		}
		if err := tx.AppendHistory(tctx, cur.ID, to); err != nil {
			return err
		}

		from = cur.Status
		cur.Status = to
		cur.Revision++
		cur.UpdatedAt = s.now()
		o = cur
		return nil
	})
	switch {
	case err == nil:
	case errors.Is(err, ErrInvalidTransition):
		metrics.OrderRejected.WithLabelValues("invalid_transition").Inc()
		return OrderView{}, err
	case errors.Is(err, ErrOrderConflict):
		metrics.OrderRejected.WithLabelValues("conflict").Inc()
		return OrderView{}, err
	case errors.Is(err, ErrOrderNotFound):
		return OrderView{}, err
	default:
		return OrderView{}, fmt.Errorf("orders: update status %s: %w", ref, err)
	}

	metrics.OrderTransitions.WithLabelValues(string(from), string(to)).Inc()
	logger.WithCtx(ctx).Info("order status changed", "order", o.UUID, "from", from, "to", to, "revision", o.Revision)

	s.notify.Notify(ctx, Notice{
		UserID:        &o.UserID,
		RelatedUserID: &o.UserID,
		OrderID:       &o.ID,
		Type:          models.NotificationOrderUpdate,
		Title:         "Order Status Updated",
		Message:       fmt.Sprintf("Your order #%d is now '%s'.", o.ID, to),
	})

	changed := OrderStatusChanged{
		OrderUUID: o.UUID,
		From:      from,
		To:        to,
		Revision:  o.Revision,
		ChangedAt: o.UpdatedAt,
	}
	if o.User != nil {
		changed.UserUUID = o.User.UUID
	}
	s.events.FireAsync(ctx, event.Event{Name: EventOrderStatusChanged, Payload: changed})

	return s.view(ctx, o)
}

// ─── Views ────────────────────────────────────────────────────────────────────

func (s *OrderService) view(ctx context.Context, o models.Order) (OrderView, error) {
	vs, err := s.views(ctx, []models.Order{o})
	if err != nil {
		return OrderView{}, err
	}
	return vs[0], nil
}

// views joins current food names onto orders with one catalog lookup.
func (s *OrderService) views(ctx context.Context, orders []models.Order) ([]OrderView, error) {
	ids := collection.Unique(collection.FlatMap(orders, func(o models.Order) []uint {
		return collection.Map(o.Items, func(it models.OrderItem) uint { return it.FoodID })
	}))

	names := make(map[uint]string, len(ids))
	if len(ids) > 0 {
		cctx, cancel := context.WithTimeout(ctx, s.catalogTimeout)
		defer cancel()
		foods, err := s.foods.ResolveMany(cctx, ids)
		if err != nil {
			return nil, fmt.Errorf("orders: food names: %w", err)
		}
		for _, f := range foods {
			names[f.ID] = f.Name
		}
	}

	return collection.Map(orders, func(o models.Order) OrderView { return newOrderView(o, names) }), nil
}
