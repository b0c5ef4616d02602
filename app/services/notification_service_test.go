package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/foodhub/app/models"
	"github.com/shashiranjanraj/foodhub/app/repositories"
	"github.com/shashiranjanraj/foodhub/pkg/queue"
)

func newNotifications(f *fixture) (*NotificationService, *repositories.NotificationRepository) {
	repo := repositories.NewNotificationRepository(f.db)
	return NewNotificationService(repo, f.orderRep, f.users), repo
}

func TestAdminFeedAndReadState(t *testing.T) {
	f := newFixture(t)
	f.orders.notify = DirectNotifier{Repo: repositories.NewNotificationRepository(f.db)}
	svc, _ := newNotifications(f)
	ctx := context.Background()

	a := f.food(t, "Chaat", "3.00", true)
	cust := f.user(t, "feed", models.RoleCustomer)
	o, err := f.orders.Create(ctx, cust.ID, []LineItem{{FoodID: a.ID, Quantity: 1}})
	require.NoError(t, err)
	_, err = f.orders.UpdateStatus(ctx, o.UUID, "ACCEPTED")
	require.NoError(t, err)

	feed, err := svc.AdminFeed(ctx)
	require.NoError(t, err)
	require.Len(t, feed.Items, 1, "status updates go to the customer only")
	assert.Equal(t, int64(1), feed.UnreadCount)
	n := feed.Items[0]
	assert.Equal(t, models.NotificationNewOrder, n.Type)
	assert.Equal(t, "feed", n.RelatedUserName)
	assert.Equal(t, o.UUID, n.OrderUUID)

	mine, err := svc.Mine(ctx, cust.ID)
	require.NoError(t, err)
	require.Len(t, mine.Items, 1)
	assert.Equal(t, models.NotificationOrderUpdate, mine.Items[0].Type)
	assert.Equal(t, int64(1), mine.UnreadCount)

	require.NoError(t, svc.MarkAdminRead(ctx, n.ID))
	feed, err = svc.AdminFeed(ctx)
	require.NoError(t, err)
	assert.Zero(t, feed.UnreadCount)
	assert.True(t, feed.Items[0].IsRead)

	assert.ErrorIs(t, svc.MarkAdminRead(ctx, 9999), ErrNotificationNotFound)
	assert.ErrorIs(t, svc.MarkAdminRead(ctx, mine.Items[0].ID), ErrNotificationNotFound, "a personal notice is not an admin notice")

	n2, err := svc.MarkAllMineRead(ctx, cust.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n2)
	mine, err = svc.Mine(ctx, cust.ID)
	require.NoError(t, err)
	assert.Zero(t, mine.UnreadCount)
}

func TestMarkAllAdminRead(t *testing.T) {
	f := newFixture(t)
	svc, repo := newNotifications(f)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &models.Notification{Type: models.NotificationSystem, Title: "t", Message: "m"}))
	}
	n, err := svc.MarkAllAdminRead(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = svc.MarkAllAdminRead(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestBackfillLinksLegacyNotifications(t *testing.T) {
	f := newFixture(t)
	svc, repo := newNotifications(f)
	ctx := context.Background()

	a := f.food(t, "Bhel", "2.00", true)
	cust := f.user(t, "legacy", models.RoleCustomer)
	o, err := f.orders.Create(ctx, cust.ID, []LineItem{{FoodID: a.ID, Quantity: 1}})
	require.NoError(t, err)
	saved, err := f.orderRep.FindByUUID(ctx, o.UUID)
	require.NoError(t, err)

	orderNote := models.Notification{
		Type:    models.NotificationNewOrder,
		Title:   "New Order Received",
		Message: fmt.Sprintf("A new order #%d has been placed for $2.00.", saved.ID),
	}
	userNote := models.Notification{
		Type:    models.NotificationNewUser,
		Title:   "New User Registration",
		Message: "New customer registered: legacy (legacy@example.test)",
	}
	orphan := models.Notification{
		Type:    models.NotificationNewOrder,
		Title:   "New Order Received",
		Message: "A new order #424242 has been placed for $1.00.",
	}
	plain := models.Notification{Type: models.NotificationSystem, Title: "Maintenance", Message: "Back at 5."}
	for _, n := range []*models.Notification{&orderNote, &userNote, &orphan, &plain} {
		require.NoError(t, repo.Create(ctx, n))
	}

	res, err := svc.Backfill(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Scanned)
	assert.Equal(t, 2, res.Linked)

	var got models.Notification
	require.NoError(t, f.db.First(&got, orderNote.ID).Error)
	require.NotNil(t, got.OrderID)
	assert.Equal(t, saved.ID, *got.OrderID)
	require.NotNil(t, got.RelatedUserID)
	assert.Equal(t, cust.ID, *got.RelatedUserID)

	got = models.Notification{}
	require.NoError(t, f.db.First(&got, userNote.ID).Error)
	assert.Nil(t, got.OrderID)
	require.NotNil(t, got.RelatedUserID)
	assert.Equal(t, cust.ID, *got.RelatedUserID)

	got = models.Notification{}
	require.NoError(t, f.db.First(&got, orphan.ID).Error)
	assert.Nil(t, got.OrderID)
	assert.Nil(t, got.RelatedUserID)

	again, err := svc.Backfill(ctx)
	require.NoError(t, err)
	assert.Zero(t, again.Linked, "a second run has nothing left to link")
}

func TestQueueNotifierPersistsThroughWorkers(t *testing.T) {
	f := newFixture(t)
	repo := repositories.NewNotificationRepository(f.db)
	RegisterJobs(repo)

	queue.SetDriver(queue.NewMemoryDriver(10))
	ctx, cancel := context.WithCancel(context.Background())
	wg := queue.StartWorkers(ctx, 1)
	t.Cleanup(func() {
		cancel()
		wg.Wait()
	})

	cust := f.user(t, "queued", models.RoleCustomer)
	QueueNotifier{}.Notify(context.Background(), Notice{
		UserID:  &cust.ID,
		Type:    models.NotificationSystem,
		Title:   "Welcome",
		Message: "Thanks for joining.",
	})

	assert.Eventually(t, func() bool {
		var n int64
		f.db.Model(&models.Notification{}).Where("user_id = ?", cust.ID).Count(&n)
		return n == 1
	}, 2*time.Second, 10*time.Millisecond)
}
