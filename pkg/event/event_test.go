package event_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/foodhub/pkg/event"
	"github.com/shashiranjanraj/foodhub/pkg/workerpool"
)

func TestFireRunsMatchingAndWildcardListeners(t *testing.T) {
	bus := event.NewBus(nil)

	var got []string
	bus.Listen("order.placed", func(_ context.Context, e event.Event) error {
		got = append(got, "placed:"+e.Payload.(string))
		return nil
	})
	bus.Listen("*", func(_ context.Context, e event.Event) error {
		got = append(got, "any:"+e.Name)
		return nil
	})
	bus.Listen("order.status_changed", func(context.Context, event.Event) error {
		t.Error("unrelated listener should not run")
		return nil
	})

	err := bus.Fire(context.Background(), event.Event{Name: "order.placed", Payload: "abc"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"placed:abc", "any:order.placed"}, got)
}

func TestFireJoinsErrors(t *testing.T) {
	bus := event.NewBus(nil)
	boom := errors.New("boom")
	bus.Listen("x", func(context.Context, event.Event) error { return boom })
	bus.Listen("x", func(context.Context, event.Event) error { return nil })

	assert.ErrorIs(t, bus.Fire(context.Background(), event.Event{Name: "x"}), boom)
}

func TestFireAsyncSurvivesCallerCancellation(t *testing.T) {
	pool := workerpool.New("test", 2)
	defer pool.Shutdown()
	bus := event.NewBus(pool)

	var wg sync.WaitGroup
	wg.Add(1)
	var sawCancel atomic.Bool
	bus.Listen("x", func(ctx context.Context, _ event.Event) error {
		defer wg.Done()
		time.Sleep(10 * time.Millisecond)
		sawCancel.Store(ctx.Err() != nil)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	bus.FireAsync(ctx, event.Event{Name: "x"})
	cancel()

	wg.Wait()
	assert.False(t, sawCancel.Load(), "listener context must not inherit request cancellation")
}

func TestFireAsyncDropsWhenPoolIsFull(t *testing.T) {
	pool := workerpool.New("test", 1)
	defer pool.Shutdown()
	bus := event.NewBus(pool)

	release := make(chan struct{})
	started := make(chan struct{})
	_ = pool.SubmitWait(func() {
		close(started)
		<-release
	})
	<-started
	_ = pool.Submit(func() {})
	_ = pool.Submit(func() {})

	var ran atomic.Int32
	bus.Listen("x", func(context.Context, event.Event) error {
		ran.Add(1)
		return nil
	})

	bus.FireAsync(context.Background(), event.Event{Name: "x"})
	close(release)
	pool.Shutdown()

	assert.Zero(t, ran.Load(), "event should have been dropped, not queued")
}
