package eventbus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishWithNoSubscribersIsNoop(t *testing.T) {
	b := New()
	assert.NotPanics(t, func() {
		b.Publish(ProjectIndexingStarted{Project: "p"})
	})
}

func TestSubscriberReceivesPublishedEvent(t *testing.T) {
	b := New()
	sub := b.Subscribe()
	defer sub.Unsubscribe()

	b.Publish(ProjectIndexingStarted{Project: "p"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	msg, err := sub.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, msg.Lagged)
	started, ok := msg.Event.(ProjectIndexingStarted)
	require.True(t, ok)
	assert.Equal(t, "p", started.Project)
}

func TestLateSubscriberMissesEarlierEvents(t *testing.T) {
	b := New()
	b.Publish(ProjectIndexingStarted{Project: "before"})

	sub := b.Subscribe()
	defer sub.Unsubscribe()
	b.Publish(ProjectIndexingStarted{Project: "after"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	msg, err := sub.Receive(ctx)
	require.NoError(t, err)
	started := msg.Event.(ProjectIndexingStarted)
	assert.Equal(t, "after", started.Project)
}

func TestSlowSubscriberGetsLaggedSignal(t *testing.T) {
	b := NewWithCapacity(4)
	sub := b.Subscribe()
	defer sub.Unsubscribe()

	for i := 0; i < 10; i++ {
		b.Publish(ProjectIndexingStarted{Project: "p"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	msg, err := sub.Receive(ctx)
	require.NoError(t, err)
	assert.Greater(t, msg.Lagged, 0)
}

func TestReceiveRespectsContextCancellation(t *testing.T) {
	b := New()
	sub := b.Subscribe()
	defer sub.Unsubscribe()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := sub.Receive(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestReceiveAfterUnsubscribeReturnsErrClosed(t *testing.T) {
	b := New()
	sub := b.Subscribe()
	sub.Unsubscribe()

	_, err := sub.Receive(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestMultipleSubscribersEachReceiveTheEvent(t *testing.T) {
	b := New()
	sub1 := b.Subscribe()
	sub2 := b.Subscribe()
	defer sub1.Unsubscribe()
	defer sub2.Unsubscribe()

	b.Publish(ProjectIndexingCompleted{Project: "p"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := sub1.Receive(ctx)
	require.NoError(t, err)
	_, err = sub2.Receive(ctx)
	require.NoError(t, err)
}
