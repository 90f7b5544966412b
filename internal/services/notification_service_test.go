package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/anonto42/neighborly/backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationReads(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.member(t, "Alice")
	bob := f.member(t, "Bob")

	base := time.Now().Add(-time.Hour)
	var ids []uuid.UUID
	for i := 0; i < 7; i++ {
		n := &models.Notification{
			UserID:    alice.UserID,
			Type:      models.NotificationOther,
			Title:     fmt.Sprintf("note %d", i),
			Message:   "hello",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, f.notifications.CreateNotification(ctx, n))
		ids = append(ids, n.ID)
	}

	unread, err := f.notifier.Unread(ctx, alice)
	require.NoError(t, err)
	require.Len(t, unread, 5)
	assert.Equal(t, "note 6", unread[0].Title)

	count, err := f.notifier.UnreadCount(ctx, alice)
	require.NoError(t, err)
	assert.EqualValues(t, 7, count)

	assert.ErrorIs(t, f.notifier.MarkAsRead(ctx, bob, ids[0]), ErrForbidden)
	assert.ErrorIs(t, f.notifier.MarkAsRead(ctx, alice, uuid.New()), ErrNotFound)
	require.NoError(t, f.notifier.MarkAsRead(ctx, alice, ids[0]))

	count, err = f.notifier.UnreadCount(ctx, alice)
	require.NoError(t, err)
	assert.EqualValues(t, 6, count)

	marked, err := f.notifier.MarkAllAsRead(ctx, alice)
	require.NoError(t, err)
	assert.EqualValues(t, 6, marked)

	items, total, err := f.notifier.List(ctx, alice, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 7, total)
	for _, n := range items {
		assert.True(t, n.IsRead)
	}
}
