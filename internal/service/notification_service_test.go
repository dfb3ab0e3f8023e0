package service_test

import (
	"context"
	"testing"

	"github.com/dom/kanban-board/internal/domain"
	"github.com/dom/kanban-board/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationService(t *testing.T) {
	env := testutil.NewEnv(t)
	notifications := env.Services.Notification
	ctx := context.Background()

	alice, _ := testutil.NewUserBuilder().Build(t, env.DB.DB)
	bob, _ := testutil.NewUserBuilder().Build(t, env.DB.DB)

	require.NoError(t, notifications.Notify(ctx, alice.ID, domain.NotificationCardComment, "one", map[string]int64{"cardId": 7}))
	require.NoError(t, notifications.Notify(ctx, alice.ID, domain.NotificationMemberRemoved, "two", nil))
	require.NoError(t, notifications.Notify(ctx, bob.ID, domain.NotificationCardComment, "bob's", nil))

	list, err := notifications.GetNotifications(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, n := range list {
		if n.Message == "one" {
			assert.JSONEq(t, `{"cardId":7}`, string(n.Payload))
		}
	}

	bobs, err := notifications.GetNotifications(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, bobs, 1)

	t.Run("cannot delete someone else's", func(t *testing.T) {
		err := notifications.DeleteNotification(ctx, alice.ID, bobs[0].ID)
		testutil.AssertKind(t, err, domain.ErrNotAuthorized)

		still, err := notifications.GetNotifications(ctx, bob.ID)
		require.NoError(t, err)
		assert.Len(t, still, 1)
	})

	t.Run("delete one", func(t *testing.T) {
		require.NoError(t, notifications.DeleteNotification(ctx, alice.ID, list[0].ID))
		left, err := notifications.GetNotifications(ctx, alice.ID)
		require.NoError(t, err)
		assert.Len(t, left, 1)
	})

	t.Run("delete all", func(t *testing.T) {
		n, err := notifications.DeleteNotifications(ctx, alice.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)

		n, err = notifications.DeleteNotifications(ctx, alice.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 0, n)

		left, err := notifications.GetNotifications(ctx, alice.ID)
		require.NoError(t, err)
		assert.Empty(t, left)
	})
}
