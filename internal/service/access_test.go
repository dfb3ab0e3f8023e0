package service_test

import (
	"context"
	"testing"

	"github.com/dom/kanban-board/internal/domain"
	"github.com/dom/kanban-board/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessService_IsActiveMember(t *testing.T) {
	env := testutil.NewEnv(t)
	access := env.Services.Access
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, env.DB.DB)
	member, _ := testutil.NewUserBuilder().Build(t, env.DB.DB)
	stranger, _ := testutil.NewUserBuilder().Build(t, env.DB.DB)
	board := testutil.CreateBoard(t, env.DB.DB, owner, "Board")
	testutil.AddMember(t, env.DB.DB, board, member, domain.RoleMember)

	tests := []struct {
		name      string
		userID    int64
		wantMem   bool
		wantOwner bool
	}{
		{name: "owner", userID: owner.ID, wantMem: true, wantOwner: true},
		{name: "member", userID: member.ID, wantMem: true},
		{name: "stranger", userID: stranger.ID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isMember, err := access.IsActiveMember(ctx, tt.userID, board.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMem, isMember)

			isOwner, err := access.IsOwner(ctx, tt.userID, board.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOwner, isOwner)
		})
	}

	t.Run("inactive board denies everyone", func(t *testing.T) {
		testutil.Deactivate(t, env.DB.DB, "boards", board.ID)
		for _, u := range []int64{owner.ID, member.ID} {
			ok, err := access.IsActiveMember(ctx, u, board.ID)
			require.NoError(t, err)
			assert.False(t, ok)
		}
	})
}

func TestAccessService_ResolvesResourceToBoard(t *testing.T) {
	env := testutil.NewEnv(t)
	access := env.Services.Access
	ctx := context.Background()

	alice, _ := testutil.NewUserBuilder().Build(t, env.DB.DB)
	bob, _ := testutil.NewUserBuilder().Build(t, env.DB.DB)
	aliceBoard := testutil.CreateBoard(t, env.DB.DB, alice, "Alice")
	testutil.CreateBoard(t, env.DB.DB, bob, "Bob")
	column := testutil.CreateColumn(t, env.DB.DB, aliceBoard, "Todo")
	card := testutil.CreateCard(t, env.DB.DB, column, alice, "card", 0)

	boardID, _, err := access.RequireCardMember(ctx, alice.ID, card.ID)
	require.NoError(t, err)
	assert.Equal(t, aliceBoard.ID, boardID)

	// Bob owns a board of his own but not the one the card lives on.
	_, _, err = access.RequireCardMember(ctx, bob.ID, card.ID)
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	_, _, err = access.RequireColumnMember(ctx, bob.ID, column.ID)
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)

	// Missing resources look exactly like forbidden ones.
	_, _, err = access.RequireCardMember(ctx, alice.ID, 999999)
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)

	_, ok, err := access.CardBoard(ctx, 999999)
	require.NoError(t, err)
	assert.False(t, ok)
}
