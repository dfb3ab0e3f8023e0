package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/dom/kanban-board/internal/domain"
	"github.com/dom/kanban-board/internal/repository/postgres"
	"github.com/dom/kanban-board/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func TestCommentRepository_BoardIDOf(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	board := testutil.CreateBoard(t, testDB.DB, user, "Board")
	column := testutil.CreateColumn(t, testDB.DB, board, "Todo")
	card := testutil.CreateCard(t, testDB.DB, column, user, "card", 0)

	comment := &domain.BoardCardComment{BoardCardID: card.ID, UserID: user.ID, Message: "hi", CreatedAt: time.Now()}
	require.NoError(t, repos.Comment.Create(ctx, comment))

	boardID, err := repos.Comment.BoardIDOf(ctx, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, board.ID, boardID)

	comments, err := repos.Comment.ListByCard(ctx, card.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	require.NotNil(t, comments[0].Author)
	assert.Equal(t, user.FullName, comments[0].Author.FullName)

	testutil.Deactivate(t, testDB.DB, "board_cards", card.ID)
	_, err = repos.Comment.BoardIDOf(ctx, comment.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound, "comments on hidden cards do not resolve")
}

func TestNotificationRepository_SoftDelete(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewNotificationRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	other, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	var mine []*domain.UserNotification
	for i := 0; i < 3; i++ {
		n := &domain.UserNotification{
			UserID:    user.ID,
			Kind:      domain.NotificationInviteReceived,
			Message:   "invited",
			Payload:   datatypes.JSON(`{"boardId": 1}`),
			CreatedAt: time.Now(),
		}
		require.NoError(t, repo.Create(ctx, n))
		mine = append(mine, n)
	}

	ok, err := repo.SoftDelete(ctx, other.ID, mine[0].ID)
	require.NoError(t, err)
	assert.False(t, ok, "notifications are scoped to their owner")

	ok, err = repo.SoftDelete(ctx, user.ID, mine[0].ID)
	require.NoError(t, err)
	assert.True(t, ok)

	list, err := repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	n, err := repo.SoftDeleteAll(ctx, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	list, err = repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestVerificationRepository_Latest(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewVerificationRepository(testDB.DB)
	ctx := context.Background()
	now := time.Now().UTC()
	email := "new@example.com"

	older := &domain.UserVerification{Email: email, Code: "111111", CreatedAt: now.Add(-2 * time.Minute), ExpiresAt: now.Add(10 * time.Minute)}
	newer := &domain.UserVerification{Email: email, Code: "222222", CreatedAt: now.Add(-time.Minute), ExpiresAt: now.Add(10 * time.Minute)}
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	got, err := repo.Latest(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, got.ID, "latest code wins")
	assert.True(t, got.Usable(now))

	ok, err := repo.MarkUsed(ctx, newer.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.MarkUsed(ctx, newer.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err = repo.Latest(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, got.ID, "a spent latest code does not revive older ones")
	assert.True(t, got.IsUsed)

	_, err = repo.Latest(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	count, err := repo.CountSince(ctx, email, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}
