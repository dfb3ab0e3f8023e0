package postgres_test

import (
	"context"
	"testing"

	"github.com/dom/kanban-board/internal/domain"
	"github.com/dom/kanban-board/internal/repository/postgres"
	"github.com/dom/kanban-board/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCardRepository_NextOrder(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewCardRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	board := testutil.CreateBoard(t, testDB.DB, user, "Board")
	column := testutil.CreateColumn(t, testDB.DB, board, "Todo")

	order, err := repo.NextOrder(ctx, column.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, order, "empty column starts at zero")

	testutil.CreateCard(t, testDB.DB, column, user, "a", 0)
	testutil.CreateCard(t, testDB.DB, column, user, "b", 7)
	removed := testutil.CreateCard(t, testDB.DB, column, user, "c", 50)
	testutil.Deactivate(t, testDB.DB, "board_cards", removed.ID)

	order, err = repo.NextOrder(ctx, column.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, order, "inactive cards do not count")
}

func TestCardRepository_Visibility(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewCardRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	board := testutil.CreateBoard(t, testDB.DB, user, "Board")
	todo := testutil.CreateColumn(t, testDB.DB, board, "Todo")
	done := testutil.CreateColumn(t, testDB.DB, board, "Done")

	visible := testutil.CreateCard(t, testDB.DB, todo, user, "visible", 0)
	hidden := testutil.CreateCard(t, testDB.DB, done, user, "under deleted column", 0)
	testutil.Deactivate(t, testDB.DB, "board_columns", done.ID)

	cards, err := repo.ListVisible(ctx, board.ID)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, visible.ID, cards[0].ID)

	// The card row itself is untouched.
	raw, err := repo.GetByID(ctx, hidden.ID)
	require.NoError(t, err)
	assert.True(t, raw.Active)

	_, err = repo.GetVisible(ctx, hidden.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = repo.BoardIDOf(ctx, hidden.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	boardID, err := repo.BoardIDOf(ctx, visible.ID)
	require.NoError(t, err)
	assert.Equal(t, board.ID, boardID)

	testutil.Deactivate(t, testDB.DB, "boards", board.ID)
	cards, err = repo.ListVisible(ctx, board.ID)
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestCardRepository_ListVisibleOrdersTiesByID(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewCardRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	board := testutil.CreateBoard(t, testDB.DB, user, "Board")
	column := testutil.CreateColumn(t, testDB.DB, board, "Todo")

	first := testutil.CreateCard(t, testDB.DB, column, user, "first", 3)
	second := testutil.CreateCard(t, testDB.DB, column, user, "second", 3)
	top := testutil.CreateCard(t, testDB.DB, column, user, "top", 1)

	cards, err := repo.ListVisible(ctx, board.ID)
	require.NoError(t, err)
	require.Len(t, cards, 3)
	assert.Equal(t, []int64{top.ID, first.ID, second.ID}, []int64{cards[0].ID, cards[1].ID, cards[2].ID})
}

func TestCardRepository_Move(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewCardRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	board := testutil.CreateBoard(t, testDB.DB, user, "Board")
	todo := testutil.CreateColumn(t, testDB.DB, board, "Todo")
	done := testutil.CreateColumn(t, testDB.DB, board, "Done")
	card := testutil.CreateCard(t, testDB.DB, todo, user, "card", 0)

	moved, err := repo.Move(ctx, card.ID, done.ID, 4)
	require.NoError(t, err)
	assert.True(t, moved)

	got, err := repo.GetByID(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, done.ID, got.BoardColumnID)
	assert.Equal(t, 4, got.Order)

	require.NoError(t, repo.Deactivate(ctx, card.ID))
	require.NoError(t, repo.Deactivate(ctx, card.ID), "second delete is a no-op")

	moved, err = repo.Move(ctx, card.ID, todo.ID, 0)
	require.NoError(t, err)
	assert.False(t, moved, "inactive cards are not moved")

	got, err = repo.GetByID(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, done.ID, got.BoardColumnID)
}
