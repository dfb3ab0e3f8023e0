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

func TestMemberRepository_ActiveRole(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewMemberRepository(testDB.DB)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	member, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	stranger, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	board := testutil.CreateBoard(t, testDB.DB, owner, "Board")
	testutil.AddMember(t, testDB.DB, board, member, domain.RoleMember)

	tests := []struct {
		name    string
		userID  int64
		want    domain.Role
		wantErr bool
	}{
		{name: "owner", userID: owner.ID, want: domain.RoleOwner},
		{name: "member", userID: member.ID, want: domain.RoleMember},
		{name: "stranger", userID: stranger.ID, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role, err := repo.ActiveRole(ctx, board.ID, tt.userID)
			if tt.wantErr {
				assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, role)
		})
	}

	t.Run("inactive board hides every membership", func(t *testing.T) {
		testutil.Deactivate(t, testDB.DB, "boards", board.ID)
		_, err := repo.ActiveRole(ctx, board.ID, owner.ID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestMemberRepository_LastOwnerGuard(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewMemberRepository(testDB.DB)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	other, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	board := testutil.CreateBoard(t, testDB.DB, owner, "Board")
	testutil.AddMember(t, testDB.DB, board, other, domain.RoleMember)

	err := repo.Deactivate(ctx, board.ID, owner.ID)
	assert.ErrorIs(t, err, domain.ErrLastOwner)

	err = repo.SetRole(ctx, board.ID, owner.ID, domain.RoleMember)
	assert.ErrorIs(t, err, domain.ErrLastOwner)

	require.NoError(t, repo.SetRole(ctx, board.ID, other.ID, domain.RoleOwner))
	require.NoError(t, repo.Deactivate(ctx, board.ID, owner.ID), "a second owner exists now")

	members, err := repo.ListActive(ctx, board.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, other.ID, members[0].UserID)
	assert.Equal(t, domain.RoleOwner, members[0].Role)
}

func TestMemberRepository_IsActiveMemberEmail(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewMemberRepository(testDB.DB)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().WithEmail("owner@example.com").Build(t, testDB.DB)
	board := testutil.CreateBoard(t, testDB.DB, owner, "Board")

	ok, err := repo.IsActiveMemberEmail(ctx, board.ID, "OWNER@example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.IsActiveMemberEmail(ctx, board.ID, "someone@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}
