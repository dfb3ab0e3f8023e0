package domain_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/dom/kanban-board/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "validation", err: domain.ErrColumnNotInBoard, want: domain.ErrValidation},
		{name: "conflict", err: domain.ErrInviteAlreadyUsed, want: domain.ErrConflict},
		{name: "wrapped not authorized", err: fmt.Errorf("move card: %w", domain.ErrNotAuthorized), want: domain.ErrNotAuthorized},
		{name: "foreign error", err: errors.New("dial tcp: refused"), want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.Kind(tt.err))
		})
	}
}

func TestNewResult(t *testing.T) {
	t.Run("success carries data", func(t *testing.T) {
		res := domain.NewResult(42, nil)
		assert.True(t, res.Success)
		assert.Nil(t, res.ErrorMessage)
		require.NotNil(t, res.Data)
		assert.Equal(t, 42, *res.Data)
	})

	t.Run("domain error message is kept", func(t *testing.T) {
		res := domain.NewResult(0, domain.ErrDuplicateInvite)
		assert.False(t, res.Success)
		assert.Nil(t, res.Data)
		require.NotNil(t, res.ErrorMessage)
		assert.Equal(t, domain.ErrDuplicateInvite.Error(), *res.ErrorMessage)
	})

	t.Run("internal error detail is hidden", func(t *testing.T) {
		res := domain.NewResult("x", errors.New("pq: relation boards does not exist"))
		require.NotNil(t, res.ErrorMessage)
		assert.Equal(t, domain.ErrStoreUnavailable.Error(), *res.ErrorMessage)
	})

	t.Run("json shape", func(t *testing.T) {
		raw, err := json.Marshal(domain.Fail[int](domain.ErrNotAuthorized))
		require.NoError(t, err)
		assert.JSONEq(t, `{"success":false,"errorMessage":"not authorized or not found","data":null}`, string(raw))
	})
}
