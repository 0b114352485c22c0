package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/studybook/internal/errors"
)

func TestNotebookService_CreateAndList(t *testing.T) {
	ctx := context.Background()
	st := newStack(t)

	nb, err := st.notebooks.Create(ctx, alice, "  Chemistry  ", " organic ")
	require.NoError(t, err)
	assert.Equal(t, "Chemistry", nb.Title)
	assert.Equal(t, "organic", nb.Description)
	assert.Equal(t, "alice", nb.UserID)

	_, err = st.notebooks.Create(ctx, bob, "Bob's", "")
	require.NoError(t, err)

	list, err := st.notebooks.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, nb.ID, list[0].ID)
}

func TestNotebookService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	st := newStack(t)

	_, err := st.notebooks.Create(ctx, anonymous, "x", "")
	requireCode(t, err, errors.ErrCodeUnauthorized)

	_, err = st.notebooks.Create(ctx, alice, "   ", "")
	requireCode(t, err, errors.ErrCodeValidation)

	_, err = st.notebooks.Create(ctx, alice, strings.Repeat("a", 201), "")
	requireCode(t, err, errors.ErrCodeValidation)
}

func TestNotebookService_ListEmptyIsNotNil(t *testing.T) {
	st := newStack(t)

	list, err := st.notebooks.List(context.Background(), alice)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestNotebookService_Authorize(t *testing.T) {
	ctx := context.Background()
	st := newStack(t)
	nb := st.notebook(t, alice)

	got, err := st.notebooks.Authorize(ctx, alice, nb.ID)
	require.NoError(t, err)
	assert.Equal(t, nb.ID, got.ID)

	_, err = st.notebooks.Authorize(ctx, bob, nb.ID)
	requireCode(t, err, errors.ErrCodeForbidden)

	_, err = st.notebooks.Authorize(ctx, anonymous, nb.ID)
	requireCode(t, err, errors.ErrCodeUnauthorized)

	_, err = st.notebooks.Get(ctx, alice, "missing")
	requireCode(t, err, errors.ErrCodeNotFound)
}
