package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/studybook/internal/models"
	"github.com/vytor/studybook/internal/repository/sqlite"
	"github.com/vytor/studybook/internal/testutil"
)

func TestNotebookRepository_InsertGetList(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	defer testutil.MustClose(t, db)
	repo := sqlite.NewNotebookRepository(db)

	first, err := repo.Insert(ctx, models.Notebook{UserID: "u1", Title: "Chemistry"})
	require.NoError(t, err)
	_, err = repo.Insert(ctx, models.Notebook{UserID: "u1", Title: "Physics"})
	require.NoError(t, err)
	_, err = repo.Insert(ctx, models.Notebook{UserID: "u2", Title: "Art"})
	require.NoError(t, err)

	got, err := repo.Get(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Chemistry", got.Title)
	assert.Equal(t, "u1", got.UserID)

	missing, err := repo.Get(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	list, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestQuestionRepository_RoundTripsOptionsAndDifficulty(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	defer testutil.MustClose(t, db)

	nb, err := sqlite.NewNotebookRepository(db).Insert(ctx, models.Notebook{UserID: "u1", Title: "Geo"})
	require.NoError(t, err)
	repo := sqlite.NewQuestionRepository(db)

	_, err = repo.Insert(ctx, models.QuizQuestion{
		NotebookID:    nb.ID,
		Question:      "Longest river?",
		Options:       []string{"Nile", "Amazon", "Danube"},
		CorrectAnswer: "Nile",
		Difficulty:    testutil.Ptr("hard"),
	})
	require.NoError(t, err)
	_, err = repo.Insert(ctx, models.QuizQuestion{
		NotebookID:    nb.ID,
		Question:      "Free text",
		QuestionType:  "open",
		CorrectAnswer: "anything",
	})
	require.NoError(t, err)

	all, err := repo.List(ctx, models.QuestionFilter{NotebookID: nb.ID})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, []string{"Nile", "Amazon", "Danube"}, all[0].Options)
	require.NotNil(t, all[0].Difficulty)
	assert.Equal(t, "hard", *all[0].Difficulty)
	assert.Equal(t, models.QuestionTypeMultipleChoice, all[0].QuestionType)
	assert.Nil(t, all[1].Difficulty)
	assert.Empty(t, all[1].Options)

	hard, err := repo.List(ctx, models.QuestionFilter{NotebookID: nb.ID, Difficulty: "hard"})
	require.NoError(t, err)
	assert.Len(t, hard, 1)
}
