package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/studybook/internal/errors"
	"github.com/vytor/studybook/internal/models"
	"github.com/vytor/studybook/internal/testutil"
)

func TestQuestionService_CreateValidates(t *testing.T) {
	ctx := context.Background()
	st := newStack(t)
	nb := st.notebook(t, alice)

	tests := []struct {
		name string
		q    models.QuizQuestion
	}{
		{"empty question", models.QuizQuestion{CorrectAnswer: "a", Options: []string{"a", "b"}}},
		{"no correct answer", models.QuizQuestion{Question: "q?", Options: []string{"a", "b"}}},
		{"one option", models.QuizQuestion{Question: "q?", CorrectAnswer: "a", Options: []string{"a"}}},
		{"answer not an option", models.QuizQuestion{Question: "q?", CorrectAnswer: "c", Options: []string{"a", "b"}}},
		{"bad difficulty", models.QuizQuestion{Question: "q?", CorrectAnswer: "a", Options: []string{"a", "b"}, Difficulty: testutil.Ptr("extreme")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := st.questions.Create(ctx, alice, nb.ID, tt.q)
			requireCode(t, err, errors.ErrCodeValidation)
		})
	}
}

func TestQuestionService_CreateDefaultsAndNormalizes(t *testing.T) {
	ctx := context.Background()
	st := newStack(t)
	nb := st.notebook(t, alice)

	q, err := st.questions.Create(ctx, alice, nb.ID, models.QuizQuestion{
		Question:      " Largest organ? ",
		Options:       []string{"Skin", "Liver"},
		CorrectAnswer: "Skin",
		Difficulty:    testutil.Ptr("HARD"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, q.ID)
	assert.Equal(t, "Largest organ?", q.Question)
	assert.Equal(t, models.QuestionTypeMultipleChoice, q.QuestionType)
	require.NotNil(t, q.Difficulty)
	assert.Equal(t, "hard", *q.Difficulty)
	assert.Equal(t, nb.ID, q.NotebookID)
}

func TestQuestionService_RequiresOwnership(t *testing.T) {
	ctx := context.Background()
	st := newStack(t)
	nb := st.notebook(t, alice)

	_, err := st.questions.SeedSamples(ctx, bob, nb.ID)
	requireCode(t, err, errors.ErrCodeForbidden)

	_, _, err = st.questions.List(ctx, bob, nb.ID, "")
	requireCode(t, err, errors.ErrCodeForbidden)
}

func TestQuestionService_SeedAndStats(t *testing.T) {
	ctx := context.Background()
	st := newStack(t)
	nb := st.notebook(t, alice)

	seeded, err := st.questions.SeedSamples(ctx, alice, nb.ID)
	require.NoError(t, err)
	assert.Len(t, seeded, 8)

	all, stats, err := st.questions.List(ctx, alice, nb.ID, "all")
	require.NoError(t, err)
	assert.Len(t, all, 8)
	assert.Equal(t, 3, stats.Easy)
	assert.Equal(t, 4, stats.Medium)
	assert.Equal(t, 1, stats.Hard)
	assert.Equal(t, 8, stats.Total)

	easy, stats, err := st.questions.List(ctx, alice, nb.ID, "easy")
	require.NoError(t, err)
	assert.Len(t, easy, 3)
	assert.Equal(t, 8, stats.Total, "stats always cover the whole bank")

	_, _, err = st.questions.List(ctx, alice, nb.ID, "impossible")
	requireCode(t, err, errors.ErrCodeValidation)
}

func TestQuestionService_Random(t *testing.T) {
	ctx := context.Background()
	st := newStack(t)
	nb := st.notebook(t, alice)
	_, err := st.questions.SeedSamples(ctx, alice, nb.ID)
	require.NoError(t, err)

	picked, err := st.questions.Random(ctx, alice, nb.ID, 5, "")
	require.NoError(t, err)
	assert.Len(t, picked, 5)
	seen := map[string]bool{}
	for _, q := range picked {
		assert.False(t, seen[q.ID], "question %s picked twice", q.ID)
		seen[q.ID] = true
	}

	all, err := st.questions.Random(ctx, alice, nb.ID, 0, "")
	require.NoError(t, err)
	assert.Len(t, all, 8, "default length is capped by the bank size")

	hard, err := st.questions.Random(ctx, alice, nb.ID, 10, "hard")
	require.NoError(t, err)
	require.Len(t, hard, 1)
	assert.Equal(t, "hard", *hard[0].Difficulty)

	_, err = st.questions.Random(ctx, alice, nb.ID, 101, "")
	requireCode(t, err, errors.ErrCodeValidation)
}

func TestQuestionService_RandomEmptyBank(t *testing.T) {
	st := newStack(t)
	nb := st.notebook(t, alice)

	picked, err := st.questions.Random(context.Background(), alice, nb.ID, 3, "")
	require.NoError(t, err)
	assert.NotNil(t, picked)
	assert.Empty(t, picked)
}
