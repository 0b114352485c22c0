package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/studybook/internal/models"
	"github.com/vytor/studybook/internal/repository"
	"github.com/vytor/studybook/internal/repository/sqlite"
	"github.com/vytor/studybook/internal/testutil"
)

type NoteRepositorySuite struct {
	suite.Suite
	db       *sql.DB
	repo     repository.NoteRepository
	notebook models.Notebook
}

func (s *NoteRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewNoteRepository(s.db)

	nb, err := sqlite.NewNotebookRepository(s.db).Insert(context.Background(), models.Notebook{UserID: "user-1", Title: "Chemistry"})
	s.Require().NoError(err)
	s.notebook = nb
}

func (s *NoteRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *NoteRepositorySuite) insert(title string) models.Note {
	n, err := s.repo.Insert(context.Background(), models.Note{
		NotebookID: s.notebook.ID,
		UserID:     "user-1",
		Title:      title,
		Content:    title + " content",
	})
	s.Require().NoError(err)
	return n
}

func (s *NoteRepositorySuite) TestInsertDefaultsToUserNote() {
	n := s.insert("Acids")
	s.NotEmpty(n.ID)
	s.Equal(models.NoteSourceUser, n.SourceType)
	s.True(n.Editable())

	got, err := s.repo.Get(context.Background(), n.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal("Acids content", got.Content)
	s.Equal(s.notebook.ID, got.NotebookID)
}

func (s *NoteRepositorySuite) TestGet_Missing() {
	got, err := s.repo.Get(context.Background(), "missing")
	s.NoError(err)
	s.Nil(got)
}

func (s *NoteRepositorySuite) TestUpdateMovesNoteToFront() {
	ctx := context.Background()
	first := s.insert("First")
	s.insert("Second")

	updated, err := s.repo.Update(ctx, first.ID, "First, revised", "new body")
	s.Require().NoError(err)
	s.Equal("First, revised", updated.Title)
	s.Equal("new body", updated.Content)
	s.True(updated.UpdatedAt.After(first.UpdatedAt))

	list, err := s.repo.ListByNotebook(ctx, s.notebook.ID)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(first.ID, list[0].ID)

	_, err = s.repo.Update(ctx, "missing", "x", "y")
	s.ErrorIs(err, repository.ErrNotFound)
}

func (s *NoteRepositorySuite) TestDeleteAndCount() {
	ctx := context.Background()
	n := s.insert("Bases")
	s.insert("Salts")

	total, err := s.repo.CountForNotebook(ctx, s.notebook.ID)
	s.Require().NoError(err)
	s.Equal(2, total)

	s.Require().NoError(s.repo.Delete(ctx, n.ID))
	s.ErrorIs(s.repo.Delete(ctx, n.ID), repository.ErrNotFound)

	total, err = s.repo.CountForNotebook(ctx, s.notebook.ID)
	s.Require().NoError(err)
	s.Equal(1, total)

	total, err = s.repo.CountForNotebook(ctx, "other")
	s.Require().NoError(err)
	s.Zero(total)
}

func TestNoteRepositorySuite(t *testing.T) {
	suite.Run(t, new(NoteRepositorySuite))
}
