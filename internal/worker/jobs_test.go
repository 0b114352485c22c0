package worker_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/studybook/internal/ingest"
	"github.com/vytor/studybook/internal/models"
	"github.com/vytor/studybook/internal/repository"
	"github.com/vytor/studybook/internal/testutil/mocks"
	"github.com/vytor/studybook/internal/worker"
)

type stubFetcher struct {
	page ingest.Page
	err  error
	got  string
}

func (f *stubFetcher) FetchPage(_ context.Context, pageURL string) (ingest.Page, error) {
	f.got = pageURL
	return f.page, f.err
}

func TestIngestSourceJob_Text(t *testing.T) {
	repo := new(mocks.MockSourceRepository)
	repo.On("Get", mock.Anything, "s1").Return(&models.Source{ID: "s1", Type: models.SourceTypeText}, nil)
	repo.On("UpdateStatus", mock.Anything, "s1", models.ProcessingRunning).Return(nil)
	repo.On("UpdateContent", mock.Anything, "s1", "first line\nsecond line", "first line second line", models.ProcessingCompleted).Return(nil)

	job := &worker.IngestSourceJob{
		SourceRepo: repo,
		SourceID:   "s1",
		SourceType: models.SourceTypeText,
		Data:       []byte("first line  \r\nsecond line\n"),
	}

	require.NoError(t, job.Run(context.Background()))
	repo.AssertExpectations(t)
}

func TestIngestSourceJob_Website(t *testing.T) {
	repo := new(mocks.MockSourceRepository)
	repo.On("Get", mock.Anything, "s2").Return(&models.Source{ID: "s2", Type: models.SourceTypeWebsite, URL: "https://example.com/cells"}, nil)
	repo.On("UpdateStatus", mock.Anything, "s2", models.ProcessingRunning).Return(nil)
	repo.On("UpdateContent", mock.Anything, "s2", "Cells\nOrganelles", "Cells Organelles", models.ProcessingCompleted).Return(nil)
	fetcher := &stubFetcher{page: ingest.Page{Title: "Cells", Text: "Cells\nOrganelles"}}

	job := &worker.IngestSourceJob{SourceRepo: repo, Fetcher: fetcher, SourceID: "s2", SourceType: models.SourceTypeWebsite}

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, "https://example.com/cells", fetcher.got)
	repo.AssertExpectations(t)
}

func TestIngestSourceJob_FailureMarksSourceFailed(t *testing.T) {
	repo := new(mocks.MockSourceRepository)
	repo.On("Get", mock.Anything, "s3").Return(&models.Source{ID: "s3", Type: models.SourceTypePDF}, nil)
	repo.On("UpdateStatus", mock.Anything, "s3", models.ProcessingRunning).Return(nil)
	repo.On("UpdateStatus", mock.Anything, "s3", models.ProcessingFailed).Return(nil)

	job := &worker.IngestSourceJob{SourceRepo: repo, SourceID: "s3", SourceType: models.SourceTypePDF, Data: []byte("not a pdf")}

	err := job.Run(context.Background())
	assert.ErrorIs(t, err, ingest.ErrNotPDF)
	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "UpdateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestIngestSourceJob_SourceDeleted(t *testing.T) {
	repo := new(mocks.MockSourceRepository)
	repo.On("Get", mock.Anything, "gone").Return(nil, nil)

	job := &worker.IngestSourceJob{SourceRepo: repo, SourceID: "gone", SourceType: models.SourceTypeText, Data: []byte("x")}

	assert.NoError(t, job.Run(context.Background()))
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestIngestSourceJob_DeletedDuringIngestion(t *testing.T) {
	repo := new(mocks.MockSourceRepository)
	repo.On("Get", mock.Anything, "s4").Return(&models.Source{ID: "s4"}, nil)
	repo.On("UpdateStatus", mock.Anything, "s4", models.ProcessingRunning).Return(nil)
	repo.On("UpdateContent", mock.Anything, "s4", mock.Anything, mock.Anything, models.ProcessingCompleted).Return(repository.ErrNotFound)

	job := &worker.IngestSourceJob{SourceRepo: repo, SourceID: "s4", SourceType: models.SourceTypeCopiedText, Data: []byte("pasted")}

	assert.NoError(t, job.Run(context.Background()))
}

func TestIngestSourceJob_FetchError(t *testing.T) {
	repo := new(mocks.MockSourceRepository)
	repo.On("Get", mock.Anything, "s5").Return(&models.Source{ID: "s5", URL: "https://example.com"}, nil)
	repo.On("UpdateStatus", mock.Anything, "s5", mock.Anything).Return(nil)
	fetchErr := errors.New("connection reset")

	job := &worker.IngestSourceJob{SourceRepo: repo, Fetcher: &stubFetcher{err: fetchErr}, SourceID: "s5", SourceType: models.SourceTypeWebsite}

	assert.ErrorIs(t, job.Run(context.Background()), fetchErr)
	repo.AssertCalled(t, "UpdateStatus", mock.Anything, "s5", models.ProcessingFailed)
}
