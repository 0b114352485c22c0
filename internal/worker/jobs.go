package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vytor/studybook/internal/ingest"
	"github.com/vytor/studybook/internal/logger"
	"github.com/vytor/studybook/internal/models"
	"github.com/vytor/studybook/internal/repository"
)

// IngestSourceJob extracts the text of one source and stores it. Uploaded
// bytes come in Data; website sources are fetched from their stored URL.
type IngestSourceJob struct {
	SourceRepo repository.SourceRepository
	Fetcher    ingest.Fetcher
	SourceID   string
	SourceType string
	Data       []byte
}

func (j *IngestSourceJob) Name() string { return "ingest_source" }

func (j *IngestSourceJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"source_id":   j.SourceID,
		"source_type": j.SourceType,
	})
	log.Info("starting source ingestion")

	src, err := j.SourceRepo.Get(ctx, j.SourceID)
	if err != nil {
		return err
	}
	if src == nil {
		log.Warn("source deleted before ingestion, skipping")
		return nil
	}

	if err := j.SourceRepo.UpdateStatus(ctx, j.SourceID, models.ProcessingRunning); err != nil {
		return err
	}

	content, err := j.extract(ctx, *src)
	if err != nil {
		log.Error("failed to extract source content: %v", err)
		if uerr := j.SourceRepo.UpdateStatus(ctx, j.SourceID, models.ProcessingFailed); uerr != nil && !errors.Is(uerr, repository.ErrNotFound) {
			log.Warn("failed to mark source as failed: %v", uerr)
		}
		return err
	}

	content = ingest.NormalizeText(content)
	summary := ingest.Summarize(content, ingest.DefaultSummaryLength)
	if err := j.SourceRepo.UpdateContent(ctx, j.SourceID, content, summary, models.ProcessingCompleted); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Warn("source deleted during ingestion, discarding content")
			return nil
		}
		return err
	}

	log.Info("ingested %d lines", strings.Count(content, "\n")+1)
	return nil
}

func (j *IngestSourceJob) extract(ctx context.Context, src models.Source) (string, error) {
	switch j.SourceType {
	case models.SourceTypePDF:
		doc, err := ingest.ExtractPDF(j.Data)
		if err != nil {
			return "", err
		}
		return doc.Text, nil
	case models.SourceTypeWebsite:
		if j.Fetcher == nil {
			return "", fmt.Errorf("no fetcher configured")
		}
		page, err := j.Fetcher.FetchPage(ctx, src.URL)
		if err != nil {
			return "", err
		}
		return page.Text, nil
	case models.SourceTypeText, models.SourceTypeCopiedText:
		if len(j.Data) == 0 {
			return "", ingest.ErrEmptyContent
		}
		return string(j.Data), nil
	default:
		return "", fmt.Errorf("unsupported source type %q", j.SourceType)
	}
}
