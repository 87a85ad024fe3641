package drive

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/pharmops/mrep/backend-go/internal/pipeline"
)

// Importer is the slice of the report service the ingest path needs.
type Importer interface {
	ImportBatch(ctx context.Context, jobs []pipeline.Job, opts pipeline.Options) (*pipeline.Batch, error)
}

// IngestService downloads exports from the shared folder and hands them to
// the batch pipeline in auto-detect mode.
type IngestService struct {
	driveService *Service
	importer     Importer
}

func NewIngestService(driveService *Service, importer Importer) *IngestService {
	return &IngestService{
		driveService: driveService,
		importer:     importer,
	}
}

// IngestFolder pulls every workbook in the folder and imports them as one
// batch for the given month. Structural failures in individual files are
// reported by the batch result, not here.
func (s *IngestService) IngestFolder(ctx context.Context, folderPath string, month time.Month, year int) (*pipeline.Batch, error) {
	folderID, err := s.driveService.FindFolderByPath(folderPath)
	if err != nil {
		return nil, err
	}

	files, err := s.driveService.ListWorkbooks(folderID)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no workbooks found in %s", folderPath)
	}

	jobs := make([]pipeline.Job, 0, len(files))
	for _, f := range files {
		var buf bytes.Buffer
		if err := s.driveService.DownloadFile(f.ID, &buf); err != nil {
			return nil, fmt.Errorf("download %s: %w", f.Name, err)
		}
		jobs = append(jobs, pipeline.Job{
			Filename: f.Name,
			Reader:   &buf,
			Slot:     pipeline.SlotAuto,
		})
	}

	return s.importer.ImportBatch(ctx, jobs, pipeline.Options{Month: month, Year: year})
}

// IngestFile pulls a single workbook by ID.
func (s *IngestService) IngestFile(ctx context.Context, fileID, name string, month time.Month, year int) (*pipeline.Batch, error) {
	var buf bytes.Buffer
	if err := s.driveService.DownloadFile(fileID, &buf); err != nil {
		return nil, fmt.Errorf("download %s: %w", fileID, err)
	}

	return s.importer.ImportBatch(ctx, []pipeline.Job{{
		Filename: name,
		Reader:   &buf,
		Slot:     pipeline.SlotAuto,
	}}, pipeline.Options{Month: month, Year: year})
}
