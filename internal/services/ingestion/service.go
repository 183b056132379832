// Package ingestion runs a spreadsheet upload end to end: parse, take the
// ingestion lock, replace the dataset and record the upload.
package ingestion

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/xelth-com/asbuiltgo/internal/ingest"
	"github.com/xelth-com/asbuiltgo/internal/lock"
	"github.com/xelth-com/asbuiltgo/internal/models"
	"github.com/xelth-com/asbuiltgo/internal/store"
)

// DefaultFileName is recorded when the client sends no name
const DefaultFileName = "upload.xlsx"

// Result is returned to the uploader
type Result struct {
	Success     bool           `json:"success"`
	BatchID     string         `json:"batchId"`
	UploadID    uint           `json:"uploadId"`
	TotalRooms  int            `json:"totalSalas"`
	TotalIssues int            `json:"totalApontamentos"`
	Summary     ingest.Summary `json:"summary"`
}

// Service ingests workbooks
type Service struct {
	store  *store.Store
	locker lock.Locker
	parser *ingest.Parser
	log    *zap.Logger
}

// NewService creates an ingestion service. A nil locker serializes in process.
func NewService(st *store.Store, locker lock.Locker, log *zap.Logger) *Service {
	if locker == nil {
		locker = lock.NewMemory()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:  st,
		locker: locker,
		parser: &ingest.Parser{Log: log},
		log:    log,
	}
}

// Ingest replaces the current dataset with the workbook contents. Failures
// after the lock is taken are recorded as an ERRO upload.
func (s *Service) Ingest(ctx context.Context, fileName string, data []byte, uploadedBy uint) (*Result, error) {
	if fileName == "" {
		fileName = DefaultFileName
	}
	if uploadedBy == 0 {
		uploadedBy = models.SystemUserID
	}

	release, err := s.locker.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	batchID := uuid.NewString()
	log := s.log.With(zap.String("batch_id", batchID), zap.String("file", fileName))

	parsed, err := s.parser.Parse(data)
	if err != nil {
		s.recordFailure(ctx, log, batchID, fileName, len(data), uploadedBy, nil, err)
		return nil, err
	}

	for i := range parsed.Rooms {
		parsed.Rooms[i].BatchID = batchID
	}
	for i := range parsed.Issues {
		parsed.Issues[i].BatchID = batchID
	}

	upload := &models.Upload{
		BatchID:     batchID,
		FileName:    fileName,
		FileSize:    int64(len(data)),
		UploadedBy:  uploadedBy,
		TotalRooms:  len(parsed.Rooms),
		TotalIssues: len(parsed.Issues),
		Status:      models.UploadStatusProcessed,
		Details:     details(parsed.Summary),
	}

	if err := s.store.ReplaceDataset(ctx, parsed.Rooms, parsed.Issues, upload); err != nil {
		s.recordFailure(ctx, log, batchID, fileName, len(data), uploadedBy, &parsed.Summary, err)
		return nil, fmt.Errorf("failed to replace dataset: %w", err)
	}

	log.Info("✅ Workbook ingested",
		zap.Int("rooms", upload.TotalRooms),
		zap.Int("issues", upload.TotalIssues),
		zap.Int("skipped_rooms", parsed.Summary.SkippedRooms),
		zap.Int("skipped_issues", parsed.Summary.SkippedIssues))

	return &Result{
		Success:     true,
		BatchID:     batchID,
		UploadID:    upload.ID,
		TotalRooms:  upload.TotalRooms,
		TotalIssues: upload.TotalIssues,
		Summary:     parsed.Summary,
	}, nil
}

// History returns the most recent uploads
func (s *Service) History(ctx context.Context, limit int) ([]models.Upload, error) {
	return s.store.ListUploads(ctx, limit)
}

func (s *Service) recordFailure(ctx context.Context, log *zap.Logger, batchID, fileName string, size int, uploadedBy uint, summary *ingest.Summary, cause error) {
	log.Error("❌ Workbook ingestion failed", zap.Error(cause))

	upload := &models.Upload{
		BatchID:      batchID,
		FileName:     fileName,
		FileSize:     int64(size),
		UploadedBy:   uploadedBy,
		Status:       models.UploadStatusFailed,
		ErrorMessage: cause.Error(),
	}
	if summary != nil {
		upload.Details = details(*summary)
	}
	if err := s.store.RecordUpload(context.WithoutCancel(ctx), upload); err != nil {
		log.Warn("could not record failed upload", zap.Error(err))
	}
}

func details(summary ingest.Summary) datatypes.JSON {
	b, err := json.Marshal(summary)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}
