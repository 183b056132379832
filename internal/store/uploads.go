package store

import (
	"context"

	"github.com/xelth-com/asbuiltgo/internal/models"
)

// RecordUpload appends an audit row outside of any dataset replacement
func (s *Store) RecordUpload(ctx context.Context, upload *models.Upload) error {
	return classify(s.conn(ctx).Create(upload).Error)
}

// ListUploads returns the most recent upload records first
func (s *Store) ListUploads(ctx context.Context, limit int) ([]models.Upload, error) {
	uploads := []models.Upload{}
	q := s.conn(ctx).Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&uploads).Error; err != nil {
		return nil, classify(err)
	}
	return uploads, nil
}
