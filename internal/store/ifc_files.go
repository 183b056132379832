package store

import (
	"context"

	"github.com/xelth-com/asbuiltgo/internal/models"
)

// CreateIfcFile stores the metadata of an uploaded model
func (s *Store) CreateIfcFile(ctx context.Context, f *models.IfcFile) error {
	return classify(s.conn(ctx).Create(f).Error)
}

// ListIfcFiles returns model metadata, newest first
func (s *Store) ListIfcFiles(ctx context.Context, building string) ([]models.IfcFile, error) {
	files := []models.IfcFile{}
	q := s.conn(ctx).Model(&models.IfcFile{})
	if building != "" {
		q = q.Where("building = ?", building)
	}
	if err := q.Order("created_at DESC, id DESC").Find(&files).Error; err != nil {
		return nil, classify(err)
	}
	return files, nil
}

// IfcFileByID returns model metadata by id
func (s *Store) IfcFileByID(ctx context.Context, id uint) (*models.IfcFile, error) {
	var f models.IfcFile
	if err := s.conn(ctx).First(&f, id).Error; err != nil {
		return nil, classify(err)
	}
	return &f, nil
}

// DeleteIfcFile removes model metadata by id
func (s *Store) DeleteIfcFile(ctx context.Context, id uint) error {
	res := s.conn(ctx).Delete(&models.IfcFile{}, id)
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
