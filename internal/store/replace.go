package store

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/xelth-com/asbuiltgo/internal/models"
)

// BatchSize bounds rows per INSERT to stay under driver parameter limits
const BatchSize = 100

// ReplaceDataset swaps the current rooms and issues for a new generation and
// appends the upload record, all inside one transaction. On any error the
// previous dataset is left untouched.
func (s *Store) ReplaceDataset(ctx context.Context, rooms []models.Room, issues []models.Issue, upload *models.Upload) error {
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteAll(tx, &models.Issue{}); err != nil {
			return fmt.Errorf("failed to clear issues: %w", err)
		}
		if err := deleteAll(tx, &models.Room{}); err != nil {
			return fmt.Errorf("failed to clear rooms: %w", err)
		}

		if len(rooms) > 0 {
			if err := tx.CreateInBatches(&rooms, BatchSize).Error; err != nil {
				return fmt.Errorf("failed to insert rooms: %w", err)
			}
		}
		if len(issues) > 0 {
			if err := tx.CreateInBatches(&issues, BatchSize).Error; err != nil {
				return fmt.Errorf("failed to insert issues: %w", err)
			}
		}

		if upload != nil {
			if err := tx.Create(upload).Error; err != nil {
				return fmt.Errorf("failed to record upload: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return classify(err)
	}

	s.log.Info("dataset replaced",
		zap.Int("rooms", len(rooms)),
		zap.Int("issues", len(issues)))
	return nil
}

// deleteAll removes every row of model. gorm refuses a conditionless delete,
// so the rejected attempt is retried with an always-true condition.
func deleteAll(tx *gorm.DB, model interface{}) error {
	err := tx.Delete(model).Error
	if errors.Is(err, gorm.ErrMissingWhereClause) {
		err = tx.Where("1 = 1").Delete(model).Error
	}
	return err
}
