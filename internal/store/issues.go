package store

import (
	"context"
	"time"

	"github.com/xelth-com/asbuiltgo/internal/models"
)

// ListIssues returns issues in insertion order, optionally for one building
func (s *Store) ListIssues(ctx context.Context, building string) ([]models.Issue, error) {
	var issues []models.Issue
	q := s.conn(ctx).Model(&models.Issue{})
	if building != "" {
		q = q.Where("building = ?", building)
	}
	if err := q.Order("id").Find(&issues).Error; err != nil {
		return nil, classify(err)
	}
	return issues, nil
}

// IssuesByRoom returns the issues referencing a room name
func (s *Store) IssuesByRoom(ctx context.Context, roomName string) ([]models.Issue, error) {
	issues := []models.Issue{}
	err := s.conn(ctx).
		Where("room_name = ?", roomName).
		Order("issue_date DESC, id").
		Find(&issues).Error
	if err != nil {
		return nil, classify(err)
	}
	return issues, nil
}

// IssueDates returns the date of every issue, optionally for one building
func (s *Store) IssueDates(ctx context.Context, building string) ([]time.Time, error) {
	var dates []time.Time
	q := s.conn(ctx).Model(&models.Issue{})
	if building != "" {
		q = q.Where("building = ?", building)
	}
	if err := q.Pluck("issue_date", &dates).Error; err != nil {
		return nil, classify(err)
	}
	return dates, nil
}

// VerificationDates returns the non-null verification dates of rooms
func (s *Store) VerificationDates(ctx context.Context, building string) ([]time.Time, error) {
	var dates []time.Time
	q := s.conn(ctx).Model(&models.Room{}).Where("verified_at IS NOT NULL")
	if building != "" {
		q = q.Where("building = ?", building)
	}
	if err := q.Pluck("verified_at", &dates).Error; err != nil {
		return nil, classify(err)
	}
	return dates, nil
}
