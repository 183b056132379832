package store

import (
	"context"

	"github.com/xelth-com/asbuiltgo/internal/models"
)

// NoDiscipline labels issues whose discipline is blank
const NoDiscipline = "Não Informada"

// RoomIssueCount is the number of issues referencing one room name
type RoomIssueCount struct {
	RoomName string `json:"sala"`
	Building string `json:"edificacao"`
	Count    int64  `json:"count"`
}

// LabelCount is a generic grouped count
type LabelCount struct {
	Label string
	Count int64
}

// IssueCountsByRoom groups issues by room name and building, most issues
// first. A limit of 0 returns every group.
func (s *Store) IssueCountsByRoom(ctx context.Context, building string, limit int) ([]RoomIssueCount, error) {
	var rows []RoomIssueCount
	q := s.conn(ctx).Model(&models.Issue{}).
		Select("room_name, building, COUNT(*) AS count")
	if building != "" {
		q = q.Where("building = ?", building)
	}
	q = q.Group("room_name, building").Order("count DESC, room_name")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, classify(err)
	}
	return rows, nil
}

// IssueCountsByRoomName counts issues per room name, most issues first.
// A limit of 0 returns every group.
func (s *Store) IssueCountsByRoomName(ctx context.Context, building string, limit int) ([]LabelCount, error) {
	var rows []LabelCount
	q := s.conn(ctx).Model(&models.Issue{}).
		Select("room_name AS label, COUNT(*) AS count")
	if building != "" {
		q = q.Where("building = ?", building)
	}
	q = q.Group("room_name").Order("count DESC, label")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, classify(err)
	}
	return rows, nil
}

// IssueCountsByDiscipline groups issues by trimmed discipline, blank ones
// under NoDiscipline
func (s *Store) IssueCountsByDiscipline(ctx context.Context, building string) ([]LabelCount, error) {
	var rows []LabelCount
	q := s.conn(ctx).Model(&models.Issue{}).
		Select("COALESCE(NULLIF(TRIM(discipline), ''), ?) AS label, COUNT(*) AS count", NoDiscipline)
	if building != "" {
		q = q.Where("building = ?", building)
	}
	if err := q.Group("label").Order("count DESC, label").Scan(&rows).Error; err != nil {
		return nil, classify(err)
	}
	return rows, nil
}

// TopDivergences groups issues by divergence text, ignoring blanks
func (s *Store) TopDivergences(ctx context.Context, limit int) ([]LabelCount, error) {
	var rows []LabelCount
	q := s.conn(ctx).Model(&models.Issue{}).
		Select("divergence AS label, COUNT(*) AS count").
		Where("divergence IS NOT NULL AND divergence <> ''").
		Group("divergence").
		Order("count DESC, divergence")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, classify(err)
	}
	return rows, nil
}

// RoomCountsByBuilding counts rooms per building
func (s *Store) RoomCountsByBuilding(ctx context.Context) ([]LabelCount, error) {
	var rows []LabelCount
	err := s.conn(ctx).Model(&models.Room{}).
		Select("building AS label, COUNT(*) AS count").
		Group("building").
		Order("building").
		Scan(&rows).Error
	if err != nil {
		return nil, classify(err)
	}
	return rows, nil
}

// IssueCountsByBuilding counts issues per building by joining issues onto
// rooms by name. Buildings whose rooms have no issues report zero.
func (s *Store) IssueCountsByBuilding(ctx context.Context) ([]LabelCount, error) {
	var rows []LabelCount
	err := s.conn(ctx).Table("rooms").
		Select("rooms.building AS label, COUNT(issues.id) AS count").
		Joins("LEFT JOIN issues ON issues.room_name = rooms.name").
		Group("rooms.building").
		Order("rooms.building").
		Scan(&rows).Error
	if err != nil {
		return nil, classify(err)
	}
	return rows, nil
}
