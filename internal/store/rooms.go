package store

import (
	"context"

	"github.com/xelth-com/asbuiltgo/internal/models"
)

// ListRooms returns rooms in insertion order, optionally for one building
func (s *Store) ListRooms(ctx context.Context, building string) ([]models.Room, error) {
	var rooms []models.Room
	q := s.conn(ctx).Model(&models.Room{})
	if building != "" {
		q = q.Where("building = ?", building)
	}
	if err := q.Order("id").Find(&rooms).Error; err != nil {
		return nil, classify(err)
	}
	return rooms, nil
}

// RoomByName returns the first room carrying the given name
func (s *Store) RoomByName(ctx context.Context, name string) (*models.Room, error) {
	var room models.Room
	if err := s.conn(ctx).Where("name = ?", name).Order("id").First(&room).Error; err != nil {
		return nil, classify(err)
	}
	return &room, nil
}

// RoomByID returns a room by primary key
func (s *Store) RoomByID(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	if err := s.conn(ctx).First(&room, id).Error; err != nil {
		return nil, classify(err)
	}
	return &room, nil
}

// LinkIfcElement stores the IFC express id of the element representing a room
func (s *Store) LinkIfcElement(ctx context.Context, roomID uint, expressID int) error {
	res := s.conn(ctx).Model(&models.Room{}).
		Where("id = ?", roomID).
		Update("ifc_express_id", expressID)
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// RoomNames returns the distinct room names of the current dataset
func (s *Store) RoomNames(ctx context.Context) ([]string, error) {
	var names []string
	err := s.conn(ctx).Model(&models.Room{}).
		Distinct("name").
		Order("name").
		Pluck("name", &names).Error
	if err != nil {
		return nil, classify(err)
	}
	return names, nil
}

// ListBuildings returns the distinct non-empty building names, sorted
func (s *Store) ListBuildings(ctx context.Context) ([]string, error) {
	buildings := []string{}
	err := s.conn(ctx).Model(&models.Room{}).
		Where("building <> ''").
		Distinct("building").
		Order("building").
		Pluck("building", &buildings).Error
	if err != nil {
		return nil, classify(err)
	}
	return buildings, nil
}
