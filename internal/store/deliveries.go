package store

import (
	"context"

	"github.com/xelth-com/asbuiltgo/internal/models"
)

// DeliveryFilter narrows ListDeliveries
type DeliveryFilter struct {
	Building string
	Status   string
}

// ListDeliveries returns deliveries ordered by expected date, latest first
func (s *Store) ListDeliveries(ctx context.Context, filter DeliveryFilter) ([]models.Delivery, error) {
	deliveries := []models.Delivery{}
	q := s.conn(ctx).Model(&models.Delivery{})
	if filter.Building != "" {
		q = q.Where("building = ?", filter.Building)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if err := q.Order("expected_at DESC, id DESC").Find(&deliveries).Error; err != nil {
		return nil, classify(err)
	}
	return deliveries, nil
}

// DeliveryByID returns a delivery by id
func (s *Store) DeliveryByID(ctx context.Context, id uint) (*models.Delivery, error) {
	var d models.Delivery
	if err := s.conn(ctx).First(&d, id).Error; err != nil {
		return nil, classify(err)
	}
	return &d, nil
}

// CreateDelivery inserts a new delivery
func (s *Store) CreateDelivery(ctx context.Context, d *models.Delivery) error {
	return classify(s.conn(ctx).Create(d).Error)
}

// UpdateDelivery writes every field of an existing delivery
func (s *Store) UpdateDelivery(ctx context.Context, d *models.Delivery) error {
	res := s.conn(ctx).Model(d).Select("*").Omit("id", "created_at").Updates(d)
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveDelivery creates the delivery when it has no id, else updates it
func (s *Store) SaveDelivery(ctx context.Context, d *models.Delivery) error {
	if d.ID == 0 {
		return s.CreateDelivery(ctx, d)
	}
	return s.UpdateDelivery(ctx, d)
}

// DeleteDelivery removes a delivery by id
func (s *Store) DeleteDelivery(ctx context.Context, id uint) error {
	res := s.conn(ctx).Delete(&models.Delivery{}, id)
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
