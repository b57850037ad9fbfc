package repository

import (
	"context"
	"errors"

	"checkout-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateOrder inserts the order together with its frozen line items.
func (s *GormStore) CreateOrder(ctx context.Context, order *models.Order) error {
	return s.db.WithContext(ctx).Create(order).Error
}

// OrderByIDAndUser retrieves a specific order for a user
func (s *GormStore) OrderByIDAndUser(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// OrderForUpdate loads an order with its row locked FOR UPDATE so that the
// payment transition is serialized. When userID is nil the lookup is by id
// only (webhook path, authenticated by signature instead of user).
func (s *GormStore) OrderForUpdate(ctx context.Context, orderID uuid.UUID, userID *uuid.UUID) (*models.Order, error) {
	q := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", orderID)
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}

	var order models.Order
	if err := q.First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.db.WithContext(ctx).
		Where("order_id = ?", order.ID).
		Find(&order.Items).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// SaveOrder persists status-field mutations on an existing order.
func (s *GormStore) SaveOrder(ctx context.Context, order *models.Order) error {
	return s.db.WithContext(ctx).Omit("Items").Save(order).Error
}

// OrdersByUser retrieves orders for a specific user with pagination
func (s *GormStore) OrdersByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	query := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Preload("Items").
		Offset(offset).
		Limit(limit).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}
