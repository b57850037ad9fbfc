package repository

import (
	"context"

	"checkout-service/models"
)

// CreatePayment appends a payment record. Rows are never updated or deleted.
func (s *GormStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	return s.db.WithContext(ctx).Create(payment).Error
}
