package repository

import (
	"context"

	"checkout-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DecrementStock atomically subtracts quantity from a product's stock.
// The floor check lives in the WHERE clause, so the read-modify-write is a
// single statement per product row: a concurrent decrement either sees
// enough stock or hits the guard. Zero rows affected means the stock was
// insufficient (or the product vanished) and the caller must abort.
func (s *GormStore) DecrementStock(ctx context.Context, productID uuid.UUID, quantity int) error {
	res := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock_quantity >= ?", productID, quantity).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := s.db.WithContext(ctx).
			Model(&models.Product{}).
			Where("id = ?", productID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrInsufficientStock
	}
	return nil
}
