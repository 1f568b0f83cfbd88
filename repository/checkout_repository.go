package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"pos-storefront/model"
)

// InsertOrderDetails writes all details as one batch and returns the id of
// the first inserted row.
func (s *Store) InsertOrderDetails(ctx context.Context, details []model.OrderDetail) (int64, error) {
	if len(details) == 0 {
		return 0, model.Validation("insert order details", model.ErrNoLines)
	}

	values := make([]string, 0, len(details))
	args := make([]interface{}, 0, len(details)*2)
	for i, d := range details {
		values = append(values, fmt.Sprintf("($%d, $%d)", i*2+1, i*2+2))
		args = append(args, d.ProductID, d.Quantity)
	}

	query := `INSERT INTO order_details (product_id, quantity) VALUES ` +
		strings.Join(values, ", ") + ` RETURNING id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return 0, model.Backend("insert order details", err)
	}
	defer rows.Close()

	var (
		firstID int64
		n       int
	)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return 0, model.Backend("insert order details", err)
		}
		if n == 0 {
			firstID = id
		}
		n++
	}
	if err := rows.Err(); err != nil {
		return 0, model.Backend("insert order details", err)
	}
	if n == 0 {
		return 0, model.Backend("insert order details", model.ErrEmptyResult)
	}

	return firstID, nil
}

func (s *Store) InsertOrder(ctx context.Context, o model.Order) (int64, error) {
	var orderID int64

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO orders (user_id, detail_id, payment_type, total)
		VALUES ($1, $2, $3, $4) RETURNING id
	`, o.UserID, o.DetailID, o.PaymentType, o.Total).Scan(&orderID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, model.Backend("insert order", model.ErrEmptyResult)
		}
		return 0, model.Backend("insert order", err)
	}
	return orderID, nil
}
