package repository

import (
	"context"
	"database/sql"

	"pos-storefront/model"
	"pos-storefront/report"
)

// LoadDataset reads the whole order history the dashboard is built from.
// Joins happen in the report package.
func (s *Store) LoadDataset(ctx context.Context) (report.Dataset, error) {
	var (
		ds  report.Dataset
		err error
	)
	if ds.Orders, err = s.listOrders(ctx); err != nil {
		return report.Dataset{}, err
	}
	if ds.Details, err = s.listOrderDetails(ctx); err != nil {
		return report.Dataset{}, err
	}
	if ds.Users, err = s.listCustomerAges(ctx); err != nil {
		return report.Dataset{}, err
	}
	if ds.Products, err = s.ListProducts(ctx, model.OrderByID); err != nil {
		return report.Dataset{}, err
	}
	return ds, nil
}

func (s *Store) listOrders(ctx context.Context) ([]model.OrderRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, detail_id, COALESCE(total, 0), created_at
		FROM orders
		ORDER BY id
	`)
	if err != nil {
		return nil, model.Backend("list orders", err)
	}
	defer rows.Close()

	var orders []model.OrderRecord
	for rows.Next() {
		var (
			o        model.OrderRecord
			detailID sql.NullInt64
		)
		if err := rows.Scan(&o.ID, &o.UserID, &detailID, &o.Total, &o.CreatedAt); err != nil {
			return nil, model.Backend("list orders", err)
		}
		if detailID.Valid {
			id := detailID.Int64
			o.DetailID = &id
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, model.Backend("list orders", err)
	}
	return orders, nil
}

func (s *Store) listOrderDetails(ctx context.Context) ([]model.DetailRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, product_id, quantity, created_at
		FROM order_details
		ORDER BY id
	`)
	if err != nil {
		return nil, model.Backend("list order details", err)
	}
	defer rows.Close()

	var details []model.DetailRecord
	for rows.Next() {
		var d model.DetailRecord
		if err := rows.Scan(&d.ID, &d.ProductID, &d.Quantity, &d.CreatedAt); err != nil {
			return nil, model.Backend("list order details", err)
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, model.Backend("list order details", err)
	}
	return details, nil
}

func (s *Store) listCustomerAges(ctx context.Context) ([]model.CustomerAge, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, age FROM users`)
	if err != nil {
		return nil, model.Backend("list users", err)
	}
	defer rows.Close()

	var users []model.CustomerAge
	for rows.Next() {
		var (
			u   model.CustomerAge
			age sql.NullInt64
		)
		if err := rows.Scan(&u.ID, &age); err != nil {
			return nil, model.Backend("list users", err)
		}
		if age.Valid {
			a := int(age.Int64)
			u.Age = &a
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, model.Backend("list users", err)
	}
	return users, nil
}
