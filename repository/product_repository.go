package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pos-storefront/model"
)

const productColumns = `
	SELECT id, COALESCE(name, ''), COALESCE(quantity, 0), COALESCE(price, 0),
	       COALESCE(promotion_price, 0), COALESCE(category, '')
	FROM products`

// ListProducts returns every product row ordered by orderBy, which must be
// model.OrderByCategory or model.OrderByID.
func (s *Store) ListProducts(ctx context.Context, orderBy string) ([]model.Product, error) {
	var query string
	switch orderBy {
	case model.OrderByCategory:
		query = productColumns + ` ORDER BY category, id`
	case model.OrderByID:
		query = productColumns + ` ORDER BY id`
	default:
		return nil, model.Validation("list products", fmt.Errorf("unknown order %q", orderBy))
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, model.Backend("list products", err)
	}
	defer rows.Close()

	var products []model.Product

	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Quantity, &p.Price, &p.PromotionPrice, &p.Category); err != nil {
			return nil, model.Backend("list products", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, model.Backend("list products", err)
	}

	return products, nil
}

// CreateProduct inserts p and returns it with its generated id.
func (s *Store) CreateProduct(ctx context.Context, p model.Product) (model.Product, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO products (name, price, quantity, promotion_price, category)
		VALUES ($1, $2, $3, $4, $5) RETURNING id
	`, p.Name, p.Price, p.Quantity, p.PromotionPrice, p.Category).Scan(&p.ID)

	if errors.Is(err, sql.ErrNoRows) {
		return model.Product{}, model.Backend("insert product", model.ErrEmptyResult)
	}
	if err != nil {
		return model.Product{}, model.Backend("insert product", err)
	}
	return p, nil
}

// UpdateProduct overwrites name, quantity, price and promotion price of the
// product with the given id. Category is left as is.
func (s *Store) UpdateProduct(ctx context.Context, id int64, p model.Product) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET name = $1, quantity = $2, price = $3, promotion_price = $4
		WHERE id = $5
	`, p.Name, p.Quantity, p.Price, p.PromotionPrice, id)
	if err != nil {
		return model.Backend("update product", err)
	}
	return expectAffected(res, "update product")
}

func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return model.Backend("delete product", err)
	}
	return expectAffected(res, "delete product")
}

func expectAffected(res sql.Result, op string) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return model.Backend(op, err)
	}
	if rows == 0 {
		return model.NotFound(op, model.ErrProductNotFound)
	}
	return nil
}
