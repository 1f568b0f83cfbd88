package repository

import (
	"context"
	"database/sql"
	"errors"

	"pos-storefront/model"
)

// Store is the backend client for the four storefront tables: products,
// users, order_details and orders. It is built once at startup and shared.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// InsertCustomer creates a customer row and returns its id. Customers are
// not deduplicated; every checkout creates a new one.
func (s *Store) InsertCustomer(ctx context.Context, c model.Customer) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (name, email, phone, age)
		VALUES ($1, $2, $3, $4) RETURNING id
	`, c.Name, c.Email, c.Phone, c.Age).Scan(&id)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, model.Backend("insert user", model.ErrEmptyResult)
	}
	if err != nil {
		return 0, model.Backend("insert user", err)
	}
	return id, nil
}

// Ping checks the backend connection.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return model.Backend("ping database", err)
	}
	return nil
}
