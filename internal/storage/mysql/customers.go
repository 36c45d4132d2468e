package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cleanops/internal/storage"
)

func (s *Storage) GetCustomers(ctx context.Context, search string) ([]*storage.Customer, error) {
	const op = "storage.mysql.GetCustomers"

	query := `SELECT id, name, phone, address, area, notes FROM customers`
	var args []interface{}

	if search != "" {
		query += ` WHERE name LIKE ? OR phone LIKE ?`
		like := "%" + search + "%"
		args = append(args, like, like)
	}
	query += ` ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var customers []*storage.Customer
	for rows.Next() {
		var c storage.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Address, &c.Area, &c.Notes); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		customers = append(customers, &c)
	}

	return customers, rows.Err()
}

func (s *Storage) GetCustomer(ctx context.Context, id int64) (*storage.Customer, error) {
	const op = "storage.mysql.GetCustomer"

	var c storage.Customer
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, phone, address, area, notes FROM customers WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.Phone, &c.Address, &c.Area, &c.Notes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &c, nil
}

func (s *Storage) CreateCustomer(ctx context.Context, req storage.CreateCustomer) (int64, error) {
	const op = "storage.mysql.CreateCustomer"

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO customers (name, phone, address, area, notes) VALUES (?, ?, ?, ?, ?)`,
		req.Name, req.Phone, req.Address, req.Area, req.Notes,
	)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Storage) UpdateCustomer(ctx context.Context, id int64, req storage.UpdateCustomer) error {
	const op = "storage.mysql.UpdateCustomer"

	_, err := s.db.ExecContext(ctx,
		`UPDATE customers SET name = ?, phone = ?, address = ?, area = ?, notes = ? WHERE id = ?`,
		req.Name, req.Phone, req.Address, req.Area, req.Notes, id,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
