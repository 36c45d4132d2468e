package mysql

import (
	"context"
	"fmt"

	"cleanops/internal/storage"
)

func (s *Storage) GetServices(ctx context.Context, activeOnly bool) ([]*storage.Service, error) {
	const op = "storage.mysql.GetServices"

	query := `SELECT id, code, name, price, estimated_duration, is_active FROM services`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка получения каталога услуг: %w", op, err)
	}
	defer rows.Close()

	var services []*storage.Service
	for rows.Next() {
		var sv storage.Service
		if err := rows.Scan(&sv.ID, &sv.Code, &sv.Name, &sv.Price, &sv.EstimatedDuration, &sv.IsActive); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		services = append(services, &sv)
	}

	return services, rows.Err()
}

func (s *Storage) CreateService(ctx context.Context, req storage.SaveService) error {
	const op = "storage.mysql.CreateService"

	_, err := s.db.ExecContext(ctx, `
        INSERT INTO services (code, name, price, estimated_duration, is_active)
        VALUES (?, ?, ?, ?, ?)`,
		req.Code, req.Name, req.Price, req.EstimatedDuration, req.IsActive,
	)
	if err != nil {
		return fmt.Errorf("%s: code=%s: %w", op, req.Code, err)
	}

	return nil
}

func (s *Storage) UpdateService(ctx context.Context, code string, req storage.SaveService) error {
	const op = "storage.mysql.UpdateService"

	res, err := s.db.ExecContext(ctx, `
        UPDATE services SET name = ?, price = ?, estimated_duration = ?, is_active = ?
        WHERE code = ?`,
		req.Name, req.Price, req.EstimatedDuration, req.IsActive, code,
	)
	if err != nil {
		return fmt.Errorf("%s: code=%s: %w", op, code, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: code=%s: %w", op, code, storage.ErrNotFound)
	}

	return nil
}
