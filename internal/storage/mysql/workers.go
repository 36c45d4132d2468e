package mysql

import (
	"context"
	"fmt"

	"cleanops/internal/storage"
)

func (s *Storage) GetAllWorkers(ctx context.Context) ([]*storage.Worker, error) {
	const op = "storage.mysql.GetAllWorkers"

	// team_id — команда с незакрытым членством, если такая есть
	rows, err := s.db.QueryContext(ctx, `
        SELECT w.id, w.name, w.phone, w.status, tm.team_id
        FROM workers w
        LEFT JOIN team_members tm ON tm.worker_id = w.id AND tm.left_at IS NULL
        ORDER BY w.name ASC`)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка получения работников: %w", op, err)
	}
	defer rows.Close()

	var workers []*storage.Worker
	for rows.Next() {
		var w storage.Worker
		if err := rows.Scan(&w.ID, &w.Name, &w.Phone, &w.Status, &w.TeamID); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		workers = append(workers, &w)
	}

	return workers, rows.Err()
}

// GetAvailableWorkers — активные работники без действующей команды.
// Правило «один работник — одна активная команда» держится на этом
// фильтре плюс проверке внутри транзакции перевода.
func (s *Storage) GetAvailableWorkers(ctx context.Context) ([]*storage.Worker, error) {
	const op = "storage.mysql.GetAvailableWorkers"

	rows, err := s.db.QueryContext(ctx, `
        SELECT w.id, w.name, w.phone, w.status
        FROM workers w
        WHERE w.status = 'active'
          AND NOT EXISTS (
              SELECT 1 FROM team_members tm
              WHERE tm.worker_id = w.id AND tm.left_at IS NULL
          )
        ORDER BY w.name ASC`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var workers []*storage.Worker
	for rows.Next() {
		var w storage.Worker
		if err := rows.Scan(&w.ID, &w.Name, &w.Phone, &w.Status); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		workers = append(workers, &w)
	}

	return workers, rows.Err()
}

func (s *Storage) CreateWorker(ctx context.Context, req storage.CreateWorker) (int64, error) {
	const op = "storage.mysql.CreateWorker"

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO workers (name, phone, status) VALUES (?, ?, 'active')`,
		req.Name, req.Phone,
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

func (s *Storage) UpdateWorkerStatus(ctx context.Context, id int64, status storage.WorkerStatus) error {
	const op = "storage.mysql.UpdateWorkerStatus"

	_, err := s.db.ExecContext(ctx,
		`UPDATE workers SET status = ? WHERE id = ?`, status, id,
	)
	if err != nil {
		return fmt.Errorf("%s: id=%d: %w", op, id, err)
	}

	return nil
}
