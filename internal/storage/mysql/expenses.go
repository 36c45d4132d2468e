package mysql

import (
	"context"
	"fmt"

	"cleanops/internal/storage"
)

func (s *Storage) GetExpenses(ctx context.Context, filter storage.ExpenseFilter) ([]*storage.Expense, error) {
	const op = "storage.mysql.GetExpenses"

	query := `
        SELECT id, description, amount, status, order_id, route_id, team_id,
               rejection_reason, DATE_FORMAT(spent_at, '%Y-%m-%d')
        FROM expenses
        WHERE 1=1`
	var args []interface{}

	if filter.Year != 0 {
		query += ` AND YEAR(spent_at) = ? AND MONTH(spent_at) = ?`
		args = append(args, filter.Year, filter.Month)
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, filter.Status)
	}
	if filter.TeamID != nil {
		query += ` AND team_id = ?`
		args = append(args, *filter.TeamID)
	}
	query += ` ORDER BY spent_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка получения расходов: %w", op, err)
	}
	defer rows.Close()

	var expenses []*storage.Expense
	for rows.Next() {
		var e storage.Expense
		err := rows.Scan(&e.ID, &e.Description, &e.Amount, &e.Status,
			&e.OrderID, &e.RouteID, &e.TeamID, &e.RejectionReason, &e.SpentAt)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		expenses = append(expenses, &e)
	}

	return expenses, rows.Err()
}

func (s *Storage) CreateExpense(ctx context.Context, req storage.CreateExpense) (int64, error) {
	const op = "storage.mysql.CreateExpense"

	res, err := s.db.ExecContext(ctx, `
        INSERT INTO expenses (description, amount, status, order_id, route_id, team_id, spent_at)
        VALUES (?, ?, 'pending', ?, ?, ?, ?)`,
		req.Description, req.Amount, req.OrderID, req.RouteID, req.TeamID, req.SpentAt,
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

// UpdateExpenseStatus — решение по расходу. Переход разрешён только из
// pending, причина отклонения пишется вместе со статусом.
func (s *Storage) UpdateExpenseStatus(ctx context.Context, id int64, status storage.ExpenseStatus, rejectionReason *string) error {
	const op = "storage.mysql.UpdateExpenseStatus"

	res, err := s.db.ExecContext(ctx,
		`UPDATE expenses SET status = ?, rejection_reason = ? WHERE id = ? AND status = 'pending'`,
		status, rejectionReason, id,
	)
	if err != nil {
		return fmt.Errorf("%s: id=%d: %w", op, id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: id=%d: %w", op, id, storage.ErrInvalidTransition)
	}

	return nil
}
