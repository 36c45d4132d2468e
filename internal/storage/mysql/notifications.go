package mysql

import (
	"context"
	"fmt"

	"cleanops/internal/storage"
)

func (s *Storage) GetNotifications(ctx context.Context, unreadOnly bool) ([]*storage.Notification, error) {
	const op = "storage.mysql.GetNotifications"

	query := `SELECT id, title, body, read_at, created_at FROM notifications`
	if unreadOnly {
		query += ` WHERE read_at IS NULL`
	}
	query += ` ORDER BY created_at DESC LIMIT 200`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var list []*storage.Notification
	for rows.Next() {
		var n storage.Notification
		if err := rows.Scan(&n.ID, &n.Title, &n.Body, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		list = append(list, &n)
	}

	return list, rows.Err()
}

func (s *Storage) CreateNotification(ctx context.Context, title, body string) error {
	const op = "storage.mysql.CreateNotification"

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notifications (title, body) VALUES (?, ?)`, title, body,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) MarkNotificationRead(ctx context.Context, id int64) error {
	const op = "storage.mysql.MarkNotificationRead"

	res, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET read_at = NOW() WHERE id = ? AND read_at IS NULL`, id,
	)
	if err != nil {
		return fmt.Errorf("%s: id=%d: %w", op, id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: id=%d: %w", op, id, storage.ErrNotFound)
	}

	return nil
}
