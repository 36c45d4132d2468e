package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cleanops/internal/storage"
)

const orderColumns = `
    o.id, o.customer_id, c.name, o.team_id, o.status, o.confirmation_status,
    o.payment_status, o.total_amount, DATE_FORMAT(o.scheduled_date, '%Y-%m-%d'),
    o.scheduled_time, o.notes, o.customer_rating, o.customer_feedback, o.created_at`

func scanOrder(row interface{ Scan(...interface{}) error }) (*storage.Order, error) {
	var o storage.Order
	err := row.Scan(
		&o.ID, &o.CustomerID, &o.Customer, &o.TeamID, &o.Status, &o.ConfirmationStatus,
		&o.PaymentStatus, &o.TotalAmount, &o.ScheduledDate,
		&o.ScheduledTime, &o.Notes, &o.CustomerRating, &o.CustomerFeedback, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Storage) GetOrders(ctx context.Context, filter storage.OrderFilter) ([]*storage.Order, error) {
	const op = "storage.mysql.GetOrders"

	query := `SELECT` + orderColumns + `
        FROM orders o
        JOIN customers c ON c.id = o.customer_id
        WHERE 1=1`
	var args []interface{}

	if filter.Date != "" {
		query += ` AND o.scheduled_date = ?`
		args = append(args, filter.Date)
	}
	if filter.Status != "" {
		query += ` AND o.status = ?`
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		query += ` AND (c.name LIKE ? OR c.phone LIKE ?)`
		like := "%" + filter.Search + "%"
		args = append(args, like, like)
	}
	query += ` ORDER BY o.scheduled_date DESC, o.id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка получения заказов: %w", op, err)
	}
	defer rows.Close()

	var orders []*storage.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		orders = append(orders, o)
	}

	return orders, rows.Err()
}

func (s *Storage) GetOrderDetails(ctx context.Context, id int64) (*storage.OrderDetails, error) {
	const op = "storage.mysql.GetOrderDetails"

	row := s.db.QueryRowContext(ctx, `SELECT`+orderColumns+`
        FROM orders o
        JOIN customers c ON c.id = o.customer_id
        WHERE o.id = ?`, id)

	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: id=%d: %w", op, id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items, err := s.getOrderItems(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &storage.OrderDetails{Order: *o, Items: items}, nil
}

func (s *Storage) getOrderItems(ctx context.Context, orderID int64) ([]storage.OrderItem, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT oi.id, oi.order_id, oi.service_id, sv.name, oi.quantity, oi.price, oi.estimated_duration
        FROM order_items oi
        JOIN services sv ON sv.id = oi.service_id
        WHERE oi.order_id = ?
        ORDER BY oi.id ASC`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []storage.OrderItem
	for rows.Next() {
		var it storage.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ServiceID, &it.Service, &it.Quantity, &it.Price, &it.EstimatedDuration); err != nil {
			return nil, err
		}
		items = append(items, it)
	}

	return items, rows.Err()
}

// CreateOrder создаёт заказ с позициями. Цена и длительность позиции
// копируются из каталога на момент создания.
func (s *Storage) CreateOrder(ctx context.Context, req storage.CreateOrder) (int64, error) {
	const op = "storage.mysql.CreateOrder"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
        INSERT INTO orders (customer_id, status, confirmation_status, scheduled_date, scheduled_time, notes)
        VALUES (?, 'pending', 'pending', ?, ?, ?)`,
		req.CustomerID, req.ScheduledDate, req.ScheduledTime, req.Notes,
	)
	if err != nil {
		return 0, fmt.Errorf("%s: вставка заказа: %w", op, err)
	}

	orderID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var total float64
	for _, item := range req.Items {
		var price float64
		var duration int
		err = tx.QueryRowContext(ctx,
			`SELECT price, estimated_duration FROM services WHERE id = ? AND is_active = TRUE`,
			item.ServiceID,
		).Scan(&price, &duration)
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%s: service=%d: %w", op, item.ServiceID, storage.ErrNotFound)
		}
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}

		_, err = tx.ExecContext(ctx, `
            INSERT INTO order_items (order_id, service_id, quantity, price, estimated_duration)
            VALUES (?, ?, ?, ?, ?)`,
			orderID, item.ServiceID, item.Quantity, price, duration,
		)
		if err != nil {
			return 0, fmt.Errorf("%s: вставка позиции заказа: %w", op, err)
		}

		total += price * float64(item.Quantity)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE orders SET total_amount = ? WHERE id = ?`, total, orderID,
	)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: commit transaction: %w", op, err)
	}

	return orderID, nil
}

func (s *Storage) UpdateOrder(ctx context.Context, id int64, req storage.UpdateOrder) error {
	const op = "storage.mysql.UpdateOrder"

	_, err := s.db.ExecContext(ctx, `
        UPDATE orders
        SET team_id = ?, scheduled_date = ?, scheduled_time = ?, notes = ?, payment_status = ?
        WHERE id = ?`,
		req.TeamID, req.ScheduledDate, req.ScheduledTime, req.Notes, req.PaymentStatus, id,
	)
	if err != nil {
		return fmt.Errorf("%s: id=%d: %w", op, id, err)
	}

	return nil
}

// UpdateOrderStatus меняет статус условно по текущему значению: если
// статус успел измениться из другого окна — обновление не проходит.
func (s *Storage) UpdateOrderStatus(ctx context.Context, id int64, from, to storage.OrderStatus, notes *string) error {
	const op = "storage.mysql.UpdateOrderStatus"

	var res sql.Result
	var err error
	if notes != nil {
		res, err = s.db.ExecContext(ctx,
			`UPDATE orders SET status = ?, notes = ? WHERE id = ? AND status = ?`,
			to, notes, id, from,
		)
	} else {
		res, err = s.db.ExecContext(ctx,
			`UPDATE orders SET status = ? WHERE id = ? AND status = ?`,
			to, id, from,
		)
	}
	if err != nil {
		return fmt.Errorf("%s: id=%d: %w", op, id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: id=%d status=%s: %w", op, id, from, storage.ErrInvalidTransition)
	}

	return nil
}

func (s *Storage) UpdateConfirmationStatus(ctx context.Context, id int64, status storage.ConfirmationStatus) error {
	const op = "storage.mysql.UpdateConfirmationStatus"

	res, err := s.db.ExecContext(ctx,
		`UPDATE orders SET confirmation_status = ? WHERE id = ?`, status, id,
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

func (s *Storage) SaveOrderRating(ctx context.Context, id int64, rating int, feedback string) error {
	const op = "storage.mysql.SaveOrderRating"

	res, err := s.db.ExecContext(ctx,
		`UPDATE orders SET customer_rating = ?, customer_feedback = ? WHERE id = ? AND status = 'completed'`,
		rating, feedback, id,
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

// GetAvailableOrders — заказы на дату, ещё не привязанные к маршруту.
// Из них оператор собирает маршрут в модалке назначения.
func (s *Storage) GetAvailableOrders(ctx context.Context, date string) ([]*storage.Order, error) {
	const op = "storage.mysql.GetAvailableOrders"

	rows, err := s.db.QueryContext(ctx, `SELECT`+orderColumns+`
        FROM orders o
        JOIN customers c ON c.id = o.customer_id
        WHERE o.scheduled_date = ?
          AND o.status IN ('pending', 'scheduled')
          AND NOT EXISTS (SELECT 1 FROM route_orders ro WHERE ro.order_id = o.id)
        ORDER BY o.scheduled_time ASC, o.id ASC`, date)
	if err != nil {
		return nil, fmt.Errorf("%s: date=%s: %w", op, date, err)
	}
	defer rows.Close()

	var orders []*storage.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		orders = append(orders, o)
	}

	return orders, rows.Err()
}
