package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cleanops/internal/storage"
)

func (s *Storage) GetRoutes(ctx context.Context, date string) ([]*storage.Route, error) {
	const op = "storage.mysql.GetRoutes"

	query := `SELECT id, name, team_id, status, DATE_FORMAT(route_date, '%Y-%m-%d') FROM routes`
	var args []interface{}
	if date != "" {
		query += ` WHERE route_date = ?`
		args = append(args, date)
	}
	query += ` ORDER BY route_date DESC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка получения маршрутов: %w", op, err)
	}
	defer rows.Close()

	var routes []*storage.Route
	for rows.Next() {
		var rt storage.Route
		if err := rows.Scan(&rt.ID, &rt.Name, &rt.TeamID, &rt.Status, &rt.RouteDate); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		routes = append(routes, &rt)
	}

	return routes, rows.Err()
}

func (s *Storage) GetRoute(ctx context.Context, id int64) (*storage.Route, error) {
	const op = "storage.mysql.GetRoute"

	var rt storage.Route
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, team_id, status, DATE_FORMAT(route_date, '%Y-%m-%d') FROM routes WHERE id = ?`, id,
	).Scan(&rt.ID, &rt.Name, &rt.TeamID, &rt.Status, &rt.RouteDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: id=%d: %w", op, id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &rt, nil
}

// GetRouteDetails — маршрут с остановками в порядке объезда, у каждой
// остановки заказ и его позиции (для подсчёта длительности).
func (s *Storage) GetRouteDetails(ctx context.Context, id int64) (*storage.RouteDetails, error) {
	const op = "storage.mysql.GetRouteDetails"

	rt, err := s.GetRoute(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
        SELECT ro.sequence_order,`+orderColumns+`
        FROM route_orders ro
        JOIN orders o ON o.id = ro.order_id
        JOIN customers c ON c.id = o.customer_id
        WHERE ro.route_id = ?
        ORDER BY ro.sequence_order ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var stops []storage.RouteStop
	for rows.Next() {
		var stop storage.RouteStop
		var o storage.Order
		err := rows.Scan(
			&stop.SequenceOrder,
			&o.ID, &o.CustomerID, &o.Customer, &o.TeamID, &o.Status, &o.ConfirmationStatus,
			&o.PaymentStatus, &o.TotalAmount, &o.ScheduledDate,
			&o.ScheduledTime, &o.Notes, &o.CustomerRating, &o.CustomerFeedback, &o.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		stop.Order = o
		stops = append(stops, stop)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for i := range stops {
		items, err := s.getOrderItems(ctx, stops[i].Order.ID)
		if err != nil {
			return nil, fmt.Errorf("%s: позиции заказа %d: %w", op, stops[i].Order.ID, err)
		}
		stops[i].Items = items
	}

	return &storage.RouteDetails{Route: *rt, Stops: stops}, nil
}

// GetRouteOrderIDs — id заказов маршрута в порядке объезда. Это
// исходный список для координатора назначений.
func (s *Storage) GetRouteOrderIDs(ctx context.Context, routeID int64) ([]int64, error) {
	const op = "storage.mysql.GetRouteOrderIDs"

	rows, err := s.db.QueryContext(ctx,
		`SELECT order_id FROM route_orders WHERE route_id = ? ORDER BY sequence_order ASC`,
		routeID,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: route=%d: %w", op, routeID, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (s *Storage) CreateRoute(ctx context.Context, req storage.CreateRoute) (int64, error) {
	const op = "storage.mysql.CreateRoute"

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO routes (name, team_id, status, route_date) VALUES (?, ?, 'planned', ?)`,
		req.Name, req.TeamID, req.RouteDate,
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

func (s *Storage) UpdateRouteStatus(ctx context.Context, id int64, from, to storage.RouteStatus) error {
	const op = "storage.mysql.UpdateRouteStatus"

	res, err := s.db.ExecContext(ctx,
		`UPDATE routes SET status = ? WHERE id = ? AND status = ?`, to, id, from,
	)
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

// DeleteRoute удаляет маршрут вместе с привязками. Удалять можно
// только черновик (planned).
func (s *Storage) DeleteRoute(ctx context.Context, id int64) error {
	const op = "storage.mysql.DeleteRoute"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `DELETE FROM route_orders WHERE route_id = ?`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM routes WHERE id = ? AND status = 'planned'`, id,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		// либо маршрута нет, либо он уже не черновик
		var status storage.RouteStatus
		err := tx.QueryRowContext(ctx, `SELECT status FROM routes WHERE id = ?`, id).Scan(&status)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s: id=%d: %w", op, id, storage.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return fmt.Errorf("%s: id=%d status=%s: %w", op, id, status, storage.ErrInvalidTransition)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit transaction: %w", op, err)
	}

	return nil
}

func (s *Storage) RemoveOrderFromRoute(ctx context.Context, routeID, orderID int64) error {
	const op = "storage.mysql.RemoveOrderFromRoute"

	_, err := s.db.ExecContext(ctx,
		`DELETE FROM route_orders WHERE route_id = ? AND order_id = ?`,
		routeID, orderID,
	)
	if err != nil {
		return fmt.Errorf("%s: route=%d order=%d: %w", op, routeID, orderID, err)
	}

	return nil
}

func (s *Storage) AddOrderToRoute(ctx context.Context, routeID, orderID int64, sequenceOrder int) error {
	const op = "storage.mysql.AddOrderToRoute"

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO route_orders (route_id, order_id, sequence_order) VALUES (?, ?, ?)`,
		routeID, orderID, sequenceOrder,
	)
	if err != nil {
		return fmt.Errorf("%s: route=%d order=%d: %w", op, routeID, orderID, err)
	}

	return nil
}

// ReorderRouteOrders перенумеровывает весь маршрут одной транзакцией.
func (s *Storage) ReorderRouteOrders(ctx context.Context, routeID int64, items []storage.SequenceItem) error {
	const op = "storage.mysql.ReorderRouteOrders"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`UPDATE route_orders SET sequence_order = ? WHERE route_id = ? AND order_id = ?`)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	for _, item := range items {
		if _, err := stmt.ExecContext(ctx, item.SequenceOrder, routeID, item.OrderID); err != nil {
			return fmt.Errorf("%s: order=%d: %w", op, item.OrderID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit transaction: %w", op, err)
	}

	return nil
}
