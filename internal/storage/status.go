package storage

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrLeaderNotReplaced = errors.New("team leader must be replaced before removal")
	ErrAlreadyInTeam     = errors.New("worker already has an active team")
)

// Статус выполнения заказа. Цепочка движется только вперёд,
// отмена возможна из любого нетерминального статуса.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderScheduled  OrderStatus = "scheduled"
	OrderInProgress OrderStatus = "in_progress"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

var orderStatusOrder = map[OrderStatus]int{
	OrderPending:    0,
	OrderScheduled:  1,
	OrderInProgress: 2,
	OrderCompleted:  3,
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderScheduled, OrderInProgress, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}

// CanTransition — разрешён ли переход s -> to.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	if !s.Valid() || !to.Valid() || s == to {
		return false
	}
	if s.Terminal() {
		return false
	}
	if to == OrderCancelled {
		return true
	}
	// только следующий шаг цепочки
	return orderStatusOrder[to] == orderStatusOrder[s]+1
}

// Label — подпись статуса для клиента (интерфейс на арабском).
func (s OrderStatus) Label() string {
	switch s {
	case OrderPending:
		return "قيد الانتظار"
	case OrderScheduled:
		return "مجدول"
	case OrderInProgress:
		return "قيد التنفيذ"
	case OrderCompleted:
		return "مكتمل"
	case OrderCancelled:
		return "ملغي"
	}
	return string(s)
}

// Статус подтверждения клиентом. Не связан со статусом выполнения,
// оператор может менять его в любую сторону.
type ConfirmationStatus string

const (
	ConfirmationPending   ConfirmationStatus = "pending"
	ConfirmationConfirmed ConfirmationStatus = "confirmed"
	ConfirmationDeclined  ConfirmationStatus = "declined"
)

func (s ConfirmationStatus) Valid() bool {
	switch s {
	case ConfirmationPending, ConfirmationConfirmed, ConfirmationDeclined:
		return true
	}
	return false
}

// Статус маршрута: planned -> in_progress -> completed, назад нельзя.
// Удалять маршрут можно только в planned.
type RouteStatus string

const (
	RoutePlanned    RouteStatus = "planned"
	RouteInProgress RouteStatus = "in_progress"
	RouteCompleted  RouteStatus = "completed"
)

var routeStatusOrder = map[RouteStatus]int{
	RoutePlanned:    0,
	RouteInProgress: 1,
	RouteCompleted:  2,
}

func (s RouteStatus) Valid() bool {
	switch s {
	case RoutePlanned, RouteInProgress, RouteCompleted:
		return true
	}
	return false
}

func (s RouteStatus) CanTransition(to RouteStatus) bool {
	if !s.Valid() || !to.Valid() {
		return false
	}
	return routeStatusOrder[to] == routeStatusOrder[s]+1
}

// Статус расхода. Отклонение требует причины.
type ExpenseStatus string

const (
	ExpensePending  ExpenseStatus = "pending"
	ExpenseApproved ExpenseStatus = "approved"
	ExpenseRejected ExpenseStatus = "rejected"
)

func (s ExpenseStatus) Valid() bool {
	switch s {
	case ExpensePending, ExpenseApproved, ExpenseRejected:
		return true
	}
	return false
}

type WorkerStatus string

const (
	WorkerActive   WorkerStatus = "active"
	WorkerInactive WorkerStatus = "inactive"
	WorkerOnLeave  WorkerStatus = "on_leave"
)

func (s WorkerStatus) Valid() bool {
	switch s {
	case WorkerActive, WorkerInactive, WorkerOnLeave:
		return true
	}
	return false
}
