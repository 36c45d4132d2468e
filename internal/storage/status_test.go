package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_ForwardChain(t *testing.T) {
	assert.True(t, OrderPending.CanTransition(OrderScheduled))
	assert.True(t, OrderScheduled.CanTransition(OrderInProgress))
	assert.True(t, OrderInProgress.CanTransition(OrderCompleted))

	// через шаг нельзя
	assert.False(t, OrderPending.CanTransition(OrderInProgress))
	assert.False(t, OrderScheduled.CanTransition(OrderCompleted))

	// назад нельзя
	assert.False(t, OrderScheduled.CanTransition(OrderPending))
	assert.False(t, OrderInProgress.CanTransition(OrderScheduled))
}

func TestOrderStatus_CancelFromAnyNonTerminal(t *testing.T) {
	for _, s := range []OrderStatus{OrderPending, OrderScheduled, OrderInProgress} {
		assert.True(t, s.CanTransition(OrderCancelled), "из %s отмена должна быть разрешена", s)
	}
}

// Терминальные статусы неизменяемы: никаких переходов из completed
// и cancelled, в том числе друг в друга.
func TestOrderStatus_TerminalImmutable(t *testing.T) {
	targets := []OrderStatus{OrderPending, OrderScheduled, OrderInProgress, OrderCompleted, OrderCancelled}

	for _, from := range []OrderStatus{OrderCompleted, OrderCancelled} {
		assert.True(t, from.Terminal())
		for _, to := range targets {
			assert.False(t, from.CanTransition(to), "%s -> %s должен быть запрещён", from, to)
		}
	}
}

func TestOrderStatus_SelfAndUnknown(t *testing.T) {
	assert.False(t, OrderPending.CanTransition(OrderPending))
	assert.False(t, OrderPending.CanTransition(OrderStatus("shipped")))
	assert.False(t, OrderStatus("shipped").Valid())
}

func TestConfirmationStatus_Valid(t *testing.T) {
	assert.True(t, ConfirmationPending.Valid())
	assert.True(t, ConfirmationConfirmed.Valid())
	assert.True(t, ConfirmationDeclined.Valid())
	assert.False(t, ConfirmationStatus("maybe").Valid())
}

func TestRouteStatus_ForwardOnly(t *testing.T) {
	assert.True(t, RoutePlanned.CanTransition(RouteInProgress))
	assert.True(t, RouteInProgress.CanTransition(RouteCompleted))

	assert.False(t, RoutePlanned.CanTransition(RouteCompleted))
	assert.False(t, RouteInProgress.CanTransition(RoutePlanned))
	assert.False(t, RouteCompleted.CanTransition(RouteInProgress))
	assert.False(t, RouteCompleted.CanTransition(RoutePlanned))
}

func TestExpenseStatus_Valid(t *testing.T) {
	assert.True(t, ExpensePending.Valid())
	assert.True(t, ExpenseApproved.Valid())
	assert.True(t, ExpenseRejected.Valid())
	assert.False(t, ExpenseStatus("paid").Valid())
}

func TestWorkerStatus_Valid(t *testing.T) {
	assert.True(t, WorkerActive.Valid())
	assert.True(t, WorkerOnLeave.Valid())
	assert.False(t, WorkerStatus("fired").Valid())
}
