package routing

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"cleanops/internal/eventbus"
	"cleanops/internal/storage"
)

type MockRouteStorage struct {
	mock.Mock

	mu  sync.Mutex
	log []string
}

func (m *MockRouteStorage) record(entry string) {
	m.mu.Lock()
	m.log = append(m.log, entry)
	m.mu.Unlock()
}

func (m *MockRouteStorage) GetRouteOrderIDs(ctx context.Context, routeID int64) ([]int64, error) {
	args := m.Called(ctx, routeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockRouteStorage) RemoveOrderFromRoute(ctx context.Context, routeID, orderID int64) error {
	m.record("remove")
	args := m.Called(ctx, routeID, orderID)
	return args.Error(0)
}

func (m *MockRouteStorage) AddOrderToRoute(ctx context.Context, routeID, orderID int64, sequenceOrder int) error {
	m.record("add")
	args := m.Called(ctx, routeID, orderID, sequenceOrder)
	return args.Error(0)
}

func (m *MockRouteStorage) ReorderRouteOrders(ctx context.Context, routeID int64, items []storage.SequenceItem) error {
	m.record("reorder")
	args := m.Called(ctx, routeID, items)
	return args.Error(0)
}

// Классический случай: [A,B,C] -> [C,A,D]. B уходит, D приходит на
// третью позицию, перенумерация покрывает весь итоговый список.
func TestComputeDiff_Mixed(t *testing.T) {
	d := ComputeDiff([]int64{1, 2, 3}, []int64{3, 1, 4})

	assert.Equal(t, []int64{2}, d.ToRemove)
	assert.Equal(t, []storage.SequenceItem{{OrderID: 4, SequenceOrder: 3}}, d.ToAdd)
	assert.Equal(t, []storage.SequenceItem{
		{OrderID: 3, SequenceOrder: 1},
		{OrderID: 1, SequenceOrder: 2},
		{OrderID: 4, SequenceOrder: 3},
	}, d.Reorder)
}

// Состав не менялся, только порядок: перенумерация всё равно уходит.
func TestComputeDiff_ReorderOnly(t *testing.T) {
	d := ComputeDiff([]int64{1, 2, 3}, []int64{3, 2, 1})

	assert.Empty(t, d.ToRemove)
	assert.Empty(t, d.ToAdd)
	assert.Equal(t, []storage.SequenceItem{
		{OrderID: 3, SequenceOrder: 1},
		{OrderID: 2, SequenceOrder: 2},
		{OrderID: 1, SequenceOrder: 3},
	}, d.Reorder)
}

func TestComputeDiff_EmptyFinal(t *testing.T) {
	d := ComputeDiff([]int64{1, 2}, nil)

	assert.Equal(t, []int64{1, 2}, d.ToRemove)
	assert.Empty(t, d.ToAdd)
	assert.Empty(t, d.Reorder)
}

func TestMoveUpDown_Boundaries(t *testing.T) {
	ids := []int64{1, 2, 3}

	// за границей списка — no-op
	MoveUp(ids, 0)
	assert.Equal(t, []int64{1, 2, 3}, ids)
	MoveDown(ids, 2)
	assert.Equal(t, []int64{1, 2, 3}, ids)

	MoveUp(ids, 2)
	assert.Equal(t, []int64{1, 3, 2}, ids)
	MoveDown(ids, 0)
	assert.Equal(t, []int64{3, 1, 2}, ids)
}

func TestApply_PhaseOrdering(t *testing.T) {
	mockStore := new(MockRouteStorage)
	bus := eventbus.New()

	routesEmitted, ordersEmitted := 0, 0
	bus.On(eventbus.TopicRoutesChanged, func() { routesEmitted++ })
	bus.On(eventbus.TopicOrdersChanged, func() { ordersEmitted++ })

	mockStore.On("GetRouteOrderIDs", mock.Anything, int64(10)).
		Return([]int64{1, 2, 3}, nil)
	mockStore.On("RemoveOrderFromRoute", mock.Anything, int64(10), int64(2)).Return(nil)
	mockStore.On("AddOrderToRoute", mock.Anything, int64(10), int64(4), 3).Return(nil)
	mockStore.On("ReorderRouteOrders", mock.Anything, int64(10), mock.Anything).Return(nil)

	c := NewCoordinator(mockStore, bus)

	err := c.Apply(context.Background(), 10, []int64{3, 1, 4})

	assert.NoError(t, err)
	// фазы строго последовательны: все отвязки до привязок, перенумерация последней
	assert.Equal(t, []string{"remove", "add", "reorder"}, mockStore.log)
	assert.Equal(t, 1, routesEmitted)
	assert.Equal(t, 1, ordersEmitted)
	mockStore.AssertExpectations(t)
}

func TestApply_ReorderAlwaysSent(t *testing.T) {
	mockStore := new(MockRouteStorage)

	mockStore.On("GetRouteOrderIDs", mock.Anything, int64(10)).
		Return([]int64{1, 2}, nil)
	mockStore.On("ReorderRouteOrders", mock.Anything, int64(10), []storage.SequenceItem{
		{OrderID: 2, SequenceOrder: 1},
		{OrderID: 1, SequenceOrder: 2},
	}).Return(nil)

	c := NewCoordinator(mockStore, eventbus.New())

	err := c.Apply(context.Background(), 10, []int64{2, 1})

	assert.NoError(t, err)
	mockStore.AssertNotCalled(t, "RemoveOrderFromRoute")
	mockStore.AssertNotCalled(t, "AddOrderToRoute")
	mockStore.AssertExpectations(t)
}

func TestApply_DuplicateRejected(t *testing.T) {
	mockStore := new(MockRouteStorage)
	c := NewCoordinator(mockStore, eventbus.New())

	err := c.Apply(context.Background(), 10, []int64{1, 2, 1})

	assert.ErrorIs(t, err, ErrDuplicateOrder)
	mockStore.AssertNotCalled(t, "GetRouteOrderIDs")
}

// Сбой привязки: успешная отвязка компенсируется возвратом заказа
// на его старую позицию, перенумерация не выполняется.
func TestApply_CompensatesOnAddFailure(t *testing.T) {
	mockStore := new(MockRouteStorage)
	boom := errors.New("deadlock")

	mockStore.On("GetRouteOrderIDs", mock.Anything, int64(10)).
		Return([]int64{1, 2}, nil)
	mockStore.On("RemoveOrderFromRoute", mock.Anything, int64(10), int64(2)).Return(nil)
	// привязка нового заказа падает
	mockStore.On("AddOrderToRoute", mock.Anything, int64(10), int64(4), 2).Return(boom)
	// компенсация: заказ 2 возвращается на вторую позицию
	mockStore.On("AddOrderToRoute", mock.Anything, int64(10), int64(2), 2).Return(nil)

	c := NewCoordinator(mockStore, eventbus.New())

	err := c.Apply(context.Background(), 10, []int64{1, 4})

	assert.ErrorIs(t, err, boom)
	mockStore.AssertCalled(t, "AddOrderToRoute", mock.Anything, int64(10), int64(2), 2)
	mockStore.AssertNotCalled(t, "ReorderRouteOrders")
}

// Сбой перенумерации откатывает обе предыдущие фазы: добавленный
// заказ отвязывается, снятый — возвращается. Обратные действия идут
// в обратном порядке.
func TestApply_CompensatesOnReorderFailure(t *testing.T) {
	mockStore := new(MockRouteStorage)
	boom := errors.New("lock wait timeout")

	mockStore.On("GetRouteOrderIDs", mock.Anything, int64(10)).
		Return([]int64{1, 2}, nil)
	mockStore.On("RemoveOrderFromRoute", mock.Anything, int64(10), int64(2)).Return(nil)
	mockStore.On("AddOrderToRoute", mock.Anything, int64(10), int64(4), 2).Return(nil)
	mockStore.On("ReorderRouteOrders", mock.Anything, int64(10), mock.Anything).Return(boom)
	// компенсации
	mockStore.On("RemoveOrderFromRoute", mock.Anything, int64(10), int64(4)).Return(nil)
	mockStore.On("AddOrderToRoute", mock.Anything, int64(10), int64(2), 2).Return(nil)

	c := NewCoordinator(mockStore, eventbus.New())

	err := c.Apply(context.Background(), 10, []int64{1, 4})

	assert.ErrorIs(t, err, boom)
	// последним шло добавление 4 — первым и откатывается
	assert.Equal(t, []string{"remove", "add", "reorder", "remove", "add"}, mockStore.log)
}

func TestApply_NoEmitOnFailure(t *testing.T) {
	mockStore := new(MockRouteStorage)
	bus := eventbus.New()

	emitted := 0
	bus.On(eventbus.TopicRoutesChanged, func() { emitted++ })

	mockStore.On("GetRouteOrderIDs", mock.Anything, int64(10)).
		Return([]int64{1}, nil)
	mockStore.On("ReorderRouteOrders", mock.Anything, int64(10), mock.Anything).
		Return(errors.New("boom"))

	c := NewCoordinator(mockStore, bus)

	err := c.Apply(context.Background(), 10, []int64{1})

	assert.Error(t, err)
	assert.Equal(t, 0, emitted)
}
