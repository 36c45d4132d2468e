package routing

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"cleanops/internal/eventbus"
	"cleanops/internal/storage"
)

var ErrDuplicateOrder = errors.New("order listed twice in route")

// Diff — что нужно сделать с привязками маршрута, чтобы из исходного
// списка получить итоговый.
type Diff struct {
	// заказы к отвязке, в порядке исходного списка
	ToRemove []int64
	// заказы к привязке с позицией в итоговом списке (с единицы)
	ToAdd []storage.SequenceItem
	// полная плотная перенумерация итогового списка; отправляется
	// всегда, даже если состав не менялся
	Reorder []storage.SequenceItem
}

// ComputeDiff сравнивает исходный и итоговый порядок заказов маршрута.
func ComputeDiff(original, final []int64) Diff {
	inOriginal := make(map[int64]bool, len(original))
	for _, id := range original {
		inOriginal[id] = true
	}
	inFinal := make(map[int64]bool, len(final))
	for _, id := range final {
		inFinal[id] = true
	}

	var d Diff
	for _, id := range original {
		if !inFinal[id] {
			d.ToRemove = append(d.ToRemove, id)
		}
	}
	for i, id := range final {
		if !inOriginal[id] {
			d.ToAdd = append(d.ToAdd, storage.SequenceItem{OrderID: id, SequenceOrder: i + 1})
		}
		d.Reorder = append(d.Reorder, storage.SequenceItem{OrderID: id, SequenceOrder: i + 1})
	}

	return d
}

// MoveUp/MoveDown двигают элемент списка на одну позицию. За границей
// списка — no-op, как и в модалке.
func MoveUp(ids []int64, index int) {
	if index <= 0 || index >= len(ids) {
		return
	}
	ids[index-1], ids[index] = ids[index], ids[index-1]
}

func MoveDown(ids []int64, index int) {
	if index < 0 || index >= len(ids)-1 {
		return
	}
	ids[index], ids[index+1] = ids[index+1], ids[index]
}

type RouteStorage interface {
	GetRouteOrderIDs(ctx context.Context, routeID int64) ([]int64, error)
	RemoveOrderFromRoute(ctx context.Context, routeID, orderID int64) error
	AddOrderToRoute(ctx context.Context, routeID, orderID int64, sequenceOrder int) error
	ReorderRouteOrders(ctx context.Context, routeID int64, items []storage.SequenceItem) error
}

// Coordinator применяет отредактированный состав маршрута тремя
// фазами: отвязки, привязки, перенумерация. Фазы строго
// последовательны — вставки не должны столкнуться с устаревшими
// номерами, а перенумерация должна видеть состав после вставок.
// Внутри фазы вызовы независимы и идут параллельно.
type Coordinator struct {
	storage RouteStorage
	bus     *eventbus.Bus
}

func NewCoordinator(storage RouteStorage, bus *eventbus.Bus) *Coordinator {
	return &Coordinator{storage: storage, bus: bus}
}

// Apply приводит привязки маршрута к итоговому списку finalIDs.
// Каждый успешный шаг записывает обратное действие; при сбое фазы
// накопленные обратные действия выполняются в обратном порядке,
// после чего возвращается первая ошибка.
func (c *Coordinator) Apply(ctx context.Context, routeID int64, finalIDs []int64) error {
	const op = "service.routing.Apply"

	seen := make(map[int64]bool, len(finalIDs))
	for _, id := range finalIDs {
		if seen[id] {
			return fmt.Errorf("%s: order=%d: %w", op, id, ErrDuplicateOrder)
		}
		seen[id] = true
	}

	original, err := c.storage.GetRouteOrderIDs(ctx, routeID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	d := ComputeDiff(original, finalIDs)

	originalSeq := make(map[int64]int, len(original))
	for i, id := range original {
		originalSeq[id] = i + 1
	}

	var mu sync.Mutex
	var undo []func(context.Context) error

	record := func(fn func(context.Context) error) {
		mu.Lock()
		undo = append(undo, fn)
		mu.Unlock()
	}

	compensate := func(cause error) error {
		for i := len(undo) - 1; i >= 0; i-- {
			// компенсация — лучшая попытка, её ошибки не затирают причину
			_ = undo[i](ctx)
		}
		return fmt.Errorf("%s: %w", op, cause)
	}

	// фаза 1: отвязки
	g, gctx := errgroup.WithContext(ctx)
	for _, id := range d.ToRemove {
		id := id
		g.Go(func() error {
			if err := c.storage.RemoveOrderFromRoute(gctx, routeID, id); err != nil {
				return err
			}
			seq := originalSeq[id]
			record(func(ctx context.Context) error {
				return c.storage.AddOrderToRoute(ctx, routeID, id, seq)
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return compensate(err)
	}

	// фаза 2: привязки
	g, gctx = errgroup.WithContext(ctx)
	for _, item := range d.ToAdd {
		item := item
		g.Go(func() error {
			if err := c.storage.AddOrderToRoute(gctx, routeID, item.OrderID, item.SequenceOrder); err != nil {
				return err
			}
			record(func(ctx context.Context) error {
				return c.storage.RemoveOrderFromRoute(ctx, routeID, item.OrderID)
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return compensate(err)
	}

	// фаза 3: плотная перенумерация, всегда
	if err := c.storage.ReorderRouteOrders(ctx, routeID, d.Reorder); err != nil {
		return compensate(err)
	}

	c.bus.Emit(eventbus.TopicRoutesChanged, eventbus.TopicOrdersChanged)

	return nil
}
