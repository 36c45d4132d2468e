package eventbus

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBus_EmitCallsSubscribers(t *testing.T) {
	bus := New()

	calls := 0
	bus.On(TopicOrdersChanged, func() { calls++ })
	bus.On(TopicOrdersChanged, func() { calls++ })

	bus.Emit(TopicOrdersChanged)

	assert.Equal(t, 2, calls)
}

func TestBus_TopicsIsolated(t *testing.T) {
	bus := New()

	var ordersCalls, teamsCalls int
	bus.On(TopicOrdersChanged, func() { ordersCalls++ })
	bus.On(TopicTeamsChanged, func() { teamsCalls++ })

	bus.Emit(TopicTeamsChanged)

	// подписчик чужого топика не должен быть вызван
	assert.Equal(t, 0, ordersCalls)
	assert.Equal(t, 1, teamsCalls)
}

func TestBus_EmitMultipleTopics(t *testing.T) {
	bus := New()

	var got []string
	bus.On(TopicRoutesChanged, func() { got = append(got, TopicRoutesChanged) })
	bus.On(TopicOrdersChanged, func() { got = append(got, TopicOrdersChanged) })

	bus.Emit(TopicRoutesChanged, TopicOrdersChanged)

	assert.Len(t, got, 2)
	assert.Contains(t, got, TopicRoutesChanged)
	assert.Contains(t, got, TopicOrdersChanged)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := New()

	calls := 0
	off := bus.On(TopicExpensesChanged, func() { calls++ })

	bus.Emit(TopicExpensesChanged)
	off()
	bus.Emit(TopicExpensesChanged)

	// после отписки доставка прекращается
	assert.Equal(t, 1, calls)
}

func TestBus_UnsubscribeFromCallback(t *testing.T) {
	bus := New()

	calls := 0
	var off func()
	off = bus.On(TopicWorkersChanged, func() {
		calls++
		off()
	})

	// отписка прямо из callback не должна привести к deadlock
	bus.Emit(TopicWorkersChanged)
	bus.Emit(TopicWorkersChanged)

	assert.Equal(t, 1, calls)
}

func TestDebounce_CoalescesBurst(t *testing.T) {
	var mu sync.Mutex
	calls := 0

	debounced := Debounce(20*time.Millisecond, func() {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	// всплеск из трёх вызовов подряд — как три фазы координатора
	debounced()
	debounced()
	debounced()

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls)
}

func TestDebounce_SeparateBursts(t *testing.T) {
	var mu sync.Mutex
	calls := 0

	debounced := Debounce(10*time.Millisecond, func() {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	debounced()
	time.Sleep(50 * time.Millisecond)
	debounced()
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, calls)
}
