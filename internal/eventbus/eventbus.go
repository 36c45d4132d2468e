package eventbus

import (
	"sync"
	"time"
)

// Топики шины. Пейлоада нет — подписчики сами перечитывают свои данные.
const (
	TopicOrdersChanged   = "orders:changed"
	TopicTeamsChanged    = "teams:changed"
	TopicRoutesChanged   = "routes:changed"
	TopicExpensesChanged = "expenses:changed"
	TopicWorkersChanged  = "workers:changed"
)

// Bus — внутрипроцессный pub/sub. Создаётся через New и передаётся
// сервисам явно, чтобы в тестах у каждого кейса была своя шина.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]func()
}

func New() *Bus {
	return &Bus{subs: make(map[string]map[int]func())}
}

// On подписывает callback на топик и возвращает функцию отписки.
func (b *Bus) On(topic string, fn func()) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]func())
	}
	id := b.nextID
	b.nextID++
	b.subs[topic][id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[topic], id)
	}
}

// Emit синхронно вызывает всех текущих подписчиков топика.
func (b *Bus) Emit(topics ...string) {
	b.mu.Lock()
	var fns []func()
	for _, topic := range topics {
		for _, fn := range b.subs[topic] {
			fns = append(fns, fn)
		}
	}
	b.mu.Unlock()

	// вызываем вне лока: подписчик может отписаться прямо из callback
	for _, fn := range fns {
		fn()
	}
}

// Debounce возвращает обёртку, которая схлопывает всплески вызовов:
// fn выполнится один раз спустя d после последнего вызова обёртки.
// Нужен подписчикам, чтобы не перечитывать данные на каждую из трёх
// фаз координатора назначений.
func Debounce(d time.Duration, fn func()) func() {
	var mu sync.Mutex
	var timer *time.Timer

	return func() {
		mu.Lock()
		defer mu.Unlock()

		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d, fn)
	}
}
