package events

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"cleanops/internal/eventbus"
)

var topics = []string{
	eventbus.TopicOrdersChanged,
	eventbus.TopicTeamsChanged,
	eventbus.TopicRoutesChanged,
	eventbus.TopicExpensesChanged,
	eventbus.TopicWorkersChanged,
}

// debounceWindow схлопывает всплески: три фазы координатора назначений
// дают подписчику одно событие, а не три.
const debounceWindow = 300 * time.Millisecond

// Stream — SSE-поток событий шины для фронтенда. Страница подписана на
// свои топики и по событию перечитывает данные; пейлоада нет.
func Stream(log *slog.Logger, bus *eventbus.Bus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.events.Stream"

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		notify := make(chan string, 16)

		var unsubs []func()
		for _, topic := range topics {
			topic := topic
			debounced := eventbus.Debounce(debounceWindow, func() {
				// медленный клиент не должен задерживать Emit
				select {
				case notify <- topic:
				default:
				}
			})
			unsubs = append(unsubs, bus.On(topic, debounced))
		}
		defer func() {
			for _, unsub := range unsubs {
				unsub()
			}
		}()

		heartbeat := time.NewTicker(30 * time.Second)
		defer heartbeat.Stop()

		log.Debug("SSE клиент подключился", slog.String("op", op))

		for {
			select {
			case <-r.Context().Done():
				return
			case topic := <-notify:
				fmt.Fprintf(w, "event: %s\ndata: {}\n\n", topic)
				flusher.Flush()
			case <-heartbeat.C:
				fmt.Fprint(w, ": ping\n\n")
				flusher.Flush()
			}
		}
	}
}
