package save

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"cleanops/internal/eventbus"
	"cleanops/internal/storage"
)

type WorkerCreator interface {
	CreateWorker(ctx context.Context, req storage.CreateWorker) (int64, error)
}

func SaveWorker(log *slog.Logger, creator WorkerCreator, bus *eventbus.Bus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.workers.save.SaveWorker"

		var req storage.CreateWorker
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Bad request: invalid JSON", http.StatusBadRequest)
			return
		}
		if req.Name == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id, err := creator.CreateWorker(ctx, req)
		if err != nil {
			log.Error("Ошибка создания работника", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		bus.Emit(eventbus.TopicWorkersChanged)

		render.JSON(w, r, map[string]interface{}{
			"status":    "success",
			"worker_id": id,
		})
	}
}
