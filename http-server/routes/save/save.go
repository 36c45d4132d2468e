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

type RouteCreator interface {
	CreateRoute(ctx context.Context, req storage.CreateRoute) (int64, error)
}

func SaveRoute(log *slog.Logger, creator RouteCreator, bus *eventbus.Bus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.routes.save.SaveRoute"

		var req storage.CreateRoute
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Bad request: invalid JSON", http.StatusBadRequest)
			return
		}

		if req.Name == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}
		if _, err := time.Parse("2006-01-02", req.RouteDate); err != nil {
			http.Error(w, "Invalid route_date", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id, err := creator.CreateRoute(ctx, req)
		if err != nil {
			log.Error("Ошибка создания маршрута", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		log.Info("Маршрут создан", slog.Int64("route_id", id))
		bus.Emit(eventbus.TopicRoutesChanged)

		render.JSON(w, r, map[string]interface{}{
			"status":   "success",
			"route_id": id,
		})
	}
}
