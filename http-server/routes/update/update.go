package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"cleanops/internal/eventbus"
	"cleanops/internal/storage"
)

type RouteUpdater interface {
	GetRoute(ctx context.Context, id int64) (*storage.Route, error)
	UpdateRouteStatus(ctx context.Context, id int64, from, to storage.RouteStatus) error
	DeleteRoute(ctx context.Context, id int64) error
}

// UpdateRouteStatus двигает маршрут только вперёд:
// planned -> in_progress -> completed.
func UpdateRouteStatus(log *slog.Logger, updater RouteUpdater, bus *eventbus.Bus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.routes.update.UpdateRouteStatus"

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		var req struct {
			Status storage.RouteStatus `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Invalid data", http.StatusBadRequest)
			return
		}
		if !req.Status.Valid() {
			http.Error(w, "Invalid status", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		route, err := updater.GetRoute(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "Route not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Error("Ошибка при получении маршрута", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		if !route.Status.CanTransition(req.Status) {
			http.Error(w, "Invalid status transition", http.StatusConflict)
			return
		}

		if err := updater.UpdateRouteStatus(ctx, id, route.Status, req.Status); err != nil {
			if errors.Is(err, storage.ErrInvalidTransition) {
				http.Error(w, "Invalid status transition", http.StatusConflict)
				return
			}
			log.Error("Ошибка смены статуса маршрута", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		bus.Emit(eventbus.TopicRoutesChanged)

		render.JSON(w, r, map[string]interface{}{
			"status":   "success",
			"route_id": id,
		})
	}
}

// DeleteRoute удаляет маршрут. Разрешено только для черновика (planned).
func DeleteRoute(log *slog.Logger, updater RouteUpdater, bus *eventbus.Bus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.routes.update.DeleteRoute"

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := updater.DeleteRoute(ctx, id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "Route not found", http.StatusNotFound)
				return
			}
			if errors.Is(err, storage.ErrInvalidTransition) {
				http.Error(w, "Only planned routes can be deleted", http.StatusConflict)
				return
			}
			log.Error("Ошибка удаления маршрута", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		log.Info("Маршрут удалён", slog.Int64("route_id", id))
		bus.Emit(eventbus.TopicRoutesChanged, eventbus.TopicOrdersChanged)

		render.JSON(w, r, map[string]interface{}{
			"status": "success",
		})
	}
}
