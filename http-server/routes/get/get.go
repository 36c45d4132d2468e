package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"cleanops/internal/service/routing"
	"cleanops/internal/storage"
)

type RoutesProvider interface {
	GetRoutes(ctx context.Context, date string) ([]*storage.Route, error)
	GetRouteDetails(ctx context.Context, id int64) (*storage.RouteDetails, error)
}

func GetRoutes(log *slog.Logger, provider RoutesProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.routes.get.GetRoutes"

		date := r.URL.Query().Get("date")
		if date != "" {
			if _, err := time.Parse("2006-01-02", date); err != nil {
				http.Error(w, "Invalid date", http.StatusBadRequest)
				return
			}
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		routes, err := provider.GetRoutes(ctx, date)
		if err != nil {
			log.Error("Ошибка при получении маршрутов", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]interface{}{
			"routes": routes,
			"status": strconv.Itoa(http.StatusOK),
		})
	}
}

type stopView struct {
	SequenceOrder int           `json:"sequence_order"`
	Order         storage.Order `json:"order"`
	// расчётная длительность остановки, строкой для интерфейса
	DurationMinutes int    `json:"duration_minutes"`
	Duration        string `json:"duration"`
}

type routeDetailsView struct {
	Route         storage.Route `json:"route"`
	Stops         []stopView    `json:"stops"`
	TotalDuration string        `json:"total_duration"`
}

// GetRouteDetails — маршрут с остановками в порядке объезда и
// расчётной длительностью каждой остановки.
func GetRouteDetails(log *slog.Logger, provider RoutesProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.routes.get.GetRouteDetails"

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		details, err := provider.GetRouteDetails(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "Route not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Error("Ошибка при получении маршрута", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		view := routeDetailsView{Route: details.Route}
		total := 0
		for _, stop := range details.Stops {
			minutes := routing.OrderDuration(stop.Items)
			total += minutes
			view.Stops = append(view.Stops, stopView{
				SequenceOrder:   stop.SequenceOrder,
				Order:           stop.Order,
				DurationMinutes: minutes,
				Duration:        routing.FormatDuration(minutes),
			})
		}
		view.TotalDuration = routing.FormatDuration(total)

		render.JSON(w, r, view)
	}
}
