package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"cleanops/internal/storage"
)

type ResponseOrders struct {
	Orders []*storage.Order `json:"orders"`
	Status string           `json:"status"`
	Error  string           `json:"error,omitempty"`
}

type OrdersProvider interface {
	GetOrders(ctx context.Context, filter storage.OrderFilter) ([]*storage.Order, error)
	GetOrderDetails(ctx context.Context, id int64) (*storage.OrderDetails, error)
	GetAvailableOrders(ctx context.Context, date string) ([]*storage.Order, error)
}

func GetOrdersFilter(log *slog.Logger, provider OrdersProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.get.GetOrdersFilter"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		filter := storage.OrderFilter{
			Date:   r.URL.Query().Get("date"),
			Status: storage.OrderStatus(r.URL.Query().Get("status")),
			Search: r.URL.Query().Get("search"),
		}

		if filter.Status != "" && !filter.Status.Valid() {
			http.Error(w, "Invalid status", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		orders, err := provider.GetOrders(ctx, filter)
		if err != nil {
			log.Error("Ошибка при получении заказов", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, ResponseOrders{Error: "Internal server error"})
			return
		}

		render.JSON(w, r, ResponseOrders{
			Orders: orders,
			Status: strconv.Itoa(http.StatusOK),
		})
	}
}

func GetOrderDetails(log *slog.Logger, provider OrdersProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.get.GetOrderDetails"

		idStr := chi.URLParam(r, "id")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		details, err := provider.GetOrderDetails(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "Order not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Error("Ошибка при получении заказа", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, details)
	}
}

// GetAvailableOrders — заказы на дату, не привязанные к маршрутам.
// Из этого списка модалка назначения собирает маршрут.
func GetAvailableOrders(log *slog.Logger, provider OrdersProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.get.GetAvailableOrders"

		date := r.URL.Query().Get("date")
		if date == "" {
			http.Error(w, "Missing date", http.StatusBadRequest)
			return
		}
		if _, err := time.Parse("2006-01-02", date); err != nil {
			http.Error(w, "Invalid date", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		orders, err := provider.GetAvailableOrders(ctx, date)
		if err != nil {
			log.Error("Ошибка при получении свободных заказов", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, ResponseOrders{
			Orders: orders,
			Status: strconv.Itoa(http.StatusOK),
		})
	}
}
