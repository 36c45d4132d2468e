package save

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"cleanops/internal/eventbus"
	"cleanops/internal/storage"
)

type OrderCreator interface {
	CreateOrder(ctx context.Context, req storage.CreateOrder) (int64, error)
}

func SaveOrder(log *slog.Logger, creator OrderCreator, bus *eventbus.Bus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.save.SaveOrder"

		var req storage.CreateOrder
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Bad request: invalid JSON", http.StatusBadRequest)
			return
		}

		if req.CustomerID == 0 {
			http.Error(w, "customer_id is required", http.StatusBadRequest)
			return
		}
		if req.ScheduledDate == "" {
			http.Error(w, "scheduled_date is required", http.StatusBadRequest)
			return
		}
		if len(req.Items) == 0 {
			http.Error(w, "No items provided", http.StatusBadRequest)
			return
		}
		for i, item := range req.Items {
			if item.ServiceID == 0 {
				http.Error(w, fmt.Sprintf("Item %d: service_id is required", i), http.StatusBadRequest)
				return
			}
			if item.Quantity <= 0 {
				http.Error(w, fmt.Sprintf("Item %d: quantity must be positive", i), http.StatusBadRequest)
				return
			}
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id, err := creator.CreateOrder(ctx, req)
		if err != nil {
			log.Error("Ошибка создания заказа", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		log.Info("Заказ создан", slog.Int64("order_id", id))
		bus.Emit(eventbus.TopicOrdersChanged)

		render.JSON(w, r, map[string]interface{}{
			"status":   "success",
			"order_id": id,
		})
	}
}
