package assign

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

	"cleanops/internal/service/routing"
)

// Assigner — координатор назначений: принимает итоговый порядок
// заказов и сам вычисляет отвязки, привязки и перенумерацию.
type Assigner interface {
	Apply(ctx context.Context, routeID int64, finalIDs []int64) error
}

func AssignOrders(log *slog.Logger, assigner Assigner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.routes.assign.AssignOrders"

		routeID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		var req struct {
			OrderIDs []int64 `json:"order_ids"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Invalid data", http.StatusBadRequest)
			return
		}

		// три фазы — таймаут щедрее обычного
		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		err = assigner.Apply(ctx, routeID, req.OrderIDs)
		if errors.Is(err, routing.ErrDuplicateOrder) {
			http.Error(w, "Order listed twice", http.StatusBadRequest)
			return
		}
		if err != nil {
			log.Error("Ошибка сохранения состава маршрута",
				slog.Int64("route_id", routeID),
				slog.String("op", op),
				slog.String("error", err.Error()),
			)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		log.Info("Состав маршрута сохранён",
			slog.Int64("route_id", routeID),
			slog.Int("orders", len(req.OrderIDs)),
		)

		render.JSON(w, r, map[string]interface{}{
			"status":   "success",
			"route_id": routeID,
			"orders":   len(req.OrderIDs),
		})
	}
}
