package save

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"cleanops/internal/storage"
)

type CustomerCreator interface {
	CreateCustomer(ctx context.Context, req storage.CreateCustomer) (int64, error)
}

func SaveCustomer(log *slog.Logger, creator CustomerCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.customers.save.SaveCustomer"

		var req storage.CreateCustomer
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Bad request: invalid JSON", http.StatusBadRequest)
			return
		}
		if req.Name == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}
		if req.Phone == "" {
			http.Error(w, "phone is required", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id, err := creator.CreateCustomer(ctx, req)
		if err != nil {
			log.Error("Ошибка создания клиента", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]interface{}{
			"status":      "success",
			"customer_id": id,
		})
	}
}
