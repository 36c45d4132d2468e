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

type ExpenseCreator interface {
	CreateExpense(ctx context.Context, req storage.CreateExpense) (int64, error)
}

func SaveExpense(log *slog.Logger, creator ExpenseCreator, bus *eventbus.Bus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.expenses.save.SaveExpense"

		var req storage.CreateExpense
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Bad request: invalid JSON", http.StatusBadRequest)
			return
		}

		if req.Description == "" {
			http.Error(w, "description is required", http.StatusBadRequest)
			return
		}
		if req.Amount <= 0 {
			http.Error(w, "amount must be positive", http.StatusBadRequest)
			return
		}
		if _, err := time.Parse("2006-01-02", req.SpentAt); err != nil {
			http.Error(w, "Invalid spent_at", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id, err := creator.CreateExpense(ctx, req)
		if err != nil {
			log.Error("Ошибка создания расхода", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		bus.Emit(eventbus.TopicExpensesChanged)

		render.JSON(w, r, map[string]interface{}{
			"status":     "success",
			"expense_id": id,
		})
	}
}
