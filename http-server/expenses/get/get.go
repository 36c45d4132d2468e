package get

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"

	"cleanops/internal/storage"
)

type ExpensesProvider interface {
	GetExpenses(ctx context.Context, filter storage.ExpenseFilter) ([]*storage.Expense, error)
}

func GetExpenses(log *slog.Logger, provider ExpensesProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.expenses.get.GetExpenses"

		var filter storage.ExpenseFilter

		yearStr := r.URL.Query().Get("year")
		monthStr := r.URL.Query().Get("month")
		if yearStr != "" || monthStr != "" {
			year, err := strconv.Atoi(yearStr)
			if err != nil {
				http.Error(w, "Invalid year", http.StatusBadRequest)
				return
			}
			month, err := strconv.Atoi(monthStr)
			if err != nil || month < 1 || month > 12 {
				http.Error(w, "Invalid month", http.StatusBadRequest)
				return
			}
			filter.Year = year
			filter.Month = month
		}

		filter.Status = storage.ExpenseStatus(r.URL.Query().Get("status"))
		if filter.Status != "" && !filter.Status.Valid() {
			http.Error(w, "Invalid status", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		expenses, err := provider.GetExpenses(ctx, filter)
		if err != nil {
			log.Error("Ошибка при получении расходов", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]interface{}{
			"expenses": expenses,
			"status":   strconv.Itoa(http.StatusOK),
		})
	}
}
