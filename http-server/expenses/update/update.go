package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"cleanops/internal/eventbus"
	"cleanops/internal/storage"
)

type ExpenseUpdater interface {
	UpdateExpenseStatus(ctx context.Context, id int64, status storage.ExpenseStatus, rejectionReason *string) error
	CreateNotification(ctx context.Context, title, body string) error
}

// UpdateExpenseStatus — решение по расходу: approved или rejected.
// Отклонение без причины не принимается.
func UpdateExpenseStatus(log *slog.Logger, updater ExpenseUpdater, bus *eventbus.Bus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.expenses.update.UpdateExpenseStatus"

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		var req struct {
			Status          storage.ExpenseStatus `json:"status"`
			RejectionReason string                `json:"rejection_reason"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Invalid data", http.StatusBadRequest)
			return
		}

		if req.Status != storage.ExpenseApproved && req.Status != storage.ExpenseRejected {
			http.Error(w, "Invalid status", http.StatusBadRequest)
			return
		}

		reason := strings.TrimSpace(req.RejectionReason)
		var reasonPtr *string
		if req.Status == storage.ExpenseRejected {
			if reason == "" {
				http.Error(w, "سبب الرفض مطلوب", http.StatusBadRequest)
				return
			}
			reasonPtr = &reason
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		err = updater.UpdateExpenseStatus(ctx, id, req.Status, reasonPtr)
		if errors.Is(err, storage.ErrInvalidTransition) {
			http.Error(w, "Expense already decided", http.StatusConflict)
			return
		}
		if err != nil {
			log.Error("Ошибка решения по расходу", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		if req.Status == storage.ExpenseRejected {
			_ = updater.CreateNotification(ctx, "تم رفض مصروف", reason)
		}

		bus.Emit(eventbus.TopicExpensesChanged)

		render.JSON(w, r, map[string]interface{}{
			"status":     "success",
			"expense_id": id,
		})
	}
}
