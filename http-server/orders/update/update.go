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
	"cleanops/internal/service/orderflow"
	"cleanops/internal/storage"
)

type OrderUpdater interface {
	UpdateOrder(ctx context.Context, id int64, req storage.UpdateOrder) error
}

// OrderFlow — статусные операции заказа; за ними стоит машина
// переходов, хендлер только разбирает запрос.
type OrderFlow interface {
	ChangeStatus(ctx context.Context, orderID int64, newStatus storage.OrderStatus, reason string) error
	ChangeConfirmation(ctx context.Context, orderID int64, newStatus storage.ConfirmationStatus, reason *string) error
	SubmitRating(ctx context.Context, orderID int64, rating int, feedback string) error
}

func orderID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

func UpdateOrder(log *slog.Logger, updater OrderUpdater, bus *eventbus.Bus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.update.UpdateOrder"

		id, ok := orderID(r)
		if !ok {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		var req storage.UpdateOrder
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Invalid data", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := updater.UpdateOrder(ctx, id, req); err != nil {
			log.Error("Ошибка обновления заказа", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		bus.Emit(eventbus.TopicOrdersChanged)

		render.JSON(w, r, map[string]interface{}{
			"status":   "success",
			"order_id": id,
		})
	}
}

// UpdateOrderStatus проводит заказ по машине статусов. Для отмены
// обязательна причина — без неё запрос отклоняется до обращения к базе.
func UpdateOrderStatus(log *slog.Logger, flow OrderFlow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.update.UpdateOrderStatus"

		id, ok := orderID(r)
		if !ok {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		var req struct {
			Status storage.OrderStatus `json:"status"`
			Reason string              `json:"reason"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Invalid data", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		err := flow.ChangeStatus(ctx, id, req.Status, req.Reason)
		switch {
		case errors.Is(err, orderflow.ErrCancelReasonRequired):
			http.Error(w, "سبب الإلغاء مطلوب", http.StatusBadRequest)
			return
		case errors.Is(err, orderflow.ErrUnknownStatus):
			http.Error(w, "Invalid status", http.StatusBadRequest)
			return
		case errors.Is(err, storage.ErrInvalidTransition):
			http.Error(w, "Invalid status transition", http.StatusConflict)
			return
		case errors.Is(err, storage.ErrNotFound):
			http.Error(w, "Order not found", http.StatusNotFound)
			return
		case err != nil:
			log.Error("Ошибка смены статуса", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		log.Info("Статус заказа обновлён", slog.Int64("order_id", id), slog.String("status", string(req.Status)))

		render.JSON(w, r, map[string]interface{}{
			"status":   "success",
			"order_id": id,
		})
	}
}

func UpdateConfirmation(log *slog.Logger, flow OrderFlow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.update.UpdateConfirmation"

		id, ok := orderID(r)
		if !ok {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		var req struct {
			Status storage.ConfirmationStatus `json:"status"`
			Reason *string                    `json:"reason"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Invalid data", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		err := flow.ChangeConfirmation(ctx, id, req.Status, req.Reason)
		switch {
		case errors.Is(err, orderflow.ErrUnknownStatus):
			http.Error(w, "Invalid status", http.StatusBadRequest)
			return
		case errors.Is(err, storage.ErrNotFound):
			http.Error(w, "Order not found", http.StatusNotFound)
			return
		case err != nil:
			log.Error("Ошибка смены подтверждения", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]interface{}{
			"status":   "success",
			"order_id": id,
		})
	}
}

// SubmitRating — оценка и отзыв клиента после завершения заказа.
// Ошибки валидации возвращаются с указанием поля.
func SubmitRating(log *slog.Logger, flow OrderFlow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.update.SubmitRating"

		id, ok := orderID(r)
		if !ok {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		var req struct {
			Rating   int    `json:"rating"`
			Feedback string `json:"feedback"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Invalid data", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		err := flow.SubmitRating(ctx, id, req.Rating, req.Feedback)
		switch {
		case errors.Is(err, orderflow.ErrRatingOutOfRange):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"field": "rating", "error": "التقييم يجب أن يكون من 1 إلى 5"})
			return
		case errors.Is(err, orderflow.ErrFeedbackTooShort):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"field": "feedback", "error": "الملاحظات يجب أن تكون 10 أحرف على الأقل"})
			return
		case errors.Is(err, orderflow.ErrOrderNotCompleted):
			http.Error(w, "Order is not completed", http.StatusConflict)
			return
		case errors.Is(err, storage.ErrNotFound):
			http.Error(w, "Order not found", http.StatusNotFound)
			return
		case err != nil:
			log.Error("Ошибка сохранения оценки", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]interface{}{
			"status":   "success",
			"order_id": id,
		})
	}
}
