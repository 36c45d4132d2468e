package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"cleanops/internal/storage"
)

type NotificationReader interface {
	MarkNotificationRead(ctx context.Context, id int64) error
}

func MarkRead(log *slog.Logger, reader NotificationReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.notifications.update.MarkRead"

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		err = reader.MarkNotificationRead(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "Notification not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Error("Ошибка отметки уведомления", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]string{
			"status": "success",
		})
	}
}
