package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"cleanops/internal/storage"
)

type NotificationsProvider interface {
	GetNotifications(ctx context.Context, unreadOnly bool) ([]*storage.Notification, error)
}

func GetNotifications(log *slog.Logger, provider NotificationsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.notifications.get.GetNotifications"

		unreadOnly := r.URL.Query().Get("unread") == "true"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := provider.GetNotifications(ctx, unreadOnly)
		if err != nil {
			log.Error("Ошибка при получении уведомлений", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, list)
	}
}
