package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"cleanops/internal/storage"
)

type ServiceUpdater interface {
	UpdateService(ctx context.Context, code string, req storage.SaveService) error
}

func UpdateServiceAdmin(log *slog.Logger, updater ServiceUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.catalog.update.UpdateServiceAdmin"

		code := chi.URLParam(r, "code")
		if code == "" {
			http.Error(w, "Missing code", http.StatusBadRequest)
			return
		}

		var req storage.SaveService
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Invalid data", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		err := updater.UpdateService(ctx, code, req)
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "Service not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Error("Ошибка обновления услуги", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]string{
			"status": "success",
			"code":   code,
		})
	}
}
