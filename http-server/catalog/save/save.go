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

type ServiceCreator interface {
	CreateService(ctx context.Context, req storage.SaveService) error
}

func SaveServiceAdmin(log *slog.Logger, creator ServiceCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.catalog.save.SaveServiceAdmin"

		var req storage.SaveService
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "ошибка парсинга JSON", http.StatusBadRequest)
			return
		}

		if req.Code == "" {
			http.Error(w, "code is required", http.StatusBadRequest)
			return
		}
		if req.Name == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := creator.CreateService(ctx, req); err != nil {
			log.Error("Ошибка создания услуги", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "ошибка создания услуги", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]string{
			"status": "created",
			"code":   req.Code,
		})
	}
}
