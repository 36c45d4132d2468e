package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"cleanops/internal/storage"
)

type ServicesProvider interface {
	GetServices(ctx context.Context, activeOnly bool) ([]*storage.Service, error)
}

// GetServices — каталог услуг. Публичная ручка отдаёт только активные,
// админская — весь каталог.
func GetServices(log *slog.Logger, provider ServicesProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.catalog.get.GetServices"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		services, err := provider.GetServices(ctx, true)
		if err != nil {
			log.Error("Ошибка при получении каталога", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, services)
	}
}

func GetAllServicesAdmin(log *slog.Logger, provider ServicesProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.catalog.get.GetAllServicesAdmin"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		services, err := provider.GetServices(ctx, false)
		if err != nil {
			log.Error("Ошибка при получении каталога", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, services)
	}
}
