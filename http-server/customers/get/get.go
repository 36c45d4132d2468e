package get

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

type CustomersProvider interface {
	GetCustomers(ctx context.Context, search string) ([]*storage.Customer, error)
	GetCustomer(ctx context.Context, id int64) (*storage.Customer, error)
}

func GetCustomers(log *slog.Logger, provider CustomersProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.customers.get.GetCustomers"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		customers, err := provider.GetCustomers(ctx, r.URL.Query().Get("search"))
		if err != nil {
			log.Error("Ошибка при получении клиентов", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, customers)
	}
}

func GetCustomer(log *slog.Logger, provider CustomersProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.customers.get.GetCustomer"

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		customer, err := provider.GetCustomer(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "Customer not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Error("Ошибка при получении клиента", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, customer)
	}
}
