package transfer

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

	"cleanops/internal/storage"
)

type WorkerTransfer interface {
	Transfer(ctx context.Context, workerID int64, fromTeamID *int64, toTeamID int64) error
}

// TransferWorker переводит работника между командами. Лидер исходной
// команды не переводится, пока ему не назначена замена — клиент
// получает 409 и открывает модалку выбора нового лидера.
func TransferWorker(log *slog.Logger, svc WorkerTransfer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.workers.transfer.TransferWorker"

		workerID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		var req storage.TransferWorker
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Invalid data", http.StatusBadRequest)
			return
		}
		if req.ToTeamID == 0 {
			http.Error(w, "to_team_id is required", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		err = svc.Transfer(ctx, workerID, req.FromTeamID, req.ToTeamID)
		switch {
		case errors.Is(err, storage.ErrLeaderNotReplaced):
			http.Error(w, "يجب تعيين قائد جديد قبل نقل القائد الحالي", http.StatusConflict)
			return
		case errors.Is(err, storage.ErrAlreadyInTeam):
			http.Error(w, "Worker already has an active team", http.StatusConflict)
			return
		case errors.Is(err, storage.ErrNotFound):
			http.Error(w, "Team or membership not found", http.StatusNotFound)
			return
		case err != nil:
			log.Error("Ошибка перевода работника", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		log.Info("Работник переведён",
			slog.Int64("worker_id", workerID),
			slog.Int64("to_team_id", req.ToTeamID),
		)

		render.JSON(w, r, map[string]interface{}{
			"status":    "success",
			"worker_id": workerID,
		})
	}
}
