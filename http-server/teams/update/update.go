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

	"cleanops/internal/service/teamflow"
	"cleanops/internal/storage"
)

type LeaderProtocol interface {
	ReplaceLeader(ctx context.Context, teamID, candidateID int64) error
	RemoveMember(ctx context.Context, teamID, workerID int64) error
}

// ReplaceLeader назначает нового лидера команды из числа кандидатов.
// Это первый шаг протокола перевода лидера: после успеха перевод
// бывшего лидера разблокируется, но выполняется отдельным действием.
func ReplaceLeader(log *slog.Logger, protocol LeaderProtocol) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.teams.update.ReplaceLeader"

		teamID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		var req struct {
			LeaderID int64 `json:"leader_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Invalid data", http.StatusBadRequest)
			return
		}
		if req.LeaderID == 0 {
			http.Error(w, "leader_id is required", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		err = protocol.ReplaceLeader(ctx, teamID, req.LeaderID)
		switch {
		case errors.Is(err, teamflow.ErrNotEligible):
			http.Error(w, "Worker is not an eligible leader candidate", http.StatusConflict)
			return
		case errors.Is(err, storage.ErrNotFound):
			http.Error(w, "Team not found", http.StatusNotFound)
			return
		case err != nil:
			log.Error("Ошибка смены лидера", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		log.Info("Лидер команды сменён", slog.Int64("team_id", teamID), slog.Int64("leader_id", req.LeaderID))

		render.JSON(w, r, map[string]interface{}{
			"status":  "success",
			"team_id": teamID,
		})
	}
}

func RemoveTeamMember(log *slog.Logger, protocol LeaderProtocol) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.teams.update.RemoveTeamMember"

		teamID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}
		workerID, err := strconv.ParseInt(chi.URLParam(r, "workerID"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid worker ID", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		err = protocol.RemoveMember(ctx, teamID, workerID)
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "Membership not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Error("Ошибка удаления из команды", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]interface{}{
			"status": "success",
		})
	}
}
