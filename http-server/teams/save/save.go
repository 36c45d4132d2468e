package save

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
	"cleanops/internal/storage"
)

type TeamCreator interface {
	CreateTeam(ctx context.Context, req storage.CreateTeam) (int64, error)
}

type MemberAdder interface {
	AddMember(ctx context.Context, teamID, workerID int64) error
}

func SaveTeam(log *slog.Logger, creator TeamCreator, bus *eventbus.Bus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.teams.save.SaveTeam"

		var req storage.CreateTeam
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Bad request: invalid JSON", http.StatusBadRequest)
			return
		}
		if req.Name == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id, err := creator.CreateTeam(ctx, req)
		if err != nil {
			log.Error("Ошибка создания команды", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		bus.Emit(eventbus.TopicTeamsChanged)

		render.JSON(w, r, map[string]interface{}{
			"status":  "success",
			"team_id": id,
		})
	}
}

func AddTeamMember(log *slog.Logger, adder MemberAdder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.teams.save.AddTeamMember"

		teamID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		var req struct {
			WorkerID int64 `json:"worker_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Invalid data", http.StatusBadRequest)
			return
		}
		if req.WorkerID == 0 {
			http.Error(w, "worker_id is required", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		err = adder.AddMember(ctx, teamID, req.WorkerID)
		if errors.Is(err, storage.ErrAlreadyInTeam) {
			http.Error(w, "Worker already has an active team", http.StatusConflict)
			return
		}
		if err != nil {
			log.Error("Ошибка добавления в команду", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]interface{}{
			"status": "success",
		})
	}
}
