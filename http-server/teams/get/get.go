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

type TeamsProvider interface {
	GetTeams(ctx context.Context) ([]*storage.Team, error)
	GetTeamMembers(ctx context.Context, teamID int64) ([]*storage.Worker, error)
}

type LeaderCandidates interface {
	EligibleLeaders(ctx context.Context, teamID int64) ([]*storage.Worker, error)
}

func GetTeams(log *slog.Logger, provider TeamsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.teams.get.GetTeams"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		teams, err := provider.GetTeams(ctx)
		if err != nil {
			log.Error("Ошибка при получении команд", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]interface{}{
			"teams":  teams,
			"status": strconv.Itoa(http.StatusOK),
		})
	}
}

func GetTeamMembers(log *slog.Logger, provider TeamsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.teams.get.GetTeamMembers"

		teamID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		members, err := provider.GetTeamMembers(ctx, teamID)
		if err != nil {
			log.Error("Ошибка при получении состава команды", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]interface{}{
			"members": members,
			"status":  strconv.Itoa(http.StatusOK),
		})
	}
}

// GetEligibleLeaders — кандидаты на замену лидера. Пустой список
// означает, что перевод лидера заблокирован.
func GetEligibleLeaders(log *slog.Logger, candidates LeaderCandidates) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.teams.get.GetEligibleLeaders"

		teamID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		eligible, err := candidates.EligibleLeaders(ctx, teamID)
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "Team not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Error("Ошибка при получении кандидатов", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]interface{}{
			"candidates": eligible,
			"status":     strconv.Itoa(http.StatusOK),
		})
	}
}
