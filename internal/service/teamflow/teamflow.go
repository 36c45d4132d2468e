package teamflow

import (
	"context"
	"errors"
	"fmt"

	"cleanops/internal/eventbus"
	"cleanops/internal/storage"
)

var ErrNotEligible = errors.New("worker is not an eligible leader candidate")

type TeamStorage interface {
	GetTeam(ctx context.Context, id int64) (*storage.Team, error)
	GetTeamMembers(ctx context.Context, teamID int64) ([]*storage.Worker, error)
	SetTeamLeader(ctx context.Context, teamID, workerID int64) error
	AddTeamMember(ctx context.Context, teamID, workerID int64) error
	RemoveTeamMember(ctx context.Context, teamID, workerID int64) error
	TransferWorkerTx(ctx context.Context, workerID int64, fromTeamID *int64, toTeamID int64) error
}

// Service — членство в командах и протокол смены лидера. Лидера нельзя
// выдернуть из команды, пока ему не назначена замена.
type Service struct {
	storage TeamStorage
	bus     *eventbus.Bus
}

func NewService(storage TeamStorage, bus *eventbus.Bus) *Service {
	return &Service{storage: storage, bus: bus}
}

// EligibleLeaders — кандидаты на лидерство: активные члены команды,
// кроме текущего лидера. Пустой список — перевод лидера заблокирован,
// обходного пути нет.
func (s *Service) EligibleLeaders(ctx context.Context, teamID int64) ([]*storage.Worker, error) {
	const op = "service.teamflow.EligibleLeaders"

	team, err := s.storage.GetTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	members, err := s.storage.GetTeamMembers(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var eligible []*storage.Worker
	for _, m := range members {
		if m.Status != storage.WorkerActive {
			continue
		}
		if team.LeaderID != nil && m.ID == *team.LeaderID {
			continue
		}
		eligible = append(eligible, m)
	}

	return eligible, nil
}

// ReplaceLeader назначает нового лидера из числа кандидатов.
// Назначение вступает в силу сразу и не откатывается, даже если
// оператор так и не завершит последующий перевод бывшего лидера.
func (s *Service) ReplaceLeader(ctx context.Context, teamID, candidateID int64) error {
	const op = "service.teamflow.ReplaceLeader"

	eligible, err := s.EligibleLeaders(ctx, teamID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	found := false
	for _, w := range eligible {
		if w.ID == candidateID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%s: worker=%d team=%d: %w", op, candidateID, teamID, ErrNotEligible)
	}

	if err := s.storage.SetTeamLeader(ctx, teamID, candidateID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.bus.Emit(eventbus.TopicTeamsChanged)

	return nil
}

// Transfer переводит работника в другую команду: сначала закрывается
// членство в исходной, затем открывается в целевой, одной транзакцией
// хранилища. Лидер исходной команды не переводится, пока ему не
// назначена замена.
func (s *Service) Transfer(ctx context.Context, workerID int64, fromTeamID *int64, toTeamID int64) error {
	const op = "service.teamflow.Transfer"

	if fromTeamID != nil {
		team, err := s.storage.GetTeam(ctx, *fromTeamID)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if team.LeaderID != nil && *team.LeaderID == workerID {
			return fmt.Errorf("%s: worker=%d: %w", op, workerID, storage.ErrLeaderNotReplaced)
		}
	}

	if err := s.storage.TransferWorkerTx(ctx, workerID, fromTeamID, toTeamID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.bus.Emit(eventbus.TopicTeamsChanged, eventbus.TopicWorkersChanged)

	return nil
}

func (s *Service) AddMember(ctx context.Context, teamID, workerID int64) error {
	const op = "service.teamflow.AddMember"

	if err := s.storage.AddTeamMember(ctx, teamID, workerID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.bus.Emit(eventbus.TopicTeamsChanged, eventbus.TopicWorkersChanged)

	return nil
}

// RemoveMember убирает работника из команды. Если уходит лидер,
// хранилище обнуляет leader_id той же транзакцией.
func (s *Service) RemoveMember(ctx context.Context, teamID, workerID int64) error {
	const op = "service.teamflow.RemoveMember"

	if err := s.storage.RemoveTeamMember(ctx, teamID, workerID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.bus.Emit(eventbus.TopicTeamsChanged, eventbus.TopicWorkersChanged)

	return nil
}
