package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cleanops/internal/storage"
)

func (s *Storage) GetTeams(ctx context.Context) ([]*storage.Team, error) {
	const op = "storage.mysql.GetTeams"

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, is_active, leader_id FROM teams ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка получения команд: %w", op, err)
	}
	defer rows.Close()

	var teams []*storage.Team
	for rows.Next() {
		var t storage.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.IsActive, &t.LeaderID); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		teams = append(teams, &t)
	}

	return teams, rows.Err()
}

func (s *Storage) GetTeam(ctx context.Context, id int64) (*storage.Team, error) {
	const op = "storage.mysql.GetTeam"

	var t storage.Team
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, is_active, leader_id FROM teams WHERE id = ?`, id,
	).Scan(&t.ID, &t.Name, &t.IsActive, &t.LeaderID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: id=%d: %w", op, id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &t, nil
}

func (s *Storage) CreateTeam(ctx context.Context, req storage.CreateTeam) (int64, error) {
	const op = "storage.mysql.CreateTeam"

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO teams (name, is_active) VALUES (?, TRUE)`, req.Name,
	)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

// GetTeamMembers — действующие члены команды (left_at IS NULL).
func (s *Storage) GetTeamMembers(ctx context.Context, teamID int64) ([]*storage.Worker, error) {
	const op = "storage.mysql.GetTeamMembers"

	rows, err := s.db.QueryContext(ctx, `
        SELECT w.id, w.name, w.phone, w.status, tm.team_id
        FROM team_members tm
        JOIN workers w ON w.id = tm.worker_id
        WHERE tm.team_id = ? AND tm.left_at IS NULL
        ORDER BY w.name ASC`, teamID)
	if err != nil {
		return nil, fmt.Errorf("%s: team=%d: %w", op, teamID, err)
	}
	defer rows.Close()

	var members []*storage.Worker
	for rows.Next() {
		var w storage.Worker
		if err := rows.Scan(&w.ID, &w.Name, &w.Phone, &w.Status, &w.TeamID); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		members = append(members, &w)
	}

	return members, rows.Err()
}

// SetTeamLeader назначает лидера. Если кандидат ещё не член команды —
// членство добавляется той же транзакцией, чтобы инвариант
// «лидер всегда член команды» не ломался даже на мгновение.
func (s *Storage) SetTeamLeader(ctx context.Context, teamID, workerID int64) error {
	const op = "storage.mysql.SetTeamLeader"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM team_members WHERE team_id = ? AND worker_id = ? AND left_at IS NULL`,
		teamID, workerID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if exists == 0 {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO team_members (team_id, worker_id) VALUES (?, ?)`,
			teamID, workerID,
		)
		if err != nil {
			return fmt.Errorf("%s: добавление лидера в команду: %w", op, err)
		}
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE teams SET leader_id = ? WHERE id = ?`, workerID, teamID,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 && exists != 0 {
		return fmt.Errorf("%s: team=%d: %w", op, teamID, storage.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit transaction: %w", op, err)
	}

	return nil
}

// AddTeamMember добавляет действующее членство. Работник может состоять
// только в одной активной команде.
func (s *Storage) AddTeamMember(ctx context.Context, teamID, workerID int64) error {
	const op = "storage.mysql.AddTeamMember"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	if err := addMemberTx(ctx, tx, teamID, workerID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit transaction: %w", op, err)
	}

	return nil
}

func addMemberTx(ctx context.Context, tx *sql.Tx, teamID, workerID int64) error {
	var active int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM team_members WHERE worker_id = ? AND left_at IS NULL`,
		workerID,
	).Scan(&active)
	if err != nil {
		return err
	}
	if active > 0 {
		return storage.ErrAlreadyInTeam
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO team_members (team_id, worker_id) VALUES (?, ?)`,
		teamID, workerID,
	)
	return err
}

// RemoveTeamMember закрывает членство (left_at). Если уходит лидер —
// leader_id обнуляется той же транзакцией.
func (s *Storage) RemoveTeamMember(ctx context.Context, teamID, workerID int64) error {
	const op = "storage.mysql.RemoveTeamMember"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	if err := removeMemberTx(ctx, tx, teamID, workerID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit transaction: %w", op, err)
	}

	return nil
}

func removeMemberTx(ctx context.Context, tx *sql.Tx, teamID, workerID int64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE team_members SET left_at = NOW() WHERE team_id = ? AND worker_id = ? AND left_at IS NULL`,
		teamID, workerID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE teams SET leader_id = NULL WHERE id = ? AND leader_id = ?`,
		teamID, workerID,
	)
	return err
}

// TransferWorkerTx — перевод работника: закрыть членство в исходной
// команде, открыть в целевой, одной транзакцией. Лидера переводить
// нельзя, пока ему не назначена замена.
func (s *Storage) TransferWorkerTx(ctx context.Context, workerID int64, fromTeamID *int64, toTeamID int64) error {
	const op = "storage.mysql.TransferWorkerTx"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	if fromTeamID != nil {
		var leaderID sql.NullInt64
		err = tx.QueryRowContext(ctx,
			`SELECT leader_id FROM teams WHERE id = ?`, *fromTeamID,
		).Scan(&leaderID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s: team=%d: %w", op, *fromTeamID, storage.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if leaderID.Valid && leaderID.Int64 == workerID {
			return fmt.Errorf("%s: worker=%d: %w", op, workerID, storage.ErrLeaderNotReplaced)
		}

		if err := removeMemberTx(ctx, tx, *fromTeamID, workerID); err != nil {
			return fmt.Errorf("%s: удаление из исходной команды: %w", op, err)
		}
	}

	if err := addMemberTx(ctx, tx, toTeamID, workerID); err != nil {
		return fmt.Errorf("%s: добавление в целевую команду: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit transaction: %w", op, err)
	}

	return nil
}
