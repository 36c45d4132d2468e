package storage

import "time"

type Team struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
	// лидер обязан быть действующим членом команды
	LeaderID *int64 `json:"leader_id"`
}

type TeamMember struct {
	TeamID   int64      `json:"team_id"`
	WorkerID int64      `json:"worker_id"`
	JoinedAt time.Time  `json:"joined_at"`
	LeftAt   *time.Time `json:"left_at"`
}

type TeamWithMembers struct {
	Team    Team     `json:"team"`
	Members []Worker `json:"members"`
}

type CreateTeam struct {
	Name string `json:"name"`
}
