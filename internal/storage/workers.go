package storage

type Worker struct {
	ID     int64        `json:"id"`
	Name   string       `json:"name"`
	Phone  string       `json:"phone"`
	Status WorkerStatus `json:"status"`
	// id команды с активным членством, если есть
	TeamID *int64 `json:"team_id"`
}

type CreateWorker struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type UpdateWorkerStatus struct {
	Status WorkerStatus `json:"status"`
}

// TransferWorker — перевод работника между командами.
// FromTeamID == nil означает, что работник был без команды.
type TransferWorker struct {
	FromTeamID *int64 `json:"from_team_id"`
	ToTeamID   int64  `json:"to_team_id"`
}
