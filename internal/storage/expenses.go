package storage

type Expense struct {
	ID              int64         `json:"id"`
	Description     string        `json:"description"`
	Amount          float64       `json:"amount"`
	Status          ExpenseStatus `json:"status"`
	OrderID         *int64        `json:"order_id"`
	RouteID         *int64        `json:"route_id"`
	TeamID          *int64        `json:"team_id"`
	RejectionReason *string       `json:"rejection_reason"`
	SpentAt         string        `json:"spent_at"` // YYYY-MM-DD
}

type CreateExpense struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	OrderID     *int64  `json:"order_id"`
	RouteID     *int64  `json:"route_id"`
	TeamID      *int64  `json:"team_id"`
	SpentAt     string  `json:"spent_at"`
}

type ExpenseFilter struct {
	Year   int
	Month  int
	Status ExpenseStatus // пусто — без фильтра
	TeamID *int64
}
