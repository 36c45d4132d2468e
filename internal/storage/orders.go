package storage

import "time"

type Order struct {
	ID                 int64              `json:"id"`
	CustomerID         int64              `json:"customer_id"`
	Customer           string             `json:"customer"`
	TeamID             *int64             `json:"team_id"`
	Status             OrderStatus        `json:"status"`
	ConfirmationStatus ConfirmationStatus `json:"confirmation_status"`
	PaymentStatus      string             `json:"payment_status"`
	TotalAmount        float64            `json:"total_amount"`
	ScheduledDate      string             `json:"scheduled_date"` // YYYY-MM-DD
	ScheduledTime      *string            `json:"scheduled_time"`
	Notes              *string            `json:"notes"`
	CustomerRating     *int               `json:"customer_rating"`
	CustomerFeedback   *string            `json:"customer_feedback"`
	CreatedAt          time.Time          `json:"created_at"`
}

type OrderItem struct {
	ID        int64   `json:"id"`
	OrderID   int64   `json:"order_id"`
	ServiceID int64   `json:"service_id"`
	Service   string  `json:"service"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	// минуты на единицу, копия из каталога на момент заказа
	EstimatedDuration int `json:"estimated_duration"`
}

type OrderDetails struct {
	Order Order       `json:"order"`
	Items []OrderItem `json:"items"`
}

type CreateOrderItem struct {
	ServiceID int64 `json:"service_id"`
	Quantity  int   `json:"quantity"`
}

type CreateOrder struct {
	CustomerID    int64             `json:"customer_id"`
	ScheduledDate string            `json:"scheduled_date"`
	ScheduledTime *string           `json:"scheduled_time"`
	Notes         *string           `json:"notes"`
	Items         []CreateOrderItem `json:"items"`
}

type UpdateOrder struct {
	TeamID        *int64  `json:"team_id"`
	ScheduledDate string  `json:"scheduled_date"`
	ScheduledTime *string `json:"scheduled_time"`
	Notes         *string `json:"notes"`
	PaymentStatus string  `json:"payment_status"`
}

type OrderFilter struct {
	Date   string      // YYYY-MM-DD, пусто — без фильтра
	Status OrderStatus // пусто — без фильтра
	Search string      // по имени/телефону клиента
}
