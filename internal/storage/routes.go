package storage

type Route struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	TeamID    *int64      `json:"team_id"`
	Status    RouteStatus `json:"status"`
	RouteDate string      `json:"route_date"` // YYYY-MM-DD
}

// RouteOrder — связка маршрута с заказом. sequence_order начинается
// с единицы и при каждом сохранении перенумеровывается плотно.
type RouteOrder struct {
	RouteID       int64 `json:"route_id"`
	OrderID       int64 `json:"order_id"`
	SequenceOrder int   `json:"sequence_order"`
}

// SequenceItem — позиция заказа в итоговом порядке маршрута.
type SequenceItem struct {
	OrderID       int64 `json:"order_id"`
	SequenceOrder int   `json:"sequence_order"`
}

type RouteStop struct {
	SequenceOrder int         `json:"sequence_order"`
	Order         Order       `json:"order"`
	Items         []OrderItem `json:"items"`
}

type RouteDetails struct {
	Route Route       `json:"route"`
	Stops []RouteStop `json:"stops"`
}

type CreateRoute struct {
	Name      string `json:"name"`
	TeamID    *int64 `json:"team_id"`
	RouteDate string `json:"route_date"`
}
