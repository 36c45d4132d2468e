package storage

import "time"

// Notification — запись ленты уведомлений оператора. Доставкой
// (push и т.п.) занимается внешний сервис, здесь только хранение.
type Notification struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	ReadAt    *time.Time `json:"read_at"`
	CreatedAt time.Time  `json:"created_at"`
}
