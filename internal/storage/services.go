package storage

// Service — позиция каталога услуг. Код уникален, каталог
// редактируется только из админки.
type Service struct {
	ID                int64   `json:"id"`
	Code              string  `json:"code"`
	Name              string  `json:"name"`
	Price             float64 `json:"price"`
	EstimatedDuration int     `json:"estimated_duration"` // минуты на единицу
	IsActive          bool    `json:"is_active"`
}

type SaveService struct {
	Code              string  `json:"code"`
	Name              string  `json:"name"`
	Price             float64 `json:"price"`
	EstimatedDuration int     `json:"estimated_duration"`
	IsActive          bool    `json:"is_active"`
}
