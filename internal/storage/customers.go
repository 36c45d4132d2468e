package storage

type Customer struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Address string  `json:"address"`
	Area    *string `json:"area"`
	Notes   *string `json:"notes"`
}

type CreateCustomer struct {
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Address string  `json:"address"`
	Area    *string `json:"area"`
	Notes   *string `json:"notes"`
}

type UpdateCustomer struct {
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Address string  `json:"address"`
	Area    *string `json:"area"`
	Notes   *string `json:"notes"`
}
